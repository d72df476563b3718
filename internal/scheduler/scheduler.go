package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Task is one of the scheduler's three long-lived pipelines.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Scheduler supervises a fixed set of Tasks with an errgroup.Group: if any
// task returns (success or failure), its sibling tasks are cancelled via
// the shared context, matching spec.md §4.10's monitor semantics.
type Scheduler struct {
	tasks []Task
	state *State
	log   *slog.Logger
}

// New builds a Scheduler over tasks.
func New(tasks []Task, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name
	}
	return &Scheduler{tasks: tasks, state: NewState(names...), log: log}
}

// Run starts every task under an errgroup.WithContext(ctx). On the first
// task's unexpected completion (whether it returned nil or an error) the
// group's context is cancelled, so every sibling pipeline cooperatively
// exits; the monitor waits up to 1000ms for flags to clear before
// reporting a timeout, per AwaitShutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)
	gCtx, cancel := context.WithCancel(gCtx)
	defer cancel()

	for _, task := range s.tasks {
		task := task
		s.state.MarkActive(task.Name)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &Error{Kind: KindPanic, Pipeline: task.Name, Cause: fmt.Errorf("%v", r)}
				}
				s.state.MarkInactive(task.Name)
				cancel()
			}()
			runErr := task.Run(gCtx)
			if runErr != nil && runErr != context.Canceled {
				s.log.Error("pipeline exited with error", slog.String("pipeline", task.Name), slog.Any("error", runErr))
				return &Error{Kind: KindExecution, Pipeline: task.Name, Cause: runErr}
			}
			return nil
		})
	}

	runErr := g.Wait()

	if err := AwaitShutdown(context.Background(), s.state); err != nil {
		return err
	}

	return runErr
}
