package scheduler

import (
	"context"
	"errors"
	"time"
)

// shutdownTimeout and pollInterval implement spec.md §4.10's monitor loop:
// on shutdown signal, wait up to 1000ms for all flags to go false, polling
// every 100ms; on timeout, return a timeout error.
const (
	shutdownTimeout = 1000 * time.Millisecond
	pollInterval    = 100 * time.Millisecond
)

// ErrShutdownTimeout is returned when pipelines fail to report inactive
// within shutdownTimeout of a shutdown signal.
var ErrShutdownTimeout = errors.New("scheduler: pipelines did not stop within timeout")

// AwaitShutdown polls state every 100ms, up to 1000ms total, waiting for
// every pipeline to report inactive.
func AwaitShutdown(ctx context.Context, state *State) error {
	deadline := time.Now().Add(shutdownTimeout)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		if state.AllInactive() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrShutdownTimeout
		}
		select {
		case <-ctx.Done():
			if state.AllInactive() {
				return nil
			}
			return ErrShutdownTimeout
		case <-ticker.C:
		}
	}
}
