package capture

import "context"

// RunPair races two interfaces' capture loops against a shared Pipeline.
// The first handle to error stops both; that error is returned to the
// caller (C10's scheduler) so it can trigger coordinated shutdown.
func RunPair(ctx context.Context, a, b *Interface, pipeline *Pipeline) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	framesA, errA := a.Frames(ctx.Done())
	framesB, errB := b.Frames(ctx.Done())

	done := make(chan error, 2)
	go func() {
		pipeline.Run(ctx, framesA)
		select {
		case err := <-errA:
			done <- err
		default:
			done <- ctx.Err()
		}
	}()
	go func() {
		pipeline.Run(ctx, framesB)
		select {
		case err := <-errB:
			done <- err
		default:
			done <- ctx.Err()
		}
	}()

	err := <-done
	cancel()
	<-done // drain the second goroutine's completion
	return err
}
