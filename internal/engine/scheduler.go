package engine

import (
	"context"
	"time"
)

// Run drives the engine from an external frame clock. Every value received
// on frames runs one Frame (StepsPerFrame ticks) and then hands a snapshot to
// present, if non-nil. Simulated time advances only by dt per tick, however
// irregular the frames are. The snapshot passed to present is reused on the
// next frame and must not be retained. Run returns when ctx is done, frames
// is closed, or a tick fails.
func (e *Engine) Run(ctx context.Context, frames <-chan time.Time, present func(Snapshot)) error {
	var snap Snapshot
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-frames:
			if !ok {
				return nil
			}
			if err := e.Frame(); err != nil {
				return err
			}
			if present != nil {
				e.SnapshotInto(&snap)
				present(snap)
			}
		}
	}
}

// RunTicks runs n ticks as fast as possible, checking ctx between ticks.
func (e *Engine) RunTicks(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := e.Tick(); err != nil {
			return err
		}
	}
	return nil
}
