package flowz

import (
	"context"
	"errors"
)

// errChannelClosed marks a closed-and-drained input or a closed-for-send
// output. Both are normal end-of-stream events, never surfaced to the caller
// as application errors.
var errChannelClosed = errors.New("channel closed")

// errStopped marks a loop interrupted by Stop while waiting on a channel.
var errStopped = errors.New("runtime stopped")

// recv blocks until a value is available, the channel is closed, the context
// is canceled, or the runtime leaves RUNNING. The poll-interval tick makes a
// blocked receive pause-aware, and a value received right as a pause lands is
// held until resume, so the processing function never runs while paused.
func recv[T any](ctx context.Context, r *NodeRuntime, ch <-chan T) (T, error) {
	var zero T
	if ch == nil {
		return zero, ErrInputNotWired
	}
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return zero, errChannelClosed
			}
			if !r.awaitRunning(ctx) {
				return zero, errStopped
			}
			return v, nil
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-r.clock.After(r.pausePoll):
			if !r.awaitRunning(ctx) {
				return zero, errStopped
			}
		}
	}
}

// send blocks while the channel's buffer is full; this is the backpressure
// mechanism. A send on a closed channel is reported as errChannelClosed so
// the loop can exit gracefully instead of panicking through user code.
func send[T any](ctx context.Context, ch chan<- T, v T) (err error) {
	defer func() {
		if recover() != nil {
			err = errChannelClosed
		}
	}()
	select {
	case ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// sendSlot sends only when the slot is present
func sendSlot[T any](ctx context.Context, ch chan<- T, v *T) error {
	if v == nil {
		return nil
	}
	return send(ctx, ch, *v)
}

// emit2 sends the present slots of a two-output result, in output order.
func emit2[A, B any](ctx context.Context, ch1 chan<- A, ch2 chan<- B, r ProcessResult2[A, B]) error {
	if err := sendSlot(ctx, ch1, r.First); err != nil {
		return err
	}
	return sendSlot(ctx, ch2, r.Second)
}

// emit3 sends the present slots of a three-output result, in output order.
func emit3[A, B, C any](ctx context.Context, ch1 chan<- A, ch2 chan<- B, ch3 chan<- C, r ProcessResult3[A, B, C]) error {
	if err := sendSlot(ctx, ch1, r.First); err != nil {
		return err
	}
	if err := sendSlot(ctx, ch2, r.Second); err != nil {
		return err
	}
	return sendSlot(ctx, ch3, r.Third)
}
