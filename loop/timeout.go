package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/nivara-dev/parloop/internal/wire"
)

// WithTimeout wraps registered work so that every invocation runs in its
// own dedicated worker process with a hard deadline. If the call finishes
// within d its value comes back unmodified; otherwise the worker process
// is killed, not abandoned, and the call fails with a [*TimeoutError]
// carrying message.
//
// Cooperative cancellation cannot stop a call blocked in native code or
// an unbounded loop; process termination always can. A zero d times out
// deterministically, even around a call that returns instantly. A
// negative d is a configuration error.
func WithTimeout[T, B, R any](d time.Duration, message string, w Work[T, B, R]) WorkFunc[T, B, R] {
	return func(ctx context.Context, task T, env Env[B]) (R, error) {
		var zero R
		if d < 0 {
			return zero, fmt.Errorf("timeout duration must not be negative, got %v", d)
		}
		if w.name == "" {
			return zero, ErrNotRegistered
		}

		call, err := encodeCall(w.name, unit[T, B]{task: task, env: env})
		if err != nil {
			return zero, err
		}

		proc, err := spawnWorker()
		if err != nil {
			return zero, err
		}

		if d == 0 {
			proc.kill()
			return zero, &TimeoutError{Message: message, Duration: d}
		}

		type outcome struct {
			reply *wire.Reply
			err   error
		}
		done := make(chan outcome, 1)
		go func() {
			reply, err := proc.call(call)
			done <- outcome{reply: reply, err: err}
		}()

		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case out := <-done:
			proc.stop()
			if out.err != nil {
				return zero, fmt.Errorf("worker exchange: %w", out.err)
			}
			if out.reply.Err != "" {
				return zero, fmt.Errorf("%s", out.reply.Err)
			}
			var value R
			if err := wire.Decode(out.reply.Result, &value); err != nil {
				return zero, err
			}
			return value, nil

		case <-timer.C:
			proc.kill()
			return zero, &TimeoutError{Message: message, Duration: d}

		case <-ctx.Done():
			proc.kill()
			return zero, ctx.Err()
		}
	}
}
