package loop

import "context"

// WorkFunc is the function a loop applies to every task. It receives the
// task's own arguments and the broadcast environment, and returns the
// task's result. The framework never inspects R; it only carries it.
//
// Type parameters:
//   - T: The per-task argument type
//   - B: The broadcast environment type ([None] when unused)
//   - R: The result type
type WorkFunc[T, B, R any] func(ctx context.Context, task T, env Env[B]) (R, error)

// Work is a work function plus the registry name that lets worker
// processes find it. Build one with [Func] for thread-only work or with
// [Register] when process mode or [WithTimeout] is needed.
type Work[T, B, R any] struct {
	name string
	fn   WorkFunc[T, B, R]
}

// Func wraps a bare function as thread-only work. The result has no
// registry name, so handing it to a process-mode loop fails at submission
// with [ErrNotRegistered].
func Func[T, B, R any](fn WorkFunc[T, B, R]) Work[T, B, R] {
	return Work[T, B, R]{fn: fn}
}

// Name returns the registry name, or "" for unregistered work.
func (w Work[T, B, R]) Name() string { return w.name }
