// Package loop runs a work function over a sequence of per-task arguments
// in parallel and returns the results in input order, regardless of the
// order in which tasks complete.
//
// Work runs on one of two kinds of workers, selected per call:
//
//   - [Threads]: goroutine workers sharing the caller's address space.
//     The pool is oversubscribed relative to the CPU count, on the
//     assumption that threaded work is I/O-bound.
//   - [Processes]: freshly spawned worker processes with no inherited
//     state. The pool is capped at the CPU count, on the assumption that
//     process work is CPU-bound and gains nothing from oversubscription.
//
// # Basic Usage
//
//	square := loop.Func(func(ctx context.Context, n int, _ loop.Env[loop.None]) (int, error) {
//	    return n * n, nil
//	})
//	results, err := loop.Run(ctx, square, []int{1, 2, 3, 4}, loop.Config[loop.None]{})
//	// results: [1, 4, 9, 16]
//
// # Broadcast Environments
//
// Values needed by every task travel in an [Env]. A Shared value is handed
// to every task as the same pointer; an Isolated value is deep-copied per
// task so that no task can observe another's mutations:
//
//	cfg := loop.Config[Lookup]{Shared: &lookup}
//	results, err := loop.Run(ctx, work, tasks, cfg)
//
// In process mode every value crosses the process boundary by value, so a
// Shared environment behaves like an isolated one there; see [Mode].
//
// # Process Mode
//
// Worker processes are the current binary re-executed with a marker
// environment variable. Host programs must call [Init] at the top of main
// (and TestMain) so that worker processes enter the serving loop instead
// of the program's own logic. Work functions must be registered with
// [Register] so workers can find them by name; an unregistered function is
// rejected when the loop is submitted, not when it completes.
//
// # Hard Timeouts
//
// [WithTimeout] wraps a registered work function so that each invocation
// runs in its own dedicated worker process and is killed, not abandoned,
// if it outlives the deadline. This is the only way to stop a call stuck
// in native code or an unbounded loop, where cooperative cancellation
// never gets a chance to run.
//
// # Error Handling
//
// The loop is fail-fast: the first task error cancels the remaining work
// and surfaces to the caller, and nothing is retried. Panics in thread
// workers are converted to errors with stack traces.
package loop
