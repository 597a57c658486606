// Package sizing computes worker counts for parallel loops from CPU
// capacity, execution mode, and the amount of work on hand.
//
// The policy is intentionally one-shot: a count is computed once per loop
// invocation and never adjusted while the loop runs.
package sizing

// Oversubscription applied to thread-mode pools. Threaded tasks are
// assumed I/O-bound and benefit from more workers than cores, up to a cap.
const (
	threadFactor = 4
	threadCap    = 64
)

// ThreadBound returns the upper bound on thread-mode workers for the
// current machine, before any task-count cap.
func ThreadBound() int {
	n := LogicalCPUs() * threadFactor
	return min(n, threadCap)
}

// ProcessBound returns the upper bound on process-mode workers. Worker
// processes pay real startup cost and are assumed CPU-bound, so the bound
// is the logical CPU count with no oversubscription.
func ProcessBound() int {
	return LogicalCPUs()
}

// Workers returns the worker count for a loop. taskCount caps the bound
// when known (> 0): spawning more workers than there are tasks only buys
// idle startup cost. The result is always at least 1.
func Workers(bound, taskCount int) int {
	n := max(bound, 1)
	if taskCount > 0 {
		n = min(n, taskCount)
	}
	return n
}
