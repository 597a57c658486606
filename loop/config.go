package loop

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/nivara-dev/parloop/internal/sizing"
)

// Config holds the per-invocation settings of a loop. The zero value runs
// in thread mode with an advisor-sized pool, no broadcasts, and no
// progress reporting.
//
// Type parameter B is the broadcast environment type; use [None] when the
// work function takes no environment.
type Config[B any] struct {
	// Mode selects thread or process workers.
	Mode Mode

	// Workers overrides the pool size when positive. When zero the size
	// is computed from the CPU count, Mode, and the task count.
	Workers int

	// TaskCount tells the loop the input length upfront. [Run] fills it
	// from the slice; [RunSeq] callers who already know the length of a
	// non-reusable sequence should set it to get upfront pool sizing and
	// progress totals without materializing the sequence twice.
	TaskCount int

	// Shared is broadcast to every task as the same pointer. See [Env].
	Shared *B

	// Isolated is broadcast to every task as a fresh deep copy. See [Env].
	Isolated *B

	// Progress receives a (completed, total) notification after every
	// task completion. Nil disables reporting.
	Progress Progress

	// RateLimit gates task starts when set. Useful when tasks hit an
	// external service that must not be overwhelmed.
	RateLimit *rate.Limiter

	// Logger receives structured debug output when set. The loop is
	// silent without it.
	Logger *log.Logger
}

// validate rejects configurations before any concurrency is started.
func (c *Config[B]) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("negative worker count %d", c.Workers)
	}
	if c.TaskCount < 0 {
		return fmt.Errorf("negative task count %d", c.TaskCount)
	}
	return nil
}

// poolSize resolves the worker count for this invocation.
func (c *Config[B]) poolSize() int {
	if c.Workers > 0 {
		return sizing.Workers(c.Workers, c.TaskCount)
	}
	return PoolSize(c.Mode, c.TaskCount)
}

// progress returns the configured sink, or a no-op one.
func (c *Config[B]) progress() Progress {
	if c.Progress == nil {
		return nopProgress{}
	}
	return c.Progress
}

// PoolSize computes the worker count for a loop in the given mode. Thread
// mode oversubscribes the CPU count up to a cap; process mode stops at the
// CPU count. A known task count (> 0) caps the result, and the result is
// always at least 1.
func PoolSize(mode Mode, taskCount int) int {
	bound := sizing.ThreadBound()
	if mode == Processes {
		bound = sizing.ProcessBound()
	}
	return sizing.Workers(bound, taskCount)
}
