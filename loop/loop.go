package loop

import (
	"context"
	"errors"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Run executes work over every task in parallel and returns the results
// in task order: results[i] is work's return for tasks[i], however the
// completions interleaved. Empty input yields empty output. The first
// failing task fails the whole call with no partial results.
func Run[T, B, R any](ctx context.Context, work Work[T, B, R], tasks []T, cfg Config[B]) ([]R, error) {
	cfg.TaskCount = len(tasks)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return []R{}, nil
	}
	return RunSeq(ctx, work, slices.Values(tasks), cfg)
}

// RunSeq is [Run] over a lazy sequence. The sequence is consumed exactly
// once, one pending unit at a time beyond what workers hold, so inputs
// too large to materialize are fine. Set cfg.TaskCount when the length is
// known to get upfront pool sizing and progress totals; otherwise the
// pool is sized from the CPU bound alone and progress totals report 0.
func RunSeq[T, B, R any](ctx context.Context, work Work[T, B, R], tasks iter.Seq[T], cfg Config[B]) ([]R, error) {
	if work.fn == nil {
		return nil, errors.New("nil work function")
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	workers := cfg.poolSize()
	logger := cfg.Logger
	if logger != nil {
		logger = logger.With("run", uuid.NewString(), "mode", cfg.Mode.String())
		logger.Debug("starting loop", "workers", workers, "tasks", cfg.TaskCount)
		if cfg.Mode == Processes && cfg.Shared != nil {
			logger.Warn("shared environment crosses the process boundary by value; worker mutations stay invisible to siblings and caller")
		}
	}

	units := tagged(tasks, cfg.Shared, cfg.Isolated)

	start := time.Now()
	var (
		results []R
		err     error
	)
	switch cfg.Mode {
	case Processes:
		results, err = runProcesses(ctx, work, units, cfg, workers)
	default:
		results, err = runThreads(ctx, work, units, cfg, workers)
	}

	if err == nil {
		if f, ok := cfg.Progress.(interface{ Finish() }); ok {
			f.Finish()
		}
	}
	if logger != nil {
		if err != nil {
			logger.Error("loop failed", "err", err, "elapsed", time.Since(start))
		} else {
			logger.Debug("loop finished", "results", len(results), "elapsed", time.Since(start))
		}
	}
	return results, err
}
