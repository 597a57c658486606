package loop

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// runThreads executes tagged units on a pool of goroutine workers and
// returns the results in input order.
//
// One feeder goroutine streams units into an unbounded-input, bounded-
// channel handoff; workers pull units, invoke the work function, and emit
// result pairs; a collector consumes pairs in completion order and drives
// the progress sink. The ordering tag travels through the pool inside the
// unit, so the pool itself never has to understand ordering. The first
// task error cancels the group and aborts the loop with no partial
// results.
func runThreads[T, B, R any](
	ctx context.Context,
	work Work[T, B, R],
	units iter.Seq2[unit[T, B], error],
	cfg Config[B],
	workers int,
) ([]R, error) {
	g, ctx := errgroup.WithContext(ctx)

	unitChan := make(chan unit[T, B])
	pairChan := make(chan Pair[R], workers)

	for range workers {
		g.Go(func() error {
			for {
				select {
				case u, ok := <-unitChan:
					if !ok {
						return nil
					}
					if cfg.RateLimit != nil {
						if err := cfg.RateLimit.Wait(ctx); err != nil {
							return err
						}
					}
					value, err := invoke(ctx, work.fn, u)
					if err != nil {
						return fmt.Errorf("task %d: %w", u.index, err)
					}
					select {
					case pairChan <- Pair[R]{Index: u.index, Value: value}:
					case <-ctx.Done():
						return ctx.Err()
					}
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		})
	}

	g.Go(func() error {
		defer close(unitChan)
		for u, err := range units {
			if err != nil {
				return err
			}
			select {
			case unitChan <- u:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	pairs, finish := collectPairs(pairChan, cfg.TaskCount, cfg.progress())

	err := g.Wait()
	close(pairChan)
	finish()
	if err != nil {
		return nil, err
	}
	return sortPairs(*pairs), nil
}

// collectPairs drains pairChan on a separate goroutine, reporting each
// completion to the sink. The returned finish func blocks until the
// channel is closed and fully drained.
func collectPairs[R any](pairChan <-chan Pair[R], total int, progress Progress) (*[]Pair[R], func()) {
	pairs := &[]Pair[R]{}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		completed := 0
		for pair := range pairChan {
			*pairs = append(*pairs, pair)
			completed++
			progress.Update(completed, total)
		}
	}()
	return pairs, wg.Wait
}

// invoke runs the work function with panic recovery, so a panicking task
// fails the loop instead of crashing the process.
func invoke[T, B, R any](ctx context.Context, fn WorkFunc[T, B, R], u unit[T, B]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("worker panic: %v\nstack trace:\n%s", r, buf[:n])
		}
	}()
	return fn(ctx, u.task, u.env)
}
