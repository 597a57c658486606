package loop

import (
	"context"
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/nivara-dev/parloop/internal/wire"
)

// runProcesses executes tagged units on a pool of spawned worker
// processes. Pool sizing, completion consumption, and the final sort
// behave exactly like the thread engine; only the worker boundary
// differs. Units and results cross that boundary by value, and anything
// that cannot is rejected when the unit is submitted, not when it would
// have completed.
func runProcesses[T, B, R any](
	ctx context.Context,
	work Work[T, B, R],
	units iter.Seq2[unit[T, B], error],
	cfg Config[B],
	workers int,
) ([]R, error) {
	if work.name == "" {
		return nil, ErrNotRegistered
	}
	if err := probeEncode(cfg); err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)

	unitChan := make(chan unit[T, B])
	pairChan := make(chan Pair[R], workers)

	procs := make([]*workerProc, 0, workers)
	defer func() {
		for _, p := range procs {
			p.stop()
		}
	}()
	for range workers {
		p, err := spawnWorker()
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}

	for _, p := range procs {
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
					value, err := callWorker[R](p, work.name, u)
					if err != nil {
						return err
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

// callWorker ships one unit to a worker process and decodes its result.
// Encoding failures are submission errors carrying the unit's index.
func callWorker[R any, T, B any](p *workerProc, name string, u unit[T, B]) (R, error) {
	var zero R

	call, err := encodeCall(name, u)
	if err != nil {
		return zero, err
	}

	reply, err := p.call(call)
	if err != nil {
		return zero, fmt.Errorf("task %d: worker exchange: %w", u.index, err)
	}
	if reply.Err != "" {
		return zero, fmt.Errorf("task %d: %s", reply.Index, reply.Err)
	}

	var value R
	if err := wire.Decode(reply.Result, &value); err != nil {
		return zero, fmt.Errorf("task %d: %w", reply.Index, err)
	}
	return value, nil
}

// envBox flattens an environment for transfer with explicit presence
// flags. Encoding Env directly would lose a pointer to a zero value:
// gob omits zero struct fields, so the worker could not tell "set to
// the zero value" from "not set".
type envBox[B any] struct {
	HasShared   bool
	Shared      B
	HasIsolated bool
	Isolated    B
}

func encodeCall[T, B any](name string, u unit[T, B]) (*wire.Call, error) {
	task, err := wire.Encode(u.task)
	if err != nil {
		return nil, &SubmitError{Index: u.index, Err: err}
	}

	call := &wire.Call{Work: name, Index: u.index, Task: task}
	if u.env.Shared != nil || u.env.Isolated != nil {
		box := envBox[B]{}
		if u.env.Shared != nil {
			box.HasShared, box.Shared = true, *u.env.Shared
		}
		if u.env.Isolated != nil {
			box.HasIsolated, box.Isolated = true, *u.env.Isolated
		}
		env, err := wire.Encode(box)
		if err != nil {
			return nil, &SubmitError{Index: u.index, Err: err}
		}
		call.Env = env
	}
	return call, nil
}

// probeEncode verifies the broadcast environment is transferable before
// any worker is spawned, so a bad configuration fails synchronously.
func probeEncode[B any](cfg Config[B]) error {
	for _, env := range []*B{cfg.Shared, cfg.Isolated} {
		if env == nil {
			continue
		}
		if _, err := wire.Encode(*env); err != nil {
			return &SubmitError{Index: -1, Err: fmt.Errorf("broadcast environment: %w", err)}
		}
	}
	return nil
}
