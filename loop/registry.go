package loop

import (
	"context"
	"fmt"
	"sync"

	"github.com/nivara-dev/parloop/internal/wire"
)

// adapter executes one wire call inside a worker process: it decodes the
// task and environment payloads into their concrete types, runs the work
// function, and re-encodes the result. Adapters are built by [Register],
// the only place the concrete types are known.
type adapter func(ctx context.Context, call *wire.Call) *wire.Reply

var (
	registryMu sync.RWMutex
	registry   = make(map[string]adapter)
)

// Register makes a work function invocable across the process boundary
// under the given name and returns it as [Work]. Registration must happen
// before any loop runs, normally from a package-level var or init, and in
// the worker binary as well as the host: both sides resolve the function
// by name.
//
// Task, environment, and result values must be transferable by value
// (gob-encodable). Closures capturing live parent state cannot satisfy
// that and must not be registered; the captured state would silently not
// exist in the worker.
//
// Register panics on a duplicate or empty name, like [gob.Register].
func Register[T, B, R any](name string, fn WorkFunc[T, B, R]) Work[T, B, R] {
	if name == "" {
		panic("loop: Register with empty name")
	}
	if fn == nil {
		panic("loop: Register with nil work function")
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("loop: Register called twice for name %q", name))
	}
	registry[name] = makeAdapter(fn)

	return Work[T, B, R]{name: name, fn: fn}
}

func makeAdapter[T, B, R any](fn WorkFunc[T, B, R]) adapter {
	return func(ctx context.Context, call *wire.Call) *wire.Reply {
		reply := &wire.Reply{Index: call.Index}

		var task T
		if err := wire.Decode(call.Task, &task); err != nil {
			reply.Err = err.Error()
			return reply
		}
		var env Env[B]
		if len(call.Env) > 0 {
			var box envBox[B]
			if err := wire.Decode(call.Env, &box); err != nil {
				reply.Err = err.Error()
				return reply
			}
			if box.HasShared {
				env.Shared = &box.Shared
			}
			if box.HasIsolated {
				env.Isolated = &box.Isolated
			}
		}

		value, err := invoke(ctx, fn, unit[T, B]{index: call.Index, task: task, env: env})
		if err != nil {
			reply.Err = err.Error()
			return reply
		}

		result, err := wire.Encode(value)
		if err != nil {
			reply.Err = err.Error()
			return reply
		}
		reply.Result = result
		return reply
	}
}

func lookup(name string) (adapter, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	a, ok := registry[name]
	return a, ok
}
