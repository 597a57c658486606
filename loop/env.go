package loop

import (
	"fmt"

	"github.com/mitchellh/copystructure"
)

// None is the environment type for work functions that take no broadcast
// values.
type None = struct{}

// Env carries broadcast values delivered to every task alongside its own
// arguments. Either field may be set, or both, or neither.
//
// Shared is handed to every task as-is, one pointer for all of them. In
// thread mode this is live shared memory: safe only when tasks do not
// mutate it, or when observing each other's mutations is the point. In
// process mode the value is transferred by value instead; see [Processes].
//
// Isolated is rebuilt as a structural deep copy for every single task, so
// no two tasks can observe each other's mutations in any mode.
type Env[B any] struct {
	Shared   *B
	Isolated *B
}

// isolate returns a copy of e whose Isolated value is a fresh deep copy.
// The Shared pointer passes through untouched.
func (e Env[B]) isolate() (Env[B], error) {
	if e.Isolated == nil {
		return e, nil
	}
	copied, err := copystructure.Copy(*e.Isolated)
	if err != nil {
		return e, fmt.Errorf("copy isolated environment: %w", err)
	}
	v, ok := copied.(B)
	if !ok {
		return e, fmt.Errorf("copy isolated environment: copied %T, want %T", copied, *e.Isolated)
	}
	return Env[B]{Shared: e.Shared, Isolated: &v}, nil
}
