package loop

import (
	"cmp"
	"fmt"
	"slices"
)

// Pair is one task's result tagged with the task's input position.
// Workers emit pairs in completion order; input order is restored by
// sorting on Index afterwards, never by constraining the workers.
type Pair[R any] struct {
	Index int
	Value R
}

// Collect sorts pre-computed result pairs into input order and returns
// the bare values. It reports each pair to the progress sink as it is
// consumed; mode is cosmetic only, naming the execution mode in the
// sink's description when the sink supports one. Callers who already hold
// pairs from an external source use this to re-sort without re-running
// anything.
func Collect[R any](pairs []Pair[R], total int, p Progress, mode Mode) []R {
	if p == nil {
		p = nopProgress{}
	}
	if d, ok := p.(interface{ Describe(string) }); ok {
		d.Describe(fmt.Sprintf("collecting %s results", mode))
	}
	for i := range pairs {
		p.Update(i+1, total)
	}
	return sortPairs(pairs)
}

// sortPairs restores input order and strips the indexes. The result is
// never nil: empty in, empty out.
func sortPairs[R any](pairs []Pair[R]) []R {
	slices.SortFunc(pairs, func(a, b Pair[R]) int {
		return cmp.Compare(a.Index, b.Index)
	})
	values := make([]R, len(pairs))
	for i, pair := range pairs {
		values[i] = pair.Value
	}
	return values
}
