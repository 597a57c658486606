package loop

import "iter"

// unit is one task tagged with its position in the caller's input
// sequence. The index is assigned once and is the sole key used to
// restore input order after unordered completion.
type unit[T, B any] struct {
	index int
	task  T
	env   Env[B]
}

// tagged pairs each task with its zero-based input position and the
// broadcast environment. The sequence is lazy: a unit is built only when
// the consumer pulls it, so arbitrarily long inputs never materialize in
// full. Isolated environments are deep-copied per unit as units are
// built; a copy failure is yielded in place of further units.
func tagged[T, B any](tasks iter.Seq[T], shared, isolated *B) iter.Seq2[unit[T, B], error] {
	return func(yield func(unit[T, B], error) bool) {
		base := Env[B]{Shared: shared, Isolated: isolated}
		index := 0
		for task := range tasks {
			env, err := base.isolate()
			if err != nil {
				yield(unit[T, B]{index: index}, err)
				return
			}
			if !yield(unit[T, B]{index: index, task: task, env: env}, nil) {
				return
			}
			index++
		}
	}
}
