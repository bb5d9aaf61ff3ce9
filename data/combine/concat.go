// Package combine provides stages that join multiple iterators into one:
// sequential concatenation and structural zipping.
package combine

import (
	"context"

	"github.com/lguimbarda/min-data/data/core"
)

// FlattenIterators creates an iterator that yields every element of every
// iterator produced by the outer iterator, in order. This is the generic
// building block behind Concat: a sequence of sequences collapsed into one.
func FlattenIterators[T any](outer core.Iterator[core.Iterator[T]]) core.Iterator[T] {
	pump := func(ctx context.Context, current core.Iterator[T], upstream core.Iterator[core.Iterator[T]], emit func(T)) (core.Iterator[T], bool, error) {
		if current == nil {
			res, err := upstream.Next(ctx)
			if err != nil {
				return nil, false, err
			}
			if res.IsDone() {
				return nil, false, nil
			}
			return res.Value(), true, nil
		}

		res, err := current.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if res.IsDone() {
			// Inner exhausted; advancing to the next inner counts as work.
			return nil, true, nil
		}
		emit(res.Value())
		return current, true, nil
	}
	return core.Pumped[core.Iterator[T], T, core.Iterator[T]](outer, nil, pump)
}

// Concat creates an iterator that yields all values of each input iterator
// in turn. Concatenation is associative: regrouping the inputs yields the
// same sequence.
func Concat[T any](its ...core.Iterator[T]) core.Iterator[T] {
	i := 0
	outer := core.Func[core.Iterator[T]](func(ctx context.Context) (core.Result[core.Iterator[T]], error) {
		if i >= len(its) {
			return core.Done[core.Iterator[T]](), nil
		}
		it := its[i]
		i++
		return core.Ok(it), nil
	})
	return FlattenIterators[T](outer)
}
