// Package transform provides element-wise transformation stages for lazy
// pipelines: 1:1 mapping, 1:N flat-mapping, and small utility stages.
package transform

import (
	"context"

	"github.com/lguimbarda/min-data/data/core"
)

// Map creates an iterator that applies f to each upstream value (1:1
// cardinality). An error or panic from f permanently fails the iterator.
// Map issues exactly one upstream pull per pull, so it preserves whatever
// ordering discipline the upstream provides.
func Map[IN, OUT any](it core.Iterator[IN], f func(IN) (OUT, error)) core.Iterator[OUT] {
	return &mapIterator[IN, OUT]{upstream: it, f: f}
}

type mapIterator[IN, OUT any] struct {
	upstream core.Iterator[IN]
	f        func(IN) (OUT, error)
	failed   error
}

func (m *mapIterator[IN, OUT]) Next(ctx context.Context) (core.Result[OUT], error) {
	if m.failed != nil {
		return core.Done[OUT](), m.failed
	}

	res, err := m.upstream.Next(ctx)
	if err != nil {
		m.failed = core.TagError(err)
		return core.Done[OUT](), m.failed
	}
	if res.IsDone() {
		return core.Done[OUT](), nil
	}

	out, err := apply(m.f, res.Value())
	if err != nil {
		m.failed = core.TagError(err)
		return core.Done[OUT](), m.failed
	}
	return core.Ok(out), nil
}

// apply invokes a caller-supplied function with panic recovery.
func apply[IN, OUT any](f func(IN) (OUT, error), v IN) (out OUT, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewPanicError(r)
		}
	}()
	return f(v)
}

// FlatMap creates an iterator that applies f to each upstream value and
// emits every element of the returned slice in order (1:N cardinality).
// When f returns an empty slice the stage transparently pulls the next
// upstream item without emitting anything. Built on the stateful pump base,
// so pulls are strictly serialized.
func FlatMap[IN, OUT any](it core.Iterator[IN], f func(IN) ([]OUT, error)) core.Iterator[OUT] {
	pump := func(ctx context.Context, s struct{}, upstream core.Iterator[IN], emit func(OUT)) (struct{}, bool, error) {
		res, err := upstream.Next(ctx)
		if err != nil {
			return s, false, err
		}
		if res.IsDone() {
			return s, false, nil
		}
		outs, err := apply(f, res.Value())
		if err != nil {
			return s, false, err
		}
		for _, out := range outs {
			emit(out)
		}
		return s, true, nil
	}
	return core.Pumped[IN, OUT, struct{}](it, struct{}{}, pump)
}

// Tap creates a pass-through iterator that calls fn for each value, for
// side effects such as debugging or progress reporting. Errors from fn are
// not possible; a panic fails the iterator like any other callback panic.
func Tap[T any](it core.Iterator[T], fn func(T)) core.Iterator[T] {
	return Map(it, func(v T) (T, error) {
		fn(v)
		return v, nil
	})
}

// Pairwise creates an iterator that emits consecutive pairs of upstream
// values. A stream of n values yields n-1 pairs.
func Pairwise[T any](it core.Iterator[T]) core.Iterator[[2]T] {
	type state struct {
		prev    T
		hasPrev bool
	}
	pump := func(ctx context.Context, s state, upstream core.Iterator[T], emit func([2]T)) (state, bool, error) {
		res, err := upstream.Next(ctx)
		if err != nil {
			return s, false, err
		}
		if res.IsDone() {
			return s, false, nil
		}
		curr := res.Value()
		if s.hasPrev {
			emit([2]T{s.prev, curr})
		}
		return state{prev: curr, hasPrev: true}, true, nil
	}
	return core.Pumped[T, [2]T, state](it, state{}, pump)
}
