// Package filter provides selection stages for lazy pipelines: predicate
// filtering and count-based take/skip windows.
package filter

import (
	"context"

	"github.com/lguimbarda/min-data/data/core"
)

// Filter creates an iterator that yields only the upstream values for which
// predicate returns true. Each pull loops on upstream pulls until a passing
// value or exhaustion is found, so the stage is built on the serialized
// base. A predicate error or panic permanently fails the iterator.
func Filter[T any](it core.Iterator[T], predicate func(T) bool) core.Iterator[T] {
	return core.Serialize[T](&filterIterator[T]{upstream: it, predicate: predicate})
}

type filterIterator[T any] struct {
	upstream  core.Iterator[T]
	predicate func(T) bool
	done      bool
	failed    error
}

func (f *filterIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if f.failed != nil {
		return core.Done[T](), f.failed
	}
	if f.done {
		return core.Done[T](), nil
	}

	for {
		res, err := f.upstream.Next(ctx)
		if err != nil {
			f.failed = core.TagError(err)
			return core.Done[T](), f.failed
		}
		if res.IsDone() {
			f.done = true
			return core.Done[T](), nil
		}

		pass, err := applyPredicate(f.predicate, res.Value())
		if err != nil {
			f.failed = core.TagError(err)
			return core.Done[T](), f.failed
		}
		if pass {
			return res, nil
		}
	}
}

// applyPredicate invokes a caller-supplied predicate with panic recovery.
func applyPredicate[T any](predicate func(T) bool, v T) (pass bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = core.NewPanicError(r)
		}
	}()
	return predicate(v), nil
}
