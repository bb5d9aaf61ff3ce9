package filter

import (
	"context"

	"github.com/lguimbarda/min-data/data/core"
)

// Take creates an iterator that yields at most the first n upstream values.
// If n < 0, Take acts as the identity and returns it unchanged, including
// never terminating when upstream never terminates. n == 0 yields the empty
// iterator.
func Take[T any](it core.Iterator[T], n int) core.Iterator[T] {
	if n < 0 {
		return it
	}
	return &takeIterator[T]{upstream: it, remaining: n}
}

type takeIterator[T any] struct {
	upstream  core.Iterator[T]
	remaining int
	failed    error
}

func (t *takeIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if t.failed != nil {
		return core.Done[T](), t.failed
	}
	if t.remaining <= 0 {
		return core.Done[T](), nil
	}

	res, err := t.upstream.Next(ctx)
	if err != nil {
		t.failed = core.TagError(err)
		return core.Done[T](), t.failed
	}
	if res.IsDone() {
		t.remaining = 0
		return core.Done[T](), nil
	}
	t.remaining--
	return res, nil
}

// TakeWhile creates an iterator that yields upstream values while the
// predicate returns true, then terminates. The first failing value is
// consumed but not emitted.
func TakeWhile[T any](it core.Iterator[T], predicate func(T) bool) core.Iterator[T] {
	done := false
	var failed error
	return core.Serialize[T](core.Func[T](func(ctx context.Context) (core.Result[T], error) {
		if failed != nil {
			return core.Done[T](), failed
		}
		if done {
			return core.Done[T](), nil
		}
		res, err := it.Next(ctx)
		if err != nil {
			failed = core.TagError(err)
			return core.Done[T](), failed
		}
		if res.IsDone() {
			done = true
			return core.Done[T](), nil
		}
		pass, err := applyPredicate(predicate, res.Value())
		if err != nil {
			failed = core.TagError(err)
			return core.Done[T](), failed
		}
		if !pass {
			done = true
			return core.Done[T](), nil
		}
		return res, nil
	}))
}

// Skip creates an iterator that consumes and discards exactly n upstream
// values (or fewer if upstream exhausts first) before yielding subsequent
// values unchanged. If n <= 0, Skip acts as the identity. The skip happens
// lazily on the first pull, so the stage is built on the serialized base.
func Skip[T any](it core.Iterator[T], n int) core.Iterator[T] {
	if n <= 0 {
		return it
	}
	return core.Serialize[T](&skipIterator[T]{upstream: it, remaining: n})
}

type skipIterator[T any] struct {
	upstream  core.Iterator[T]
	remaining int
	done      bool
	failed    error
}

func (s *skipIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if s.failed != nil {
		return core.Done[T](), s.failed
	}
	if s.done {
		return core.Done[T](), nil
	}

	for s.remaining > 0 {
		res, err := s.upstream.Next(ctx)
		if err != nil {
			s.failed = core.TagError(err)
			return core.Done[T](), s.failed
		}
		if res.IsDone() {
			s.done = true
			return core.Done[T](), nil
		}
		s.remaining--
	}

	res, err := s.upstream.Next(ctx)
	if err != nil {
		s.failed = core.TagError(err)
		return core.Done[T](), s.failed
	}
	if res.IsDone() {
		s.done = true
	}
	return res, nil
}

// SkipWhile creates an iterator that discards upstream values while the
// predicate returns true; the first failing value and everything after it
// are yielded unchanged.
func SkipWhile[T any](it core.Iterator[T], predicate func(T) bool) core.Iterator[T] {
	skipping := true
	done := false
	var failed error
	return core.Serialize[T](core.Func[T](func(ctx context.Context) (core.Result[T], error) {
		if failed != nil {
			return core.Done[T](), failed
		}
		if done {
			return core.Done[T](), nil
		}
		for {
			res, err := it.Next(ctx)
			if err != nil {
				failed = core.TagError(err)
				return core.Done[T](), failed
			}
			if res.IsDone() {
				done = true
				return core.Done[T](), nil
			}
			if !skipping {
				return res, nil
			}
			pass, err := applyPredicate(predicate, res.Value())
			if err != nil {
				failed = core.TagError(err)
				return core.Done[T](), failed
			}
			if !pass {
				skipping = false
				return res, nil
			}
		}
	}))
}
