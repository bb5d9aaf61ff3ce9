package data

import (
	"context"
	"iter"

	"github.com/lguimbarda/min-data/data/core"
)

// FromSlice creates an iterator over the elements of a slice. The slice is
// not copied; it must not be mutated while the iterator is in use.
func FromSlice[T any](items []T) Iterator[T] {
	i := 0
	return Func[T](func(ctx context.Context) (Result[T], error) {
		if i >= len(items) {
			return core.Done[T](), nil
		}
		v := items[i]
		i++
		return core.Ok(v), nil
	})
}

// FromFunc creates an iterator from a pull function. It is equivalent to a
// Func conversion and exists for symmetry with the other sources.
func FromFunc[T any](fn func(ctx context.Context) (Result[T], error)) Iterator[T] {
	return Func[T](fn)
}

// FromChannel creates an iterator over values received from the given
// channel. The iterator exhausts when the channel is closed. The caller is
// responsible for closing the channel.
func FromChannel[T any](ch <-chan T) Iterator[T] {
	return Func[T](func(ctx context.Context) (Result[T], error) {
		select {
		case <-ctx.Done():
			return core.Done[T](), core.TagError(ctx.Err())
		case v, ok := <-ch:
			if !ok {
				return core.Done[T](), nil
			}
			return core.Ok(v), nil
		}
	})
}

// FromSeq creates an iterator from a Go 1.23+ iterator sequence.
func FromSeq[T any](seq iter.Seq[T]) Iterator[T] {
	next, stop := iter.Pull(seq)
	return Func[T](func(ctx context.Context) (Result[T], error) {
		v, ok := next()
		if !ok {
			stop()
			return core.Done[T](), nil
		}
		return core.Ok(v), nil
	})
}

// Range creates an iterator over the integers [start, end). If end <=
// start the iterator is empty.
func Range(start, end int) Iterator[int] {
	n := start
	return Func[int](func(ctx context.Context) (Result[int], error) {
		if n >= end {
			return core.Done[int](), nil
		}
		v := n
		n++
		return core.Ok(v), nil
	})
}

// Empty creates an iterator that is exhausted from the start.
func Empty[T any]() Iterator[T] {
	return Func[T](func(ctx context.Context) (Result[T], error) {
		return core.Done[T](), nil
	})
}

// Once creates an iterator that yields a single value and then exhausts.
func Once[T any](value T) Iterator[T] {
	emitted := false
	return Func[T](func(ctx context.Context) (Result[T], error) {
		if emitted {
			return core.Done[T](), nil
		}
		emitted = true
		return core.Ok(value), nil
	})
}

// Generate creates an iterator that lazily produces values using the
// provided function. The function returns the next value and true to
// continue, or the zero value and false to signal exhaustion. Exhaustion
// is fused: fn is not called again after it reports false.
func Generate[T any](fn func() (T, bool, error)) Iterator[T] {
	done := false
	var failed error
	return Func[T](func(ctx context.Context) (Result[T], error) {
		if failed != nil {
			return core.Done[T](), failed
		}
		if done {
			return core.Done[T](), nil
		}
		v, ok, err := fn()
		if err != nil {
			failed = core.TagError(err)
			return core.Done[T](), failed
		}
		if !ok {
			done = true
			return core.Done[T](), nil
		}
		return core.Ok(v), nil
	})
}
