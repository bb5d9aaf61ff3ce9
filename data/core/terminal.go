package core

import (
	"context"
	"fmt"
)

// Terminal functions are sinks that consume an iterator and produce a final
// result, such as a slice of values, the first value, or just drain the
// stream for its side effects.

// Collect pulls the iterator to exhaustion and returns all values in order.
// The first error ends collection and is returned.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var values []T
	for {
		res, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if res.IsDone() {
			return values, nil
		}
		values = append(values, res.Value())
	}
}

// First returns the first value from the iterator. Returns an error if the
// iterator is empty.
func First[T any](ctx context.Context, it Iterator[T]) (T, error) {
	var zero T

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	res, err := it.Next(ctx)
	switch {
	case err != nil:
		return zero, err
	case res.IsDone():
		return zero, fmt.Errorf("iterator is empty")
	default:
		return res.Value(), nil
	}
}

// Run pulls the iterator to exhaustion, discarding values. The first error
// ends the run and is returned.
func Run[T any](ctx context.Context, it Iterator[T]) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for {
		res, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if res.IsDone() {
			return nil
		}
	}
}

// Count pulls the iterator to exhaustion and returns the number of values.
func Count[T any](ctx context.Context, it Iterator[T]) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := 0
	for {
		res, err := it.Next(ctx)
		if err != nil {
			return n, err
		}
		if res.IsDone() {
			return n, nil
		}
		n++
	}
}
