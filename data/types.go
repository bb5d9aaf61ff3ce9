// Package data provides a lazy, composable, asynchronous input-pipeline
// framework built around pull-based iterators.
//
// This package is the primary user-facing API. Most users should only need
// to import this package plus the concern packages they use directly. The
// data/core subpackage contains low-level abstractions that are rarely
// needed directly.
package data

import (
	"context"

	"github.com/lguimbarda/min-data/data/aggregate"
	"github.com/lguimbarda/min-data/data/buffer"
	"github.com/lguimbarda/min-data/data/combine"
	"github.com/lguimbarda/min-data/data/core"
	"github.com/lguimbarda/min-data/data/filter"
	"github.com/lguimbarda/min-data/data/transform"
)

// Type aliases for core abstractions.
// These allow users to work with the framework without importing core directly.
type (
	// Result represents the outcome of a single pull: a value or exhaustion.
	Result[T any] = core.Result[T]

	// Iterator is a pull-based, single-pass cursor over a sequence.
	Iterator[T any] = core.Iterator[T]

	// Serial marks iterators with strictly serialized pulls.
	Serial[T any] = core.Serial[T]

	// Func adapts an ordinary function to the Iterator interface.
	Func[T any] = core.Func[T]
)

// ErrIteration is the sentinel carried by every pipeline failure.
var ErrIteration = core.ErrIteration

// Result constructors - wrappers around core functions.

// Ok creates a Result containing the given value.
func Ok[T any](value T) Result[T] {
	return core.Ok(value)
}

// Done creates a Result signalling exhaustion.
func Done[T any]() Result[T] {
	return core.Done[T]()
}

// Serialize forces overlapping Next calls into submission order.
func Serialize[T any](it Iterator[T]) Serial[T] {
	return core.Serialize[T](it)
}

// Transformation stages - wrappers around the concern packages.

// Map applies f to each value (1:1 cardinality).
func Map[IN, OUT any](it Iterator[IN], f func(IN) (OUT, error)) Iterator[OUT] {
	return transform.Map(it, f)
}

// FlatMap applies f to each value and flattens the resulting slices (1:N).
func FlatMap[IN, OUT any](it Iterator[IN], f func(IN) ([]OUT, error)) Iterator[OUT] {
	return transform.FlatMap(it, f)
}

// Filter keeps only values for which predicate returns true.
func Filter[T any](it Iterator[T], predicate func(T) bool) Iterator[T] {
	return filter.Filter(it, predicate)
}

// Take yields at most the first n values; n < 0 is the identity.
func Take[T any](it Iterator[T], n int) Iterator[T] {
	return filter.Take(it, n)
}

// Skip discards the first n values; n <= 0 is the identity.
func Skip[T any](it Iterator[T], n int) Iterator[T] {
	return filter.Skip(it, n)
}

// Batch groups values into slices of the given size.
func Batch[T any](it Iterator[T], size int, opts ...aggregate.BatchOption) Iterator[[]T] {
	return aggregate.Batch(it, size, opts...)
}

// Concat yields all values of each iterator in turn.
func Concat[T any](its ...Iterator[T]) Iterator[T] {
	return combine.Concat(its...)
}

// Prefetch overlaps upstream latency with consumption.
func Prefetch[T any](it Iterator[T], bufferSize int) Iterator[T] {
	return buffer.Prefetch(it, bufferSize)
}

// Shuffle applies a bounded-window random permutation.
func Shuffle[T any](it Iterator[T], windowSize int, opts ...buffer.ShuffleOption) Iterator[T] {
	return buffer.Shuffle(it, windowSize, opts...)
}

// Terminal operations.

// Collect pulls the iterator to exhaustion and returns all values in order.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	return core.Collect[T](ctx, it)
}

// First returns the first value from the iterator.
func First[T any](ctx context.Context, it Iterator[T]) (T, error) {
	return core.First[T](ctx, it)
}

// Run pulls the iterator to exhaustion for side effects only.
func Run[T any](ctx context.Context, it Iterator[T]) error {
	return core.Run[T](ctx, it)
}

// Count pulls the iterator to exhaustion and returns the number of values.
func Count[T any](ctx context.Context, it Iterator[T]) (int, error) {
	return core.Count[T](ctx, it)
}
