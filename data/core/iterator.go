// Package core defines the core abstractions for lazy data pipelines:
// the pull-based asynchronous iterator contract, result handling, ordering
// enforcement, the stateful pump base for one-to-many transforms, and the
// ring buffer used by the buffering stages.
//
// NOTE: this package should have no dependencies outside the standard
// library, including other data packages.
package core

import (
	"context"
)

// Iterator is a pull-based, single-pass cursor over a possibly infinite
// sequence of elements of type T. Each call to Next advances the cursor.
// Exhaustion is signalled by a Result whose IsDone() is true; an exhausted
// iterator keeps reporting done on subsequent calls (every stage in this
// module fuses).
//
// Next never panics for data-dependent failures; all failures are reported
// through the error return, tagged with ErrIteration. A failed pull
// permanently ends the logical stream: callers must not pull again after a
// non-nil error.
// Iterator answers the question: "What is the next element of the stream?".
type Iterator[T any] interface {
	Next(ctx context.Context) (Result[T], error)
}

// Func adapts an ordinary function to the Iterator interface. It is the
// lowest-level way to define a source; prefer the constructors in the data
// package for common cases.
type Func[T any] func(ctx context.Context) (Result[T], error)

func (f Func[T]) Next(ctx context.Context) (Result[T], error) {
	return f(ctx)
}
