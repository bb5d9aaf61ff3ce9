package core

import (
	"context"
	"sync"
)

// Serial marks iterators whose Next calls are strictly serialized: the n-th
// call does not begin its real work until the (n-1)-th call has settled,
// regardless of how the underlying asynchronous work completes. Stages that
// issue multiple upstream pulls per output (filter, pump-based transforms,
// batch, zip) must be built on a Serial base, never directly atop an
// arbitrary concurrently-resolving upstream.
type Serial[T any] interface {
	Iterator[T]

	// SerialIterator is a marker method with no behavior. It exists so that
	// Serialize can avoid double-wrapping iterators that already enforce
	// the serialization discipline.
	SerialIterator()
}

// Serialize wraps an iterator so that overlapping Next calls are forced into
// submission order. Each call chains onto a single "last pending" gate: it
// installs a fresh gate, waits for the previous one to close, performs the
// real pull, and closes its own gate on the way out.
//
// If it already implements Serial, it is returned unchanged.
//
// A waiter whose context is cancelled abandons its turn; its gate still
// closes so later calls are not blocked, but the interleaving with the
// abandoned call's upstream work is no longer defined. Treat the pipeline
// as failed after a cancellation.
func Serialize[T any](it Iterator[T]) Serial[T] {
	if s, ok := it.(Serial[T]); ok {
		return s
	}
	return &serialized[T]{it: it}
}

type serialized[T any] struct {
	it   Iterator[T]
	mu   sync.Mutex
	last chan struct{}
}

func (s *serialized[T]) SerialIterator() {}

func (s *serialized[T]) Next(ctx context.Context) (Result[T], error) {
	s.mu.Lock()
	prev := s.last
	gate := make(chan struct{})
	s.last = gate
	s.mu.Unlock()
	defer close(gate)

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return Done[T](), TagError(ctx.Err())
		}
	}

	res, err := s.it.Next(ctx)
	if err != nil {
		return Done[T](), TagError(err)
	}
	return res, nil
}
