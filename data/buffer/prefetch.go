// Package buffer provides the buffering stages of a pipeline: prefetching,
// which overlaps upstream latency with downstream consumption, and the
// sliding-window shuffle built on top of it.
package buffer

import (
	"context"

	"github.com/lguimbarda/min-data/data/core"
)

// slot is one in-flight upstream pull. Its channel carries exactly one
// outcome; the goroutine filling it chains on the previous slot's gate so
// upstream pulls happen in submission order.
type slot[T any] struct {
	ch chan outcome[T]
}

type outcome[T any] struct {
	res core.Result[T]
	err error
}

// window is the shared machinery of Prefetch and Shuffle: a ring buffer of
// in-flight pulls, refilled to capacity on demand.
type window[T any] struct {
	upstream core.Iterator[T]
	buf      *core.RingBuffer[*slot[T]]
	tail     chan struct{} // gate of the most recently launched pull
}

func newWindow[T any](upstream core.Iterator[T], size int) *window[T] {
	if size <= 0 {
		panic("buffer size must be > 0")
	}
	return &window[T]{
		upstream: upstream,
		buf:      core.NewRingBuffer[*slot[T]](size),
	}
}

// refill issues upstream pulls until the buffer is full. Each pull's slot
// is pushed immediately, without waiting for resolution; that is what
// allows upstream latency to overlap with downstream consumption. Refilling
// past exhaustion is safe and cheap: the extra pulls resolve to done
// immediately and simply occupy slots until drained.
func (w *window[T]) refill(ctx context.Context) {
	for !w.buf.Full() {
		s := &slot[T]{ch: make(chan outcome[T], 1)}
		prev := w.tail
		gate := make(chan struct{})
		w.tail = gate

		go func() {
			defer close(gate)
			if prev != nil {
				<-prev
			}
			res, err := w.upstream.Next(ctx)
			s.ch <- outcome[T]{res: res, err: err}
		}()

		w.buf.Push(s)
	}
}

// await blocks until the slot resolves or the context is cancelled.
func (w *window[T]) await(ctx context.Context, s *slot[T]) (core.Result[T], error) {
	select {
	case o := <-s.ch:
		return o.res, o.err
	case <-ctx.Done():
		return core.Done[T](), ctx.Err()
	}
}

// Prefetch creates an iterator that eagerly issues up to bufferSize
// upstream pulls, returning buffered results in slot order. Slot order is
// submission order, so output order matches the upstream sequence no matter
// how the underlying work resolves. Panics if bufferSize <= 0.
func Prefetch[T any](it core.Iterator[T], bufferSize int) core.Iterator[T] {
	return core.Serialize[T](&prefetchIterator[T]{
		window: newWindow[T](it, bufferSize),
	})
}

type prefetchIterator[T any] struct {
	window *window[T]
	failed error
}

func (p *prefetchIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if p.failed != nil {
		return core.Done[T](), p.failed
	}

	p.window.refill(ctx)
	s := p.window.buf.Shift()
	res, err := p.window.await(ctx, s)
	if err != nil {
		p.failed = core.TagError(err)
		return core.Done[T](), p.failed
	}
	return res, nil
}
