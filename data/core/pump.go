package core

import (
	"context"
)

// PumpFunc is the transition function of a stateful one-to-many transform.
// It is given the current carryover state and must:
//
//   - pull zero or one items from upstream,
//   - optionally emit zero or more produced items, and
//   - return the new state plus a flag reporting whether any work was done
//     (upstream was read, or something was emitted).
//
// Returning work=false signals permanent exhaustion of the stage. PumpFunc
// must be a pure function of its state: all carryover (partial lines,
// partial characters, counters) is threaded through S rather than kept in
// instance fields, so the transition function is independently testable.
type PumpFunc[IN, OUT, S any] func(ctx context.Context, state S, upstream Iterator[IN], emit func(OUT)) (S, bool, error)

// Pumped builds an iterator from a stateful pump. The stage keeps a queue
// of already-produced items; each Next drains the queue first and only
// invokes the pump while the queue is empty, so at most one refill burst
// happens per external pull that needs it. This minimizes upstream pressure
// while supporting arbitrary one-to-many and many-to-one fan-out.
//
// The returned iterator is Serial: the n-th Next, including all of its
// internal pump iterations, completes before the (n+1)-th begins.
func Pumped[IN, OUT, S any](upstream Iterator[IN], initial S, pump PumpFunc[IN, OUT, S]) Serial[OUT] {
	p := &pumped[IN, OUT, S]{
		upstream: upstream,
		state:    initial,
		pump:     pump,
		queue:    NewGrowingRingBuffer[OUT](defaultQueueCapacity),
	}
	return Serialize[OUT](p)
}

// defaultQueueCapacity is the initial capacity of a pump's output queue.
// One upstream item rarely fans out to more than a handful of outputs, so
// the queue starts small and grows on demand.
const defaultQueueCapacity = 8

type pumped[IN, OUT, S any] struct {
	upstream Iterator[IN]
	state    S
	pump     PumpFunc[IN, OUT, S]
	queue    *GrowingRingBuffer[OUT]
	done     bool
	failed   error
}

func (p *pumped[IN, OUT, S]) Next(ctx context.Context) (Result[OUT], error) {
	if p.failed != nil {
		return Done[OUT](), p.failed
	}

	for p.queue.Empty() {
		if p.done {
			return Done[OUT](), nil
		}
		state, worked, err := p.pump(ctx, p.state, p.upstream, p.enqueue)
		if err != nil {
			p.failed = TagError(err)
			return Done[OUT](), p.failed
		}
		p.state = state
		if !worked {
			p.done = true
		}
	}

	return Ok(p.queue.Shift()), nil
}

func (p *pumped[IN, OUT, S]) enqueue(value OUT) {
	p.queue.Push(value)
}
