package buffer

import (
	"context"
	"math/rand"
	"time"

	"github.com/lguimbarda/min-data/data/core"
)

// ShuffleOption configures a Shuffle stage.
type ShuffleOption func(*shuffleSettings)

type shuffleSettings struct {
	seed    int64
	hasSeed bool
}

// WithSeed fixes the seed of the shuffle's pseudorandom generator, making
// the output sequence deterministic for a given input and window size.
// Without it the generator is seeded from the high-resolution clock.
func WithSeed(seed int64) ShuffleOption {
	return func(s *shuffleSettings) {
		s.seed = seed
		s.hasSeed = true
	}
}

// Shuffle creates an iterator that performs a bounded-window random
// permutation of the upstream sequence. It keeps the same in-flight window
// as Prefetch and on each pull excises a uniformly random slot from the
// filled portion, backfilling from the head.
//
// This is a sliding-window shuffle, not a full materialize-and-shuffle:
// mixing quality improves with windowSize, and windowSize 1 is the
// identity permutation. The randomness is exclusively owned by this stage.
// Panics if windowSize <= 0.
func Shuffle[T any](it core.Iterator[T], windowSize int, opts ...ShuffleOption) core.Iterator[T] {
	settings := shuffleSettings{}
	for _, opt := range opts {
		opt(&settings)
	}
	seed := settings.seed
	if !settings.hasSeed {
		seed = time.Now().UnixNano()
	}

	return core.Serialize[T](&shuffleIterator[T]{
		window: newWindow[T](it, windowSize),
		rng:    rand.New(rand.NewSource(seed)),
	})
}

type shuffleIterator[T any] struct {
	window    *window[T]
	rng       *rand.Rand
	exhausted bool // upstream exhaustion observed; drain without refilling
	failed    error
}

func (s *shuffleIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if s.failed != nil {
		return core.Done[T](), s.failed
	}

	if !s.exhausted {
		s.window.refill(ctx)
	}

	for !s.window.buf.Empty() {
		i := s.rng.Intn(s.window.buf.Length())
		res, err := s.window.await(ctx, s.window.buf.ShuffleExcise(i))
		if err != nil {
			s.failed = core.TagError(err)
			return core.Done[T](), s.failed
		}
		if res.IsDone() {
			// The exhaustion signal itself was drawn; from now on drain the
			// remaining slots without refilling.
			s.exhausted = true
			continue
		}
		return res, nil
	}

	return core.Done[T](), nil
}
