// Package aggregate provides stages that change pipeline cardinality by
// grouping elements, such as fixed-size batching.
package aggregate

import (
	"context"

	"github.com/lguimbarda/min-data/data/core"
)

// BatchConfig provides context-injected configuration for batching.
type BatchConfig struct {
	// Size specifies the default batch size. A value of 0 or negative
	// falls back to the size passed at the call site.
	Size int
}

// BatchOption configures a Batch stage.
type BatchOption func(*batchSettings)

type batchSettings struct {
	smallLastBatch bool
}

// WithSmallLastBatch controls what happens to a partial batch when the
// upstream exhausts mid-batch: true (the default) emits it, false discards
// it.
func WithSmallLastBatch(emit bool) BatchOption {
	return func(s *batchSettings) {
		s.smallLastBatch = emit
	}
}

// effectiveBatchSize returns the batch size to use, considering context
// config and the explicitly provided value. If size > 0, it takes
// precedence. Returns 0 if neither provides a valid value (caller panics).
func effectiveBatchSize(ctx context.Context, size int) int {
	if size > 0 {
		return size
	}
	if cfg, ok := core.GetConfig[*BatchConfig](ctx); ok && cfg.Size > 0 {
		return cfg.Size
	}
	return 0
}

// Batch creates an iterator that accumulates size upstream values into a
// slice per output. If upstream exhausts mid-batch the partial batch is
// emitted when small last batches are enabled (the default) and the partial
// batch is non-empty, otherwise it is discarded.
//
// Each pull issues up to size upstream pulls, so the stage is built on the
// serialized base. If size <= 0 and no context config provides a valid
// size, the first pull panics.
func Batch[T any](it core.Iterator[T], size int, opts ...BatchOption) core.Iterator[[]T] {
	settings := batchSettings{smallLastBatch: true}
	for _, opt := range opts {
		opt(&settings)
	}
	return core.Serialize[[]T](&batchIterator[T]{
		upstream: it,
		size:     size,
		settings: settings,
	})
}

type batchIterator[T any] struct {
	upstream core.Iterator[T]
	size     int
	settings batchSettings
	done     bool
	failed   error
}

func (b *batchIterator[T]) Next(ctx context.Context) (core.Result[[]T], error) {
	if b.failed != nil {
		return core.Done[[]T](), b.failed
	}
	if b.done {
		return core.Done[[]T](), nil
	}

	size := effectiveBatchSize(ctx, b.size)
	if size <= 0 {
		panic("Batch size must be > 0")
	}

	batch := make([]T, 0, size)
	for len(batch) < size {
		res, err := b.upstream.Next(ctx)
		if err != nil {
			b.failed = core.TagError(err)
			return core.Done[[]T](), b.failed
		}
		if res.IsDone() {
			b.done = true
			if len(batch) > 0 && b.settings.smallLastBatch {
				return core.Ok(batch), nil
			}
			return core.Done[[]T](), nil
		}
		batch = append(batch, res.Value())
	}
	return core.Ok(batch), nil
}
