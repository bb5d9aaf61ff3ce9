// Package dataset provides a reusable façade over iterator pipelines.
// An iterator is a single-pass cursor; a Dataset is a recipe for producing
// fresh iterators, which is what makes epoch-style consumption (Repeat) and
// re-collection possible. Every method returns a new Dataset describing a
// longer recipe; nothing executes until an iterator is created and pulled.
package dataset

import (
	"context"

	"github.com/lguimbarda/min-data/data/aggregate"
	"github.com/lguimbarda/min-data/data/buffer"
	"github.com/lguimbarda/min-data/data/combine"
	"github.com/lguimbarda/min-data/data/core"
	"github.com/lguimbarda/min-data/data/filter"
	"github.com/lguimbarda/min-data/data/transform"
)

// Factory produces a fresh iterator over the dataset's elements.
// It is invoked once per iteration (and once per epoch under Repeat).
type Factory[T any] func(ctx context.Context) (core.Iterator[T], error)

// Dataset is a lazily evaluated, re-iterable sequence of elements.
type Dataset[T any] struct {
	factory Factory[T]
}

// New creates a Dataset from an iterator factory.
func New[T any](factory Factory[T]) *Dataset[T] {
	return &Dataset[T]{factory: factory}
}

// FromSlice creates a Dataset over the elements of a slice. The slice is
// not copied; it must not be mutated while the dataset is in use.
func FromSlice[T any](items []T) *Dataset[T] {
	return New(func(ctx context.Context) (core.Iterator[T], error) {
		i := 0
		return core.Func[T](func(ctx context.Context) (core.Result[T], error) {
			if i >= len(items) {
				return core.Done[T](), nil
			}
			v := items[i]
			i++
			return core.Ok(v), nil
		}), nil
	})
}

// Iterator creates a fresh iterator over the dataset.
func (d *Dataset[T]) Iterator(ctx context.Context) (core.Iterator[T], error) {
	return d.factory(ctx)
}

// derive builds a new Dataset whose iterators wrap this dataset's iterators.
func (d *Dataset[T]) derive(wrap func(core.Iterator[T]) core.Iterator[T]) *Dataset[T] {
	return New(func(ctx context.Context) (core.Iterator[T], error) {
		it, err := d.factory(ctx)
		if err != nil {
			return nil, err
		}
		return wrap(it), nil
	})
}

// Map applies a same-type transformation to every element.
// For transformations that change the element type, use MapDataset.
func (d *Dataset[T]) Map(f func(T) (T, error)) *Dataset[T] {
	return d.derive(func(it core.Iterator[T]) core.Iterator[T] {
		return transform.Map(it, f)
	})
}

// Filter keeps only the elements for which predicate returns true.
func (d *Dataset[T]) Filter(predicate func(T) bool) *Dataset[T] {
	return d.derive(func(it core.Iterator[T]) core.Iterator[T] {
		return filter.Filter(it, predicate)
	})
}

// Take limits the dataset to its first n elements; n < 0 is the identity.
func (d *Dataset[T]) Take(n int) *Dataset[T] {
	return d.derive(func(it core.Iterator[T]) core.Iterator[T] {
		return filter.Take(it, n)
	})
}

// Skip discards the first n elements; n <= 0 is the identity.
func (d *Dataset[T]) Skip(n int) *Dataset[T] {
	return d.derive(func(it core.Iterator[T]) core.Iterator[T] {
		return filter.Skip(it, n)
	})
}

// Shuffle applies a bounded-window random permutation to each iteration.
func (d *Dataset[T]) Shuffle(windowSize int, opts ...buffer.ShuffleOption) *Dataset[T] {
	return d.derive(func(it core.Iterator[T]) core.Iterator[T] {
		return buffer.Shuffle(it, windowSize, opts...)
	})
}

// Prefetch overlaps upstream latency with consumption using a window of
// bufferSize in-flight pulls.
func (d *Dataset[T]) Prefetch(bufferSize int) *Dataset[T] {
	return d.derive(func(it core.Iterator[T]) core.Iterator[T] {
		return buffer.Prefetch(it, bufferSize)
	})
}

// Batch groups elements into slices of the given size. It is a function
// rather than a method because Go forbids a method of Dataset[T] from
// mentioning Dataset[[]T] (instantiation cycle), as with MapDataset.
func Batch[T any](d *Dataset[T], size int, opts ...aggregate.BatchOption) *Dataset[[]T] {
	return New(func(ctx context.Context) (core.Iterator[[]T], error) {
		it, err := d.factory(ctx)
		if err != nil {
			return nil, err
		}
		return aggregate.Batch(it, size, opts...), nil
	})
}

// Concatenate yields this dataset's elements followed by the other's.
func (d *Dataset[T]) Concatenate(other *Dataset[T]) *Dataset[T] {
	return New(func(ctx context.Context) (core.Iterator[T], error) {
		a, err := d.factory(ctx)
		if err != nil {
			return nil, err
		}
		b, err := other.factory(ctx)
		if err != nil {
			return nil, err
		}
		return combine.Concat(a, b), nil
	})
}

// Repeat iterates the dataset count times, creating a fresh iterator per
// epoch. count < 0 repeats forever; count == 0 is the empty dataset.
func (d *Dataset[T]) Repeat(count int) *Dataset[T] {
	return New(func(ctx context.Context) (core.Iterator[T], error) {
		epoch := 0
		outer := core.Func[core.Iterator[T]](func(ctx context.Context) (core.Result[core.Iterator[T]], error) {
			if count >= 0 && epoch >= count {
				return core.Done[core.Iterator[T]](), nil
			}
			epoch++
			it, err := d.factory(ctx)
			if err != nil {
				return core.Done[core.Iterator[T]](), err
			}
			return core.Ok(it), nil
		})
		return combine.FlattenIterators[T](outer), nil
	})
}

// Collect creates an iterator and pulls it to exhaustion.
func (d *Dataset[T]) Collect(ctx context.Context) ([]T, error) {
	it, err := d.factory(ctx)
	if err != nil {
		return nil, err
	}
	return core.Collect[T](ctx, it)
}

// ForEach creates an iterator and calls fn for every element. A non-nil
// error from fn stops iteration and is returned.
func (d *Dataset[T]) ForEach(ctx context.Context, fn func(T) error) error {
	it, err := d.factory(ctx)
	if err != nil {
		return err
	}
	for {
		res, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if res.IsDone() {
			return nil
		}
		if err := fn(res.Value()); err != nil {
			return err
		}
	}
}

// MapDataset applies a type-changing transformation to every element.
func MapDataset[IN, OUT any](d *Dataset[IN], f func(IN) (OUT, error)) *Dataset[OUT] {
	return New(func(ctx context.Context) (core.Iterator[OUT], error) {
		it, err := d.Iterator(ctx)
		if err != nil {
			return nil, err
		}
		return transform.Map(it, f), nil
	})
}

// ZipDatasets merges same-typed datasets positionally into a dataset of
// slices, per the given mismatch policy.
func ZipDatasets[T any](datasets []*Dataset[T], opts ...combine.ZipOption) *Dataset[[]T] {
	return New(func(ctx context.Context) (core.Iterator[[]T], error) {
		its := make([]core.Iterator[T], len(datasets))
		for i, d := range datasets {
			it, err := d.Iterator(ctx)
			if err != nil {
				return nil, err
			}
			its[i] = it
		}
		return combine.ZipSlice(its, opts...)
	})
}
