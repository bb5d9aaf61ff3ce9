package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/lguimbarda/min-data/data/core"
)

// Instrument creates a pass-through iterator that records OpenTelemetry
// metrics for the pulls flowing through it: an item counter, an error
// counter, and a pull-latency histogram, all attributed with the stage
// name. Instrument returns an error only if instrument creation fails on
// the given meter.
func Instrument[T any](it core.Iterator[T], meter metric.Meter, name string) (core.Iterator[T], error) {
	items, err := meter.Int64Counter("data.items",
		metric.WithDescription("count of values pulled through the stage"))
	if err != nil {
		return nil, err
	}
	errs, err := meter.Int64Counter("data.errors",
		metric.WithDescription("count of failed pulls"))
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram("data.pull_latency_ms",
		metric.WithDescription("wall time of each pull in milliseconds"))
	if err != nil {
		return nil, err
	}

	return &otelIterator[T]{
		upstream: it,
		items:    items,
		errs:     errs,
		latency:  latency,
		attrs:    metric.WithAttributes(attribute.String("stage", name)),
	}, nil
}

type otelIterator[T any] struct {
	upstream core.Iterator[T]
	items    metric.Int64Counter
	errs     metric.Int64Counter
	latency  metric.Float64Histogram
	attrs    metric.MeasurementOption
}

func (o *otelIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	start := time.Now()
	res, err := o.upstream.Next(ctx)
	o.latency.Record(ctx, float64(time.Since(start))/float64(time.Millisecond), o.attrs)

	switch {
	case err != nil:
		o.errs.Add(ctx, 1, o.attrs)
	case !res.IsDone():
		o.items.Add(ctx, 1, o.attrs)
	}
	return res, err
}
