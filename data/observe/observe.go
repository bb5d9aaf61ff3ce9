// Package observe provides observability wrappers for lazy pipelines:
// hook-driven observation, aggregate metrics, structured logging, and
// OpenTelemetry instrumentation. Wrappers are pass-through iterators and
// never change what flows through the pipeline.
package observe

import (
	"context"
	"time"

	"github.com/lguimbarda/min-data/data/core"
)

// IterMetrics holds statistics about an iterator's consumption.
type IterMetrics struct {
	// Counts
	ValueCount int64
	ErrorCount int64

	// Timing
	StartTime     time.Time
	EndTime       time.Time
	FirstItemTime time.Time
	LastItemTime  time.Time

	// Throughput
	ItemsPerSecond float64

	// Latency (time between pulls resolving)
	MinLatency time.Duration
	MaxLatency time.Duration
	AvgLatency time.Duration
}

// Wrap creates a pass-through iterator that fires the typed hooks
// registered on the pull context (see core.WithHooks). The hook set is
// cached from the context of the first pull; OnStart fires before that
// pull's upstream work, OnDone when exhaustion is first observed.
func Wrap[T any](it core.Iterator[T]) core.Iterator[T] {
	return &hookedIterator[T]{upstream: it}
}

type hookedIterator[T any] struct {
	upstream core.Iterator[T]
	invoker  *core.HookInvoker[T]
	doneSeen bool
}

func (h *hookedIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if h.invoker == nil {
		h.invoker = core.NewHookInvoker[T](ctx)
		h.invoker.InvokeStart()
	}

	res, err := h.upstream.Next(ctx)
	switch {
	case err != nil:
		h.invoker.InvokeError(err)
	case res.IsDone():
		if !h.doneSeen {
			h.doneSeen = true
			h.invoker.InvokeDone()
		}
	default:
		h.invoker.InvokeValue(res.Value())
	}
	return res, err
}

// Meter creates a pass-through iterator that collects metrics about the
// pulls flowing through it. The onComplete callback is called with the
// final metrics when exhaustion is first observed.
func Meter[T any](it core.Iterator[T], onComplete func(IterMetrics)) core.Iterator[T] {
	return &meterIterator[T]{upstream: it, onComplete: onComplete}
}

type meterIterator[T any] struct {
	upstream   core.Iterator[T]
	onComplete func(IterMetrics)

	metrics      IterMetrics
	started      bool
	completed    bool
	lastItemTime time.Time
	totalLatency time.Duration
	latencyCount int64
}

func (m *meterIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if !m.started {
		m.started = true
		m.metrics.StartTime = time.Now()
		m.metrics.MinLatency = time.Duration(1<<63 - 1) // Max duration
	}

	res, err := m.upstream.Next(ctx)
	now := time.Now()

	switch {
	case err != nil:
		m.metrics.ErrorCount++
		m.complete(now)
	case res.IsDone():
		m.complete(now)
	default:
		m.metrics.ValueCount++
		if m.metrics.ValueCount == 1 {
			m.metrics.FirstItemTime = now
		}
		m.metrics.LastItemTime = now
		if !m.lastItemTime.IsZero() {
			latency := now.Sub(m.lastItemTime)
			if latency < m.metrics.MinLatency {
				m.metrics.MinLatency = latency
			}
			if latency > m.metrics.MaxLatency {
				m.metrics.MaxLatency = latency
			}
			m.totalLatency += latency
			m.latencyCount++
		}
		m.lastItemTime = now
	}
	return res, err
}

func (m *meterIterator[T]) complete(now time.Time) {
	if m.completed {
		return
	}
	m.completed = true
	m.metrics.EndTime = now

	total := m.metrics.ValueCount + m.metrics.ErrorCount
	if total > 0 {
		duration := m.metrics.EndTime.Sub(m.metrics.StartTime).Seconds()
		if duration > 0 {
			m.metrics.ItemsPerSecond = float64(total) / duration
		}
		if m.latencyCount > 0 {
			m.metrics.AvgLatency = m.totalLatency / time.Duration(m.latencyCount)
		}
	}
	if m.onComplete != nil {
		m.onComplete(m.metrics)
	}
}
