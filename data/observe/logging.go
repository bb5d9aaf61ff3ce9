package observe

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lguimbarda/min-data/data/core"
)

// WithLogging creates a pass-through iterator that logs the pipeline's
// lifecycle with zerolog: one debug event at start, one warn event per
// failed pull, and one info event with final counts at exhaustion. The
// stage name distinguishes multiple logged pipelines; the pipeline ID from
// the pull context (see WithPipelineID) is attached when present.
func WithLogging[T any](it core.Iterator[T], logger zerolog.Logger, name string) core.Iterator[T] {
	return &loggingIterator[T]{upstream: it, logger: logger, name: name}
}

type loggingIterator[T any] struct {
	upstream core.Iterator[T]
	logger   zerolog.Logger
	name     string

	started  bool
	doneSeen bool
	values   int64
	errors   int64
}

func (l *loggingIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if !l.started {
		l.started = true
		if id, ok := PipelineIDFromContext(ctx); ok {
			l.logger = l.logger.With().Str("pipeline_id", id).Logger()
		}
		l.logger.Debug().Str("stage", l.name).Msg("pipeline started")
	}

	res, err := l.upstream.Next(ctx)
	switch {
	case err != nil:
		l.errors++
		l.logger.Warn().Str("stage", l.name).Err(err).Msg("pull failed")
	case res.IsDone():
		if !l.doneSeen {
			l.doneSeen = true
			l.logger.Info().
				Str("stage", l.name).
				Int64("values", l.values).
				Int64("errors", l.errors).
				Msg("pipeline exhausted")
		}
	default:
		l.values++
	}
	return res, err
}
