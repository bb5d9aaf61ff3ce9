// Package text provides pump-based stages for turning byte and text chunk
// streams into structured text: UTF-8 decoding across chunk boundaries and
// separator-based line splitting.
package text

import (
	"context"
	"strings"

	"github.com/lguimbarda/min-data/data/core"
)

// LinesOption configures a Lines stage.
type LinesOption func(*linesSettings)

type linesSettings struct {
	separator string
}

// WithSeparator sets the line separator. The default is "\n".
func WithSeparator(sep string) LinesOption {
	return func(s *linesSettings) {
		s.separator = sep
	}
}

// linesState is the carryover threaded between pump steps: the trailing
// fragment of the last chunk that has not yet been terminated by a
// separator.
type linesState struct {
	carryover string
	flushed   bool // final carryover already emitted
}

// Lines creates an iterator that splits a stream of text chunks into
// complete lines, independent of how the input is chunked: a line boundary
// may fall anywhere, including exactly on a chunk boundary. Separators are
// not included in the output. On upstream exhaustion a non-empty trailing
// fragment is emitted once as the final line.
func Lines(it core.Iterator[string], opts ...LinesOption) core.Iterator[string] {
	settings := linesSettings{separator: "\n"}
	for _, opt := range opts {
		opt(&settings)
	}
	sep := settings.separator

	pump := func(ctx context.Context, state linesState, upstream core.Iterator[string], emit func(string)) (linesState, bool, error) {
		res, err := upstream.Next(ctx)
		if err != nil {
			return state, false, err
		}
		if res.IsDone() {
			if state.carryover != "" && !state.flushed {
				emit(state.carryover)
				return linesState{flushed: true}, true, nil
			}
			return state, false, nil
		}

		parts := strings.Split(state.carryover+res.Value(), sep)
		for _, line := range parts[:len(parts)-1] {
			emit(line)
		}
		return linesState{carryover: parts[len(parts)-1]}, true, nil
	}

	return core.Pumped[string, string, linesState](it, linesState{}, pump)
}
