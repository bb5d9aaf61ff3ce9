package text

import (
	"context"
	"errors"

	"github.com/lguimbarda/min-data/data/core"
)

// ErrTruncatedUTF8 is returned when the byte stream ends in the middle of a
// multi-byte character. A correctly terminated UTF-8 stream never does.
var ErrTruncatedUTF8 = errors.New("utf-8 stream ended with an incomplete multi-byte character")

// utf8State is the carryover threaded between pump steps: the bytes of a
// multi-byte character whose tail has not arrived yet.
type utf8State struct {
	partial           []byte
	partialBytesValid int
}

// leadByteWidth returns the total encoded width implied by a UTF-8 lead
// byte, or 0 for a continuation byte.
func leadByteWidth(b byte) int {
	switch {
	case b < 0x80:
		return 1
	case b < 0xC0:
		return 0 // continuation byte
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	case b < 0xF8:
		return 4
	case b < 0xFC:
		return 5
	default:
		return 6
	}
}

// DecodeUTF8 creates an iterator that decodes a stream of byte chunks into
// text chunks. Characters split across chunk boundaries are reassembled:
// each pump step scans backward from the end of the chunk for the last
// complete character boundary, decodes the safely complete prefix, and
// carries the trailing partial character forward. Decoding is
// chunk-boundary-invariant: any chunking of the same bytes, down to one
// byte per chunk, produces the same text.
//
// A non-empty partial character at true end of stream is a genuine error
// for a correctly terminated UTF-8 stream and fails the iterator with
// ErrTruncatedUTF8.
func DecodeUTF8(it core.Iterator[[]byte]) core.Iterator[string] {
	pump := func(ctx context.Context, state utf8State, upstream core.Iterator[[]byte], emit func(string)) (utf8State, bool, error) {
		res, err := upstream.Next(ctx)
		if err != nil {
			return state, false, err
		}
		if res.IsDone() {
			if state.partialBytesValid > 0 {
				return state, false, ErrTruncatedUTF8
			}
			return state, false, nil
		}

		chunk := res.Value()
		combined := make([]byte, 0, state.partialBytesValid+len(chunk))
		combined = append(combined, state.partial[:state.partialBytesValid]...)
		combined = append(combined, chunk...)

		complete, partial := splitCompletePrefix(combined)
		if len(complete) > 0 {
			emit(string(complete))
		}
		return utf8State{partial: partial, partialBytesValid: len(partial)}, true, nil
	}

	return core.Pumped[[]byte, string, utf8State](it, utf8State{}, pump)
}

// splitCompletePrefix splits b into the longest prefix ending on a complete
// character boundary and the trailing bytes of an incomplete character.
// It scans backward from the end for the last lead byte and checks whether
// the bytes that follow it complete the character it announces.
func splitCompletePrefix(b []byte) (complete, partial []byte) {
	// A character is at most 6 bytes under the historical lead-byte rules,
	// so only the last 5 positions can start an incomplete one.
	for i := len(b) - 1; i >= 0 && i >= len(b)-5; i-- {
		width := leadByteWidth(b[i])
		if width == 0 {
			continue // continuation byte, keep scanning backward
		}
		if width > len(b)-i {
			return b[:i], b[i:]
		}
		break // the last character is complete
	}
	return b, nil
}
