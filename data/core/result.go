package core

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// Result represents the outcome of a single pull from an iterator.
// It exists in one of two states:
//   - Value: the iterator produced an element (IsDone() returns false)
//   - Done: the iterator is exhausted (IsDone() returns true)
//
// Failures are not represented by Result; they are reported through the
// error return of Iterator.Next.
type Result[T any] struct {
	value T
	done  bool
}

// Ok creates a Result containing the given value.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Done creates a Result signalling exhaustion. The contained value is the
// zero value of T and must not be used.
func Done[T any]() Result[T] {
	return Result[T]{done: true}
}

// IsDone returns true if the iterator that produced this Result is exhausted.
func (r Result[T]) IsDone() bool {
	return r.done
}

// Value returns the contained value. Only meaningful when IsDone() is false.
func (r Result[T]) Value() T {
	return r.value
}

// Unwrap returns the value and the done flag together.
func (r Result[T]) Unwrap() (T, bool) {
	return r.value, r.done
}

// ErrIteration is the sentinel wrapped into every error surfaced through a
// pipeline pull, so callers can recognize pipeline failures with errors.Is.
var ErrIteration = errors.New("error while iterating through a dataset")

// iterationError tags an underlying failure with ErrIteration while keeping
// the original error reachable through errors.Is and errors.As.
type iterationError struct {
	err error
}

func (e *iterationError) Error() string {
	return ErrIteration.Error() + ": " + e.err.Error()
}

func (e *iterationError) Unwrap() []error {
	return []error{ErrIteration, e.err}
}

// TagError marks err as an iteration failure. Tagging is idempotent: an
// error that already carries the tag is returned unchanged, so an error
// crossing many stages is tagged exactly once.
func TagError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrIteration) {
		return err
	}
	return &iterationError{err: err}
}

// ErrPanic wraps a recovered panic value as an error.
// This is used when a caller-supplied function panics during a pull.
// It includes a cleaned-up stack trace that excludes internal min-data frames.
type ErrPanic struct {
	Value any
	Stack string // Cleaned stack trace
}

func (e ErrPanic) Error() string {
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// NewPanicError creates an ErrPanic from a recovered value with a cleaned
// stack trace. It captures the current stack and removes internal min-data
// frames to show only user code, making it easier to identify where the
// panic originated.
func NewPanicError(recovered any) ErrPanic {
	return ErrPanic{
		Value: recovered,
		Stack: cleanStack(captureStack(4)), // skip: runtime.Callers, captureStack, NewPanicError, defer func
	}
}

// captureStack returns the current stack trace as a string.
func captureStack(skip int) string {
	const maxFrames = 32
	var pcs [maxFrames]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder

	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}

	return sb.String()
}

// cleanStack removes internal min-data frames from a stack trace.
// It keeps user code and standard library frames while filtering out
// github.com/lguimbarda/min-data internal frames.
func cleanStack(stack string) string {
	lines := strings.Split(stack, "\n")
	var result []string
	var skipNext bool

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Function lines are unindented; file:line pairs follow them.
		if !strings.HasPrefix(line, "\t") {
			if strings.Contains(line, "github.com/lguimbarda/min-data/data/") {
				skipNext = true
				continue
			}
			skipNext = false
		} else if skipNext {
			continue
		}

		result = append(result, line)
	}

	return strings.Join(result, "\n")
}
