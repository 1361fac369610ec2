package framz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error provides rich context about pipeline execution failures. It wraps
// the underlying error with the path of stage names leading to the failure,
// the input the failing stage received, and timing information.
//
// The underlying cause is reachable through Unwrap, so errors.Is and
// errors.As see through Error to the specific failure kind (for example
// *TruncatedRecordError or ErrSourceUnavailable).
type Error[I any] struct {
	InputData I
	Timestamp time.Time
	Err       error
	Path      []Name
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error[I]) Error() string {
	location := "unknown"
	if len(e.Path) > 0 {
		location = strings.Join(e.Path, " -> ")
	}

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *Error[I]) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error[I]) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error[I]) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// panicError carries a sanitized panic message. The raw panic value is not
// retained, so arbitrary data cannot leak into logs through error chains.
type panicError struct {
	sanitized string
}

func (e *panicError) Error() string {
	return e.sanitized
}

// recoverFromPanic converts a panic in a stage function into an Error so a
// misbehaving stage cannot take down the caller. Used via defer in
// Pipeline.Process.
func recoverFromPanic[I, O any](result *O, err *error, name Name, input I) {
	if r := recover(); r != nil {
		var zero O
		*result = zero
		*err = &Error[I]{
			Path:      []Name{name},
			InputData: input,
			Err:       &panicError{sanitized: fmt.Sprintf("panic occurred: %v", r)},
			Timestamp: time.Now(),
		}
	}
}
