package framz

import (
	"context"
	"errors"
	"time"
)

// Apply creates a Processor from a function that transforms an I into an O
// and may return an error. Apply is the workhorse adapter - use it when the
// transformation might fail due to parsing, validation, or I/O at a
// collaborator boundary.
//
// On error, the pipeline stops immediately and the error is wrapped in
// *Error[I] with the stage name, the input that caused the failure, and
// timing information. The wrapped cause stays reachable through errors.As.
//
// Apply is ideal for:
//   - Decoding wire formats that might be malformed
//   - Reading from external byte sources
//   - Validation with transformation
//
// For pure transformations that cannot fail, use Transform instead.
//
// Example:
//
//	decode := framz.Apply("decode", func(_ context.Context, buf []byte) ([]framz.Record, error) {
//	    return framz.Decode(buf)
//	})
func Apply[I, O any](name Name, fn func(context.Context, I) (O, error)) Processor[I, O] {
	return Processor[I, O]{
		name: name,
		fn: func(ctx context.Context, input I) (O, error) {
			start := time.Now()
			result, err := fn(ctx, input)
			if err != nil {
				var zero O
				return zero, &Error[I]{
					Path:      []Name{name},
					InputData: input,
					Err:       err,
					Timestamp: time.Now(),
					Duration:  time.Since(start),
					Timeout:   errors.Is(err, context.DeadlineExceeded),
					Canceled:  errors.Is(err, context.Canceled),
				}
			}
			return result, nil
		},
	}
}
