package framz

import (
	"context"
	"errors"
	"time"
)

// Effect creates a Processor that performs a side effect without modifying
// the data. The input passes through unchanged, so an Effect keeps the same
// type on both sides of the stage.
//
// The function receives the data for inspection but must not modify it. Any
// returned error stops the pipeline immediately. Effect is useful for
// logging, metrics, audit trails, and validation without transformation -
// and, in tests, for probing that a point in the chain was (or was not)
// reached.
//
// Example:
//
//	audit := framz.Effect("audit", func(_ context.Context, recs []framz.Record) error {
//	    log.Printf("decoded %d records", len(recs))
//	    return nil
//	})
func Effect[T any](name Name, fn func(context.Context, T) error) Processor[T, T] {
	return Processor[T, T]{
		name: name,
		fn: func(ctx context.Context, value T) (T, error) {
			start := time.Now()
			if err := fn(ctx, value); err != nil {
				var zero T
				return zero, &Error[T]{
					Path:      []Name{name},
					InputData: value,
					Err:       err,
					Timestamp: time.Now(),
					Duration:  time.Since(start),
					Timeout:   errors.Is(err, context.DeadlineExceeded),
					Canceled:  errors.Is(err, context.Canceled),
				}
			}
			return value, nil
		},
	}
}
