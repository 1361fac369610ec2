package framz

import (
	"context"
)

// Transform creates a Processor that applies a pure transformation from I
// to O. The function cannot fail, making Transform ideal for data shaping
// that always succeeds: filtering a record set, case mapping, field
// restructuring.
//
// If the transformation might fail, use Apply instead.
//
// Example:
//
//	normalize := framz.Transform("normalize", func(_ context.Context, recs []framz.Record) []framz.Record {
//	    return framz.Normalize(recs)
//	})
func Transform[I, O any](name Name, fn func(context.Context, I) O) Processor[I, O] {
	return Processor[I, O]{
		name: name,
		fn: func(ctx context.Context, input I) (O, error) {
			return fn(ctx, input), nil
		},
	}
}
