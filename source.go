package framz

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ErrSourceUnavailable marks a byte source that could not be read. It wraps
// the underlying cause, so errors.Is(err, ErrSourceUnavailable) holds for
// any source failure surfaced through a pipeline.
var ErrSourceUnavailable = errors.New("source unavailable")

// FileSource returns a stage that reads the entire file named by its input
// into memory. The core operates on fully materialized buffers, so the read
// completes before any downstream stage runs; there is no partial or
// streaming read.
//
// A failed read fails the stage with ErrSourceUnavailable wrapping the
// underlying os error.
func FileSource(name Name) Processor[string, []byte] {
	return Apply(name, func(_ context.Context, path string) ([]byte, error) {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		return buf, nil
	})
}
