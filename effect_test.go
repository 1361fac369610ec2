package framz

import (
	"context"
	"errors"
	"testing"
)

func TestEffect(t *testing.T) {
	t.Run("Data Passes Through Unchanged", func(t *testing.T) {
		var seen []Record
		probe := Effect("probe", func(_ context.Context, recs []Record) error {
			seen = recs
			return nil
		})

		input := []Record{Record("test")}
		result, err := probe.Process(context.Background(), input)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result) != 1 || string(result[0]) != "test" {
			t.Errorf("expected passthrough, got %v", result)
		}
		if len(seen) != 1 {
			t.Error("expected effect function to observe the data")
		}
	})

	t.Run("Error Stops The Stage", func(t *testing.T) {
		cause := errors.New("validation failed")
		check := Effect("check", func(_ context.Context, _ int) error {
			return cause
		})

		_, err := check.Process(context.Background(), 7)

		var stageErr *Error[int]
		if !errors.As(err, &stageErr) {
			t.Fatalf("expected Error[int], got %v", err)
		}
		if stageErr.InputData != 7 {
			t.Errorf("expected input data 7, got %d", stageErr.InputData)
		}
		if !errors.Is(err, cause) {
			t.Error("expected cause to stay reachable through Unwrap")
		}
	})
}
