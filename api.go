// Package framz provides a lightweight, type-safe library for building
// composable record-processing pipelines in Go.
//
// # Overview
//
// framz turns a flat byte buffer of length-prefixed binary records into a
// typed, testable processing chain. Each stage consumes one input type and
// produces one output type, and stages compose only when those types line
// up, so an ill-formed pipeline is a compile error rather than a runtime
// surprise.
//
// # Core Concepts
//
// The library is built around a single interface:
//
//	type Stage[I, O any] interface {
//	    Process(context.Context, I) (O, error)
//	    Name() Name
//	}
//
// Key components:
//   - Stages: individual processing steps created with adapter functions
//     (Transform, Apply, Effect)
//   - Pipeline: a linear, statically typed chain of stages built with New
//     and Then
//   - Frame codec: Decode/Encode for the length-prefixed wire format, plus
//     DecodeStage to use the codec inside a pipeline
//
// Execution follows a fail-fast pattern: the first stage that returns an
// error aborts the whole pipeline and the error reaches the caller
// unchanged. Context support provides cancellation across the chain.
//
// # Quick Start
//
//	decode := framz.DecodeStage("decode", framz.Decoder{})
//	normalize := framz.NormalizeStage("normalize")
//
//	pipeline := framz.Then(
//	    framz.New("records", framz.FileSource("read")),
//	    decode,
//	)
//	final := framz.Then(pipeline, normalize)
//
//	records, err := final.Process(context.Background(), "input.bin")
//	// records: uppercased text payloads, in file order
//
// # Error Handling
//
// Stage failures are wrapped in Error[I], which records the stage path,
// the input that caused the failure, and timing information. The wrapped
// cause is always reachable through errors.Is and errors.As, so framing
// failures surface with their diagnostic payloads intact:
//
//	_, err := final.Process(ctx, path)
//	var trunc *framz.TruncatedRecordError
//	if errors.As(err, &trunc) {
//	    log.Printf("frame declared %d bytes, only %d remain",
//	        trunc.Declared, trunc.Remaining)
//	}
package framz

import "context"

// Name identifies stages and pipelines in error paths, spans, and events.
// Using this type encourages storing names as constants rather than
// scattering inline strings.
type Name = string

// Stage is the unit of computation: a named, fallible transformation from
// I to O. Every adapter-built processor and every Pipeline implements
// Stage, which is what makes the whole library compose.
//
// Implementations must not panic on malformed input; malformed input is a
// reportable error. A stage owns its input exclusively for the duration of
// Process and must not retain references into it after returning.
type Stage[I, O any] interface {
	Process(context.Context, I) (O, error)
	Name() Name
}

// Processor is the concrete named stage created by the adapter functions
// Apply, Transform, and Effect. The fn field is intentionally private so
// processors are only created through the adapters, keeping error wrapping
// and diagnostics consistent.
type Processor[I, O any] struct {
	fn   func(context.Context, I) (O, error)
	name Name
}

// Process implements the Stage interface, allowing individual processors
// to be used directly or composed into pipelines.
func (p Processor[I, O]) Process(ctx context.Context, input I) (O, error) {
	return p.fn(ctx, input)
}

// Name returns the name of the processor for debugging and error reporting.
func (p Processor[I, O]) Name() Name {
	return p.name
}
