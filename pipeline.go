package framz

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for Pipeline.
const (
	// Metrics.
	PipelineProcessedTotal = metricz.Key("pipeline.processed.total")
	PipelineSuccessesTotal = metricz.Key("pipeline.successes.total")
	PipelineFailuresTotal  = metricz.Key("pipeline.failures.total")
	PipelineStagesTotal    = metricz.Key("pipeline.stages.total")
	PipelineDurationMs     = metricz.Key("pipeline.duration.ms")

	// Spans.
	PipelineProcessSpan = tracez.Key("pipeline.process")
	PipelineStageSpan   = tracez.Key("pipeline.stage")

	// Tags.
	PipelineTagStageCount  = tracez.Tag("pipeline.stage_count")
	PipelineTagStageNumber = tracez.Tag("pipeline.stage_number")
	PipelineTagStageName   = tracez.Tag("pipeline.stage_name")
	PipelineTagSuccess     = tracez.Tag("pipeline.success")
	PipelineTagError       = tracez.Tag("pipeline.error")

	// Hook event keys.
	PipelineEventStageComplete = hookz.Key("pipeline.stage_complete")
	PipelineEventAllComplete   = hookz.Key("pipeline.all_complete")
)

// StageEvent represents a pipeline processing event. It is emitted via
// hookz as each stage completes and once more when every stage has
// finished, providing visibility into pipeline progress.
type StageEvent struct {
	Name            Name          // Pipeline name
	StageName       Name          // Name of the stage
	StageNumber     int           // Stage position (1-based)
	TotalStages     int           // Total number of stages
	Success         bool          // Whether the stage succeeded
	Error           error         // Error if the stage failed
	Duration        time.Duration // How long this stage took
	CompletedStages int           // Stages completed (for all_complete)
	TotalDuration   time.Duration // Total time (for all_complete)
	Timestamp       time.Time     // When the event occurred
}

// telemetry carries the observability state shared by a pipeline and every
// pipeline derived from it through Then. Composition transfers ownership,
// so a chain of Then calls accumulates into one telemetry instance.
type telemetry struct {
	name    Name
	names   []Name
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[StageEvent]
	clock   clockz.Clock
}

func (t *telemetry) getClock() clockz.Clock {
	if t.clock == nil {
		return clockz.RealClock
	}
	return t.clock
}

// staged wraps an attached stage with per-stage spans and events.
type staged[I, O any] struct {
	stage  Stage[I, O]
	tel    *telemetry
	number int
}

func (s staged[I, O]) Process(ctx context.Context, input I) (O, error) {
	clock := s.tel.getClock()

	ctx, span := s.tel.tracer.StartSpan(ctx, PipelineStageSpan)
	span.SetTag(PipelineTagStageNumber, fmt.Sprintf("%d", s.number))
	span.SetTag(PipelineTagStageName, string(s.stage.Name()))

	start := clock.Now()
	result, err := s.stage.Process(ctx, input)
	duration := clock.Since(start)

	if err != nil {
		span.SetTag(PipelineTagSuccess, "false")
		span.SetTag(PipelineTagError, err.Error())
	} else {
		span.SetTag(PipelineTagSuccess, "true")
	}
	span.Finish()

	_ = s.tel.hooks.Emit(ctx, PipelineEventStageComplete, StageEvent{ //nolint:errcheck
		Name:        s.tel.name,
		StageName:   s.stage.Name(),
		StageNumber: s.number,
		TotalStages: len(s.tel.names),
		Success:     err == nil,
		Error:       err,
		Duration:    duration,
		Timestamp:   time.Now(),
	})

	return result, err
}

func (s staged[I, O]) Name() Name {
	return s.stage.Name()
}

// join runs two stages in order, threading the first stage's output into
// the second. The first failure aborts: the second stage never runs and the
// error passes through untouched.
type join[I, M, O any] struct {
	name   Name
	first  Stage[I, M]
	second Stage[M, O]
}

func (j join[I, M, O]) Process(ctx context.Context, input I) (O, error) {
	mid, err := j.first.Process(ctx, input)
	if err != nil {
		var zero O
		return zero, err
	}
	return j.second.Process(ctx, mid)
}

func (j join[I, M, O]) Name() Name {
	return j.name
}

// Pipeline is an ordered, statically composed chain of stages forming one
// end-to-end transformation from I to O. Composition is purely structural:
// it performs no I/O and cannot fail; only stage execution can.
//
// A Pipeline implements Stage[I, O] itself, so pipelines nest inside other
// pipelines the same way plain processors do.
//
// Pipelines are assembled once with New and Then, then executed with
// Process. Then consumes its operands - after Then(p, next) returns, p must
// not be used again. Execution is single-threaded and synchronous; each
// stage owns its data exclusively for the duration of its Process call, and
// ownership transfers fully to the next stage.
//
// # Observability
//
// Pipeline reports through the usual trio:
//
// Metrics:
//   - pipeline.processed.total: counter of Process calls
//   - pipeline.successes.total: counter of full-chain successes
//   - pipeline.failures.total: counter of aborted runs
//   - pipeline.stages.total: gauge of composed stages
//   - pipeline.duration.ms: gauge of last run duration
//
// Traces:
//   - pipeline.process: parent span for the whole run
//   - pipeline.stage: child span per stage
//
// Events (via hooks):
//   - pipeline.stage_complete: fired as each stage completes
//   - pipeline.all_complete: fired when every stage succeeds
type Pipeline[I, O any] struct {
	stage Stage[I, O]
	tel   *telemetry
}

// New starts a pipeline from its first stage.
//
// Example:
//
//	pipeline := framz.New("records", framz.DecodeStage("decode", framz.Decoder{}))
func New[I, O any](name Name, first Stage[I, O]) *Pipeline[I, O] {
	tel := &telemetry{
		name:    name,
		names:   []Name{first.Name()},
		metrics: metricz.New(),
		tracer:  tracez.New(),
		hooks:   hookz.New[StageEvent](),
	}
	tel.metrics.Counter(PipelineProcessedTotal)
	tel.metrics.Counter(PipelineSuccessesTotal)
	tel.metrics.Counter(PipelineFailuresTotal)
	tel.metrics.Gauge(PipelineStagesTotal)
	tel.metrics.Gauge(PipelineDurationMs)

	return &Pipeline[I, O]{
		tel:   tel,
		stage: staged[I, O]{stage: first, tel: tel, number: 1},
	}
}

// Then extends a pipeline ending in M with a stage from M to O, returning
// the pipeline from I to O that runs both in order. Go methods cannot
// introduce new type parameters, so Then is a free function rather than a
// method.
//
// Then consumes both operands: the prior pipeline and the new stage belong
// to the returned pipeline, and the prior pipeline must not be processed or
// extended again.
//
// Example:
//
//	p := framz.New("records", framz.FileSource("read"))
//	decoded := framz.Then(p, framz.DecodeStage("decode", framz.Decoder{}))
//	final := framz.Then(decoded, framz.NormalizeStage("normalize"))
func Then[I, M, O any](p *Pipeline[I, M], next Stage[M, O]) *Pipeline[I, O] {
	tel := p.tel
	number := len(tel.names) + 1
	tel.names = append(tel.names, next.Name())

	return &Pipeline[I, O]{
		tel: tel,
		stage: join[I, M, O]{
			name:   tel.name,
			first:  p.stage,
			second: staged[M, O]{stage: next, tel: tel, number: number},
		},
	}
}

// Process executes the full chain once, threading input through each stage
// in the order it was attached, and returns the final output on success.
//
// The first stage that fails aborts the run immediately: no later stage
// executes and the error reaches the caller unchanged, so errors.Is and
// errors.As find the specific failure (for example *TruncatedRecordError
// with its declared and remaining byte counts). No partial results are
// returned past a failure point.
func (p *Pipeline[I, O]) Process(ctx context.Context, input I) (result O, err error) {
	defer recoverFromPanic(&result, &err, p.tel.name, input)

	if ctx == nil {
		ctx = context.Background()
	}

	clock := p.tel.getClock()
	p.tel.metrics.Counter(PipelineProcessedTotal).Inc()
	p.tel.metrics.Gauge(PipelineStagesTotal).Set(float64(len(p.tel.names)))
	start := clock.Now()

	ctx, span := p.tel.tracer.StartSpan(ctx, PipelineProcessSpan)
	span.SetTag(PipelineTagStageCount, fmt.Sprintf("%d", len(p.tel.names)))
	defer func() {
		elapsed := clock.Since(start)
		p.tel.metrics.Gauge(PipelineDurationMs).Set(float64(elapsed.Milliseconds()))

		if err == nil {
			span.SetTag(PipelineTagSuccess, "true")
			p.tel.metrics.Counter(PipelineSuccessesTotal).Inc()
		} else {
			span.SetTag(PipelineTagSuccess, "false")
			span.SetTag(PipelineTagError, err.Error())
			p.tel.metrics.Counter(PipelineFailuresTotal).Inc()
		}
		span.Finish()
	}()

	result, err = p.stage.Process(ctx, input)
	if err != nil {
		return result, err
	}

	_ = p.tel.hooks.Emit(ctx, PipelineEventAllComplete, StageEvent{ //nolint:errcheck
		Name:            p.tel.name,
		TotalStages:     len(p.tel.names),
		CompletedStages: len(p.tel.names),
		TotalDuration:   clock.Since(start),
		Success:         true,
		Timestamp:       time.Now(),
	})

	return result, nil
}

// Name returns the name of this pipeline.
func (p *Pipeline[I, O]) Name() Name {
	return p.tel.name
}

// Names returns the names of all stages in attach order.
func (p *Pipeline[I, O]) Names() []Name {
	names := make([]Name, len(p.tel.names))
	copy(names, p.tel.names)
	return names
}

// Len returns the number of stages in the pipeline.
func (p *Pipeline[I, O]) Len() int {
	return len(p.tel.names)
}

// WithClock sets a custom clock for testing.
func (p *Pipeline[I, O]) WithClock(clock clockz.Clock) *Pipeline[I, O] {
	p.tel.clock = clock
	return p
}

// Metrics returns the metrics registry for this pipeline.
func (p *Pipeline[I, O]) Metrics() *metricz.Registry {
	return p.tel.metrics
}

// Tracer returns the tracer for this pipeline.
func (p *Pipeline[I, O]) Tracer() *tracez.Tracer {
	return p.tel.tracer
}

// OnStageComplete registers a handler fired as each stage completes,
// success or failure. Handlers run asynchronously.
func (p *Pipeline[I, O]) OnStageComplete(handler func(context.Context, StageEvent) error) error {
	_, err := p.tel.hooks.Hook(PipelineEventStageComplete, handler)
	return err
}

// OnAllComplete registers a handler fired when every stage succeeds.
// Handlers run asynchronously.
func (p *Pipeline[I, O]) OnAllComplete(handler func(context.Context, StageEvent) error) error {
	_, err := p.tel.hooks.Hook(PipelineEventAllComplete, handler)
	return err
}

// Close gracefully shuts down observability components.
func (p *Pipeline[I, O]) Close() error {
	if p.tel.tracer != nil {
		p.tel.tracer.Close()
	}
	p.tel.hooks.Close()
	return nil
}
