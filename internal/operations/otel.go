package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"covidtracker/internal/infrastructure"
)

// OperationTracer opens the run and step spans and records step metrics
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer. Nil arguments fall back to no-ops.
func NewOperationTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *OperationTracer {
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}
}

// Metrics returns the pipeline instruments, possibly nil
func (t *OperationTracer) Metrics() *infrastructure.PipelineMetrics {
	return t.metrics
}

// TraceRun creates the root span of a run
func (t *OperationTracer) TraceRun(ctx context.Context, runID string, steps int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "tracker.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", steps),
		),
	)
}

// TraceStage creates a span for one step
func (t *OperationTracer) TraceStage(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "stage."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("stage.id", step.ID()),
			attribute.String("stage.name", step.Name()),
		),
	)
}

// RecordStageResult closes out a step span and records its metrics
func (t *OperationTracer) RecordStageResult(ctx context.Context, span trace.Span, stageID string, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.Float64("stage.duration_seconds", duration.Seconds()),
		attribute.Bool("stage.success", err == nil),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	t.metrics.RecordStage(ctx, stageID, duration, err)
}

// RecordRunResult sets the final status on the run span
func (t *OperationTracer) RecordRunResult(span trace.Span, state *RunState, err error) {
	span.SetAttributes(
		attribute.String("run.status", string(state.Status)),
		attribute.Int("run.outputs", len(state.Outputs)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}
