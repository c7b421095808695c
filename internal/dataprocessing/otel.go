package dataprocessing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "moviepulse.dataprocessing"
)

// StageTracer instruments pipeline stages with spans and metrics. It uses the
// global providers, so it records nothing until OpenTelemetry is initialized.
type StageTracer struct {
	tracer        trace.Tracer
	stageDuration metric.Float64Histogram
	stageRuns     metric.Int64Counter
	rowsOut       metric.Int64Counter
	diagnostics   metric.Int64Counter
}

// NewStageTracer creates a tracer bound to the global tracer and meter providers
func NewStageTracer() (*StageTracer, error) {
	meter := otel.Meter(TracerName)

	stageDuration, err := meter.Float64Histogram(
		"pipeline_stage_duration_seconds",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage duration histogram: %w", err)
	}

	stageRuns, err := meter.Int64Counter(
		"pipeline_stage_runs_total",
		metric.WithDescription("Total number of pipeline stage executions"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage runs counter: %w", err)
	}

	rowsOut, err := meter.Int64Counter(
		"pipeline_rows_total",
		metric.WithDescription("Rows produced by each pipeline stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}

	diagnostics, err := meter.Int64Counter(
		"pipeline_diagnostics_total",
		metric.WithDescription("Non-fatal diagnostics emitted by pipeline stages"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create diagnostics counter: %w", err)
	}

	return &StageTracer{
		tracer:        otel.Tracer(TracerName),
		stageDuration: stageDuration,
		stageRuns:     stageRuns,
		rowsOut:       rowsOut,
		diagnostics:   diagnostics,
	}, nil
}

// StartStage opens a span for one stage
func (st *StageTracer) StartStage(ctx context.Context, stage string, rowsIn int) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline.stage."+stage,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.stage", stage),
			attribute.Int("pipeline.rows_in", rowsIn),
		),
	)
}

// EndStage records the stage outcome and closes the span
func (st *StageTracer) EndStage(ctx context.Context, span trace.Span, stage string, started time.Time, rowsOut, diagnostics int, err error) {
	status := "success"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.SetAttributes(
		attribute.Int("pipeline.rows_out", rowsOut),
		attribute.Int("pipeline.diagnostics", diagnostics),
	)

	attrs := metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	)
	st.stageRuns.Add(ctx, 1, attrs)
	st.stageDuration.Record(ctx, time.Since(started).Seconds(), attrs)
	st.rowsOut.Add(ctx, int64(rowsOut), metric.WithAttributes(attribute.String("stage", stage)))
	if diagnostics > 0 {
		st.diagnostics.Add(ctx, int64(diagnostics), metric.WithAttributes(attribute.String("stage", stage)))
	}

	span.End()
}
