package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moviepulse/pkg/contracts/domain"
)

const stageProfile = "profile"

// Options configures a pipeline run
type Options struct {
	Clean        CleanOptions
	Expand       ExpandOptions
	RatingColumn string
	Logger       *slog.Logger
}

// DefaultOptions returns the options for the IMDb movies dataset
func DefaultOptions() Options {
	return Options{
		Clean:        DefaultCleanOptions(),
		Expand:       DefaultExpandOptions(),
		RatingColumn: "avg_vote",
	}
}

// Run cleans and expands a loaded table and aggregates the rating per label.
// The input table is left untouched. Only a missing rating column or a
// cancelled context stops the run.
func Run(ctx context.Context, raw *domain.Table, load domain.LoadReport, opts Options) (*domain.PipelineResult, error) {
	if raw == nil {
		return nil, fmt.Errorf("pipeline: nil table")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "pipeline"))

	tracer, err := NewStageTracer()
	if err != nil {
		return nil, err
	}

	result := &domain.PipelineResult{Load: load}
	result.Diagnostics = append(result.Diagnostics, load.Diagnostics...)

	logger.InfoContext(ctx, "pipeline started",
		slog.String("source", load.Source),
		slog.Int("rows", raw.Len()),
		slog.Int("columns", len(raw.Columns)),
		slog.Int("ragged_rows", load.RaggedRows))

	// Clean
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	stageCtx, span := tracer.StartStage(ctx, stageClean, raw.Len())
	cleaned, cleanReport := Clean(raw, opts.Clean)
	tracer.EndStage(stageCtx, span, stageClean, started, cleaned.Len(), len(cleanReport.Diagnostics), nil)
	result.Clean = cleanReport
	result.Diagnostics = append(result.Diagnostics, cleanReport.Diagnostics...)
	logDiagnostics(ctx, logger, cleanReport.Diagnostics)

	logger.InfoContext(ctx, "dataset cleaned",
		slog.Int("rows_in", cleanReport.RowsIn),
		slog.Int("rows_out", cleanReport.RowsOut),
		slog.Int("duplicates_removed", cleanReport.DuplicatesRemoved),
		slog.Int("monetary_coerced", cleanReport.MonetaryCoerced),
		slog.Int("monetary_imputed", cleanReport.MonetaryImputed),
		slog.Float64("monetary_median", cleanReport.MonetaryMedian),
		slog.Duration("duration", time.Since(started)))

	// Expand
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started = time.Now()
	stageCtx, span = tracer.StartStage(ctx, stageExpand, cleaned.Len())
	expansion := ExpandCategories(cleaned, opts.Expand)
	tracer.EndStage(stageCtx, span, stageExpand, started, expansion.Table.Len(), len(expansion.Diagnostics), nil)
	result.Expansion = expansion
	result.Table = expansion.Table
	result.Diagnostics = append(result.Diagnostics, expansion.Diagnostics...)
	logDiagnostics(ctx, logger, expansion.Diagnostics)

	logger.InfoContext(ctx, "categories expanded",
		slog.String("field", expansion.Field),
		slog.Bool("expanded", expansion.Expanded),
		slog.Int("labels", len(expansion.Labels)))

	// Aggregate
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started = time.Now()
	stageCtx, span = tracer.StartStage(ctx, stageAggregate, expansion.Table.Len())
	summary, err := AggregateByCategory(expansion, opts.RatingColumn)
	tracer.EndStage(stageCtx, span, stageAggregate, started, len(summary.Ranked), 0, err)
	if err != nil {
		logger.ErrorContext(ctx, "aggregation failed",
			slog.String("rating_column", opts.RatingColumn),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("aggregate ratings: %w", err)
	}
	result.Summary = summary

	if len(summary.Undefined) > 0 {
		logger.WarnContext(ctx, "labels without rated rows excluded from summary",
			slog.Any("labels", summary.Undefined))
	}

	// Profile
	started = time.Now()
	stageCtx, span = tracer.StartStage(ctx, stageProfile, expansion.Table.Len())
	result.Profile = ProfileColumns(expansion.Table)
	tracer.EndStage(stageCtx, span, stageProfile, started, len(result.Profile), 0, nil)

	result.CompletedAt = time.Now().UTC()

	logger.InfoContext(ctx, "pipeline completed",
		slog.Int("rows", result.Table.Len()),
		slog.Int("columns", len(result.Table.Columns)),
		slog.Int("ranked_labels", len(summary.Ranked)),
		slog.Int("diagnostics", len(result.Diagnostics)))

	return result, nil
}

func logDiagnostics(ctx context.Context, logger *slog.Logger, diags []domain.Diagnostic) {
	for _, d := range diags {
		logger.WarnContext(ctx, d.Message,
			slog.String("stage", d.Stage),
			slog.String("column", d.Column))
	}
}
