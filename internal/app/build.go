package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"moviepulse/internal/chart"
	"moviepulse/internal/config"
	"moviepulse/internal/dataprocessing"
	"moviepulse/internal/errors"
	"moviepulse/internal/exporter"
	"moviepulse/internal/infrastructure"
	"moviepulse/internal/validation"
	"moviepulse/pkg/contracts/domain"
)

// Artifact kinds used in logs and metrics
const (
	ArtifactCSV      = "csv"
	ArtifactChart    = "chart"
	ArtifactWorkbook = "xlsx"
)

// Artifacts is the in-memory output of one dataset build
type Artifacts struct {
	Result   *domain.PipelineResult
	CSV      []byte
	Chart    []byte
	Workbook []byte
}

// Builder loads the source CSV, runs the pipeline and writes the artifacts
type Builder struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	metrics   *infrastructure.BusinessMetrics
	validator *validation.FileValidator
}

// NewBuilder creates a builder. metrics may be nil.
func NewBuilder(cfg *config.Config, paths *config.Paths, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:       cfg,
		paths:     paths,
		logger:    infrastructure.WithComponent(logger, "builder"),
		metrics:   metrics,
		validator: validation.NewFileValidator(logger),
	}
}

// PipelineOptions maps the dataset config onto pipeline options. Column
// names are normalised the way the loader normalises the header.
func (b *Builder) PipelineOptions() dataprocessing.Options {
	ds := b.cfg.Dataset
	drop := make([]string, len(ds.DropColumns))
	for i, name := range ds.DropColumns {
		drop[i] = dataprocessing.NormalizeColumnName(name)
	}

	return dataprocessing.Options{
		Clean: dataprocessing.CleanOptions{
			DropColumns:        drop,
			MonetaryColumn:     dataprocessing.NormalizeColumnName(ds.MonetaryColumn),
			ImputeNumericMeans: ds.ImputeMeans,
		},
		Expand: dataprocessing.ExpandOptions{
			Field:     dataprocessing.NormalizeColumnName(ds.CategoryColumn),
			Delimiter: ds.CategoryDelimiter,
		},
		RatingColumn: dataprocessing.NormalizeColumnName(ds.RatingColumn),
		Logger:       b.logger,
	}
}

// Build runs the whole startup sequence. Input and pipeline failures are
// fatal, as is any artifact write. A chart or workbook that cannot be
// rendered is logged and left out.
func (b *Builder) Build(ctx context.Context) (*Artifacts, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	started := time.Now()
	art, err := b.build(ctx)

	rows := 0
	if art != nil {
		rows = art.Result.Table.Len()
	}
	infrastructure.RecordDatasetBuild(ctx, b.metrics, rows, err)

	if err != nil {
		b.logger.ErrorContext(ctx, "Dataset build failed",
			slog.String("source", b.paths.SourceFile),
			slog.String("error", err.Error()))
		return nil, err
	}

	b.logger.InfoContext(ctx, "Dataset build completed",
		slog.Int("rows", rows),
		slog.Int("csv_bytes", len(art.CSV)),
		slog.Bool("chart", len(art.Chart) > 0),
		slog.Bool("workbook", len(art.Workbook) > 0),
		slog.Duration("duration", time.Since(started)))
	return art, nil
}

func (b *Builder) build(ctx context.Context) (*Artifacts, error) {
	ds := b.cfg.Dataset

	if err := b.validator.ValidateCSVFile(b.paths.SourceFile); err != nil {
		return nil, err
	}
	if _, err := b.validator.MissingColumns(b.paths.SourceFile,
		[]string{ds.MonetaryColumn, ds.CategoryColumn, ds.RatingColumn}); err != nil {
		return nil, err
	}

	raw, load, err := dataprocessing.LoadFile(b.paths.SourceFile)
	if err != nil {
		return nil, err
	}

	result, err := dataprocessing.Run(ctx, raw, load, b.PipelineOptions())
	if err != nil {
		return nil, err
	}

	art := &Artifacts{Result: result}
	art.CSV, err = exporter.EncodeTable(result.Table, ds.WriteBOM)
	if err != nil {
		return nil, errors.NewRenderError("failed to encode cleaned dataset", err)
	}

	renderer := chart.NewRenderer(chart.Options{TopN: ds.ChartTopN}, b.logger)
	art.Chart, err = renderer.RenderPNG(result.Summary)
	if err != nil {
		b.logger.WarnContext(ctx, "Chart not rendered", slog.String("error", err.Error()))
		infrastructure.RecordArtifact(ctx, b.metrics, ArtifactChart, 0, err)
		art.Chart = nil
	}

	art.Workbook, err = exporter.NewSummaryWorkbook(b.logger).Bytes(result.Summary, result.Profile)
	if err != nil {
		b.logger.WarnContext(ctx, "Summary workbook not rendered", slog.String("error", err.Error()))
		infrastructure.RecordArtifact(ctx, b.metrics, ArtifactWorkbook, 0, err)
		art.Workbook = nil
	}

	if err := b.writeArtifacts(ctx, art); err != nil {
		return nil, err
	}
	return art, nil
}

// writeArtifacts writes the CSV, chart and workbook concurrently
func (b *Builder) writeArtifacts(ctx context.Context, art *Artifacts) error {
	if err := b.paths.EnsureDirectories(); err != nil {
		return errors.NewStorageError("failed to prepare artifact directories", err)
	}
	seen := make(map[string]bool)
	for _, dir := range []string{filepath.Dir(b.paths.CleanedCSV), b.paths.StaticDir} {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := b.validator.ValidateOutputDirectory(dir); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	csvWriter := exporter.NewCSVWriter(b.paths, b.logger)

	g.Go(func() error {
		err := csvWriter.WriteTable(b.paths.CleanedCSV, art.Result.Table, b.cfg.Dataset.WriteBOM)
		infrastructure.RecordArtifact(gctx, b.metrics, ArtifactCSV, len(art.CSV), err)
		if err != nil {
			return errors.NewStorageError("failed to write cleaned dataset", err).WithContext("path", b.paths.CleanedCSV)
		}
		return nil
	})

	if len(art.Chart) > 0 {
		g.Go(func() error {
			return b.writeFile(gctx, ArtifactChart, b.paths.ChartFile, art.Chart)
		})
	}

	if len(art.Workbook) > 0 && b.paths.SummaryXLSX != "" {
		g.Go(func() error {
			return b.writeFile(gctx, ArtifactWorkbook, b.paths.SummaryXLSX, art.Workbook)
		})
	}

	return g.Wait()
}

func (b *Builder) writeFile(ctx context.Context, kind, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.WriteFile(path, data, 0644)
	infrastructure.RecordArtifact(ctx, b.metrics, kind, len(data), err)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to write %s artifact", kind), err).WithContext("path", path)
	}

	b.logger.InfoContext(ctx, "Artifact written",
		slog.String("artifact", kind),
		slog.String("path", path),
		slog.Int("bytes", len(data)))
	return nil
}
