package services

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"

	"moviepulse/pkg/contracts/domain"
)

// DatasetInput carries everything produced at startup that the dataset
// handle serves afterwards
type DatasetInput struct {
	Result *domain.PipelineResult
	// CSV is the encoded cleaned table, used for the content fingerprint
	CSV        []byte
	Chart      []byte
	Workbook   []byte
	SampleSize int
}

// Dataset is the read-only view of a processed dataset. It is built once
// and shared by all handlers without locking.
type Dataset struct {
	records  []map[string]interface{}
	sample   []map[string]interface{}
	columns  []string
	chart    []byte
	workbook []byte
	summary  domain.GenreSummary
	profile  []domain.ColumnProfile
	clean    domain.CleanReport
	load     domain.LoadReport
	etag     string
	builtAt  time.Time
}

// NewDataset materialises the row objects once and fingerprints the
// cleaned CSV bytes
func NewDataset(in DatasetInput) (*Dataset, error) {
	if in.Result == nil || in.Result.Table == nil {
		return nil, fmt.Errorf("dataset: missing pipeline result")
	}
	if in.SampleSize < 1 {
		return nil, fmt.Errorf("dataset: sample size must be positive, got %d", in.SampleSize)
	}

	t := in.Result.Table
	records := t.Records()
	n := in.SampleSize
	if n > len(records) {
		n = len(records)
	}

	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	builtAt := in.Result.CompletedAt
	if builtAt.IsZero() {
		builtAt = time.Now()
	}

	return &Dataset{
		records:  records,
		sample:   records[:n:n],
		columns:  columns,
		chart:    in.Chart,
		workbook: in.Workbook,
		summary:  in.Result.Summary,
		profile:  in.Result.Profile,
		clean:    in.Result.Clean,
		load:     in.Result.Load,
		etag:     Fingerprint(in.CSV),
		builtAt:  builtAt,
	}, nil
}

// Fingerprint returns a weak ETag built from the BLAKE2b-256 digest of b.
// The tag is weak because /data is served both gzip-compressed and as is,
// and the two byte streams share it.
func Fingerprint(b []byte) string {
	sum := blake2b.Sum256(b)
	return `W/"` + hex.EncodeToString(sum[:16]) + `"`
}

func (d *Dataset) Len() int                          { return len(d.records) }
func (d *Dataset) Columns() []string                 { return d.columns }
func (d *Dataset) Records() []map[string]interface{} { return d.records }
func (d *Dataset) Sample() []map[string]interface{}  { return d.sample }
func (d *Dataset) Summary() domain.GenreSummary      { return d.summary }
func (d *Dataset) Profile() []domain.ColumnProfile   { return d.profile }
func (d *Dataset) CleanReport() domain.CleanReport   { return d.clean }
func (d *Dataset) LoadReport() domain.LoadReport     { return d.load }
func (d *Dataset) ETag() string                      { return d.etag }
func (d *Dataset) BuiltAt() time.Time                { return d.builtAt }
func (d *Dataset) HasChart() bool                    { return len(d.chart) > 0 }
func (d *Dataset) ChartPNG() []byte                  { return d.chart }
func (d *Dataset) WorkbookXLSX() []byte              { return d.workbook }

// DatasetService exposes the dataset handle to the HTTP layer
type DatasetService struct {
	dataset *Dataset
	logger  *slog.Logger
}

// NewDatasetService wraps a built dataset. A nil dataset yields a service
// that reports ErrDatasetNotLoaded on every call.
func NewDatasetService(dataset *Dataset, logger *slog.Logger) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dataset_service"))

	if dataset != nil {
		logger.Info("dataset service initialized",
			slog.Int("rows", dataset.Len()),
			slog.Int("columns", len(dataset.Columns())),
			slog.Int("sample_rows", len(dataset.Sample())),
			slog.Bool("chart", dataset.HasChart()),
			slog.String("etag", dataset.ETag()))
	}

	return &DatasetService{
		dataset: dataset,
		logger:  logger,
	}
}

// Dataset returns the underlying handle, nil when nothing was loaded
func (s *DatasetService) Dataset() *Dataset {
	return s.dataset
}

// Records returns every cleaned row as a JSON object
func (s *DatasetService) Records(ctx context.Context) ([]map[string]interface{}, error) {
	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	s.logger.DebugContext(ctx, "serving records", slog.Int("rows", s.dataset.Len()))
	return s.dataset.Records(), nil
}

// Sample returns the first min(SampleSize, n) rows
func (s *DatasetService) Sample(ctx context.Context) ([]map[string]interface{}, error) {
	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.dataset.Sample(), nil
}

// Summary returns the ranked per-genre averages
func (s *DatasetService) Summary(ctx context.Context) (domain.GenreSummary, error) {
	if s.dataset == nil {
		return domain.GenreSummary{}, ErrDatasetNotLoaded
	}
	return s.dataset.Summary(), nil
}

// Columns returns the inferred column profile
func (s *DatasetService) Columns(ctx context.Context) ([]domain.ColumnProfile, error) {
	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.dataset.Profile(), nil
}

// Chart returns the rendered PNG
func (s *DatasetService) Chart(ctx context.Context) ([]byte, error) {
	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	if !s.dataset.HasChart() {
		return nil, ErrChartNotRendered
	}
	return s.dataset.ChartPNG(), nil
}

// Workbook returns the summary workbook bytes
func (s *DatasetService) Workbook(ctx context.Context) ([]byte, error) {
	if s.dataset == nil {
		return nil, ErrDatasetNotLoaded
	}
	if len(s.dataset.WorkbookXLSX()) == 0 {
		return nil, ErrWorkbookNotBuilt
	}
	return s.dataset.WorkbookXLSX(), nil
}

// ETag returns the dataset fingerprint, empty when nothing was loaded
func (s *DatasetService) ETag() string {
	if s.dataset == nil {
		return ""
	}
	return s.dataset.ETag()
}
