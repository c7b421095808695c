package http

import (
	"context"

	"moviepulse/pkg/contracts/domain"
)

// DatasetServiceInterface defines the read operations the handlers need
type DatasetServiceInterface interface {
	Records(ctx context.Context) ([]map[string]interface{}, error)
	Sample(ctx context.Context) ([]map[string]interface{}, error)
	Summary(ctx context.Context) (domain.GenreSummary, error)
	Columns(ctx context.Context) ([]domain.ColumnProfile, error)
	Chart(ctx context.Context) ([]byte, error)
	Workbook(ctx context.Context) ([]byte, error)
	ETag() string
}
