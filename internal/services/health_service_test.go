package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviepulse/internal/shared/testutil"
	"moviepulse/pkg/contracts"
)

func TestHealthService_HealthCheck(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", nil, logger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
	assert.True(t, logs.ContainsMessage("HealthService initialized"))
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name        string
		dataset     func(t *testing.T) *Dataset
		wantStatus  string
		wantDataset string
		wantChart   string
	}{
		{
			name:        "no dataset",
			dataset:     func(*testing.T) *Dataset { return nil },
			wantStatus:  StatusNotReady,
			wantDataset: StatusNotReady,
			wantChart:   StatusNotReady,
		},
		{
			name:        "dataset without chart",
			dataset:     func(t *testing.T) *Dataset { return buildDataset(t, DatasetInput{}) },
			wantStatus:  StatusReady,
			wantDataset: StatusReady,
			wantChart:   StatusNotReady,
		},
		{
			name:        "dataset with chart",
			dataset:     func(t *testing.T) *Dataset { return buildDataset(t, DatasetInput{Chart: []byte("png")}) },
			wantStatus:  StatusReady,
			wantDataset: StatusReady,
			wantChart:   StatusReady,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			hs := NewHealthService("test", NewDatasetService(tt.dataset(t), logger), logger)

			status := hs.ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantDataset, status.Services["dataset"].Status)
			assert.Equal(t, tt.wantChart, status.Services["chart"].Status)
		})
	}
}

func TestHealthService_ReadinessCheck_NilService(t *testing.T) {
	hs := NewHealthService("test", nil, nil)
	assert.Equal(t, StatusNotReady, hs.ReadinessCheck(context.Background()).Status)
}

func TestHealthService_LivenessCheck(t *testing.T) {
	hs := NewHealthService("test", nil, nil)

	status := hs.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, status.Status)
	require.NotNil(t, status.Runtime)
	assert.Greater(t, status.Runtime.Goroutines, 0)
	assert.Nil(t, status.Services)
}

func TestHealthService_Version(t *testing.T) {
	hs := NewHealthServiceWithBuildInfo("1.0.0", "2026-01-01T00:00:00Z", "abc123", nil, nil)

	v := hs.Version()
	assert.Equal(t, "1.0.0", v["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", v["build_time"])
	assert.Equal(t, "abc123", v["build_id"])
	assert.Contains(t, v, "go_version")
	assert.Equal(t, contracts.GitCommit, v["git_commit"])

	bare := NewHealthService("1.0.0", nil, nil).Version()
	assert.NotContains(t, bare, "build_time")
	assert.NotContains(t, bare, "build_id")
}

func TestHealthService_DatasetStats(t *testing.T) {
	ds := buildDataset(t, DatasetInput{CSV: []byte("x")})
	hs := NewHealthService("test", NewDatasetService(ds, nil), nil)

	stats, err := hs.DatasetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Rows)
	assert.Equal(t, ds.LoadReport().RowsRead, stats.RowsRead)
	assert.GreaterOrEqual(t, stats.RowsRead, stats.Rows)
	assert.Equal(t, len(ds.Columns()), stats.Columns)
	assert.Equal(t, 3, stats.Genres)
	assert.Equal(t, 0, stats.UndefinedGenres)
	assert.Equal(t, 1, stats.MonetaryImputed)
	assert.Equal(t, ds.ETag(), stats.ETag)

	_, err = NewHealthService("test", nil, nil).DatasetStats(context.Background())
	assert.ErrorIs(t, err, ErrDatasetNotLoaded)
}
