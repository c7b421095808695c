package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "moviepulse/internal/errors"
	"moviepulse/internal/shared/testutil"
)

func TestBuilder_PipelineOptions(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Dataset.CategoryColumn = "tags"
	cfg.Dataset.CategoryDelimiter = "|"
	cfg.Dataset.ImputeMeans = false
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	opts := NewBuilder(cfg, paths, nil, nil).PipelineOptions()
	assert.Equal(t, "tags", opts.Expand.Field)
	assert.Equal(t, "|", opts.Expand.Delimiter)
	assert.Equal(t, "budget", opts.Clean.MonetaryColumn)
	assert.False(t, opts.Clean.ImputeNumericMeans)
	assert.Equal(t, "avg_vote", opts.RatingColumn)
	assert.Contains(t, opts.Clean.DropColumns, "title")
	assert.NotNil(t, opts.Logger)
}

func TestBuilder_PipelineOptions_NormalizesColumnNames(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Dataset.RatingColumn = "Avg Vote"
	cfg.Dataset.MonetaryColumn = " Budget "
	cfg.Dataset.CategoryColumn = "GENRE"
	cfg.Dataset.DropColumns = []string{"IMDb Title-ID", "Title"}
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	opts := NewBuilder(cfg, paths, nil, nil).PipelineOptions()
	assert.Equal(t, "avg_vote", opts.RatingColumn)
	assert.Equal(t, "budget", opts.Clean.MonetaryColumn)
	assert.Equal(t, "genre", opts.Expand.Field)
	assert.Equal(t, []string{"imdb_title_id", "title"}, opts.Clean.DropColumns)
}

func TestBuilder_Build_ConfiguredColumnSpelling(t *testing.T) {
	cfg := testConfig(t, moviesCSV)
	cfg.Dataset.RatingColumn = "Avg Vote"
	cfg.Dataset.MonetaryColumn = "Budget"
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	art, err := NewBuilder(cfg, paths, nil, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, art.Result.Table.Len())
	assert.NotEmpty(t, art.Result.Summary.Ranked)
}

func TestBuilder_Build(t *testing.T) {
	cfg := testConfig(t, moviesCSV)
	cfg.Dataset.SummaryXLSXPath = ""
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	logger, logs := testutil.NewTestLogger(t)

	art, err := NewBuilder(cfg, paths, logger, nil).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, art.Result.Table.Len())
	assert.NotEmpty(t, art.CSV)
	assert.NotEmpty(t, art.Chart)
	// rendered for the endpoint even when no file is configured
	assert.NotEmpty(t, art.Workbook)

	written, err := os.ReadFile(paths.CleanedCSV)
	require.NoError(t, err)
	assert.Equal(t, art.CSV, written)

	entries, err := os.ReadDir(paths.BaseDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, ".xlsx", filepath.Ext(e.Name()))
	}

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "Dataset build completed")
	testutil.AssertLogAttr(t, logs, "artifact", ArtifactChart)
}

func TestBuilder_BOM(t *testing.T) {
	cfg := testConfig(t, moviesCSV)
	cfg.Dataset.WriteBOM = true
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	art, err := NewBuilder(cfg, paths, nil, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("\xef\xbb\xbf"), art.CSV[:3])
}

func TestBuilder_WriteFailure(t *testing.T) {
	cfg := testConfig(t, moviesCSV)
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	// a regular file where the static directory should be
	require.NoError(t, os.WriteFile(paths.StaticDir, []byte("x"), 0644))

	logger, logs := testutil.NewTestLogger(t)
	art, err := NewBuilder(cfg, paths, logger, nil).Build(context.Background())
	require.Error(t, err)
	assert.Nil(t, art)
	assert.True(t, apierrors.IsType(err, apierrors.ErrTypeStorage), "got %v", err)
	assert.True(t, logs.ContainsMessage("Dataset build failed"))
}

func TestBuilder_Cancelled(t *testing.T) {
	cfg := testConfig(t, moviesCSV)
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewBuilder(cfg, paths, nil, nil).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
