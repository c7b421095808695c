package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "moviepulse/internal/errors"
	"moviepulse/internal/shared/testutil"
	"moviepulse/pkg/contracts/domain"
)

func runPipeline(t *testing.T, input string, opts Options) (*domain.PipelineResult, *testutil.BufferedSlogHandler, error) {
	t.Helper()
	raw, report, err := ReadTable(strings.NewReader(input), "movies.csv")
	require.NoError(t, err)

	logger, logs := testutil.NewTestLogger(t)
	opts.Logger = logger
	result, err := Run(context.Background(), raw, report, opts)
	return result, logs, err
}

func TestRun(t *testing.T) {
	opts := DefaultOptions()
	opts.Clean = cleanOpts()

	result, logs, err := runPipeline(t, messyMovies, opts)
	require.NoError(t, err)

	assert.Equal(t, 5, result.Table.Len())
	assert.False(t, result.Table.HasColumn("genre"))
	assert.False(t, result.Table.HasColumn("title"))
	assert.Equal(t, []string{"avg_vote", "budget", "duration", "Comedy", "Drama", "Horror", "Romance"}, result.Table.Columns)

	// Drama: 7.5, 8.0, 5.5; Comedy: 6.0, 5.5; Horror: 4.0; Romance: 7.5
	assert.Equal(t, []string{"Romance", "Drama", "Comedy", "Horror"}, result.Summary.Labels())
	assert.InDelta(t, 7.0, result.Summary.Ranked[1].Mean, 1e-9)
	assert.InDelta(t, 5.75, result.Summary.Ranked[2].Mean, 1e-9)

	require.Len(t, result.Profile, len(result.Table.Columns))
	assert.Equal(t, "indicator", result.Profile[3].Kind)
	assert.Equal(t, "number", result.Profile[1].Kind)

	assert.False(t, result.CompletedAt.IsZero())
	assert.True(t, logs.ContainsMessage("pipeline completed"))
	testutil.AssertNoErrors(t, logs)
}

func TestRun_MissingCategoryFieldIsNotFatal(t *testing.T) {
	result, logs, err := runPipeline(t, "avg_vote,budget\n7,$ 10\n", DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, result.Summary.Ranked)
	require.NotEmpty(t, result.Diagnostics)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "category field not found")
}

func TestRun_MissingRatingColumn(t *testing.T) {
	_, logs, err := runPipeline(t, "genre,budget\nDrama,$ 10\n", DefaultOptions())

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeSchema))
	testutil.AssertLogContains(t, logs, slog.LevelError, "aggregation failed")
}

func TestRun_CancelledContext(t *testing.T) {
	raw, report, err := ReadTable(strings.NewReader("genre,avg_vote\nA,1\n"), "x.csv")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Run(ctx, raw, report, DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_NilTable(t *testing.T) {
	_, err := Run(context.Background(), nil, domain.LoadReport{}, DefaultOptions())
	assert.Error(t, err)
}

func TestProfileColumns(t *testing.T) {
	table := domain.NewTable("a", "b", "c", "d")
	table.Rows = []domain.Row{
		{domain.NumberCell(1), domain.TextCell("x"), domain.IndicatorCell(true), domain.MissingCell()},
		{domain.MissingCell(), domain.NumberCell(2), domain.IndicatorCell(false), domain.MissingCell()},
	}

	profiles := ProfileColumns(table)

	want := []domain.ColumnProfile{
		{Name: "a", Kind: "number", Missing: 1, Numeric: 1},
		{Name: "b", Kind: "text", Numeric: 1, Text: 1},
		{Name: "c", Kind: "indicator", Numeric: 2},
		{Name: "d", Kind: "missing", Missing: 2},
	}
	assert.Equal(t, want, profiles)
}
