package dataprocessing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviepulse/pkg/contracts/domain"
)

func TestSplitLabels(t *testing.T) {
	tests := []struct {
		name string
		cell domain.Cell
		want []string
	}{
		{"single", domain.TextCell("Drama"), []string{"Drama"}},
		{"trimmed", domain.TextCell(" Drama ,  Romance"), []string{"Drama", "Romance"}},
		{"empty parts dropped", domain.TextCell("Drama,,  ,Comedy,"), []string{"Drama", "Comedy"}},
		{"missing", domain.MissingCell(), nil},
		{"only separators", domain.TextCell(" , "), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLabels(tt.cell, ","))
		})
	}
}

func TestExpandCategories(t *testing.T) {
	input := "genre,avg_vote\n" +
		"\"Drama, Romance\",7\n" +
		"Comedy,6\n" +
		"\" Drama ,Comedy,\",5\n" +
		",4\n"
	table := mustRead(t, input)

	exp := ExpandCategories(table, DefaultExpandOptions())

	require.True(t, exp.Expanded)
	assert.Empty(t, exp.Diagnostics)
	assert.Equal(t, []string{"Comedy", "Drama", "Romance"}, exp.Labels)
	assert.Equal(t, []string{"avg_vote", "Comedy", "Drama", "Romance"}, exp.Table.Columns)
	assert.False(t, exp.Table.HasColumn("genre"))

	want := [][]string{
		{"7", "0", "1", "1"},
		{"6", "1", "0", "0"},
		{"5", "1", "1", "0"},
		{"4", "0", "0", "0"},
	}
	assert.Equal(t, want, exp.Table.StringRecords())
}

func TestExpandCategories_IndicatorMatchesLabelSet(t *testing.T) {
	raw := mustRead(t, messyMovies)
	cleaned, _ := Clean(raw, cleanOpts())
	genre := cleaned.ColumnIndex("genre")
	require.GreaterOrEqual(t, genre, 0)

	exp := ExpandCategories(cleaned, DefaultExpandOptions())

	for i, row := range cleaned.Rows {
		labels := map[string]bool{}
		for _, l := range SplitLabels(row[genre], ",") {
			labels[l] = true
		}
		for _, l := range exp.Labels {
			j := exp.Table.ColumnIndex(exp.IndicatorColumns[l])
			require.GreaterOrEqual(t, j, 0)
			cell := exp.Table.Rows[i][j]
			assert.Equal(t, domain.CellIndicator, cell.Kind)
			assert.Equal(t, labels[l], cell.Number == 1, "row %d label %s", i, l)
		}
	}
}

func TestExpandCategories_LabelCollidesWithColumn(t *testing.T) {
	input := "genre,avg_vote,drama\nDrama,7,x\ndrama,6,y\n"

	exp := ExpandCategories(mustRead(t, input), DefaultExpandOptions())

	assert.Equal(t, []string{"Drama", "drama"}, exp.Labels)
	assert.Equal(t, "Drama", exp.IndicatorColumns["Drama"])
	assert.Equal(t, "genre_drama", exp.IndicatorColumns["drama"])
	assert.Equal(t, []string{"avg_vote", "drama", "Drama", "genre_drama"}, exp.Table.Columns)
	require.Len(t, exp.Diagnostics, 1)
}

func TestExpandCategories_MissingField(t *testing.T) {
	table := mustRead(t, "avg_vote\n7\n")

	exp := ExpandCategories(table, DefaultExpandOptions())

	assert.False(t, exp.Expanded)
	assert.Empty(t, exp.Labels)
	assert.Equal(t, table.Columns, exp.Table.Columns)
	require.Len(t, exp.Diagnostics, 1)
	assert.Equal(t, "genre", exp.Diagnostics[0].Column)
}

func TestExpandCategories_CustomDelimiter(t *testing.T) {
	table := mustRead(t, "tags,avg_vote\nA|B,7\n")

	exp := ExpandCategories(table, ExpandOptions{Field: "tags", Delimiter: "|"})

	assert.Equal(t, []string{"A", "B"}, exp.Labels)
	assert.Equal(t, [][]string{{"7", "1", "1"}}, exp.Table.StringRecords())
}

func TestExpandCategories_DoesNotMutateInput(t *testing.T) {
	table := mustRead(t, "genre,avg_vote\nA,1\n")
	cols := strings.Join(table.Columns, ",")

	ExpandCategories(table, DefaultExpandOptions())

	assert.Equal(t, cols, strings.Join(table.Columns, ","))
	assert.Equal(t, domain.TextCell("A"), table.Rows[0][0])
}
