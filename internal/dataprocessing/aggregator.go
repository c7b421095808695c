package dataprocessing

import (
	"sort"

	"github.com/montanaflynn/stats"

	"moviepulse/internal/errors"
	"moviepulse/pkg/contracts/domain"
)

const stageAggregate = "aggregate"

// AggregateByCategory computes the mean rating of the rows carrying each
// label. Labels with no numeric rating among their rows are reported as
// undefined instead of appearing with a NaN or zero mean.
func AggregateByCategory(exp domain.Expansion, ratingColumn string) (domain.GenreSummary, error) {
	summary := domain.GenreSummary{
		RatingColumn: ratingColumn,
		Ranked:       []domain.GenreAverage{},
		Undefined:    []string{},
	}

	if exp.Table == nil || !exp.Table.HasColumn(ratingColumn) {
		return summary, errors.NewSchemaError(ratingColumn, stageAggregate)
	}

	for _, label := range exp.Labels {
		column := exp.IndicatorColumns[label]
		avg, support := LabelAverage(exp.Table, column, ratingColumn)
		if !avg.Defined {
			summary.Undefined = append(summary.Undefined, label)
			continue
		}
		summary.Ranked = append(summary.Ranked, domain.GenreAverage{
			Label:   label,
			Column:  column,
			Support: support,
			Mean:    avg.Value,
		})
	}

	sort.SliceStable(summary.Ranked, func(i, j int) bool {
		a, b := summary.Ranked[i], summary.Ranked[j]
		if a.Mean != b.Mean {
			return a.Mean > b.Mean
		}
		return a.Label < b.Label
	})
	sort.Strings(summary.Undefined)

	return summary, nil
}

// LabelAverage returns the mean rating over rows whose indicator is set and
// whose rating is numeric, together with the number of such rows.
func LabelAverage(t *domain.Table, indicatorColumn, ratingColumn string) (domain.Average, int) {
	ind := t.ColumnIndex(indicatorColumn)
	rating := t.ColumnIndex(ratingColumn)
	if ind < 0 || rating < 0 {
		return domain.UndefinedAverage(), 0
	}

	values := make(stats.Float64Data, 0)
	for _, row := range t.Rows {
		if !row[ind].IsNumeric() || row[ind].Number != 1 {
			continue
		}
		if !row[rating].IsNumeric() {
			continue
		}
		values = append(values, row[rating].Number)
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return domain.UndefinedAverage(), 0
	}
	return domain.DefinedAverage(mean), len(values)
}
