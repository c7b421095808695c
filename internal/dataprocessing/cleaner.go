package dataprocessing

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"moviepulse/pkg/contracts/domain"
)

const stageClean = "clean"

// CleanOptions controls the cleaner
type CleanOptions struct {
	// DropColumns are removed before anything else; absent names are ignored
	DropColumns []string
	// MonetaryColumn holds loosely formatted amounts such as "$ 1,200,000"
	MonetaryColumn string
	// ImputeNumericMeans fills gaps in every other numeric column with its mean
	ImputeNumericMeans bool
}

// DefaultCleanOptions returns the options used for the IMDb movies dataset
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		DropColumns: []string{
			"imdb_title_id", "title", "original_title", "date_published",
			"description", "director", "writer", "production_company", "actors",
		},
		MonetaryColumn:     "budget",
		ImputeNumericMeans: true,
	}
}

// Clean prunes, deduplicates and repairs a table. Malformed values never fail
// the stage; they become missing and are imputed. Running Clean on its own
// output returns an equal table.
func Clean(t *domain.Table, opts CleanOptions) (*domain.Table, domain.CleanReport) {
	report := domain.CleanReport{
		RowsIn:         t.Len(),
		MonetaryColumn: opts.MonetaryColumn,
		DroppedColumns: []string{},
	}

	out, dropped := dropColumns(t, opts.DropColumns)
	report.DroppedColumns = dropped

	var removed int
	out, removed = dropDuplicates(out)
	report.DuplicatesRemoved += removed

	monetaryIdx := -1
	if opts.MonetaryColumn != "" {
		monetaryIdx = out.ColumnIndex(opts.MonetaryColumn)
		if monetaryIdx < 0 {
			report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
				Stage:   stageClean,
				Column:  opts.MonetaryColumn,
				Message: "monetary column not found; repair and median imputation skipped",
			})
		}
	}

	if monetaryIdx >= 0 {
		report.MonetaryCoerced = repairMonetary(out, monetaryIdx)

		median, imputed, ok := imputeMedian(out, monetaryIdx)
		report.MonetaryMedian = median
		report.MonetaryImputed = imputed
		if !ok {
			report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
				Stage:   stageClean,
				Column:  opts.MonetaryColumn,
				Message: "monetary column has no parseable values; missing values filled with 0",
			})
		}
	}

	if opts.ImputeNumericMeans {
		imputed := make(map[string]int)
		for j, col := range out.Columns {
			if j == monetaryIdx || !isNumericColumn(out, j) {
				continue
			}
			if n := imputeMean(out, j); n > 0 {
				imputed[col] = n
			}
		}
		if len(imputed) > 0 {
			report.MeanImputed = imputed
		}
	}

	// Repair and imputation can make rows identical that were distinct before.
	out, removed = dropDuplicates(out)
	report.DuplicatesRemoved += removed

	report.RowsOut = out.Len()
	return out, report
}

// ParseMonetary reads a loosely formatted amount. A value that is already a
// plain number is taken as is, which is how the loader reads an all-numeric
// column, so a raw value cleans the same whatever its neighbours hold.
// Otherwise only digits and the decimal point are kept, and a minus sign
// ahead of the first digit keeps the amount negative. It reports false for
// values with nothing parseable left.
func ParseMonetary(raw string) (float64, bool) {
	if v, ok := parseFloat(raw); ok {
		return v, true
	}

	var b strings.Builder
	negative := false
	for _, r := range raw {
		switch {
		case (r >= '0' && r <= '9') || r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

func dropColumns(t *domain.Table, names []string) (*domain.Table, []string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var keep []int
	dropped := []string{}
	for j, col := range t.Columns {
		if drop[col] {
			dropped = append(dropped, col)
			continue
		}
		keep = append(keep, j)
	}

	out := &domain.Table{
		Columns: make([]string, len(keep)),
		Rows:    make([]domain.Row, len(t.Rows)),
	}
	for k, j := range keep {
		out.Columns[k] = t.Columns[j]
	}
	for i, row := range t.Rows {
		r := make(domain.Row, len(keep))
		for k, j := range keep {
			r[k] = row[j]
		}
		out.Rows[i] = r
	}
	return out, dropped
}

// dropDuplicates keeps the first occurrence of every exact row
func dropDuplicates(t *domain.Table) (*domain.Table, int) {
	seen := make(map[string]struct{}, len(t.Rows))
	out := domain.NewTable(t.Columns...)
	out.Rows = make([]domain.Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		key := row.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out, len(t.Rows) - len(out.Rows)
}

// repairMonetary converts text amounts in place and returns how many cells
// could not be parsed and became missing
func repairMonetary(t *domain.Table, j int) int {
	coerced := 0
	for _, row := range t.Rows {
		c := row[j]
		// number cells were read by the same rule ParseMonetary starts with
		if c.Kind != domain.CellText {
			continue
		}
		if v, ok := ParseMonetary(c.Text); ok {
			row[j] = domain.NumberCell(v)
		} else {
			row[j] = domain.MissingCell()
			coerced++
		}
	}
	return coerced
}

// imputeMedian fills missing cells with the column median. When the column
// has no numbers the median is undefined and 0 is used instead.
func imputeMedian(t *domain.Table, j int) (float64, int, bool) {
	values := columnNumbers(t, j)
	fill, defined := 0.0, false
	if len(values) > 0 {
		if m, err := stats.Median(values); err == nil {
			fill, defined = m, true
		}
	}

	imputed := 0
	for _, row := range t.Rows {
		if row[j].IsMissing() {
			row[j] = domain.NumberCell(fill)
			imputed++
		}
	}
	return fill, imputed, defined
}

func imputeMean(t *domain.Table, j int) int {
	values := columnNumbers(t, j)
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	imputed := 0
	for _, row := range t.Rows {
		if row[j].IsMissing() {
			row[j] = domain.NumberCell(mean)
			imputed++
		}
	}
	return imputed
}

// isNumericColumn reports whether every present value in the column is a number
func isNumericColumn(t *domain.Table, j int) bool {
	seen := false
	for _, row := range t.Rows {
		switch row[j].Kind {
		case domain.CellText:
			return false
		case domain.CellNumber, domain.CellIndicator:
			seen = true
		}
	}
	return seen
}

func columnNumbers(t *domain.Table, j int) stats.Float64Data {
	values := make(stats.Float64Data, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row[j].IsNumeric() {
			values = append(values, row[j].Number)
		}
	}
	return values
}
