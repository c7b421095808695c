package dataprocessing

import (
	"sort"
	"strings"

	"moviepulse/pkg/contracts/domain"
)

const stageExpand = "expand"

// ExpandOptions controls category expansion
type ExpandOptions struct {
	Field     string
	Delimiter string
}

// DefaultExpandOptions expands the comma separated genre field
func DefaultExpandOptions() ExpandOptions {
	return ExpandOptions{Field: "genre", Delimiter: ","}
}

// ExpandCategories replaces a delimited category field with one indicator
// column per distinct label. Labels are trimmed, empty labels are dropped and
// indicator columns are appended in ascending label order. A missing field
// leaves the table as is and records a diagnostic.
func ExpandCategories(t *domain.Table, opts ExpandOptions) domain.Expansion {
	exp := domain.Expansion{
		Field:            opts.Field,
		IndicatorColumns: map[string]string{},
		Labels:           []string{},
	}

	fieldIdx := t.ColumnIndex(opts.Field)
	if fieldIdx < 0 {
		exp.Table = t.Clone()
		exp.Diagnostics = append(exp.Diagnostics, domain.Diagnostic{
			Stage:   stageExpand,
			Column:  opts.Field,
			Message: "category field not found; expansion skipped",
		})
		return exp
	}

	delim := opts.Delimiter
	if delim == "" {
		delim = ","
	}

	rowLabels := make([]map[string]bool, len(t.Rows))
	distinct := make(map[string]bool)
	for i, row := range t.Rows {
		labels := SplitLabels(row[fieldIdx], delim)
		set := make(map[string]bool, len(labels))
		for _, l := range labels {
			set[l] = true
			distinct[l] = true
		}
		rowLabels[i] = set
	}

	for l := range distinct {
		exp.Labels = append(exp.Labels, l)
	}
	sort.Strings(exp.Labels)

	// Names already used by the columns that survive expansion
	taken := make(map[string]bool, len(t.Columns)+len(exp.Labels))
	var keep []int
	for j, col := range t.Columns {
		if j == fieldIdx {
			continue
		}
		taken[col] = true
		keep = append(keep, j)
	}

	columns := make([]string, 0, len(keep)+len(exp.Labels))
	for _, j := range keep {
		columns = append(columns, t.Columns[j])
	}
	for _, l := range exp.Labels {
		name := l
		if taken[name] {
			name = uniqueName(opts.Field+"_"+l, taken)
			exp.Diagnostics = append(exp.Diagnostics, domain.Diagnostic{
				Stage:   stageExpand,
				Column:  name,
				Message: "label " + l + " collides with an existing column; indicator renamed",
			})
		}
		taken[name] = true
		exp.IndicatorColumns[l] = name
		columns = append(columns, name)
	}

	out := domain.NewTable(columns...)
	out.Rows = make([]domain.Row, len(t.Rows))
	for i, row := range t.Rows {
		r := make(domain.Row, 0, len(columns))
		for _, j := range keep {
			r = append(r, row[j])
		}
		for _, l := range exp.Labels {
			r = append(r, domain.IndicatorCell(rowLabels[i][l]))
		}
		out.Rows[i] = r
	}

	exp.Table = out
	exp.Expanded = true
	return exp
}

// SplitLabels splits a category cell into its trimmed, non-empty labels
func SplitLabels(c domain.Cell, delim string) []string {
	var raw string
	switch c.Kind {
	case domain.CellText:
		raw = c.Text
	case domain.CellMissing:
		return nil
	default:
		raw = c.Format()
	}

	var labels []string
	for _, part := range strings.Split(raw, delim) {
		if l := strings.TrimSpace(part); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}
