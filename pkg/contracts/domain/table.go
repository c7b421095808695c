package domain

import (
	"strconv"
	"strings"
)

// CellKind identifies what a Cell holds
type CellKind uint8

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
	CellIndicator
)

// String returns the kind name used in column profiles
func (k CellKind) String() string {
	switch k {
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	case CellIndicator:
		return "indicator"
	default:
		return "missing"
	}
}

// Cell is a single table value
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// MissingCell returns a cell with no value
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// NumberCell returns a numeric cell
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// TextCell returns a text cell
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// IndicatorCell returns a 0/1 membership cell
func IndicatorCell(set bool) Cell {
	if set {
		return Cell{Kind: CellIndicator, Number: 1}
	}
	return Cell{Kind: CellIndicator, Number: 0}
}

// IsMissing reports whether the cell has no value
func (c Cell) IsMissing() bool { return c.Kind == CellMissing }

// IsNumeric reports whether the cell carries a number (indicators included)
func (c Cell) IsNumeric() bool { return c.Kind == CellNumber || c.Kind == CellIndicator }

// Format renders the cell the way it is written to CSV
func (c Cell) Format() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellIndicator:
		if c.Number != 0 {
			return "1"
		}
		return "0"
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Value returns the cell as a JSON-ready value
func (c Cell) Value() interface{} {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellIndicator:
		if c.Number != 0 {
			return 1
		}
		return 0
	case CellText:
		return c.Text
	default:
		return nil
	}
}

// key is the identity used for exact-duplicate detection
func (c Cell) key() string {
	switch c.Kind {
	case CellNumber, CellIndicator:
		return "n" + strconv.FormatFloat(c.Number, 'g', -1, 64)
	case CellText:
		return "t" + c.Text
	default:
		return "-"
	}
}

// Row is an ordered set of cells aligned with Table.Columns
type Row []Cell

// Key returns a string identifying the row's exact contents
func (r Row) Key() string {
	parts := make([]string, len(r))
	for i, c := range r {
		parts[i] = c.key()
	}
	return strings.Join(parts, "\x1f")
}

// Table is an ordered collection of rows sharing one column layout.
// Transforms treat tables as values and return new ones.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a column or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]Row, len(t.Rows)),
	}
	copy(out.Columns, t.Columns)
	for i, row := range t.Rows {
		r := make(Row, len(row))
		copy(r, row)
		out.Rows[i] = r
	}
	return out
}

// Records converts rows into column-name keyed maps
func (t *Table) Records() []map[string]interface{} {
	records := make([]map[string]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(map[string]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j].Value()
			} else {
				rec[col] = nil
			}
		}
		records[i] = rec
	}
	return records
}

// StringRecords returns every row formatted for CSV output
func (t *Table) StringRecords() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j := range t.Columns {
			if j < len(row) {
				rec[j] = row[j].Format()
			}
		}
		out[i] = rec
	}
	return out
}
