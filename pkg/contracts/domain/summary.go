package domain

import "time"

// Average is a mean that may be undefined. A mean over zero rows is
// undefined rather than NaN or zero.
type Average struct {
	Value   float64
	Defined bool
}

// UndefinedAverage returns an average with no supporting rows
func UndefinedAverage() Average { return Average{} }

// DefinedAverage returns an average with a value
func DefinedAverage(v float64) Average { return Average{Value: v, Defined: true} }

// GenreAverage is the mean rating of the rows carrying one label
type GenreAverage struct {
	Label   string  `json:"label"`
	Column  string  `json:"column"`
	Support int     `json:"support"`
	Mean    float64 `json:"mean"`
}

// GenreSummary is the ranked per-label statistic plus labels that had no support
type GenreSummary struct {
	RatingColumn string         `json:"rating_column"`
	Ranked       []GenreAverage `json:"ranked"`
	Undefined    []string       `json:"undefined"`
}

// Labels returns the ranked labels in order
func (s GenreSummary) Labels() []string {
	labels := make([]string, len(s.Ranked))
	for i, g := range s.Ranked {
		labels[i] = g.Label
	}
	return labels
}

// Means returns the ranked means in order
func (s GenreSummary) Means() []float64 {
	means := make([]float64, len(s.Ranked))
	for i, g := range s.Ranked {
		means[i] = g.Mean
	}
	return means
}

// Expansion is the result of turning a delimited category field into indicator columns
type Expansion struct {
	Table    *Table
	Field    string
	Expanded bool
	// Labels in indicator column order
	Labels []string
	// IndicatorColumns maps a label to its column name
	IndicatorColumns map[string]string
	Diagnostics      []Diagnostic
}

// Diagnostic is a non-fatal note emitted by a pipeline stage
type Diagnostic struct {
	Stage   string `json:"stage"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// LoadReport describes what the loader read
type LoadReport struct {
	Source      string       `json:"source"`
	RowsRead    int          `json:"rows_read"`
	Columns     []string     `json:"columns"`
	RaggedRows  int          `json:"ragged_rows"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// CleanReport describes what the cleaner changed
type CleanReport struct {
	RowsIn            int            `json:"rows_in"`
	RowsOut           int            `json:"rows_out"`
	DroppedColumns    []string       `json:"dropped_columns"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	MonetaryColumn    string         `json:"monetary_column"`
	MonetaryCoerced   int            `json:"monetary_coerced"`
	MonetaryImputed   int            `json:"monetary_imputed"`
	MonetaryMedian    float64        `json:"monetary_median"`
	MeanImputed       map[string]int `json:"mean_imputed,omitempty"`
	Diagnostics       []Diagnostic   `json:"diagnostics,omitempty"`
}

// ColumnProfile is the inferred type summary of one column
type ColumnProfile struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Missing int    `json:"missing"`
	Numeric int    `json:"numeric"`
	Text    int    `json:"text"`
}

// PipelineResult is everything the startup transform produces
type PipelineResult struct {
	Table       *Table          `json:"-"`
	Load        LoadReport      `json:"load"`
	Clean       CleanReport     `json:"clean"`
	Expansion   Expansion       `json:"-"`
	Summary     GenreSummary    `json:"summary"`
	Profile     []ColumnProfile `json:"profile"`
	Diagnostics []Diagnostic    `json:"diagnostics,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}
