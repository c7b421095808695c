package exporter

import (
	"log/slog"

	"github.com/xuri/excelize/v2"

	"moviepulse/internal/errors"
	"moviepulse/pkg/contracts/domain"
)

// Sheet names in the summary workbook
const (
	SheetGenres    = "Genres"
	SheetUndefined = "Undefined"
	SheetColumns   = "Columns"
)

var (
	genreHeader     = []interface{}{"label", "column", "support", "mean"}
	undefinedHeader = []interface{}{"label"}
	columnsHeader   = []interface{}{"name", "kind", "missing", "numeric", "text"}
)

// SummaryWorkbook renders the genre summary as an XLSX workbook
type SummaryWorkbook struct {
	logger *slog.Logger
}

// NewSummaryWorkbook creates a workbook renderer
func NewSummaryWorkbook(logger *slog.Logger) *SummaryWorkbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryWorkbook{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// Build creates the workbook in memory. The Columns sheet is only added
// when profile is non-empty. Callers must Close the returned file.
func (s *SummaryWorkbook) Build(summary domain.GenreSummary, profile []domain.ColumnProfile) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetGenres); err != nil {
		f.Close()
		return nil, errors.NewRenderError("failed to name genres sheet", err)
	}

	rows := make([][]interface{}, 0, len(summary.Ranked))
	for _, g := range summary.Ranked {
		rows = append(rows, []interface{}{g.Label, g.Column, g.Support, g.Mean})
	}
	if err := writeSheet(f, SheetGenres, genreHeader, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, label := range summary.Undefined {
		rows = append(rows, []interface{}{label})
	}
	if err := writeSheet(f, SheetUndefined, undefinedHeader, rows); err != nil {
		f.Close()
		return nil, err
	}

	if len(profile) > 0 {
		rows = rows[:0]
		for _, c := range profile {
			rows = append(rows, []interface{}{c.Name, c.Kind, c.Missing, c.Numeric, c.Text})
		}
		if err := writeSheet(f, SheetColumns, columnsHeader, rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Bytes renders the workbook to XLSX bytes
func (s *SummaryWorkbook) Bytes(summary domain.GenreSummary, profile []domain.ColumnProfile) ([]byte, error) {
	f, err := s.Build(summary, profile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewRenderError("failed to serialize workbook", err)
	}

	s.logger.Debug("workbook rendered",
		slog.Int("genres", len(summary.Ranked)),
		slog.Int("undefined", len(summary.Undefined)),
		slog.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []interface{}, rows [][]interface{}) error {
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return errors.NewRenderError("failed to create sheet", err).WithContext("sheet", sheet)
		}
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.NewRenderError("failed to write header", err).WithContext("sheet", sheet)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.NewRenderError("invalid cell", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errors.NewRenderError("failed to write row", err).WithContext("sheet", sheet)
		}
	}

	last, _ := excelize.ColumnNumberToName(len(header))
	_ = f.SetColWidth(sheet, "A", last, 16)
	return nil
}
