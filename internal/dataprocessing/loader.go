package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"moviepulse/internal/errors"
	"moviepulse/pkg/contracts/domain"
)

const (
	stageLoad = "load"
	utf8BOM   = "\ufeff"
)

// missingTokens are raw values that load as missing, compared case-insensitively
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
}

// LoadFile opens a CSV file and reads it into a table
func LoadFile(path string) (*domain.Table, domain.LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.LoadReport{Source: path}, errors.NewNotFoundError("dataset file "+path).WithContext("path", path)
		}
		return nil, domain.LoadReport{Source: path}, errors.NewStorageError("failed to open dataset", err).WithContext("path", path)
	}
	defer f.Close()

	return ReadTable(f, path)
}

// ReadTable reads CSV data into a table. The first record is the header.
// Short rows are padded with missing cells and long rows are truncated.
func ReadTable(r io.Reader, source string) (*domain.Table, domain.LoadReport, error) {
	report := domain.LoadReport{Source: source}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, report, errors.NewParsingError("dataset has no header row", nil).WithContext("source", source)
	}
	if err != nil {
		return nil, report, errors.NewParsingError("failed to read header", err).WithContext("source", source)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	columns := normalizeHeader(header)
	report.Columns = columns

	var raw [][]string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, report, errors.NewParsingError(fmt.Sprintf("failed to read record at line %d", line), err).WithContext("source", source)
		}
		if isBlankRecord(record) {
			continue
		}

		switch {
		case len(record) < len(columns):
			padded := make([]string, len(columns))
			copy(padded, record)
			record = padded
			report.RaggedRows++
		case len(record) > len(columns):
			report.RaggedRows++
			report.Diagnostics = append(report.Diagnostics, domain.Diagnostic{
				Stage:   stageLoad,
				Message: fmt.Sprintf("line %d has %d fields, expected %d; extra fields dropped", line, len(record), len(columns)),
			})
			record = record[:len(columns)]
		}
		raw = append(raw, record)
	}

	table := domain.NewTable(columns...)
	table.Rows = make([]domain.Row, len(raw))
	for i := range raw {
		table.Rows[i] = make(domain.Row, len(columns))
	}

	for j := range columns {
		numeric := columnIsNumeric(raw, j)
		for i, record := range raw {
			table.Rows[i][j] = parseCell(record[j], numeric)
		}
	}

	report.RowsRead = len(raw)
	return table, report, nil
}

// NormalizeColumnName trims, lower-cases and replaces runs of whitespace and
// dashes with a single underscore.
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) || r == '-' {
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('_')
		}
		pendingSep = false
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		name := NormalizeColumnName(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		name = uniqueName(name, seen)
		seen[name] = true
		columns[i] = name
	}
	return columns
}

// uniqueName returns name, or name with the first free _N suffix
func uniqueName(name string, taken map[string]bool) string {
	if !taken[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%d", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

func isMissingToken(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func columnIsNumeric(raw [][]string, j int) bool {
	seen := false
	for _, record := range raw {
		v := record[j]
		if isMissingToken(v) {
			continue
		}
		if _, ok := parseFloat(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func parseCell(v string, numeric bool) domain.Cell {
	if isMissingToken(v) {
		return domain.MissingCell()
	}
	if numeric {
		f, _ := parseFloat(v)
		return domain.NumberCell(f)
	}
	return domain.TextCell(v)
}
