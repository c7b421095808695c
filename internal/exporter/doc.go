// Package exporter writes the artifacts built from the cleaned dataset.
//
// CSVWriter writes a domain.Table as CSV with a header row and an optional
// UTF-8 BOM. Numbers use the shortest representation that round-trips, so
// reloading the file with dataprocessing.LoadFile yields the same values.
//
// SummaryWorkbook renders the genre summary as an XLSX workbook with
// Genres, Undefined and (optionally) Columns sheets.
//
// Example usage:
//
//	w := exporter.NewCSVWriter(paths, logger)
//	err := w.WriteTable(paths.CleanedCSV, result.Table, false)
//
//	wb := exporter.NewSummaryWorkbook(logger)
//	data, err := wb.Bytes(result.Summary, result.Profile)
package exporter
