package exporter

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"moviepulse/pkg/contracts/domain"
)

// formatFloat formats a value the same way cells are written to CSV
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatMean rounds a mean for human-readable output
func formatMean(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// WriteSummaryText prints the ranked genre table followed by the labels
// that had no supporting rows
func WriteSummaryText(w io.Writer, summary domain.GenreSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "GENRE\tSUPPORT\tMEAN %s\n", summary.RatingColumn)
	for _, g := range summary.Ranked {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", g.Label, g.Support, formatMean(g.Mean))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(summary.Undefined) > 0 {
		if _, err := fmt.Fprintf(w, "\nno rated rows: %d labels\n", len(summary.Undefined)); err != nil {
			return err
		}
		for _, label := range summary.Undefined {
			if _, err := fmt.Fprintf(w, "  %s\n", label); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteCleanReportText prints what the cleaner changed
func WriteCleanReportText(w io.Writer, r domain.CleanReport) error {
	_, err := fmt.Fprintf(w,
		"rows: %d -> %d (duplicates removed: %d)\n%s: %d coerced, %d imputed with median %s\n",
		r.RowsIn, r.RowsOut, r.DuplicatesRemoved,
		r.MonetaryColumn, r.MonetaryCoerced, r.MonetaryImputed, formatFloat(r.MonetaryMedian))
	return err
}
