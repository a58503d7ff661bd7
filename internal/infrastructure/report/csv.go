package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVRenderer writes one row per finding under a header of field names.
type CSVRenderer struct{}

// Format returns "csv".
func (CSVRenderer) Format() string { return FormatCSV }

// Render writes the header and one row per finding.
func (CSVRenderer) Render(w io.Writer, r *Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, f := range r.Findings {
		record := []string{
			string(f.Type),
			f.Description,
			FormatSlides(f.SlidesInvolved),
			FormatConfidence(f.Confidence),
			string(f.Severity),
			f.Details,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
