// Package report renders inconsistency findings as console text, JSON or CSV.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// Supported formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatCSV     = "csv"
)

// Formats lists the supported report formats.
var Formats = []string{FormatConsole, FormatJSON, FormatCSV}

// Columns are the field names used by the JSON and CSV formats, in CSV column order.
var Columns = []string{"type", "description", "slides_involved", "confidence", "severity", "details"}

// Summary is run context shown by formats that support it.
type Summary struct {
	Source        string
	SlideCount    int
	SkippedSlides []entities.SkippedSlide
	Placeholders  int
	AI            entities.AIOutcome
}

// Report is the input to a renderer. Summary may be nil, e.g. when re-rendering a saved report.
type Report struct {
	Findings []entities.Inconsistency
	Summary  *Summary
}

// FromAnalysis builds a report from an analysis result.
func FromAnalysis(a *entities.Analysis) *Report {
	return &Report{
		Findings: a.Findings,
		Summary: &Summary{
			Source:        a.Source,
			SlideCount:    a.SlideCount,
			SkippedSlides: a.SkippedSlides,
			Placeholders:  a.Placeholders,
			AI:            a.AI,
		},
	}
}

// Renderer writes a report in one format.
type Renderer interface {
	Format() string
	Render(w io.Writer, r *Report) error
}

// Options tune renderer output.
type Options struct {
	// Color enables ANSI colours in console output.
	Color bool
}

// ForFormat returns the renderer for format. Unknown formats return an error
// wrapping entities.ErrUnsupportedFormat.
func ForFormat(format string, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatConsole:
		return NewConsoleRenderer(opts.Color), nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatCSV:
		return &CSVRenderer{}, nil
	}
	return nil, fmt.Errorf("report format %q: %w (valid formats: %s)",
		format, entities.ErrUnsupportedFormat, strings.Join(Formats, ", "))
}

// FormatSlides joins slide numbers with ";" as used in CSV cells.
func FormatSlides(slides []int) string {
	parts := make([]string, len(slides))
	for i, n := range slides {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ";")
}

// FormatConfidence renders a confidence without losing precision.
func FormatConfidence(c float64) string {
	return strconv.FormatFloat(c, 'g', -1, 64)
}
