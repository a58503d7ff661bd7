package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// JSONRenderer writes findings as a JSON array.
type JSONRenderer struct{}

// Format returns "json".
func (JSONRenderer) Format() string { return FormatJSON }

// Render writes the findings array. An empty list is written as [].
func (JSONRenderer) Render(w io.Writer, r *Report) error {
	findings := r.Findings
	if findings == nil {
		findings = []entities.Inconsistency{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(findings); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
