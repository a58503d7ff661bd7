package parsers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// JSONParser parses findings from a JSON report.
type JSONParser struct{}

// Parse reads a JSON array of findings.
func (p *JSONParser) Parse(r io.Reader) ([]entities.Inconsistency, error) {
	var findings []entities.Inconsistency

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&findings); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	for i, f := range findings {
		if f.Type == "" {
			return nil, fmt.Errorf("finding %d: missing type", i+1)
		}
	}

	return findings, nil
}
