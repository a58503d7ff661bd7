package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/infrastructure/parsers"
)

// ShowHandler loads findings from a saved JSON or CSV report.
type ShowHandler struct{}

// NewShowHandler creates a new show handler.
func NewShowHandler() *ShowHandler {
	return &ShowHandler{}
}

// Handle parses the report at filePath. format may be "json", "csv", or empty to
// pick by file extension.
func (h *ShowHandler) Handle(ctx context.Context, filePath, format string) ([]entities.Inconsistency, error) {
	var parser parsers.Parser
	if format == "" || format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(format)
	}

	if parser == nil {
		return nil, fmt.Errorf("reading %s: saved reports must be json or csv: %w", filePath, entities.ErrUnsupportedFormat)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening report: %w: %w", entities.ErrInput, err)
	}
	defer file.Close()

	findings, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", filePath, entities.ErrInput, err)
	}

	return findings, nil
}
