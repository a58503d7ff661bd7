// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// Detector defines the interface for the AI inconsistency pass.
// Implementations receive every slide of one presentation in a single call.
type Detector interface {
	// Name identifies the backend (e.g. "gemini", "openai").
	Name() string

	// Detect returns candidate inconsistencies across the given slides.
	Detect(ctx context.Context, slides []entities.SlideContent) ([]entities.Inconsistency, error)
}
