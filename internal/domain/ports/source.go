package ports

import (
	"context"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// RawSlide is the flattened text of one slide as read from a source document.
type RawSlide struct {
	Number      int
	Text        string
	Placeholder bool
}

// Deck is the raw content of a presentation source before analysis.
type Deck struct {
	Source  string
	Slides  []RawSlide
	Skipped []entities.SkippedSlide
}

// DeckReader reads a presentation source into raw slides.
type DeckReader interface {
	// Read returns the slides in presentation order. Unreadable sources
	// return an error wrapping entities.ErrInput. Individual corrupt slides
	// are reported in Deck.Skipped instead.
	Read(ctx context.Context, path string) (*Deck, error)
}
