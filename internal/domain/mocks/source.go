package mocks

import (
	"context"

	"github.com/ersonp/deckcheck/internal/domain/ports"
)

// DeckReader is a mock implementation of ports.DeckReader.
type DeckReader struct {
	Deck *ports.Deck
	Err  error
}

// Read returns the configured deck or error.
func (m *DeckReader) Read(_ context.Context, path string) (*ports.Deck, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Deck == nil {
		return &ports.Deck{Source: path}, nil
	}
	return m.Deck, nil
}
