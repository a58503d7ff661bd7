// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// Detector is a mock implementation of ports.Detector.
type Detector struct {
	Backend  string
	Findings []entities.Inconsistency
	Err      error

	// Calls counts Detect invocations.
	Calls int
	// LastSlides holds the slides passed to the last Detect call.
	LastSlides []entities.SlideContent
}

// Name returns the configured backend name, or "mock".
func (m *Detector) Name() string {
	if m.Backend == "" {
		return "mock"
	}
	return m.Backend
}

// Detect returns the configured findings or error.
func (m *Detector) Detect(ctx context.Context, slides []entities.SlideContent) ([]entities.Inconsistency, error) {
	m.Calls++
	m.LastSlides = slides
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Findings, nil
}
