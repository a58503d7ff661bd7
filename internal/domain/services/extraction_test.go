package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/mocks"
	"github.com/ersonp/deckcheck/internal/domain/ports"
)

func TestExtractionService_Extract(t *testing.T) {
	reader := &mocks.DeckReader{Deck: &ports.Deck{
		Source: "deck.pptx",
		Slides: []ports.RawSlide{
			{Number: 3, Text: "Few competitors."},
			{Number: 1, Text: "Revenue   reached\t$2M.\n\n  Growth 15%  "},
		},
		Skipped: []entities.SkippedSlide{{SlideNumber: 2, Reason: "malformed XML"}},
	}}
	svc := NewExtractionService(reader, DefaultExtractionOptions())

	ext, err := svc.Extract(t.Context(), "deck.pptx")

	require.NoError(t, err)
	require.Len(t, ext.Slides, 2)
	assert.Equal(t, 1, ext.Slides[0].SlideNumber)
	assert.Equal(t, 3, ext.Slides[1].SlideNumber)
	assert.Equal(t, "Revenue reached $2M.\nGrowth 15%", ext.Slides[0].Text)
	assert.Equal(t, entities.SlideExtracted, ext.Slides[0].Status)
	require.Len(t, ext.Slides[0].NumericalData, 2)
	assert.Equal(t, "$2M", ext.Slides[0].NumericalData[0].Raw)
	assert.Equal(t, []string{"revenue"}, ext.Slides[0].NumericalData[0].Subjects)
	assert.Equal(t, "15%", ext.Slides[0].NumericalData[1].Raw)
	assert.Equal(t, []string{"growth"}, ext.Slides[0].NumericalData[1].Subjects)
	assert.Equal(t, []string{"Few competitors"}, ext.Slides[1].KeyClaims)
	assert.Equal(t, []entities.SkippedSlide{{SlideNumber: 2, Reason: "malformed XML"}}, ext.Skipped)
}

func TestExtractionService_Extract_ReaderError(t *testing.T) {
	reader := &mocks.DeckReader{Err: fmt.Errorf("opening archive: %w", entities.ErrInput)}
	svc := NewExtractionService(reader, DefaultExtractionOptions())

	_, err := svc.Extract(t.Context(), "broken.pptx")

	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrInput))
	assert.Contains(t, err.Error(), "broken.pptx")
}

func TestExtractionService_Extract_DuplicateSlideNumber(t *testing.T) {
	reader := &mocks.DeckReader{Deck: &ports.Deck{
		Slides: []ports.RawSlide{{Number: 1}, {Number: 1}},
	}}
	svc := NewExtractionService(reader, DefaultExtractionOptions())

	_, err := svc.Extract(t.Context(), "dup.pptx")

	assert.ErrorIs(t, err, entities.ErrInput)
}

func TestExtractionService_BuildSlide_Placeholder(t *testing.T) {
	svc := NewExtractionService(nil, DefaultExtractionOptions())

	slide := svc.BuildSlide(ports.RawSlide{Number: 4, Text: "ignored $5M", Placeholder: true})

	assert.True(t, slide.IsPlaceholder())
	assert.Equal(t, PlaceholderText, slide.Text)
	assert.Empty(t, slide.NumericalData)
	assert.Empty(t, slide.KeyClaims)
}

func TestExtractionService_BuildSlide_EmptyText(t *testing.T) {
	svc := NewExtractionService(nil, DefaultExtractionOptions())

	slide := svc.BuildSlide(ports.RawSlide{Number: 1})

	assert.Equal(t, "", slide.Text)
	assert.NotNil(t, slide.NumericalData)
	assert.NotNil(t, slide.KeyClaims)
}
