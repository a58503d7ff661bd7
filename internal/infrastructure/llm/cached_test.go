package llm

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/mocks"
	"github.com/ersonp/deckcheck/internal/infrastructure/cache"
)

func TestCachedDetector_ReusesResponses(t *testing.T) {
	finding := entities.Inconsistency{
		Type:           entities.TypeClaimContradiction,
		Description:    "Competition described two ways",
		SlidesInvolved: []int{3, 4},
		Confidence:     0.9,
		Severity:       entities.SeverityHigh,
	}
	backend := &mocks.Detector{Backend: "gemini", Findings: []entities.Inconsistency{finding}}
	detector := NewCachedDetector(backend, Generation{Model: "gemini-2.0-flash"}, cache.NewMemoryCache(time.Hour, time.Minute), 0, nil)

	slides := []entities.SlideContent{{SlideNumber: 3, Text: "Crowded market"}, {SlideNumber: 4, Text: "Few competitors"}}

	first, err := detector.Detect(t.Context(), slides)
	require.NoError(t, err)
	second, err := detector.Detect(t.Context(), slides)
	require.NoError(t, err)

	assert.Equal(t, 1, backend.Calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "gemini", detector.Name())

	_, err = detector.Detect(t.Context(), []entities.SlideContent{{SlideNumber: 1, Text: "Other deck"}})
	require.NoError(t, err)
	assert.Equal(t, 2, backend.Calls)
}

func TestCachedDetector_DoesNotCacheFailures(t *testing.T) {
	backend := &mocks.Detector{Err: errors.New("quota exceeded")}
	store := cache.NewMemoryCache(time.Hour, time.Minute)
	detector := NewCachedDetector(backend, Generation{Model: "m"}, store, 0, nil)

	slides := []entities.SlideContent{{SlideNumber: 1, Text: "x"}}
	_, err := detector.Detect(t.Context(), slides)
	require.Error(t, err)

	backend.Err = nil
	backend.Findings = []entities.Inconsistency{}
	findings, err := detector.Detect(t.Context(), slides)
	require.NoError(t, err)
	assert.Empty(t, findings)
	assert.Equal(t, 2, backend.Calls)
}

func TestCachedDetector_GenerationSettingsArePartOfKey(t *testing.T) {
	base := Generation{Model: "model-a", MaxTokens: 8192, Temperature: 0.1}
	tests := []struct {
		name   string
		modify func(*Generation)
	}{
		{name: "model", modify: func(g *Generation) { g.Model = "model-b" }},
		{name: "max tokens", modify: func(g *Generation) { g.MaxTokens = 4096 }},
		{name: "temperature", modify: func(g *Generation) { g.Temperature = 0.7 }},
	}

	slides := []entities.SlideContent{{SlideNumber: 1, Text: "x"}}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &mocks.Detector{Findings: []entities.Inconsistency{}}
			store := cache.NewMemoryCache(time.Hour, time.Minute)

			_, err := NewCachedDetector(backend, base, store, 0, nil).Detect(t.Context(), slides)
			require.NoError(t, err)
			_, err = NewCachedDetector(backend, base, store, 0, nil).Detect(t.Context(), slides)
			require.NoError(t, err)
			require.Equal(t, 1, backend.Calls)

			changed := base
			tt.modify(&changed)
			_, err = NewCachedDetector(backend, changed, store, 0, nil).Detect(t.Context(), slides)
			require.NoError(t, err)
			assert.Equal(t, 2, backend.Calls)
		})
	}
}
