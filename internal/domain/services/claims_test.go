package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimExtractor_Extract(t *testing.T) {
	extractor := NewClaimExtractor(DefaultClaimKeywords, DefaultAntonyms, 0)

	text := "Acme Platform\nOur tool is 3x faster than legacy systems. We were founded in Ohio. There are few competitors in this space."
	claims := extractor.Extract(text)

	assert.Equal(t, []string{
		"Our tool is 3x faster than legacy systems",
		"There are few competitors in this space",
	}, claims)
}

func TestClaimExtractor_MaxClaims(t *testing.T) {
	extractor := NewClaimExtractor(DefaultClaimKeywords, DefaultAntonyms, 1)

	claims := extractor.Extract("It is faster. It is more efficient.")

	assert.Equal(t, []string{"It is faster"}, claims)
}

func TestAntonymMatch(t *testing.T) {
	tests := []struct {
		name      string
		a, b      string
		wantTopic string
		wantOK    bool
	}{
		{
			name:      "competition opposed",
			a:         "We operate in a highly competitive market",
			b:         "There are few competitors in this space",
			wantTopic: "competition",
			wantOK:    true,
		},
		{
			name:      "order does not matter",
			a:         "There are few competitors",
			b:         "Intense competition from incumbents",
			wantTopic: "competition",
			wantOK:    true,
		},
		{
			name:   "same side",
			a:      "A crowded market",
			b:      "Many competitors exist",
			wantOK: false,
		},
		{
			name:   "word boundaries respected",
			a:      "The unit is profitable",
			b:      "The unit is profitable and growing",
			wantOK: false,
		},
		{
			name:      "profitable vs unprofitable",
			a:         "The company is profitable",
			b:         "The company is unprofitable",
			wantTopic: "profitability",
			wantOK:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic, _, _, ok := antonymMatch(DefaultAntonyms, tt.a, tt.b)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTopic, topic)
		})
	}
}

func TestIsNegated(t *testing.T) {
	assert.True(t, isNegated("The product does not require training"))
	assert.True(t, isNegated("Setup isn't needed"))
	assert.False(t, isNegated("The product requires training"))
}

func TestJaccard(t *testing.T) {
	a := contentWords("The product requires training")
	b := contentWords("The product does not require training")

	assert.Equal(t, map[string]bool{"product": true, "requires": true, "training": true}, a)
	assert.InDelta(t, 0.5, jaccard(a, b), 1e-9)
	assert.Equal(t, 0.0, jaccard(map[string]bool{}, map[string]bool{}))
}
