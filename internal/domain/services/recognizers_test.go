package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

func TestRecognizerRegistry_Scan(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		category entities.NumericCategory
		raw      string
		value    float64
	}{
		{name: "currency with suffix", text: "Revenue hit $2M", category: entities.CategoryCurrency, raw: "$2M", value: 2e6},
		{name: "currency with thousands separators", text: "We raised $1,000,000", category: entities.CategoryCurrency, raw: "$1,000,000", value: 1e6},
		{name: "currency with decimal and word", text: "Costs were $2.5 million", category: entities.CategoryCurrency, raw: "$2.5 million", value: 2.5e6},
		{name: "currency in dollars", text: "about 3M dollars", category: entities.CategoryCurrency, raw: "3M dollars", value: 3e6},
		{name: "percentage", text: "Growth was 15%", category: entities.CategoryPercentage, raw: "15%", value: 15},
		{name: "decimal percentage word", text: "a 25.5 percent increase", category: entities.CategoryPercentage, raw: "25.5 percent", value: 25.5},
		{name: "hours to seconds", text: "Saves 2 hours per week", category: entities.CategoryDuration, raw: "2 hours", value: 7200},
		{name: "minutes to seconds", text: "in 30 minutes", category: entities.CategoryDuration, raw: "30 minutes", value: 1800},
		{name: "multiplier", text: "3.5x faster", category: entities.CategoryMultiplier, raw: "3.5x", value: 3.5},
		{name: "multiplier in words", text: "2 times faster", category: entities.CategoryMultiplier, raw: "2 times", value: 2},
		{name: "ratio", text: "a 1:4 ratio", category: entities.CategoryRatio, raw: "1:4", value: 0.25},
		{name: "out of ratio", text: "3 out of 4 users", category: entities.CategoryRatio, raw: "3 out of 4", value: 0.75},
	}

	registry := DefaultRecognizers()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := registry.Scan(tt.text)
			require.Len(t, mentions, 1)
			assert.Equal(t, tt.category, mentions[0].Category)
			assert.Equal(t, tt.raw, mentions[0].Raw)
			assert.InDelta(t, tt.value, mentions[0].Value, 1e-9)
		})
	}
}

func TestRecognizerRegistry_Scan_OrderAndOverlap(t *testing.T) {
	registry := DefaultRecognizers()

	mentions := registry.Scan("Revenue of $2M grew 15% and is 2x faster at a 3:1 ratio")

	require.Len(t, mentions, 4)
	assert.Equal(t, entities.CategoryCurrency, mentions[0].Category)
	assert.Equal(t, entities.CategoryPercentage, mentions[1].Category)
	assert.Equal(t, entities.CategoryMultiplier, mentions[2].Category)
	assert.Equal(t, entities.CategoryRatio, mentions[3].Category)
	for i := 1; i < len(mentions); i++ {
		assert.Less(t, mentions[i-1].Offset, mentions[i].Offset)
	}
}

func TestRecognizerRegistry_Scan_NoMatches(t *testing.T) {
	assert.Empty(t, DefaultRecognizers().Scan("No numbers here at all"))
}

func TestRecognizerRegistry_Scan_Dates(t *testing.T) {
	day := func(y int, m time.Month, d int) float64 {
		return float64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
	}

	tests := []struct {
		name  string
		text  string
		raw   string
		value float64
		width float64
	}{
		{name: "iso date", text: "Launch on 2025-03-15", raw: "2025-03-15", value: day(2025, time.March, 15), width: 1},
		{name: "quarter", text: "Launch in Q3 2025", raw: "Q3 2025", value: day(2025, time.July, 1), width: 92},
		{name: "half", text: "Beta in H1 2026", raw: "H1 2026", value: day(2026, time.January, 1), width: 181},
		{name: "month", text: "Release March 2025", raw: "March 2025", value: day(2025, time.March, 1), width: 31},
		{name: "fiscal year", text: "Break-even FY2026", raw: "FY2026", value: day(2026, time.January, 1), width: 365},
		{name: "year with preposition", text: "IPO by 2027", raw: "by 2027", value: day(2027, time.January, 1), width: 365},
	}

	registry := DefaultRecognizers()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions := registry.Scan(tt.text)
			require.Len(t, mentions, 1)
			assert.Equal(t, entities.CategoryDate, mentions[0].Category)
			assert.Equal(t, tt.raw, mentions[0].Raw)
			assert.Equal(t, tt.value, mentions[0].Value)
			assert.Equal(t, tt.width, mentions[0].Width)
		})
	}
}

func TestRecognizerRegistry_Register(t *testing.T) {
	registry := NewRecognizerRegistry()
	for _, rec := range numericRecognizers() {
		if rec.Category() == entities.CategoryPercentage {
			registry.Register(rec)
		}
	}

	assert.Equal(t, []entities.NumericCategory{entities.CategoryPercentage}, registry.Categories())
	mentions := registry.Scan("$2M and 10%")
	require.Len(t, mentions, 1)
	assert.Equal(t, "10%", mentions[0].Raw)
}
