package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverity_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		severity Severity
		expected bool
	}{
		{name: "low", severity: SeverityLow, expected: true},
		{name: "medium", severity: SeverityMedium, expected: true},
		{name: "high", severity: SeverityHigh, expected: true},
		{name: "empty", severity: Severity(""), expected: false},
		{name: "critical is not a level", severity: Severity("critical"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.IsValid())
		})
	}
}

func TestInconsistency_Key(t *testing.T) {
	a := Inconsistency{Type: TypeNumericalConflict, SlidesInvolved: []int{2, 1}}
	b := Inconsistency{Type: TypeNumericalConflict, SlidesInvolved: []int{1, 2}}
	c := Inconsistency{Type: TypeClaimContradiction, SlidesInvolved: []int{1, 2}}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.Equal(t, "numerical_conflict:1:2", a.Key())
	assert.Equal(t, []int{2, 1}, a.SlidesInvolved, "Key must not reorder the slice")
}

func TestInconsistency_LowestSlide(t *testing.T) {
	assert.Equal(t, 3, Inconsistency{SlidesInvolved: []int{7, 3, 5}}.LowestSlide())
	assert.Equal(t, 0, Inconsistency{}.LowestSlide())
}

func TestExtraction_Helpers(t *testing.T) {
	ext := &Extraction{
		Slides: []SlideContent{
			{SlideNumber: 1, Status: SlideExtracted},
			{SlideNumber: 3, Status: SlidePlaceholder},
		},
	}

	assert.Equal(t, map[int]bool{1: true, 3: true}, ext.SlideNumbers())
	assert.Equal(t, 1, ext.PlaceholderCount())
}

func TestNewRun(t *testing.T) {
	a := &Analysis{
		RunID:         "run-1",
		Source:        "deck.pptx",
		SlideCount:    4,
		SkippedSlides: []SkippedSlide{{SlideNumber: 2, Reason: "corrupt"}},
		Findings:      []Inconsistency{{Type: TypeNumericalConflict, SlidesInvolved: []int{1, 3}}},
		AI:            AIOutcome{Status: AIStatusFailed, Backend: "gemini"},
	}

	run := NewRun(a)

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 1, run.SkippedCount)
	assert.Equal(t, 1, run.FindingCount)
	assert.Equal(t, AIStatusFailed, run.AIStatus)
	assert.True(t, a.AI.Degraded())
}
