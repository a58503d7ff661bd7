package entities

import (
	"slices"
	"strconv"
)

// InconsistencyType categorizes a detected conflict.
type InconsistencyType string

// Built-in inconsistency types. AI findings may carry other values.
const (
	TypeNumericalConflict  InconsistencyType = "numerical_conflict"
	TypeClaimContradiction InconsistencyType = "claim_contradiction"
	TypeTimelineMismatch   InconsistencyType = "timeline_mismatch"
	TypeAIDetected         InconsistencyType = "ai_detected"
)

// Severity is an ordinal rating of how serious a conflict is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Inconsistency is a single detected cross-slide conflict.
type Inconsistency struct {
	Type           InconsistencyType `json:"type"`
	Description    string            `json:"description"`
	SlidesInvolved []int             `json:"slides_involved"`
	Confidence     float64           `json:"confidence"`
	Severity       Severity          `json:"severity"`
	Details        string            `json:"details"`
}

// LowestSlide returns the smallest slide number involved, or 0 if none.
func (i Inconsistency) LowestSlide() int {
	if len(i.SlidesInvolved) == 0 {
		return 0
	}
	return slices.Min(i.SlidesInvolved)
}

// Key identifies "the same conflict": same type over the same set of slides.
func (i Inconsistency) Key() string {
	slides := slices.Clone(i.SlidesInvolved)
	slices.Sort(slides)
	slides = slices.Compact(slides)
	key := string(i.Type)
	for _, n := range slides {
		key += ":" + strconv.Itoa(n)
	}
	return key
}
