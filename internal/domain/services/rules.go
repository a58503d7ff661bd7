package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// Severity cut-offs on relative difference for numeric conflicts.
const (
	highSeverityDiff   = 0.25
	mediumSeverityDiff = 0.10
	// fullDiffScale is the relative difference at which the difference term of the
	// numeric confidence saturates.
	fullDiffScale = 0.5

	antonymConfidence = 0.9
)

// RuleChecker runs the deterministic cross-slide checks.
type RuleChecker struct {
	opts RuleOptions
}

// NewRuleChecker creates a rule checker.
func NewRuleChecker(opts RuleOptions) *RuleChecker {
	return &RuleChecker{opts: opts}
}

// Check compares every unordered pair of slides and returns the findings
// deduplicated by type and slide pair. The result depends only on the input.
func (r *RuleChecker) Check(slides []entities.SlideContent) []entities.Inconsistency {
	var findings []entities.Inconsistency
	for i := 0; i < len(slides); i++ {
		for j := i + 1; j < len(slides); j++ {
			a, b := slides[i], slides[j]
			if a.IsPlaceholder() || b.IsPlaceholder() {
				continue
			}
			if a.SlideNumber > b.SlideNumber {
				a, b = b, a
			}
			if r.opts.EnableNumeric {
				if f, ok := r.checkNumeric(a, b); ok {
					findings = append(findings, f)
				}
			}
			if r.opts.EnableClaims {
				if f, ok := r.checkClaims(a, b); ok {
					findings = append(findings, f)
				}
			}
			if r.opts.EnableTimeline {
				if f, ok := r.checkTimeline(a, b); ok {
					findings = append(findings, f)
				}
			}
		}
	}
	return dedupe(findings)
}

func relativeDiff(a, b float64) float64 {
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 0
	}
	return math.Abs(a-b) / m
}

func numericSeverity(diff float64) entities.Severity {
	switch {
	case diff >= highSeverityDiff:
		return entities.SeverityHigh
	case diff >= mediumSeverityDiff:
		return entities.SeverityMedium
	}
	return entities.SeverityLow
}

// NumericConfidence scores a numeric conflict from its subject match and relative difference.
func NumericConfidence(subjectScore, diff float64) float64 {
	return clamp01(0.5 + 0.3*subjectScore + 0.2*math.Min(1, diff/fullDiffScale))
}

func (r *RuleChecker) checkNumeric(a, b entities.SlideContent) (entities.Inconsistency, bool) {
	var best entities.Inconsistency
	found := false
	for _, ma := range a.NumericalData {
		if ma.Category == entities.CategoryDate {
			continue
		}
		for _, mb := range b.NumericalData {
			if mb.Category != ma.Category {
				continue
			}
			subjects := sharedSubjects(ma, mb)
			if len(subjects) == 0 {
				continue
			}
			diff := relativeDiff(ma.Value, mb.Value)
			if diff <= r.opts.RelativeTolerance {
				continue
			}
			if r.states(a, mb) || r.states(b, ma) {
				continue
			}
			conf := NumericConfidence(math.Min(ma.SubjectScore, mb.SubjectScore), diff)
			if found && conf <= best.Confidence {
				continue
			}
			subject := strings.Join(subjects, "/")
			best = entities.Inconsistency{
				Type: entities.TypeNumericalConflict,
				Description: fmt.Sprintf("Conflicting %s %s figures: %s on slide %d vs %s on slide %d",
					subject, ma.Category, ma.Raw, a.SlideNumber, mb.Raw, b.SlideNumber),
				SlidesInvolved: []int{a.SlideNumber, b.SlideNumber},
				Confidence:     conf,
				Severity:       numericSeverity(diff),
				Details: fmt.Sprintf("Slide %d: %q. Slide %d: %q. Relative difference %.0f%% exceeds tolerance %.0f%%.",
					a.SlideNumber, ma.Context, b.SlideNumber, mb.Context, diff*100, r.opts.RelativeTolerance*100),
			}
			found = true
		}
	}
	return best, found
}

// states reports whether slide carries a figure matching m: same category, a shared
// subject and a value within tolerance.
func (r *RuleChecker) states(slide entities.SlideContent, m entities.NumericMention) bool {
	for _, other := range slide.NumericalData {
		if other.Category != m.Category || len(sharedSubjects(other, m)) == 0 {
			continue
		}
		if relativeDiff(other.Value, m.Value) <= r.opts.RelativeTolerance {
			return true
		}
	}
	return false
}

func (r *RuleChecker) checkClaims(a, b entities.SlideContent) (entities.Inconsistency, bool) {
	var best entities.Inconsistency
	found := false
	for _, ca := range a.KeyClaims {
		for _, cb := range b.KeyClaims {
			f, ok := r.compareClaims(a.SlideNumber, ca, b.SlideNumber, cb)
			if !ok || (found && f.Confidence <= best.Confidence) {
				continue
			}
			best, found = f, true
		}
	}
	return best, found
}

func (r *RuleChecker) compareClaims(na int, ca string, nb int, cb string) (entities.Inconsistency, bool) {
	if topic, pa, pb, ok := antonymMatch(r.opts.Antonyms, ca, cb); ok {
		return entities.Inconsistency{
			Type:           entities.TypeClaimContradiction,
			Description:    fmt.Sprintf("Contradictory claims about %s: %q on slide %d vs %q on slide %d", topic, pa, na, pb, nb),
			SlidesInvolved: []int{na, nb},
			Confidence:     antonymConfidence,
			Severity:       entities.SeverityHigh,
			Details:        fmt.Sprintf("Slide %d: %q. Slide %d: %q.", na, ca, nb, cb),
		}, true
	}

	negA := isNegated(ca)
	if negA == isNegated(cb) {
		return entities.Inconsistency{}, false
	}
	overlap := jaccard(contentWords(ca), contentWords(cb))
	if overlap < r.opts.NegationOverlap {
		return entities.Inconsistency{}, false
	}
	negated, asserted := nb, na
	if negA {
		negated, asserted = na, nb
	}
	return entities.Inconsistency{
		Type:           entities.TypeClaimContradiction,
		Description:    fmt.Sprintf("Slide %d negates a claim made on slide %d", negated, asserted),
		SlidesInvolved: []int{na, nb},
		Confidence:     clamp01(0.6 + 0.3*overlap),
		Severity:       entities.SeverityMedium,
		Details:        fmt.Sprintf("Slide %d: %q. Slide %d: %q. Word overlap %.0f%%.", na, ca, nb, cb, overlap*100),
	}, true
}

func periodsOverlap(a, b entities.NumericMention) bool {
	endA := a.Value + math.Max(a.Width, 1)
	endB := b.Value + math.Max(b.Width, 1)
	return a.Value < endB && b.Value < endA
}

func (r *RuleChecker) checkTimeline(a, b entities.SlideContent) (entities.Inconsistency, bool) {
	var best entities.Inconsistency
	found := false
	for _, ma := range a.NumericalData {
		if ma.Category != entities.CategoryDate {
			continue
		}
		for _, mb := range b.NumericalData {
			if mb.Category != entities.CategoryDate {
				continue
			}
			milestones := sharedSubjects(ma, mb)
			if len(milestones) == 0 || periodsOverlap(ma, mb) {
				continue
			}
			conf := clamp01(0.6 + 0.3*math.Min(ma.SubjectScore, mb.SubjectScore))
			if found && conf <= best.Confidence {
				continue
			}
			milestone := strings.Join(milestones, "/")
			best = entities.Inconsistency{
				Type: entities.TypeTimelineMismatch,
				Description: fmt.Sprintf("Conflicting %s dates: %s on slide %d vs %s on slide %d",
					milestone, ma.Raw, a.SlideNumber, mb.Raw, b.SlideNumber),
				SlidesInvolved: []int{a.SlideNumber, b.SlideNumber},
				Confidence:     conf,
				Severity:       entities.SeverityMedium,
				Details:        fmt.Sprintf("Slide %d: %q. Slide %d: %q.", a.SlideNumber, ma.Context, b.SlideNumber, mb.Context),
			}
			found = true
		}
	}
	return best, found
}

// dedupe keeps one finding per (type, slide set), preferring higher confidence.
// The kept finding takes the position of the first occurrence of its key.
func dedupe(findings []entities.Inconsistency) []entities.Inconsistency {
	index := make(map[string]int)
	var out []entities.Inconsistency
	for _, f := range findings {
		key := f.Key()
		if i, ok := index[key]; ok {
			if f.Confidence > out[i].Confidence {
				out[i] = f
			}
			continue
		}
		index[key] = len(out)
		out = append(out, f)
	}
	return out
}
