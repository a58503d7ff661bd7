package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
)

// AnalyzerService combines the rule-based pass with the optional AI pass.
type AnalyzerService struct {
	rules    *RuleChecker
	detector ports.Detector
	opts     AnalyzerOptions
	logger   *zap.Logger
	now      func() time.Time
}

// NewAnalyzerService creates a new analyzer. detector may be nil, which disables the AI pass.
func NewAnalyzerService(rules *RuleChecker, detector ports.Detector, opts AnalyzerOptions, logger *zap.Logger) *AnalyzerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzerService{
		rules:    rules,
		detector: detector,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Analyze runs both passes over the extraction and aggregates their findings.
// A failing AI pass is recorded in Analysis.AI and does not fail the run;
// only cancellation of ctx is returned as an error.
func (a *AnalyzerService) Analyze(ctx context.Context, ext *entities.Extraction) (*entities.Analysis, error) {
	start := a.now()

	ruleFindings := a.rules.Check(ext.Slides)
	a.logger.Debug("rule pass complete", zap.Int("findings", len(ruleFindings)))

	aiFindings, outcome, err := a.runAI(ctx, ext)
	if err != nil {
		return nil, err
	}

	findings := Aggregate(ruleFindings, aiFindings, a.opts.ConfidenceThreshold)

	return &entities.Analysis{
		RunID:         uuid.New().String(),
		Source:        ext.Source,
		SlideCount:    len(ext.Slides),
		SkippedSlides: ext.Skipped,
		Placeholders:  ext.PlaceholderCount(),
		Findings:      findings,
		AI:            outcome,
		StartedAt:     start,
		Duration:      a.now().Sub(start),
	}, nil
}

func (a *AnalyzerService) runAI(ctx context.Context, ext *entities.Extraction) ([]entities.Inconsistency, entities.AIOutcome, error) {
	if !a.opts.EnableAI || a.detector == nil {
		a.logger.Warn("AI pass disabled, reporting rule-based findings only")
		return nil, entities.AIOutcome{Status: entities.AIStatusDisabled}, nil
	}

	outcome := entities.AIOutcome{Backend: a.detector.Name()}

	slides := make([]entities.SlideContent, 0, len(ext.Slides))
	for _, s := range ext.Slides {
		if !s.IsPlaceholder() {
			slides = append(slides, s)
		}
	}
	if len(slides) == 0 {
		outcome.Status = entities.AIStatusDisabled
		outcome.Error = "no extracted slide content to analyze"
		a.logger.Warn("AI pass skipped", zap.String("reason", outcome.Error))
		return nil, outcome, nil
	}

	raw, err := a.detector.Detect(ctx, slides)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, outcome, fmt.Errorf("running AI pass: %w", err)
		}
		outcome.Status = entities.AIStatusFailed
		outcome.Error = err.Error()
		a.logger.Warn("AI pass failed, reporting rule-based findings only",
			zap.String("backend", outcome.Backend), zap.Error(err))
		return nil, outcome, nil
	}

	valid, dropped := ValidateFindings(raw, ext.SlideNumbers())
	if dropped > 0 {
		a.logger.Warn("dropped AI findings referencing unknown slides",
			zap.String("backend", outcome.Backend), zap.Int("dropped", dropped))
	}
	outcome.Status = entities.AIStatusOK
	outcome.Dropped = dropped
	a.logger.Debug("AI pass complete", zap.String("backend", outcome.Backend), zap.Int("findings", len(valid)))
	return valid, outcome, nil
}

// ValidateFindings normalizes AI findings against the slides of the run.
// Unknown slide numbers are removed and findings left with no slide are dropped.
// Confidence is clamped to [0,1], unknown severities become medium, and an
// empty type becomes ai_detected. It returns the kept findings and the drop count.
func ValidateFindings(findings []entities.Inconsistency, slides map[int]bool) ([]entities.Inconsistency, int) {
	out := make([]entities.Inconsistency, 0, len(findings))
	dropped := 0
	for _, f := range findings {
		var nums []int
		for _, n := range f.SlidesInvolved {
			if slides[n] {
				nums = append(nums, n)
			}
		}
		slices.Sort(nums)
		nums = slices.Compact(nums)
		if len(nums) == 0 {
			dropped++
			continue
		}

		f.SlidesInvolved = nums
		if math.IsNaN(f.Confidence) {
			f.Confidence = 0
		}
		f.Confidence = clamp01(f.Confidence)
		f.Severity = entities.Severity(strings.ToLower(strings.TrimSpace(string(f.Severity))))
		if !f.Severity.IsValid() {
			f.Severity = entities.SeverityMedium
		}
		f.Type = entities.InconsistencyType(strings.ToLower(strings.TrimSpace(string(f.Type))))
		if f.Type == "" {
			f.Type = entities.TypeAIDetected
		}
		out = append(out, f)
	}
	return out, dropped
}

// Aggregate merges rule and AI findings, drops those strictly below threshold,
// keeps the most confident finding per (type, slide set), and orders the result
// by descending confidence then ascending lowest slide number.
func Aggregate(rule, ai []entities.Inconsistency, threshold float64) []entities.Inconsistency {
	all := make([]entities.Inconsistency, 0, len(rule)+len(ai))
	for _, f := range slices.Concat(rule, ai) {
		if f.Confidence < threshold {
			continue
		}
		all = append(all, f)
	}

	out := dedupe(all)
	if out == nil {
		out = []entities.Inconsistency{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].LowestSlide() < out[j].LowestSlide()
	})
	return out
}
