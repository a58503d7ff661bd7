package entities

import "time"

// AIStatus reports what happened to the AI pass of an analysis.
type AIStatus string

const (
	AIStatusOK       AIStatus = "ok"
	AIStatusDisabled AIStatus = "disabled"
	AIStatusFailed   AIStatus = "failed"
)

// AIOutcome describes the AI pass of a single analysis run.
type AIOutcome struct {
	Status  AIStatus `json:"status"`
	Backend string   `json:"backend,omitempty"`
	Error   string   `json:"error,omitempty"`
	// Dropped counts AI findings rejected during validation.
	Dropped int `json:"dropped,omitempty"`
}

// Degraded returns true if the AI pass was requested but did not contribute.
func (o AIOutcome) Degraded() bool {
	return o.Status != AIStatusOK
}

// Analysis is the result of running the analyzer over one extraction.
type Analysis struct {
	RunID         string          `json:"run_id"`
	Source        string          `json:"source"`
	SlideCount    int             `json:"slide_count"`
	SkippedSlides []SkippedSlide  `json:"skipped_slides,omitempty"`
	Placeholders  int             `json:"placeholders,omitempty"`
	Findings      []Inconsistency `json:"findings"`
	AI            AIOutcome       `json:"ai"`
	StartedAt     time.Time       `json:"started_at"`
	Duration      time.Duration   `json:"duration"`
}

// Run is a persisted summary of an analysis, as kept by the run history store.
type Run struct {
	ID           string          `json:"id"`
	Source       string          `json:"source"`
	SlideCount   int             `json:"slide_count"`
	SkippedCount int             `json:"skipped_count"`
	FindingCount int             `json:"finding_count"`
	AIStatus     AIStatus        `json:"ai_status"`
	AIBackend    string          `json:"ai_backend,omitempty"`
	Findings     []Inconsistency `json:"findings,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// NewRun builds a history record from an analysis.
func NewRun(a *Analysis) *Run {
	return &Run{
		ID:           a.RunID,
		Source:       a.Source,
		SlideCount:   a.SlideCount,
		SkippedCount: len(a.SkippedSlides),
		FindingCount: len(a.Findings),
		AIStatus:     a.AI.Status,
		AIBackend:    a.AI.Backend,
		Findings:     a.Findings,
		CreatedAt:    a.StartedAt,
	}
}
