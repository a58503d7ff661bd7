// Package entities contains core domain data structures.
package entities

// SlideStatus reports how a slide's content was obtained.
type SlideStatus string

const (
	// SlideExtracted marks slides whose text came from the source document.
	SlideExtracted SlideStatus = "extracted"
	// SlidePlaceholder marks slides that carry no real content yet (image input).
	SlidePlaceholder SlideStatus = "placeholder"
)

// NumericCategory groups numeric mentions that can be compared with each other.
type NumericCategory string

// Numeric categories recognised in slide text.
const (
	CategoryCurrency   NumericCategory = "currency"
	CategoryPercentage NumericCategory = "percentage"
	CategoryDuration   NumericCategory = "duration"
	CategoryMultiplier NumericCategory = "multiplier"
	CategoryRatio      NumericCategory = "ratio"
	CategoryDate       NumericCategory = "date"
)

// Units in which normalized values are expressed.
const (
	UnitUSD     = "USD"
	UnitPercent = "percent"
	UnitSeconds = "seconds"
	UnitTimes   = "x"
	UnitRatio   = "ratio"
	UnitDay     = "day"
)

// NumericMention is a single number found in slide text, normalized to its category unit.
type NumericMention struct {
	Raw      string          `json:"raw"`
	Value    float64         `json:"value"`
	Unit     string          `json:"unit"`
	Category NumericCategory `json:"category"`
	// Width is the length in days of a date period. Zero for other categories.
	Width    float64  `json:"width,omitempty"`
	Context  string   `json:"context"`
	Subjects []string `json:"subjects,omitempty"`
	// SubjectScore is 1.0 when a subject keyword is close to the mention,
	// 0.6 when it only shares the sentence, 0 when there is none.
	SubjectScore float64 `json:"subject_score,omitempty"`
	Offset       int     `json:"offset"`
}

// HasSubject reports whether the mention is tied to the given subject keyword.
func (m NumericMention) HasSubject(subject string) bool {
	for _, s := range m.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// SlideContent is the normalized extraction result for one slide.
type SlideContent struct {
	SlideNumber   int              `json:"slide_number"`
	Text          string           `json:"text"`
	NumericalData []NumericMention `json:"numerical_data"`
	KeyClaims     []string         `json:"key_claims"`
	Status        SlideStatus      `json:"status"`
}

// IsPlaceholder reports whether the slide has no real content yet.
func (s SlideContent) IsPlaceholder() bool {
	return s.Status == SlidePlaceholder
}

// SkippedSlide records a slide that could not be read.
type SkippedSlide struct {
	SlideNumber int    `json:"slide_number"`
	Reason      string `json:"reason"`
}

// Extraction is the full output of reading a presentation source.
type Extraction struct {
	Source  string         `json:"source"`
	Slides  []SlideContent `json:"slides"`
	Skipped []SkippedSlide `json:"skipped,omitempty"`
}

// SlideNumbers returns the set of slide numbers present in the extraction.
func (e *Extraction) SlideNumbers() map[int]bool {
	nums := make(map[int]bool, len(e.Slides))
	for _, s := range e.Slides {
		nums[s.SlideNumber] = true
	}
	return nums
}

// PlaceholderCount returns how many slides carry placeholder content.
func (e *Extraction) PlaceholderCount() int {
	n := 0
	for _, s := range e.Slides {
		if s.IsPlaceholder() {
			n++
		}
	}
	return n
}
