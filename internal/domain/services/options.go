package services

// DefaultSubjectKeywords ties numeric mentions to what they measure.
// Entries may carry aliases after "|".
var DefaultSubjectKeywords = []string{
	"revenue", "sales", "growth|grew|grow|grows", "savings|saved|save|saves|saving",
	"cost", "profit", "margin", "user", "customer", "time", "hour", "slide", "deck",
	"faster", "speed", "productivity", "market", "price|pricing", "churn", "retention",
	"conversion", "headcount|employee", "funding|raise|raised", "valuation",
}

// DefaultMilestoneKeywords name the events that dates on a slide refer to.
var DefaultMilestoneKeywords = []string{
	"launch|launches|launched|launching", "release|released", "beta", "ga", "rollout",
	"ipo", "funding", "break-even|breakeven", "expansion|expand", "pilot", "go-live",
	"deadline", "completion|complete|completed",
}

// Defaults for rule tuning.
const (
	DefaultRelativeTolerance   = 0.05
	DefaultProximityWindow     = 6
	DefaultConfidenceThreshold = 0.7
	DefaultNegationOverlap     = 0.6
	DefaultMaxClaims           = 10
)

// ExtractionOptions tunes how slide text is turned into mentions and claims.
type ExtractionOptions struct {
	SubjectKeywords   []string
	MilestoneKeywords []string
	ClaimKeywords     []string
	Antonyms          []AntonymTopic
	ProximityWindow   int
	MaxClaims         int
}

// DefaultExtractionOptions returns the built-in extraction tuning.
func DefaultExtractionOptions() ExtractionOptions {
	return ExtractionOptions{
		SubjectKeywords:   DefaultSubjectKeywords,
		MilestoneKeywords: DefaultMilestoneKeywords,
		ClaimKeywords:     DefaultClaimKeywords,
		Antonyms:          DefaultAntonyms,
		ProximityWindow:   DefaultProximityWindow,
		MaxClaims:         DefaultMaxClaims,
	}
}

// RuleOptions tunes the deterministic checks.
type RuleOptions struct {
	RelativeTolerance float64
	NegationOverlap   float64
	Antonyms          []AntonymTopic
	EnableNumeric     bool
	EnableClaims      bool
	EnableTimeline    bool
}

// DefaultRuleOptions returns every check enabled with the built-in tuning.
func DefaultRuleOptions() RuleOptions {
	return RuleOptions{
		RelativeTolerance: DefaultRelativeTolerance,
		NegationOverlap:   DefaultNegationOverlap,
		Antonyms:          DefaultAntonyms,
		EnableNumeric:     true,
		EnableClaims:      true,
		EnableTimeline:    true,
	}
}

// AnalyzerOptions tunes aggregation of rule and AI findings.
type AnalyzerOptions struct {
	ConfidenceThreshold float64
	EnableAI            bool
}

// DefaultAnalyzerOptions returns the built-in aggregation settings.
func DefaultAnalyzerOptions() AnalyzerOptions {
	return AnalyzerOptions{
		ConfidenceThreshold: DefaultConfidenceThreshold,
		EnableAI:            true,
	}
}
