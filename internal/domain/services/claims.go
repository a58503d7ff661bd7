package services

import (
	"regexp"
	"strings"
)

// AntonymTopic pairs two lists of phrases that assert opposite things about one topic.
type AntonymTopic struct {
	Topic    string   `yaml:"topic" toml:"topic" json:"topic"`
	Positive []string `yaml:"positive" toml:"positive" json:"positive"`
	Negative []string `yaml:"negative" toml:"negative" json:"negative"`
}

// DefaultAntonyms is the built-in antonym table.
var DefaultAntonyms = []AntonymTopic{
	{
		Topic:    "competition",
		Positive: []string{"highly competitive", "crowded market", "many competitors", "intense competition", "fierce competition", "saturated market"},
		Negative: []string{"few competitors", "no competitors", "little competition", "no competition", "untapped market", "no direct competitors"},
	},
	{
		Topic:    "profitability",
		Positive: []string{"profitable", "cash flow positive", "in the black"},
		Negative: []string{"unprofitable", "loss-making", "losing money", "in the red", "cash flow negative"},
	},
	{
		Topic:    "demand",
		Positive: []string{"high demand", "strong demand", "growing demand"},
		Negative: []string{"low demand", "weak demand", "limited demand", "declining demand"},
	},
	{
		Topic:    "market size",
		Positive: []string{"large market", "huge market", "massive market", "multi-billion dollar market"},
		Negative: []string{"small market", "niche market", "limited market"},
	},
	{
		Topic:    "adoption",
		Positive: []string{"widely adopted", "strong adoption", "rapid adoption"},
		Negative: []string{"low adoption", "limited adoption", "slow adoption"},
	},
}

// DefaultClaimKeywords lists phrases that mark a sentence as a claim.
var DefaultClaimKeywords = []string{
	"ai-powered", "automated", "faster", "efficient", "streamlined",
	"competitive", "market leader", "innovative", "cutting-edge",
	"time-saving", "productivity", "efficiency", "accuracy",
	"revolutionary", "breakthrough", "best-in-class", "superior",
	"cost-effective", "affordable", "premium", "luxury",
	"sustainable", "eco-friendly", "green", "environmental",
	"saves", "reduces", "increases", "improves", "cuts", "doubles",
	"accelerates", "outperforms", "boosts", "grows",
}

var (
	comparativeRe = regexp.MustCompile(`(?i)\b(\w+er|more|less|fewer)\s+than\b`)
	superlativeRe = regexp.MustCompile(`(?i)\b(best|worst|largest|biggest|fastest|highest|lowest|leading|most|least|number one)\b`)
)

var negationWords = map[string]bool{
	"not": true, "no": true, "never": true, "none": true, "without": true,
	"cannot": true, "can't": true, "don't": true, "doesn't": true, "isn't": true,
	"aren't": true, "won't": true, "didn't": true, "wasn't": true, "weren't": true,
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true, "to": true,
	"in": true, "on": true, "for": true, "with": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "our": true, "we": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "by": true, "at": true,
	"as": true, "from": true, "has": true, "have": true, "will": true, "do": true, "does": true,
	"there": true, "their": true, "they": true, "you": true, "your": true,
}

// ClaimExtractor selects claim-like sentences from slide text.
type ClaimExtractor struct {
	keywords  []string
	antonyms  []AntonymTopic
	maxClaims int
}

// NewClaimExtractor creates a claim extractor. maxClaims <= 0 keeps every claim.
func NewClaimExtractor(keywords []string, antonyms []AntonymTopic, maxClaims int) *ClaimExtractor {
	return &ClaimExtractor{
		keywords:  keywords,
		antonyms:  antonyms,
		maxClaims: maxClaims,
	}
}

// Extract returns the claim sentences of text in order.
func (c *ClaimExtractor) Extract(text string) []string {
	var claims []string
	for _, s := range splitSentences(text) {
		if !c.isClaim(s.Text) {
			continue
		}
		claims = append(claims, s.Text)
		if c.maxClaims > 0 && len(claims) == c.maxClaims {
			break
		}
	}
	return claims
}

func (c *ClaimExtractor) isClaim(s string) bool {
	if comparativeRe.MatchString(s) || superlativeRe.MatchString(s) {
		return true
	}
	norm := normalizePhrase(s)
	for _, k := range c.keywords {
		if containsPhrase(norm, k) {
			return true
		}
	}
	for _, topic := range c.antonyms {
		for _, p := range topic.Positive {
			if containsPhrase(norm, p) {
				return true
			}
		}
		for _, p := range topic.Negative {
			if containsPhrase(norm, p) {
				return true
			}
		}
	}
	return false
}

// antonymMatch reports the topic and phrases on which two claims take opposite sides.
func antonymMatch(antonyms []AntonymTopic, a, b string) (topic, phraseA, phraseB string, ok bool) {
	na, nb := normalizePhrase(a), normalizePhrase(b)
	for _, t := range antonyms {
		if pa, pb, found := opposed(na, nb, t.Positive, t.Negative); found {
			return t.Topic, pa, pb, true
		}
		if pa, pb, found := opposed(na, nb, t.Negative, t.Positive); found {
			return t.Topic, pa, pb, true
		}
	}
	return "", "", "", false
}

// opposed finds a phrase of side x in a and of side y in b, where a itself does not also assert y.
func opposed(a, b string, x, y []string) (string, string, bool) {
	px := firstPhrase(a, x)
	if px == "" || firstPhrase(a, y) != "" {
		return "", "", false
	}
	py := firstPhrase(b, y)
	if py == "" || firstPhrase(b, x) != "" {
		return "", "", false
	}
	return px, py, true
}

func firstPhrase(normalized string, phrases []string) string {
	for _, p := range phrases {
		if containsPhrase(normalized, p) {
			return p
		}
	}
	return ""
}

// isNegated reports whether a claim contains a negation word.
func isNegated(claim string) bool {
	for _, t := range tokenize(claim) {
		if negationWords[t.Word] || strings.HasSuffix(t.Word, "n't") {
			return true
		}
	}
	return false
}

// contentWords returns the claim's words minus stop words and negations.
func contentWords(claim string) map[string]bool {
	words := make(map[string]bool)
	for _, t := range tokenize(claim) {
		if stopWords[t.Word] || negationWords[t.Word] || strings.HasSuffix(t.Word, "n't") {
			continue
		}
		words[t.Word] = true
	}
	return words
}

// jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both are empty.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
