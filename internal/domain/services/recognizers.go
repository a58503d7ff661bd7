package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// Match is a single recognizer hit, normalized to its category unit.
type Match struct {
	Start int
	End   int
	Raw   string
	Value float64
	Width float64
}

// Recognizer finds numeric mentions of one category in text.
type Recognizer interface {
	Category() entities.NumericCategory
	Unit() string
	// Priority decides which recognizer wins when matches overlap. Higher wins.
	Priority() int
	FindAll(text string) []Match
}

// regexRecognizer is a Recognizer backed by a regular expression and a parse func.
type regexRecognizer struct {
	category entities.NumericCategory
	unit     string
	priority int
	re       *regexp.Regexp
	parse    func(groups []string) (value, width float64, ok bool)
}

func (r *regexRecognizer) Category() entities.NumericCategory { return r.category }
func (r *regexRecognizer) Unit() string                       { return r.unit }
func (r *regexRecognizer) Priority() int                      { return r.priority }

func (r *regexRecognizer) FindAll(text string) []Match {
	var out []Match
	for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = text[loc[2*g]:loc[2*g+1]]
			}
		}
		value, width, ok := r.parse(groups)
		if !ok {
			continue
		}
		out = append(out, Match{
			Start: loc[0],
			End:   loc[1],
			Raw:   strings.TrimSpace(text[loc[0]:loc[1]]),
			Value: value,
			Width: width,
		})
	}
	return out
}

// RecognizerRegistry holds the recognizers used to scan slide text.
type RecognizerRegistry struct {
	recognizers []Recognizer
}

// NewRecognizerRegistry creates an empty registry.
func NewRecognizerRegistry() *RecognizerRegistry {
	return &RecognizerRegistry{}
}

// Register adds a recognizer to the registry.
func (r *RecognizerRegistry) Register(rec Recognizer) {
	r.recognizers = append(r.recognizers, rec)
}

// Categories returns the distinct categories handled by the registry.
func (r *RecognizerRegistry) Categories() []entities.NumericCategory {
	seen := make(map[entities.NumericCategory]bool)
	var out []entities.NumericCategory
	for _, rec := range r.recognizers {
		if !seen[rec.Category()] {
			seen[rec.Category()] = true
			out = append(out, rec.Category())
		}
	}
	return out
}

type candidate struct {
	match    Match
	category entities.NumericCategory
	unit     string
	priority int
}

// Scan runs every recognizer over text and resolves overlaps. Candidates are
// accepted by descending priority, then leftmost start, then longest span;
// any candidate overlapping an accepted one is dropped. The result is ordered
// by position in the text.
func (r *RecognizerRegistry) Scan(text string) []entities.NumericMention {
	var cands []candidate
	for _, rec := range r.recognizers {
		for _, m := range rec.FindAll(text) {
			cands = append(cands, candidate{match: m, category: rec.Category(), unit: rec.Unit(), priority: rec.Priority()})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.priority != b.priority {
			return a.priority > b.priority
		}
		if a.match.Start != b.match.Start {
			return a.match.Start < b.match.Start
		}
		return a.match.End-a.match.Start > b.match.End-b.match.Start
	})

	var accepted []candidate
	for _, c := range cands {
		overlaps := false
		for _, a := range accepted {
			if c.match.Start < a.match.End && a.match.Start < c.match.End {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, c)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].match.Start < accepted[j].match.Start
	})

	mentions := make([]entities.NumericMention, len(accepted))
	for i, c := range accepted {
		mentions[i] = entities.NumericMention{
			Raw:      c.match.Raw,
			Value:    c.match.Value,
			Unit:     c.unit,
			Category: c.category,
			Width:    c.match.Width,
			Offset:   c.match.Start,
		}
	}
	return mentions
}

// DefaultRecognizers returns a registry with the built-in numeric and date recognizers.
func DefaultRecognizers() *RecognizerRegistry {
	r := NewRecognizerRegistry()
	for _, rec := range numericRecognizers() {
		r.Register(rec)
	}
	for _, rec := range dateRecognizers() {
		r.Register(rec)
	}
	return r
}

const (
	priorityDate       = 60
	priorityRatio      = 50
	priorityMultiplier = 40
	priorityCurrency   = 30
	priorityDuration   = 20
	priorityPercentage = 10
)

const numberPattern = `(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)`

var (
	ratioRe          = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?::|out\s+of)\s*(\d+(?:\.\d+)?)\b`)
	multiplierRe     = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:x\b|×|times\b)`)
	currencyPrefixRe = regexp.MustCompile(`(?i)(?:\$|\bUSD\s?)` + numberPattern + `(?:\s?(thousand|million|billion|trillion|mm|mn|bn|k|m|b|t))?\b`)
	currencySuffixRe = regexp.MustCompile(`(?i)\b` + numberPattern + `\s?(thousand|million|billion|trillion|mm|mn|bn|k|m|b|t)?\s?(?:dollars?|USD)\b`)
	durationRe       = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?|days?|weeks?|wks?|months?|years?|yrs?)\b`)
	percentRe        = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:%|percent\b|per\s?cent\b)`)
)

func numericRecognizers() []Recognizer {
	return []Recognizer{
		&regexRecognizer{
			category: entities.CategoryRatio,
			unit:     entities.UnitRatio,
			priority: priorityRatio,
			re:       ratioRe,
			parse:    parseRatio,
		},
		&regexRecognizer{
			category: entities.CategoryMultiplier,
			unit:     entities.UnitTimes,
			priority: priorityMultiplier,
			re:       multiplierRe,
			parse:    parseFirstNumber,
		},
		&regexRecognizer{
			category: entities.CategoryCurrency,
			unit:     entities.UnitUSD,
			priority: priorityCurrency,
			re:       currencyPrefixRe,
			parse:    parseCurrency,
		},
		&regexRecognizer{
			category: entities.CategoryCurrency,
			unit:     entities.UnitUSD,
			priority: priorityCurrency,
			re:       currencySuffixRe,
			parse:    parseCurrency,
		},
		&regexRecognizer{
			category: entities.CategoryDuration,
			unit:     entities.UnitSeconds,
			priority: priorityDuration,
			re:       durationRe,
			parse:    parseDuration,
		},
		&regexRecognizer{
			category: entities.CategoryPercentage,
			unit:     entities.UnitPercent,
			priority: priorityPercentage,
			re:       percentRe,
			parse:    parseFirstNumber,
		},
	}
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseFirstNumber(groups []string) (float64, float64, bool) {
	v, ok := parseNumber(groups[1])
	return v, 0, ok
}

func parseRatio(groups []string) (float64, float64, bool) {
	left, ok := parseNumber(groups[1])
	if !ok {
		return 0, 0, false
	}
	right, ok := parseNumber(groups[2])
	if !ok || right == 0 {
		return 0, 0, false
	}
	return left / right, 0, true
}

var currencyScale = map[string]float64{
	"":         1,
	"k":        1e3,
	"thousand": 1e3,
	"m":        1e6,
	"mm":       1e6,
	"mn":       1e6,
	"million":  1e6,
	"b":        1e9,
	"bn":       1e9,
	"billion":  1e9,
	"t":        1e12,
	"trillion": 1e12,
}

func parseCurrency(groups []string) (float64, float64, bool) {
	v, ok := parseNumber(groups[1])
	if !ok {
		return 0, 0, false
	}
	scale, ok := currencyScale[strings.ToLower(groups[2])]
	if !ok {
		return 0, 0, false
	}
	return v * scale, 0, true
}

const secondsPerDay = 86400

func durationUnitSeconds(unit string) float64 {
	u := strings.ToLower(unit)
	switch {
	case strings.HasPrefix(u, "sec"):
		return 1
	case strings.HasPrefix(u, "min"):
		return 60
	case strings.HasPrefix(u, "h"):
		return 3600
	case strings.HasPrefix(u, "d"):
		return secondsPerDay
	case strings.HasPrefix(u, "w"):
		return 7 * secondsPerDay
	case strings.HasPrefix(u, "mo"):
		return 30 * secondsPerDay
	case strings.HasPrefix(u, "y"):
		return 365 * secondsPerDay
	}
	return 0
}

func parseDuration(groups []string) (float64, float64, bool) {
	v, ok := parseNumber(groups[1])
	if !ok {
		return 0, 0, false
	}
	scale := durationUnitSeconds(groups[2])
	if scale == 0 {
		return 0, 0, false
	}
	return v * scale, 0, true
}

// Date recognizers normalize to the period start in days since 1970-01-01
// and report the period length in days as the match width.

var monthIndex = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

const (
	minYear = 1900
	maxYear = 2100
)

var (
	isoDateRe    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	quarterRe    = regexp.MustCompile(`(?i)\bQ([1-4])\s*(?:FY\s?)?['’]?(\d{4})\b`)
	halfRe       = regexp.MustCompile(`(?i)\bH([12])\s*(\d{4})\b`)
	monthYearRe  = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{4})\b`)
	fiscalYearRe = regexp.MustCompile(`(?i)\bFY\s?(\d{4}|\d{2})\b`)
	yearRe       = regexp.MustCompile(`(?i)\b(?:in|by|since|until|during)\s+(\d{4})\b`)
)

func dateRecognizers() []Recognizer {
	return []Recognizer{
		&regexRecognizer{
			category: entities.CategoryDate,
			unit:     entities.UnitDay,
			priority: priorityDate + 4,
			re:       isoDateRe,
			parse:    parseISODate,
		},
		&regexRecognizer{
			category: entities.CategoryDate,
			unit:     entities.UnitDay,
			priority: priorityDate + 3,
			re:       quarterRe,
			parse:    parseQuarter,
		},
		&regexRecognizer{
			category: entities.CategoryDate,
			unit:     entities.UnitDay,
			priority: priorityDate + 2,
			re:       halfRe,
			parse:    parseHalf,
		},
		&regexRecognizer{
			category: entities.CategoryDate,
			unit:     entities.UnitDay,
			priority: priorityDate + 1,
			re:       monthYearRe,
			parse:    parseMonthYear,
		},
		&regexRecognizer{
			category: entities.CategoryDate,
			unit:     entities.UnitDay,
			priority: priorityDate,
			re:       fiscalYearRe,
			parse:    parseFiscalYear,
		},
		&regexRecognizer{
			category: entities.CategoryDate,
			unit:     entities.UnitDay,
			priority: priorityDate,
			re:       yearRe,
			parse:    parseYear,
		},
	}
}

func daysSinceEpoch(t time.Time) float64 {
	return float64(t.Unix() / secondsPerDay)
}

// period converts [start, end) to a (value, width) pair in days.
func period(start, end time.Time) (float64, float64, bool) {
	return daysSinceEpoch(start), daysSinceEpoch(end) - daysSinceEpoch(start), true
}

func parseYearString(s string) (int, bool) {
	y, err := strconv.Atoi(s)
	if err != nil || y < minYear || y > maxYear {
		return 0, false
	}
	return y, true
}

func parseISODate(groups []string) (float64, float64, bool) {
	y, ok := parseYearString(groups[1])
	if !ok {
		return 0, 0, false
	}
	m, err1 := strconv.Atoi(groups[2])
	d, err2 := strconv.Atoi(groups[3])
	if err1 != nil || err2 != nil || m < 1 || m > 12 || d < 1 || d > 31 {
		return 0, 0, false
	}
	start := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if start.Day() != d {
		return 0, 0, false
	}
	return period(start, start.AddDate(0, 0, 1))
}

func parseQuarter(groups []string) (float64, float64, bool) {
	q, _ := strconv.Atoi(groups[1])
	y, ok := parseYearString(groups[2])
	if !ok {
		return 0, 0, false
	}
	start := time.Date(y, time.Month(3*(q-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return period(start, start.AddDate(0, 3, 0))
}

func parseHalf(groups []string) (float64, float64, bool) {
	h, _ := strconv.Atoi(groups[1])
	y, ok := parseYearString(groups[2])
	if !ok {
		return 0, 0, false
	}
	start := time.Date(y, time.Month(6*(h-1)+1), 1, 0, 0, 0, 0, time.UTC)
	return period(start, start.AddDate(0, 6, 0))
}

func parseMonthYear(groups []string) (float64, float64, bool) {
	m, ok := monthIndex[strings.ToLower(groups[1][:3])]
	if !ok {
		return 0, 0, false
	}
	y, ok := parseYearString(groups[2])
	if !ok {
		return 0, 0, false
	}
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return period(start, start.AddDate(0, 1, 0))
}

func parseFiscalYear(groups []string) (float64, float64, bool) {
	s := groups[1]
	if len(s) == 2 {
		s = "20" + s
	}
	return parseYear([]string{"", s})
}

func parseYear(groups []string) (float64, float64, bool) {
	y, ok := parseYearString(groups[1])
	if !ok {
		return 0, 0, false
	}
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return period(start, start.AddDate(1, 0, 0))
}
