package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// defaultConfidence is applied to findings that omit a confidence.
const defaultConfidence = 0.7

var trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

// rawFinding is the JSON structure returned by the model.
type rawFinding struct {
	Type           string          `json:"type"`
	Description    string          `json:"description"`
	SlidesInvolved slideList       `json:"slides_involved"`
	SlideNumbers   slideList       `json:"slide_numbers"`
	Confidence     *float64        `json:"confidence"`
	Severity       string          `json:"severity"`
	Details        json.RawMessage `json:"details"`
	Evidence       json.RawMessage `json:"evidence"`
}

// slideList accepts slide numbers given as integers, floats or numeric strings.
type slideList []int

func (s *slideList) UnmarshalJSON(data []byte) error {
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("slide list: %w", err)
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			out = append(out, int(v))
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(v)), "slide")))
			if err != nil {
				continue
			}
			out = append(out, n)
		}
	}
	*s = out
	return nil
}

// ParseFindings decodes a model response into inconsistencies. It accepts a bare
// array or an object with an "inconsistencies" array, optionally wrapped in a
// markdown code block.
func ParseFindings(content string) ([]entities.Inconsistency, error) {
	cleaned := CleanJSONResponse(content)
	if cleaned == "" {
		return nil, errors.New("empty response")
	}

	var raw []rawFinding
	if strings.HasPrefix(cleaned, "{") {
		var wrapped struct {
			Inconsistencies *[]rawFinding `json:"inconsistencies"`
		}
		if err := json.Unmarshal([]byte(cleaned), &wrapped); err != nil {
			return nil, fmt.Errorf("parsing findings JSON: %w (response: %s)", err, truncate(cleaned))
		}
		if wrapped.Inconsistencies == nil {
			return nil, fmt.Errorf("parsing findings JSON: object has no \"inconsistencies\" field (response: %s)", truncate(cleaned))
		}
		raw = *wrapped.Inconsistencies
	} else if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("parsing findings JSON: %w (response: %s)", err, truncate(cleaned))
	}

	findings := make([]entities.Inconsistency, 0, len(raw))
	for _, rf := range raw {
		slides := []int(rf.SlidesInvolved)
		if len(slides) == 0 {
			slides = rf.SlideNumbers
		}
		confidence := defaultConfidence
		if rf.Confidence != nil {
			confidence = *rf.Confidence
		}
		details := textOf(rf.Details)
		if details == "" {
			details = textOf(rf.Evidence)
		}
		findings = append(findings, entities.Inconsistency{
			Type:           entities.InconsistencyType(rf.Type),
			Description:    strings.TrimSpace(rf.Description),
			SlidesInvolved: slides,
			Confidence:     confidence,
			Severity:       entities.Severity(rf.Severity),
			Details:        details,
		})
	}
	return findings, nil
}

// CleanJSONResponse removes markdown code blocks, prose around the JSON value and trailing commas.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}
	content = outermostJSON(content)

	content = trailingCommaRe.ReplaceAllString(content, "$1")
	return strings.TrimSpace(content)
}

// outermostJSON cuts content down to the span from the first "[" or "{" to the last
// matching closer. Content without one is returned unchanged.
func outermostJSON(content string) string {
	start := strings.IndexAny(content, "[{")
	if start < 0 {
		return content
	}
	closer := "]"
	if content[start] == '{' {
		closer = "}"
	}
	end := strings.LastIndex(content, closer)
	if end < start {
		return content
	}
	return content[start : end+1]
}

// textOf renders a details or evidence value as text. Lists are joined with "; ".
func textOf(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if text := valueToString(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, "; ")
	}

	return string(raw)
}

// valueToString converts a decoded JSON value to string (handles numbers from the model).
func valueToString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}

const maxEcho = 200

func truncate(s string) string {
	if len(s) <= maxEcho {
		return s
	}
	return s[:maxEcho] + "..."
}
