package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON",
			input:    `[{"type": "numerical_conflict"}]`,
			expected: `[{"type": "numerical_conflict"}]`,
		},
		{
			name:     "JSON with json code block",
			input:    "```json\n[{\"type\": \"numerical_conflict\"}]\n```",
			expected: `[{"type": "numerical_conflict"}]`,
		},
		{
			name:     "JSON with plain code block",
			input:    "```\n[]\n```",
			expected: `[]`,
		},
		{
			name:     "trailing commas",
			input:    "[{\"slides_involved\": [1, 2,],},]",
			expected: `[{"slides_involved": [1, 2]}]`,
		},
		{
			name:     "prose before a fenced block",
			input:    "Here are the inconsistencies I found:\n```json\n[{\"type\": \"claim_contradiction\"}]\n```\nLet me know if you need more.",
			expected: `[{"type": "claim_contradiction"}]`,
		},
		{
			name:     "prose around a bare object",
			input:    "Result: {\"inconsistencies\": []} (end)",
			expected: `{"inconsistencies": []}`,
		},
		{
			name:     "no JSON at all",
			input:    "I could not analyze these slides.",
			expected: "I could not analyze these slides.",
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n [] \n ",
			expected: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONResponse(tt.input))
		})
	}
}

func TestParseFindings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []entities.Inconsistency
	}{
		{
			name: "bare array",
			input: `[{"type":"numerical_conflict","description":"Revenue differs","slides_involved":[1,2],
				"confidence":0.85,"severity":"high","details":"$2M vs $3M"}]`,
			expected: []entities.Inconsistency{{
				Type:           entities.TypeNumericalConflict,
				Description:    "Revenue differs",
				SlidesInvolved: []int{1, 2},
				Confidence:     0.85,
				Severity:       entities.SeverityHigh,
				Details:        "$2M vs $3M",
			}},
		},
		{
			name: "wrapped object with legacy fields",
			input: "```json\n{\"inconsistencies\": [{\"type\": \"logical\", \"description\": \"x\", " +
				"\"slide_numbers\": [\"3\", \"Slide 4\"], \"evidence\": [\"a\", \"b\"]}]}\n```",
			expected: []entities.Inconsistency{{
				Type:           "logical",
				Description:    "x",
				SlidesInvolved: []int{3, 4},
				Confidence:     defaultConfidence,
				Details:        "a; b",
			}},
		},
		{
			name:     "empty array",
			input:    `[]`,
			expected: []entities.Inconsistency{},
		},
		{
			name: "prose before the fenced answer",
			input: "Sure, here is the analysis.\n```json\n[{\"type\":\"claim_contradiction\",\"description\":\"Market described two ways\"," +
				"\"slides_involved\":[3,4],\"confidence\":0.8,\"severity\":\"medium\"}]\n```",
			expected: []entities.Inconsistency{{
				Type:           entities.TypeClaimContradiction,
				Description:    "Market described two ways",
				SlidesInvolved: []int{3, 4},
				Confidence:     0.8,
				Severity:       entities.SeverityMedium,
			}},
		},
		{
			name:  "numeric details",
			input: `[{"type":"t","slides_involved":[1.0],"confidence":1,"details":[42, true, null]}]`,
			expected: []entities.Inconsistency{{
				Type:           "t",
				SlidesInvolved: []int{1},
				Confidence:     1,
				Details:        "42; true",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFindings(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseFindings_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{name: "empty", input: "  ", errMsg: "empty response"},
		{name: "prose", input: "The deck looks consistent.", errMsg: "parsing findings JSON"},
		{name: "object without findings", input: `{"result": []}`, errMsg: "inconsistencies"},
		{name: "wrong shape", input: `[{"slides_involved": "1,2"}]`, errMsg: "parsing findings JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFindings(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt([]entities.SlideContent{
		{SlideNumber: 1, Text: "Revenue $2M"},
		{SlideNumber: 3, Text: ""},
	})

	assert.Contains(t, prompt, "--- Slide 1 ---\nRevenue $2M\n")
	assert.Contains(t, prompt, "--- Slide 3 ---\n")
	assert.Less(t, strings.Index(prompt, "Slide 1"), strings.Index(prompt, "Slide 3"))
}
