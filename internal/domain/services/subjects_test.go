package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

func TestKeywordMatcher_Annotate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		window   int
		subjects []string
		score    float64
	}{
		{
			name:     "keyword next to mention",
			text:     "Revenue reached $2M.",
			window:   6,
			subjects: []string{"revenue"},
			score:    SubjectScoreNear,
		},
		{
			name:     "keyword in same sentence but outside window",
			text:     "Revenue for the region we opened last spring in the north was $2M.",
			window:   3,
			subjects: []string{"revenue"},
			score:    SubjectScoreSentence,
		},
		{
			name:     "keyword only in another sentence",
			text:     "Revenue matters. We spent $2M.",
			window:   6,
			subjects: nil,
			score:    0,
		},
		{
			name:     "alias maps to canonical subject",
			text:     "Customers saved $500 each.",
			window:   6,
			subjects: []string{"customer", "savings"},
			score:    SubjectScoreNear,
		},
	}

	registry := DefaultRecognizers()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matcher := NewKeywordMatcher(DefaultSubjectKeywords, tt.window)
			mentions := registry.Scan(tt.text)
			require.Len(t, mentions, 1)

			matcher.Annotate(tt.text, mentions)

			assert.Equal(t, tt.subjects, mentions[0].Subjects)
			assert.Equal(t, tt.score, mentions[0].SubjectScore)
			assert.NotEmpty(t, mentions[0].Context)
		})
	}
}

func TestKeywordMatcher_Contains(t *testing.T) {
	matcher := NewKeywordMatcher([]string{"launch|launched", "beta"}, 6)

	assert.Equal(t, []string{"beta", "launch"}, matcher.Contains("Beta launched in Q3"))
	assert.Empty(t, matcher.Contains("nothing relevant"))
}

func TestKeywordMatcher_Annotate_SeveralMentions(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		subjects [][]string
		scores   []float64
	}{
		{
			name:     "each keyword binds to its nearest figure",
			text:     "Revenue grew 20% and costs fell 10%.",
			subjects: [][]string{{"growth", "revenue"}, {"cost"}},
			scores:   []float64{SubjectScoreNear, SubjectScoreNear},
		},
		{
			name:     "tie goes to the figure after the keyword",
			text:     "Costs fell 10% and revenue grew 20%.",
			subjects: [][]string{{"cost"}, {"growth", "revenue"}},
			scores:   []float64{SubjectScoreNear, SubjectScoreNear},
		},
		{
			name:     "figure without a keyword of its own uses the nearest one",
			text:     "Revenue: $2M in 2023 and $3M in 2024.",
			subjects: [][]string{{"revenue"}, {"revenue"}},
			scores:   []float64{SubjectScoreNear, SubjectScoreNear},
		},
	}

	registry := DefaultRecognizers()
	matcher := NewKeywordMatcher(DefaultSubjectKeywords, DefaultProximityWindow)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mentions []entities.NumericMention
			for _, m := range registry.Scan(tt.text) {
				if m.Category != entities.CategoryDate {
					mentions = append(mentions, m)
				}
			}
			require.Len(t, mentions, len(tt.subjects))

			matcher.Annotate(tt.text, mentions)

			for i, m := range mentions {
				assert.Equal(t, tt.subjects[i], m.Subjects, "mention %q", m.Raw)
				assert.Equal(t, tt.scores[i], m.SubjectScore, "mention %q", m.Raw)
			}
		})
	}
}
