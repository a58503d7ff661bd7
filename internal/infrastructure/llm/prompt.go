// Package llm holds the prompt and response handling shared by the AI backends.
package llm

import (
	"fmt"
	"strings"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// SystemPrompt instructs the model on the task and the response schema.
const SystemPrompt = `You review slide decks for factual and logical inconsistencies between slides.

Look for:
- numerical_conflict: the same metric given different values on different slides
- claim_contradiction: statements that cannot both be true
- timeline_mismatch: the same milestone placed at different dates or periods
- any other contradiction a careful reader would flag

For each inconsistency return an object with:
- type: one of the types above, or a short snake_case label
- description: one sentence naming the conflict
- slides_involved: array of slide numbers (integers) from the input
- confidence: number between 0.0 and 1.0
- severity: "low", "medium" or "high"
- details: the quoted evidence from each slide

Return ONLY a valid JSON array, no other text. Return an empty array [] if the deck is consistent.`

// BuildPrompt serializes the slides into the user message of the request.
func BuildPrompt(slides []entities.SlideContent) string {
	var b strings.Builder
	b.WriteString("Presentation content:\n")
	for _, s := range slides {
		fmt.Fprintf(&b, "\n--- Slide %d ---\n", s.SlideNumber)
		if s.Text != "" {
			b.WriteString(s.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
