package services

import (
	"strings"
	"unicode"
)

// sentence is a span of slide text ending at terminal punctuation or a line break.
type sentence struct {
	Text  string
	Start int
}

// splitSentences splits text on ".", "!", "?" followed by whitespace, and on newlines.
// Decimal points such as "$2.5M" do not end a sentence.
func splitSentences(text string) []sentence {
	var out []sentence
	start := 0

	flush := func(end int) {
		raw := text[start:end]
		trimmed := strings.TrimSpace(raw)
		if trimmed != "" {
			lead := strings.Index(raw, trimmed)
			out = append(out, sentence{Text: trimmed, Start: start + lead})
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\n':
			flush(i)
			start = i + 1
		case c == '.' || c == '!' || c == '?':
			if i+1 == len(text) || text[i+1] == ' ' || text[i+1] == '\t' || text[i+1] == '\n' {
				flush(i)
				start = i + 1
			}
		}
	}
	if start < len(text) {
		flush(len(text))
	}
	return out
}

// sentenceAt returns the sentence containing the byte offset.
func sentenceAt(sentences []sentence, offset int) (sentence, bool) {
	for _, s := range sentences {
		if offset >= s.Start && offset < s.Start+len(s.Text) {
			return s, true
		}
	}
	return sentence{}, false
}

// token is a lowercase word with its byte offset in the source text.
type token struct {
	Word   string
	Offset int
}

// tokenize splits text into lowercase words. Hyphens and apostrophes stay inside words.
func tokenize(text string) []token {
	var out []token
	start := -1
	for i, r := range text {
		inWord := unicode.IsLetter(r) || unicode.IsDigit(r) || ((r == '-' || r == '\'') && start >= 0)
		if inWord {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			out = append(out, token{Word: strings.ToLower(strings.Trim(text[start:i], "-'")), Offset: start})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, token{Word: strings.ToLower(strings.Trim(text[start:], "-'")), Offset: start})
	}
	return out
}

// normalizePhrase lowercases text and replaces every non-alphanumeric rune with a
// single space, padding both ends so phrase lookups respect word boundaries.
func normalizePhrase(text string) string {
	var b strings.Builder
	b.WriteByte(' ')
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	if !lastSpace {
		b.WriteByte(' ')
	}
	return b.String()
}

// containsPhrase reports whether normalized text contains the phrase as whole words.
func containsPhrase(normalizedText, phrase string) bool {
	p := strings.TrimSpace(normalizePhrase(phrase))
	if p == "" {
		return false
	}
	return strings.Contains(normalizedText, " "+p+" ")
}

// collapseWhitespace replaces runs of whitespace with a single space.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeSlideText collapses whitespace within each line and drops empty lines.
func normalizeSlideText(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if c := collapseWhitespace(l); c != "" {
			kept = append(kept, c)
		}
	}
	return strings.Join(kept, "\n")
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
