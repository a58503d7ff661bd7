package services

import (
	"sort"
	"strings"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// Subject scores assigned by KeywordMatcher.
const (
	SubjectScoreNear     = 1.0
	SubjectScoreSentence = 0.6
)

// KeywordMatcher ties numeric mentions to the subject keywords around them.
// A keyword entry may list aliases separated by "|"; the first alias names the subject,
// so "savings|saved|saves" maps every alias to "savings".
type KeywordMatcher struct {
	aliases map[string]string
	window  int
}

// NewKeywordMatcher builds a matcher over keyword entries with the given proximity window in words.
func NewKeywordMatcher(keywords []string, window int) *KeywordMatcher {
	m := &KeywordMatcher{
		aliases: make(map[string]string),
		window:  window,
	}
	for _, entry := range keywords {
		parts := strings.Split(strings.ToLower(entry), "|")
		canonical := strings.TrimSpace(parts[0])
		if canonical == "" {
			continue
		}
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				m.aliases[p] = canonical
			}
		}
	}
	return m
}

// lookup returns the subject a word refers to, accepting simple plurals.
func (m *KeywordMatcher) lookup(word string) (string, bool) {
	if s, ok := m.aliases[word]; ok {
		return s, true
	}
	for _, suffix := range []string{"es", "s"} {
		if stem, found := strings.CutSuffix(word, suffix); found {
			if s, ok := m.aliases[stem]; ok {
				return s, true
			}
		}
	}
	return "", false
}

// Annotate fills Context, Subjects and SubjectScore on each mention in place.
// Each keyword in a sentence belongs to the mention nearest to it; on a tie the
// mention after the keyword wins. A mention that owns no keyword falls back to
// the keywords nearest to it. Bound keywords within the window score
// SubjectScoreNear, otherwise SubjectScoreSentence.
func (m *KeywordMatcher) Annotate(text string, mentions []entities.NumericMention) {
	sentences := splitSentences(text)
	bySentence := make(map[int][]int)
	var order []sentence
	for i := range mentions {
		sent, ok := sentenceAt(sentences, mentions[i].Offset)
		if !ok {
			continue
		}
		mentions[i].Context = sent.Text
		if _, seen := bySentence[sent.Start]; !seen {
			order = append(order, sent)
		}
		bySentence[sent.Start] = append(bySentence[sent.Start], i)
	}

	for _, sent := range order {
		idx := bySentence[sent.Start]
		group := make([]entities.NumericMention, len(idx))
		for j, i := range idx {
			group[j] = mentions[i]
		}
		m.annotateSentence(sent, group)
		for j, i := range idx {
			mentions[i].Subjects = group[j].Subjects
			mentions[i].SubjectScore = group[j].SubjectScore
		}
	}
}

// span is the token range a mention covers within its sentence.
type span struct {
	first, last int
}

func (s span) distance(i int) int {
	if i < s.first {
		return s.first - i
	}
	return i - s.last
}

func (s span) contains(i int) bool {
	return i >= s.first && i <= s.last
}

// boundKeyword is a subject keyword bound to a mention, with its distance in words.
type boundKeyword struct {
	subject string
	dist    int
}

func (m *KeywordMatcher) annotateSentence(sent sentence, group []entities.NumericMention) {
	tokens := tokenize(sent.Text)
	spans := make([]span, len(group))
	for j, mention := range group {
		spans[j] = mentionSpan(tokens, mention.Offset-sent.Start, len(mention.Raw))
	}

	owned := make([][]boundKeyword, len(group))
	var all []int
	for i, t := range tokens {
		subject, ok := m.lookup(t.Word)
		if !ok || insideAny(spans, i) {
			continue
		}
		all = append(all, i)

		owner := -1
		for j, sp := range spans {
			if owner < 0 {
				owner = j
				continue
			}
			d, best := sp.distance(i), spans[owner].distance(i)
			if d < best || (d == best && sp.first > i && spans[owner].first < i) {
				owner = j
			}
		}
		owned[owner] = append(owned[owner], boundKeyword{subject: subject, dist: spans[owner].distance(i)})
	}

	for j := range group {
		bound := owned[j]
		if len(bound) == 0 {
			bound = m.nearest(tokens, all, spans[j])
		}
		group[j].Subjects, group[j].SubjectScore = m.score(bound)
	}
}

// nearest returns the keywords at minimum distance from sp.
func (m *KeywordMatcher) nearest(tokens []token, keywords []int, sp span) []boundKeyword {
	var out []boundKeyword
	for _, i := range keywords {
		d := sp.distance(i)
		if len(out) > 0 && d > out[0].dist {
			continue
		}
		if len(out) > 0 && d < out[0].dist {
			out = out[:0]
		}
		subject, _ := m.lookup(tokens[i].Word)
		out = append(out, boundKeyword{subject: subject, dist: d})
	}
	return out
}

func (m *KeywordMatcher) score(bound []boundKeyword) ([]string, float64) {
	near := make(map[string]bool)
	anywhere := make(map[string]bool)
	for _, k := range bound {
		anywhere[k.subject] = true
		if k.dist <= m.window {
			near[k.subject] = true
		}
	}

	switch {
	case len(near) > 0:
		return sortedKeys(near), SubjectScoreNear
	case len(anywhere) > 0:
		return sortedKeys(anywhere), SubjectScoreSentence
	}
	return nil, 0
}

// mentionSpan finds the tokens a mention at relOffset covers. A mention made only of
// symbols is anchored to the following token.
func mentionSpan(tokens []token, relOffset, length int) span {
	sp := span{first: -1, last: -1}
	for i, t := range tokens {
		if t.Offset+len(t.Word) > relOffset && t.Offset < relOffset+length {
			if sp.first < 0 {
				sp.first = i
			}
			sp.last = i
		}
	}
	if sp.first >= 0 {
		return sp
	}
	for i, t := range tokens {
		if t.Offset >= relOffset {
			return span{first: i, last: i}
		}
	}
	return span{first: len(tokens), last: len(tokens)}
}

func insideAny(spans []span, i int) bool {
	for _, sp := range spans {
		if sp.contains(i) {
			return true
		}
	}
	return false
}

// Contains returns the subjects mentioned anywhere in the text.
func (m *KeywordMatcher) Contains(text string) []string {
	found := make(map[string]bool)
	for _, t := range tokenize(text) {
		if s, ok := m.lookup(t.Word); ok {
			found[s] = true
		}
	}
	return sortedKeys(found)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// sharedSubjects returns subjects present on both mentions, sorted.
func sharedSubjects(a, b entities.NumericMention) []string {
	var out []string
	for _, s := range a.Subjects {
		if b.HasSubject(s) {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
