// Package services contains domain business logic.
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
)

// PlaceholderText is the text given to slides whose content has not been extracted.
const PlaceholderText = "[placeholder: slide image not yet extracted]"

// ExtractionService turns a presentation source into per-slide content records.
type ExtractionService struct {
	reader     ports.DeckReader
	registry   *RecognizerRegistry
	subjects   *KeywordMatcher
	milestones *KeywordMatcher
	claims     *ClaimExtractor
}

// NewExtractionService creates a new extraction service.
func NewExtractionService(reader ports.DeckReader, opts ExtractionOptions) *ExtractionService {
	return &ExtractionService{
		reader:     reader,
		registry:   DefaultRecognizers(),
		subjects:   NewKeywordMatcher(opts.SubjectKeywords, opts.ProximityWindow),
		milestones: NewKeywordMatcher(opts.MilestoneKeywords, opts.ProximityWindow),
		claims:     NewClaimExtractor(opts.ClaimKeywords, opts.Antonyms, opts.MaxClaims),
	}
}

// Extract reads the source at path and builds one SlideContent per readable slide,
// ordered by slide number. Slides the reader could not parse are listed in Skipped.
func (s *ExtractionService) Extract(ctx context.Context, path string) (*entities.Extraction, error) {
	deck, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	raw := make([]ports.RawSlide, len(deck.Slides))
	copy(raw, deck.Slides)
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Number < raw[j].Number
	})

	seen := make(map[int]bool, len(raw))
	slides := make([]entities.SlideContent, 0, len(raw))
	for _, r := range raw {
		if seen[r.Number] {
			return nil, fmt.Errorf("reading %s: duplicate slide number %d: %w", path, r.Number, entities.ErrInput)
		}
		seen[r.Number] = true
		slides = append(slides, s.BuildSlide(r))
	}

	return &entities.Extraction{
		Source:  deck.Source,
		Slides:  slides,
		Skipped: deck.Skipped,
	}, nil
}

// BuildSlide normalizes raw slide text and extracts its numeric mentions and claims.
func (s *ExtractionService) BuildSlide(r ports.RawSlide) entities.SlideContent {
	if r.Placeholder {
		return entities.SlideContent{
			SlideNumber:   r.Number,
			Text:          PlaceholderText,
			NumericalData: []entities.NumericMention{},
			KeyClaims:     []string{},
			Status:        entities.SlidePlaceholder,
		}
	}

	text := normalizeSlideText(r.Text)
	mentions := s.registry.Scan(text)

	var numeric, dates []entities.NumericMention
	for _, m := range mentions {
		if m.Category == entities.CategoryDate {
			dates = append(dates, m)
		} else {
			numeric = append(numeric, m)
		}
	}
	s.subjects.Annotate(text, numeric)
	s.milestones.Annotate(text, dates)

	all := append(numeric, dates...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Offset < all[j].Offset
	})
	if all == nil {
		all = []entities.NumericMention{}
	}

	claims := s.claims.Extract(text)
	if claims == nil {
		claims = []string{}
	}

	return entities.SlideContent{
		SlideNumber:   r.Number,
		Text:          text,
		NumericalData: all,
		KeyClaims:     claims,
		Status:        entities.SlideExtracted,
	}
}
