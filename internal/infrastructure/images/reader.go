// Package images reads a directory of exported slide images.
//
// Text recognition is not implemented: every image yields a placeholder slide
// so the run reports the gap instead of analyzing invented content.
package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Reader implements ports.DeckReader for image directories.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new image directory reader.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

var _ ports.DeckReader = (*Reader)(nil)

// Read lists the images in dir in natural name order and returns one placeholder slide per image.
func (r *Reader) Read(ctx context.Context, dir string) (*ports.Deck, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", dir, entities.ErrInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory: %w", dir, entities.ErrInput)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", dir, entities.ErrInput, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: no .png, .jpg or .jpeg slide images found: %w", dir, entities.ErrInput)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return naturalLess(names[i], names[j])
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deck := &ports.Deck{Source: dir}
	for i := range names {
		deck.Slides = append(deck.Slides, ports.RawSlide{Number: i + 1, Placeholder: true})
	}

	r.logger.Warn("text recognition for slide images is not implemented, slides are placeholders",
		zap.String("dir", dir), zap.Int("images", len(names)))
	return deck, nil
}

// naturalLess orders names so that embedded numbers compare by value ("slide2" before "slide10").
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := a[0], b[0]
		if isDigit(ca) && isDigit(cb) {
			na, restA := leadingNumber(a)
			nb, restB := leadingNumber(b)
			if na != nb {
				return na < nb
			}
			a, b = restA, restB
			continue
		}
		la, lb := unicode.ToLower(rune(ca)), unicode.ToLower(rune(cb))
		if la != lb {
			return la < lb
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func leadingNumber(s string) (uint64, string) {
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	n, err := strconv.ParseUint(s[:end], 10, 64)
	if err != nil {
		n = ^uint64(0)
	}
	return n, s[end:]
}
