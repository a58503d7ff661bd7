// Package pptx reads PowerPoint (.pptx) documents into raw slide text.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
)

const (
	presentationPart = "ppt/presentation.xml"
	presentationRels = "ppt/_rels/presentation.xml.rels"

	relTypeNotes = "/notesSlide"

	// maxPartSize bounds how much of a single XML part is decompressed.
	maxPartSize = 32 << 20
)

// Reader implements ports.DeckReader for .pptx files.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a new pptx reader.
func NewReader(logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{logger: logger}
}

var _ ports.DeckReader = (*Reader)(nil)

// Read opens the document at path and returns its slides in presentation order.
func (r *Reader) Read(ctx context.Context, filePath string) (*ports.Deck, error) {
	if !strings.EqualFold(filepath.Ext(filePath), ".pptx") {
		return nil, fmt.Errorf("%s: unsupported file type %q, expected .pptx: %w", filePath, filepath.Ext(filePath), entities.ErrInput)
	}
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", filePath, entities.ErrInput, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory: %w", filePath, entities.ErrInput)
	}

	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: not a valid pptx archive: %w: %w", filePath, entities.ErrInput, err)
	}
	defer zr.Close()

	doc := newArchive(&zr.Reader)

	slidePaths, err := doc.slideOrder()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", filePath, entities.ErrInput, err)
	}

	deck := &ports.Deck{Source: filePath}
	for i, slidePath := range slidePaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		number := i + 1

		text, err := doc.slideText(slidePath)
		if err != nil {
			r.logger.Warn("skipping unreadable slide",
				zap.String("file", filePath), zap.Int("slide", number), zap.Error(err))
			deck.Skipped = append(deck.Skipped, entities.SkippedSlide{SlideNumber: number, Reason: err.Error()})
			continue
		}

		notes, err := doc.notesText(slidePath)
		if err != nil {
			r.logger.Debug("ignoring unreadable speaker notes",
				zap.String("file", filePath), zap.Int("slide", number), zap.Error(err))
		}
		if notes != "" {
			text = strings.TrimSpace(text + "\n" + notes)
		}

		deck.Slides = append(deck.Slides, ports.RawSlide{Number: number, Text: text})
	}

	r.logger.Debug("read presentation",
		zap.String("file", filePath),
		zap.Int("slides", len(deck.Slides)),
		zap.Int("skipped", len(deck.Skipped)))
	return deck, nil
}

type archive struct {
	files map[string]*zip.File
}

func newArchive(zr *zip.Reader) *archive {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	return &archive{files: files}
}

func (a *archive) open(name string) (io.ReadCloser, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("missing part %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening part %s: %w", name, err)
	}
	return struct {
		io.Reader
		io.Closer
	}{io.LimitReader(rc, maxPartSize), rc}, nil
}

func (a *archive) decode(name string, v any) error {
	rc, err := a.open(name)
	if err != nil {
		return err
	}
	defer rc.Close()
	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("parsing part %s: %w", name, err)
	}
	return nil
}

type relationships struct {
	Items []relationship `xml:"Relationship"`
}

type relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type presentation struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// slideOrder resolves the slide part names in the order listed by presentation.xml.
func (a *archive) slideOrder() ([]string, error) {
	var pres presentation
	if err := a.decode(presentationPart, &pres); err != nil {
		return nil, err
	}
	var rels relationships
	if err := a.decode(presentationRels, &rels); err != nil {
		return nil, err
	}

	targets := make(map[string]string, len(rels.Items))
	for _, rel := range rels.Items {
		targets[rel.ID] = rel.Target
	}

	paths := make([]string, 0, len(pres.SlideIDs))
	for _, id := range pres.SlideIDs {
		target, ok := targets[id.RelID]
		if !ok {
			return nil, fmt.Errorf("slide relationship %q not found", id.RelID)
		}
		paths = append(paths, resolveTarget("ppt", target))
	}
	if len(paths) == 0 {
		return nil, errors.New("presentation has no slides")
	}
	return paths, nil
}

func (a *archive) slideText(slidePath string) (string, error) {
	rc, err := a.open(slidePath)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	shapes, err := parseShapes(rc)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", slidePath, err)
	}
	return joinShapes(orderShapes(shapes)), nil
}

// notesText returns the body text of the slide's speaker notes, if any.
func (a *archive) notesText(slidePath string) (string, error) {
	relsPath := path.Join(path.Dir(slidePath), "_rels", path.Base(slidePath)+".rels")
	if _, ok := a.files[relsPath]; !ok {
		return "", nil
	}
	var rels relationships
	if err := a.decode(relsPath, &rels); err != nil {
		return "", err
	}

	for _, rel := range rels.Items {
		if !strings.HasSuffix(rel.Type, relTypeNotes) {
			continue
		}
		notesPath := resolveTarget(path.Dir(slidePath), rel.Target)
		rc, err := a.open(notesPath)
		if err != nil {
			return "", err
		}
		shapes, err := parseShapes(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", notesPath, err)
		}

		var body []shape
		for _, s := range shapes {
			if s.placeholder == "body" {
				body = append(body, s)
			}
		}
		return joinShapes(body), nil
	}
	return "", nil
}

// resolveTarget resolves a relationship target against the directory of its source part.
func resolveTarget(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Join(dir, target)
}
