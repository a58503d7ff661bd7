// Package handlers wires domain services into the use cases exposed by the CLI.
package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
	"github.com/ersonp/deckcheck/internal/domain/services"
)

// SourceKind selects how a presentation source is read.
type SourceKind int

const (
	// SourceFile is a .pptx document.
	SourceFile SourceKind = iota
	// SourceImages is a directory of exported slide images.
	SourceImages
)

// AnalyzeHandler runs the extract and analyze pipeline for one source.
type AnalyzeHandler struct {
	files    *services.ExtractionService
	images   *services.ExtractionService
	analyzer *services.AnalyzerService
	history  ports.RunHistory
	logger   *zap.Logger
}

// NewAnalyzeHandler creates a new analyze handler. history may be nil to disable run recording.
func NewAnalyzeHandler(
	files, images *services.ExtractionService,
	analyzer *services.AnalyzerService,
	history ports.RunHistory,
	logger *zap.Logger,
) *AnalyzeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzeHandler{
		files:    files,
		images:   images,
		analyzer: analyzer,
		history:  history,
		logger:   logger,
	}
}

// AnalyzeRequest names the source to analyze.
type AnalyzeRequest struct {
	Path string
	Kind SourceKind
}

// Handle extracts the slides of the source and analyzes them.
// A failure to record the run in history is logged and does not fail the analysis.
func (h *AnalyzeHandler) Handle(ctx context.Context, req AnalyzeRequest) (*entities.Analysis, error) {
	absPath, err := filepath.Abs(req.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	extractor := h.files
	if req.Kind == SourceImages {
		extractor = h.images
	}

	ext, err := extractor.Extract(ctx, absPath)
	if err != nil {
		return nil, fmt.Errorf("extracting slides: %w", err)
	}
	for _, s := range ext.Skipped {
		h.logger.Warn("slide skipped", zap.Int("slide", s.SlideNumber), zap.String("reason", s.Reason))
	}
	if n := ext.PlaceholderCount(); n > 0 {
		h.logger.Warn("slides without extracted text are excluded from analysis", zap.Int("placeholders", n))
	}

	analysis, err := h.analyzer.Analyze(ctx, ext)
	if err != nil {
		return nil, fmt.Errorf("analyzing slides: %w", err)
	}

	h.logger.Info("analysis complete",
		zap.String("run_id", analysis.RunID),
		zap.String("source", analysis.Source),
		zap.Int("slides", analysis.SlideCount),
		zap.Int("findings", len(analysis.Findings)),
		zap.String("ai_status", string(analysis.AI.Status)),
		zap.Duration("duration", analysis.Duration))

	if h.history != nil {
		if err := h.history.SaveRun(ctx, entities.NewRun(analysis)); err != nil {
			h.logger.Warn("recording run in history failed", zap.String("run_id", analysis.RunID), zap.Error(err))
		}
	}

	return analysis, nil
}
