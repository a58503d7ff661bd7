package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
)

// DefaultHistoryLimit is the number of runs listed when no limit is given.
const DefaultHistoryLimit = 20

// HistoryHandler handles run history queries.
type HistoryHandler struct {
	history ports.RunHistory
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history ports.RunHistory) *HistoryHandler {
	return &HistoryHandler{
		history: history,
	}
}

// List returns the most recent runs.
func (h *HistoryHandler) List(ctx context.Context, limit int) ([]entities.Run, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	runs, err := h.history.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Show returns one run with its findings.
func (h *HistoryHandler) Show(ctx context.Context, id string) (*entities.Run, error) {
	run, err := h.history.FindRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding run: %w", err)
	}
	return run, nil
}

// Delete removes a run.
func (h *HistoryHandler) Delete(ctx context.Context, id string) error {
	if err := h.history.DeleteRun(ctx, id); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}
