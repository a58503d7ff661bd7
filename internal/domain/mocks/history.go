package mocks

import (
	"context"
	"sort"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// RunHistory is a mock implementation of ports.RunHistory.
type RunHistory struct {
	Runs map[string]*entities.Run
	Err  error
}

// NewRunHistory creates a new mock RunHistory.
func NewRunHistory() *RunHistory {
	return &RunHistory{
		Runs: make(map[string]*entities.Run),
	}
}

// EnsureSchema returns the configured error.
func (m *RunHistory) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close closes nothing.
func (m *RunHistory) Close() error {
	return nil
}

// SaveRun stores the run in memory.
func (m *RunHistory) SaveRun(_ context.Context, run *entities.Run) error {
	if m.Err != nil {
		return m.Err
	}
	m.Runs[run.ID] = run
	return nil
}

// FindRun returns the stored run or entities.ErrRunNotFound.
func (m *RunHistory) FindRun(_ context.Context, id string) (*entities.Run, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	run, ok := m.Runs[id]
	if !ok {
		return nil, entities.ErrRunNotFound
	}
	return run, nil
}

// ListRuns returns stored runs, newest first.
func (m *RunHistory) ListRuns(_ context.Context, limit int) ([]entities.Run, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	result := make([]entities.Run, 0, len(m.Runs))
	for _, r := range m.Runs {
		run := *r
		run.Findings = nil
		result = append(result, run)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// DeleteRun removes the run.
func (m *RunHistory) DeleteRun(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Runs[id]; !ok {
		return entities.ErrRunNotFound
	}
	delete(m.Runs, id)
	return nil
}
