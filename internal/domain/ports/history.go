package ports

import (
	"context"

	"github.com/ersonp/deckcheck/internal/domain/entities"
)

// RunHistory defines the interface for persisting analysis runs.
type RunHistory interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// SaveRun stores a run together with its findings.
	SaveRun(ctx context.Context, run *entities.Run) error

	// FindRun returns a run and its findings. Unknown ids return entities.ErrRunNotFound.
	FindRun(ctx context.Context, id string) (*entities.Run, error)

	// ListRuns returns the most recent runs first, without findings.
	ListRuns(ctx context.Context, limit int) ([]entities.Run, error)

	// DeleteRun removes a run and its findings.
	DeleteRun(ctx context.Context, id string) error
}
