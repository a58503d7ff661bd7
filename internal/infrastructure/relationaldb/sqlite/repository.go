// Package sqlite provides a SQLite implementation of the RunHistory interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/deckcheck/internal/domain/entities"
	"github.com/ersonp/deckcheck/internal/domain/ports"
	"github.com/ersonp/deckcheck/internal/infrastructure/config"
)

const memoryPath = ":memory:"

// connPragmas enables cascading deletes of findings and waits on locks held by concurrent runs.
const connPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Repository implements ports.RunHistory using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

var _ ports.RunHistory = (*Repository)(nil)

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.HistoryConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if cfg.Path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	// Per-connection pragmas go in the DSN so every pooled connection gets them.
	db, err := sql.Open("sqlite", cfg.Path+connPragmas)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Every connection to :memory: opens a separate database.
	if cfg.Path == memoryPath {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- One row per analysis run
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		slide_count INTEGER NOT NULL,
		skipped_count INTEGER NOT NULL DEFAULT 0,
		finding_count INTEGER NOT NULL DEFAULT 0,
		ai_status TEXT NOT NULL,
		ai_backend TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);

	-- Reported findings of a run, in report order
	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		slides TEXT NOT NULL,
		confidence REAL NOT NULL,
		severity TEXT NOT NULL,
		details TEXT,
		UNIQUE(run_id, position)
	);
	CREATE INDEX IF NOT EXISTS idx_findings_run ON findings(run_id);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveRun stores a run and its findings in one transaction.
func (r *Repository) SaveRun(ctx context.Context, run *entities.Run) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO runs (id, source, slide_count, skipped_count, finding_count, ai_status, ai_backend, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err = tx.ExecContext(ctx, query,
		run.ID,
		run.Source,
		run.SlideCount,
		run.SkippedCount,
		run.FindingCount,
		string(run.AIStatus),
		run.AIBackend,
		run.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO findings (run_id, position, type, description, slides, confidence, severity, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing finding insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range run.Findings {
		slides, jerr := json.Marshal(f.SlidesInvolved)
		if jerr != nil {
			err = fmt.Errorf("marshaling slides: %w", jerr)
			return err
		}
		if _, err = stmt.ExecContext(ctx,
			run.ID,
			i,
			string(f.Type),
			f.Description,
			string(slides),
			f.Confidence,
			string(f.Severity),
			f.Details,
		); err != nil {
			return fmt.Errorf("saving finding: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// FindRun returns a run with its findings in report order.
func (r *Repository) FindRun(ctx context.Context, id string) (*entities.Run, error) {
	query := `
		SELECT id, source, slide_count, skipped_count, finding_count, ai_status, ai_backend, created_at
		FROM runs
		WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, entities.ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}

	findings, err := r.findings(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Findings = findings
	return run, nil
}

func (r *Repository) findings(ctx context.Context, runID string) ([]entities.Inconsistency, error) {
	query := `
		SELECT type, description, slides, confidence, severity, details
		FROM findings
		WHERE run_id = ?
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying findings: %w", err)
	}
	defer rows.Close()

	result := []entities.Inconsistency{}
	for rows.Next() {
		var (
			f       entities.Inconsistency
			typ     string
			slides  string
			sev     string
			details sql.NullString
		)
		if err := rows.Scan(&typ, &f.Description, &slides, &f.Confidence, &sev, &details); err != nil {
			return nil, fmt.Errorf("scanning finding: %w", err)
		}
		if err := json.Unmarshal([]byte(slides), &f.SlidesInvolved); err != nil {
			return nil, fmt.Errorf("unmarshaling slides: %w", err)
		}
		f.Type = entities.InconsistencyType(typ)
		f.Severity = entities.Severity(sev)
		f.Details = details.String
		result = append(result, f)
	}
	return result, rows.Err()
}

// ListRuns returns the most recent runs first, without findings.
func (r *Repository) ListRuns(ctx context.Context, limit int) ([]entities.Run, error) {
	query := `
		SELECT id, source, slide_count, skipped_count, finding_count, ai_status, ai_backend, created_at
		FROM runs
		ORDER BY created_at DESC, id ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	result := make([]entities.Run, 0, limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *run)
	}
	return result, rows.Err()
}

// DeleteRun removes a run and its findings.
func (r *Repository) DeleteRun(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", id, entities.ErrRunNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*entities.Run, error) {
	var (
		run       entities.Run
		aiStatus  string
		aiBackend sql.NullString
		createdAt time.Time
	)
	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.SlideCount,
		&run.SkippedCount,
		&run.FindingCount,
		&aiStatus,
		&aiBackend,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.AIStatus = entities.AIStatus(aiStatus)
	run.AIBackend = aiBackend.String
	run.CreatedAt = createdAt
	return &run, nil
}
