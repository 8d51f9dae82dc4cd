// Package sqlite persists run records in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store implements ports.RunStore on SQLite.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path and applies
// pragmas and schema. Safe to call on an existing database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Save inserts or replaces the run record.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, machine_id, input, output, acceptance, status, steps, max_steps, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			machine_id = excluded.machine_id,
			input = excluded.input,
			output = excluded.output,
			acceptance = excluded.acceptance,
			status = excluded.status,
			steps = excluded.steps,
			max_steps = excluded.max_steps,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at`,
		run.ID, run.MachineID, run.Input, run.Output, run.Acceptance, string(run.Status),
		run.Steps, run.MaxSteps, run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// Load reads one run record.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, machine_id, input, output, acceptance, status, steps, max_steps, started_at, finished_at
		FROM runs WHERE id = ?`, runID)

	var (
		run               domain.Run
		status            string
		started, finished int64
	)
	err := row.Scan(&run.ID, &run.MachineID, &run.Input, &run.Output, &run.Acceptance,
		&status, &run.Steps, &run.MaxSteps, &started, &finished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}

	run.Status = domain.Status(status)
	run.StartedAt = time.Unix(0, started).UTC()
	run.FinishedAt = time.Unix(0, finished).UTC()
	return &run, nil
}

// Delete removes a run record.
func (s *Store) Delete(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", runID, err)
	}
	return nil
}

// List returns run IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
