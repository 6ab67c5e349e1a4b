// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists a build log in SQLite: one row per build run
// and one row per artifact the run touched. The status command reads it
// back; nothing in the build path depends on it for correctness, since
// staleness is decided from filesystem timestamps alone.
// See docs/ARCHITECTURE § Build Log.
package manifest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Store manages the build-log SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the build log at path, creating the schema when
// missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating build log directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening build log: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			target TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			action TEXT NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_run_id ON artifacts(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_target ON runs(target, started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Run is one build invocation being recorded.
type Run struct {
	ID        string
	Target    string
	StartedAt time.Time
}

// BeginRun records the start of a build run for target.
func (s *Store) BeginRun(target string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Target:    target,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, target, started_at, status) VALUES (?, ?, ?, ?)`,
		run.ID, run.Target, run.StartedAt.Format(time.RFC3339Nano), StatusRunning,
	)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}
	return run, nil
}

// FinishRun records the outcome of a run.
func (s *Store) FinishRun(run *Run, status string) error {
	_, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, status = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), status, run.ID,
	)
	if err != nil {
		return fmt.Errorf("recording run finish: %w", err)
	}
	return nil
}

// RecordArtifact records one artifact the run produced, skipped, or failed.
func (s *Store) RecordArtifact(run *Run, source, output, action string, d time.Duration) error {
	_, err := s.db.Exec(
		`INSERT INTO artifacts (run_id, source, output, action, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		run.ID, source, output, action, d.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording artifact %s: %w", output, err)
	}
	return nil
}

// RunSummary is one run as reported by the status command.
type RunSummary struct {
	ID         string
	Target     string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     string
	Converted  int
	Skipped    int
	Failed     int
}

// LastRun returns the most recent run for target, or nil when the target
// has never been built.
func (s *Store) LastRun(target string) (*RunSummary, error) {
	var (
		sum      RunSummary
		started  string
		finished sql.NullString
	)
	err := s.db.QueryRow(
		`SELECT id, target, started_at, finished_at, status FROM runs
		 WHERE target = ? ORDER BY started_at DESC LIMIT 1`, target,
	).Scan(&sum.ID, &sum.Target, &started, &finished, &sum.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last run: %w", err)
	}

	sum.StartedAt, err = time.Parse(time.RFC3339Nano, started)
	if err != nil {
		return nil, fmt.Errorf("parsing run timestamp: %w", err)
	}
	if finished.Valid {
		sum.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp: %w", err)
		}
	}

	rows, err := s.db.Query(
		`SELECT action, count(*) FROM artifacts WHERE run_id = ? GROUP BY action`, sum.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run artifacts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("scanning artifact counts: %w", err)
		}
		switch action {
		case "converted":
			sum.Converted = count
		case "skipped":
			sum.Skipped = count
		case "failed":
			sum.Failed = count
		}
	}
	return &sum, rows.Err()
}

// Targets returns the distinct targets the log has seen, sorted.
func (s *Store) Targets() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT target FROM runs ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("querying targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scanning target: %w", err)
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
