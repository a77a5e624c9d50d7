package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Run is one recorded compile invocation.
type Run struct {
	RunID      int64
	StartedAt  time.Time
	FinishedAt time.Time
	ContentDir string
	OutputDir  string
	Generated  int
	Skipped    int
	Warnings   int
	Status     string
}

// Module is one generated page module of a run.
type Module struct {
	PageKey     string
	SourcePath  string
	OutputPath  string
	ContentHash string
}

// Warning is one recoverable problem reported during a run.
type Warning struct {
	File    string
	Message string
}

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// RecordRun stores run with its modules and warnings in one transaction and
// returns the new run id.
func (db *DB) RecordRun(run Run, modules []Module, warnings []Warning) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO runs (started_at, finished_at, content_dir, output_dir,
		                  generated_count, skipped_count, warning_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.ContentDir, run.OutputDir,
		run.Generated, run.Skipped, run.Warnings, run.Status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, m := range modules {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO run_modules (run_id, page_key, source_path, output_path, content_hash)
			VALUES (?, ?, ?, ?, ?)
		`, runID, m.PageKey, m.SourcePath, m.OutputPath, m.ContentHash)
		if err != nil {
			return 0, fmt.Errorf("failed to insert module %s: %w", m.PageKey, err)
		}
	}

	for _, w := range warnings {
		_, err := tx.Exec(`
			INSERT INTO run_warnings (run_id, file, message) VALUES (?, ?, ?)
		`, runID, w.File, w.Message)
		if err != nil {
			return 0, fmt.Errorf("failed to insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// GetRun returns the run with the given id.
func (db *DB) GetRun(runID int64) (*Run, error) {
	var r Run
	err := db.QueryRow(`
		SELECT run_id, started_at, finished_at, content_dir, output_dir,
		       generated_count, skipped_count, warning_count, status
		FROM runs WHERE run_id = ?
	`, runID).Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.ContentDir, &r.OutputDir,
		&r.Generated, &r.Skipped, &r.Warnings, &r.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means no limit.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `
		SELECT run_id, started_at, finished_at, content_dir, output_dir,
		       generated_count, skipped_count, warning_count, status
		FROM runs ORDER BY run_id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.FinishedAt, &r.ContentDir, &r.OutputDir,
			&r.Generated, &r.Skipped, &r.Warnings, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunModules returns the modules of a run ordered by page key.
func (db *DB) GetRunModules(runID int64) ([]Module, error) {
	rows, err := db.Query(`
		SELECT page_key, source_path, output_path, content_hash
		FROM run_modules WHERE run_id = ? ORDER BY page_key
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run modules: %w", err)
	}
	defer rows.Close()

	var modules []Module
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.PageKey, &m.SourcePath, &m.OutputPath, &m.ContentHash); err != nil {
			return nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GetRunWarnings returns the warnings of a run in insertion order.
func (db *DB) GetRunWarnings(runID int64) ([]Warning, error) {
	rows, err := db.Query(`
		SELECT file, message FROM run_warnings WHERE run_id = ? ORDER BY warning_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run warnings: %w", err)
	}
	defer rows.Close()

	var warnings []Warning
	for rows.Next() {
		var w Warning
		if err := rows.Scan(&w.File, &w.Message); err != nil {
			return nil, fmt.Errorf("failed to scan warning: %w", err)
		}
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// LatestHashes returns page key -> content hash of the most recent successful run
// that wrote to outputDir. It returns an empty map when there is none.
func (db *DB) LatestHashes(outputDir string) (map[string]string, error) {
	hashes := make(map[string]string)

	var runID int64
	err := db.QueryRow(`
		SELECT run_id FROM runs
		WHERE output_dir = ? AND status = ?
		ORDER BY run_id DESC LIMIT 1
	`, outputDir, StatusSuccess).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return hashes, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find previous run: %w", err)
	}

	modules, err := db.GetRunModules(runID)
	if err != nil {
		return nil, err
	}
	for _, m := range modules {
		hashes[m.PageKey] = m.ContentHash
	}
	return hashes, nil
}

// LatestRunID returns the id of the most recent run, or ErrRunNotFound.
func (db *DB) LatestRunID() (int64, error) {
	var runID int64
	err := db.QueryRow("SELECT run_id FROM runs ORDER BY run_id DESC LIMIT 1").Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRunNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}
