package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"mlsimport/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    language TEXT NOT NULL,
    data_dir TEXT NOT NULL,
    status TEXT NOT NULL,
    error_message TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS split_results (
    run_id TEXT NOT NULL REFERENCES runs(id),
    split TEXT NOT NULL,
    rows INTEGER NOT NULL,
    transcoded INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    manifest_path TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    PRIMARY KEY (run_id, split)
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "ledger.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// NewRun inserts a pending run and returns it.
func (s *Store) NewRun(ctx context.Context, id, language, dataDir string) (*Run, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, language, data_dir, status, error_message, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		language,
		dataDir,
		StatusPending,
		nil,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return s.GetRun(ctx, id)
}

// SetStatus advances a run to the given status.
func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status),
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("update run status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// Fail marks a run failed and records the error message.
func (s *Store) Fail(ctx context.Context, id string, cause error) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		string(StatusFailed),
		nullableString(message),
		timestamp,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark run failed: %w", err)
	}
	return nil
}

// RecordSplit stores the outcome for one split of a run. Re-running a split
// replaces the previous record.
func (s *Store) RecordSplit(ctx context.Context, result SplitResult) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO split_results (run_id, split, rows, transcoded, skipped, manifest_path, duration_ms, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT(run_id, split) DO UPDATE SET
             rows = excluded.rows,
             transcoded = excluded.transcoded,
             skipped = excluded.skipped,
             manifest_path = excluded.manifest_path,
             duration_ms = excluded.duration_ms,
             created_at = excluded.created_at`,
		result.RunID,
		result.Split,
		result.Rows,
		result.Transcoded,
		result.Skipped,
		result.ManifestPath,
		result.Duration.Milliseconds(),
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("record split: %w", err)
	}
	return nil
}

// GetRun fetches a run by identifier.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, language, data_dir, status, error_message, created_at, updated_at
         FROM runs WHERE id = ?`,
		id,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, language, data_dir, status, error_message, created_at, updated_at
         FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, scanErr := scanRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan run: %w", scanErr)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// SplitsForRun returns the recorded split outcomes for a run, ordered by split name.
func (s *Store) SplitsForRun(ctx context.Context, runID string) ([]SplitResult, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, split, rows, transcoded, skipped, manifest_path, duration_ms, created_at
         FROM split_results WHERE run_id = ? ORDER BY split`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list splits: %w", err)
	}
	defer rows.Close()

	var results []SplitResult
	for rows.Next() {
		var (
			result     SplitResult
			durationMS int64
			createdAt  string
		)
		if scanErr := rows.Scan(
			&result.RunID,
			&result.Split,
			&result.Rows,
			&result.Transcoded,
			&result.Skipped,
			&result.ManifestPath,
			&durationMS,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("scan split: %w", scanErr)
		}
		result.Duration = time.Duration(durationMS) * time.Millisecond
		result.CreatedAt = parseTimestamp(createdAt)
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate splits: %w", err)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run          Run
		status       string
		errorMessage sql.NullString
		createdAt    string
		updatedAt    string
	)
	if err := row.Scan(
		&run.ID,
		&run.Language,
		&run.DataDir,
		&status,
		&errorMessage,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	run.Status = Status(status)
	if errorMessage.Valid {
		run.ErrorMessage = errorMessage.String
	}
	run.CreatedAt = parseTimestamp(createdAt)
	run.UpdatedAt = parseTimestamp(updatedAt)
	return &run, nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
