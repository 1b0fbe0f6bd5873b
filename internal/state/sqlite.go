package state

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each in-memory connection gets its own database; pin the pool
		// to one connection so the schema stays visible.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema initializes the database schema.
func (s *SQLiteStore) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// CreateRun creates a new check run.
func (s *SQLiteStore) CreateRun() (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:        uuid.New().String(),
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.Exec(
		`INSERT INTO runs (id, status, started_at) VALUES (?, ?, ?)`,
		run.ID, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun marks a run as finished with its final counts.
func (s *SQLiteStore) CompleteRun(id string, status RunStatus, documents, failures int, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	var errVal sql.NullString
	if errMsg != "" {
		errVal = sql.NullString{String: errMsg, Valid: true}
	}
	_, err := s.db.Exec(
		`UPDATE runs SET status = ?, completed_at = ?, documents = ?, failures = ?, error = ? WHERE id = ?`,
		status, time.Now().UTC(), documents, failures, errVal, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, status, started_at, completed_at, documents, failures, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var completedAt sql.NullTime
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.Status, &run.StartedAt, &completedAt,
			&run.Documents, &run.Failures, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		if errMsg.Valid {
			run.Error = errMsg.String
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// SaveDocumentResult stores the outcome of one document in a run.
func (s *SQLiteStore) SaveDocumentResult(res *DocumentResult) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO document_results (run_id, path, passed, diagnostics, errors, warnings)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		res.RunID, res.Path, res.Passed, res.Diagnostics, res.Errors, res.Warnings,
	)
	if err != nil {
		return fmt.Errorf("failed to save document result: %w", err)
	}
	return nil
}

// ListDocumentResults returns the results of a run ordered by path.
func (s *SQLiteStore) ListDocumentResults(runID string) ([]*DocumentResult, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT run_id, path, passed, diagnostics, errors, warnings
		 FROM document_results WHERE run_id = ? ORDER BY path`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list document results: %w", err)
	}
	defer rows.Close()

	var results []*DocumentResult
	for rows.Next() {
		res := &DocumentResult{}
		if err := rows.Scan(&res.RunID, &res.Path, &res.Passed,
			&res.Diagnostics, &res.Errors, &res.Warnings); err != nil {
			return nil, fmt.Errorf("failed to scan document result: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// GetContentHash retrieves the content hash for a file path.
func (s *SQLiteStore) GetContentHash(filePath string) (string, error) {
	if s.db == nil {
		return "", fmt.Errorf("database not opened")
	}

	var hash string
	err := s.db.QueryRow(
		`SELECT content_hash FROM content_hashes WHERE file_path = ?`, filePath,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil // Not found, return empty string
	}
	if err != nil {
		return "", fmt.Errorf("failed to get content hash: %w", err)
	}
	return hash, nil
}

// SetContentHash stores the content hash for a file path.
func (s *SQLiteStore) SetContentHash(filePath, hash string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO content_hashes (file_path, content_hash, updated_at) VALUES (?, ?, ?)`,
		filePath, hash, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to set content hash: %w", err)
	}
	return nil
}

// DeleteContentHash removes the content hash for a file path.
func (s *SQLiteStore) DeleteContentHash(filePath string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if _, err := s.db.Exec(`DELETE FROM content_hashes WHERE file_path = ?`, filePath); err != nil {
		return fmt.Errorf("failed to delete content hash: %w", err)
	}
	return nil
}
