// Package state persists check history and content hashes in SQLite.
// The store backs incremental checking (skip files whose content hash
// has not moved) and the history command.
package state

import "time"

// RunStatus is the lifecycle status of a check run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one invocation of the checker over a docs directory.
type Run struct {
	ID          string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	// Documents is the number of documents checked.
	Documents int
	// Failures is the number of documents with error findings.
	Failures int
	Error    string
}

// DocumentResult is the persisted per-document outcome of a run.
type DocumentResult struct {
	RunID       string
	Path        string
	Passed      bool
	Diagnostics int
	Errors      int
	Warnings    int
}

// Store is the persistence interface for check state.
type Store interface {
	// Open opens the store at path; ":memory:" is supported.
	Open(path string) error
	Close() error
	// InitSchema creates tables if they do not exist.
	InitSchema() error

	CreateRun() (*Run, error)
	CompleteRun(id string, status RunStatus, documents, failures int, errMsg string) error
	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	SaveDocumentResult(res *DocumentResult) error
	// ListDocumentResults returns the results of a run ordered by path.
	ListDocumentResults(runID string) ([]*DocumentResult, error)

	// GetContentHash returns the stored hash for a file path, "" when
	// the file has never been checked.
	GetContentHash(filePath string) (string, error)
	SetContentHash(filePath, hash string) error
	DeleteContentHash(filePath string) error
}
