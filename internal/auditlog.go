package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Request outcomes recorded in the audit log.
const (
	OutcomeDone    = "done"
	OutcomeAborted = "aborted"
	OutcomeError   = "error"
	OutcomePaused  = "paused" // turn waiting on a tool result from the user
)

// AuditLog records the lifecycle of streaming requests in a SQLite database:
// one row per request, finished in place when the stream reaches a terminal
// state. Purely observational; the engine never reads it on the request path.
type AuditLog struct {
	db *sql.DB
}

// OpenAuditLog opens (creating if needed) the audit database at path.
func OpenAuditLog(path string) (*AuditLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	schema := `CREATE TABLE IF NOT EXISTS requests (
		id          TEXT PRIMARY KEY,
		project     TEXT,
		session_id  TEXT,
		started_at  TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		outcome     TEXT
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "exec", Err: err}
	}

	return &AuditLog{db: db}, nil
}

// Close closes the underlying database.
func (a *AuditLog) Close() error {
	return a.db.Close()
}

// RecordStart inserts a row for a newly registered streaming request.
func (a *AuditLog) RecordStart(requestID, project, sessionID string) error {
	_, err := a.db.Exec(
		`INSERT OR REPLACE INTO requests (id, project, session_id, started_at) VALUES (?, ?, ?, ?)`,
		requestID, project, sessionID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record request start: %w", err)
	}
	return nil
}

// RecordFinish marks a request terminal with one of the Outcome constants.
func (a *AuditLog) RecordFinish(requestID, outcome string) error {
	_, err := a.db.Exec(
		`UPDATE requests SET finished_at = ?, outcome = ? WHERE id = ?`,
		time.Now().UTC(), outcome, requestID,
	)
	if err != nil {
		return fmt.Errorf("failed to record request finish: %w", err)
	}
	return nil
}

// Summary returns request counts grouped by outcome. Unfinished requests
// appear under the empty outcome.
func (a *AuditLog) Summary() (map[string]int, error) {
	rows, err := a.db.Query(`SELECT COALESCE(outcome, ''), COUNT(*) FROM requests GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("summary query failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("summary scan failed: %w", err)
		}
		counts[outcome] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("summary rows iteration error: %w", err)
	}
	return counts, nil
}
