// Package actionlog keeps the timestamped action log in an in-memory DuckDB table.
// Nothing is written to disk; the log lives as long as the process.
package actionlog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/marcboeker/go-duckdb"
)

// Store records actions and lists them per session.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex
	nextID int64
}

// Open creates an in-memory action log.
func Open(threads int) (*Store, error) {
	if threads <= 0 {
		threads = 1
	}
	connector, err := duckdb.NewConnector("", func(execer driver.ExecerContext) error {
		pragma := fmt.Sprintf("PRAGMA threads=%d", threads)
		_, err := execer.ExecContext(context.Background(), pragma, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)
	_, err = db.Exec(`
		CREATE TABLE actions (
			id         BIGINT PRIMARY KEY,
			session_id VARCHAR NOT NULL,
			kind       VARCHAR NOT NULL,
			file_name  VARCHAR NOT NULL,
			ts         BIGINT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Record appends entry to the log. A zero Timestamp is set to now.
func (s *Store) Record(ctx context.Context, entry models.ActionLogEntry) (models.ActionLogEntry, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO actions (id, session_id, kind, file_name, ts) VALUES (?, ?, ?, ?, ?)",
		s.nextID, entry.SessionID, string(entry.Kind), entry.FileName, entry.Timestamp.UnixMicro())
	if err != nil {
		return entry, fmt.Errorf("recording action: %w", err)
	}
	return entry, nil
}

// List returns the actions of one session, oldest first.
func (s *Store) List(ctx context.Context, sessionID string) ([]models.ActionLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT session_id, kind, file_name, ts FROM actions WHERE session_id = ? ORDER BY id",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]models.ActionLogEntry, 0)
	for rows.Next() {
		var (
			e    models.ActionLogEntry
			kind string
			ts   int64
		)
		if err := rows.Scan(&e.SessionID, &kind, &e.FileName, &ts); err != nil {
			return nil, err
		}
		e.Kind = models.ActionKind(kind)
		e.Timestamp = time.UnixMicro(ts)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByKind tallies one session's actions by kind.
func (s *Store) CountByKind(ctx context.Context, sessionID string) (map[models.ActionKind]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, COUNT(*) FROM actions WHERE session_id = ? GROUP BY kind",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ActionKind]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[models.ActionKind(kind)] = n
	}
	return counts, rows.Err()
}

// DeleteSession drops every action of sessionID.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM actions WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("deleting actions: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}
