package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Register sqlite driver
	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/countdown/internal/errors"
)

// SQLiteStore implements Store on a local SQLite file in WAL mode
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the history database at path and
// ensures the schema exists. The caller closes the store.
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.NewStoreOpenError(path, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.NewStoreOpenError(path, err)
	}

	// Two countdowns in different terminals may finish at once.
	pragmas := []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`PRAGMA synchronous=NORMAL`,
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.NewStoreOpenError(path, fmt.Errorf("%s: %w", p, err))
		}
	}

	if err := execSchema(db); err != nil {
		db.Close()
		return nil, errors.NewStoreOpenError(path, fmt.Errorf("create schema: %w", err))
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// RecordSession inserts a finished session. Recording the same ID twice
// replaces the earlier row.
func (s *SQLiteStore) RecordSession(ctx context.Context, rec Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sessions
			(id, title, input, total_seconds, elapsed_seconds, timed_out, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Input, rec.TotalSeconds, rec.ElapsedSeconds,
		boolToInt(rec.TimedOut), rec.StartedAt.UnixMilli(), rec.EndedAt.UnixMilli(),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to record session", err)
	}
	return nil
}

// ListSessions returns the most recent sessions first. A limit of zero or
// less returns every session.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	query := `
		SELECT id, title, input, total_seconds, elapsed_seconds, timed_out, started_at, ended_at
		FROM sessions
		ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, "failed to list sessions", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var rec Session
		var timedOut int
		var started, ended int64
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Input, &rec.TotalSeconds,
			&rec.ElapsedSeconds, &timedOut, &started, &ended); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreRead, "failed to scan session", err)
		}
		rec.TimedOut = timedOut != 0
		rec.StartedAt = time.UnixMilli(started)
		rec.EndedAt = time.UnixMilli(ended)
		sessions = append(sessions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreRead, "failed to list sessions", err)
	}
	return sessions, nil
}

// Stats aggregates every recorded session
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(timed_out), 0), COALESCE(SUM(elapsed_seconds), 0)
		FROM sessions`).Scan(&st.Sessions, &st.TimedOut, &st.ElapsedSeconds)
	if err != nil {
		return Stats{}, errors.Wrap(errors.ErrCodeStoreRead, "failed to read stats", err)
	}
	return st, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
