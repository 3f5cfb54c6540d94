package store

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	input           TEXT NOT NULL,
	total_seconds   INTEGER NOT NULL,
	elapsed_seconds INTEGER NOT NULL,
	timed_out       INTEGER NOT NULL DEFAULT 0,
	started_at      INTEGER NOT NULL,
	ended_at        INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
`

func execSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
