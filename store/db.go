// Package store persists profiles and chat transcripts in SQLite.
package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id             TEXT PRIMARY KEY,
	user_id        TEXT NOT NULL UNIQUE,
	name           TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	bio            TEXT NOT NULL DEFAULT '',
	skills         TEXT NOT NULL DEFAULT '',
	experience     TEXT NOT NULL DEFAULT '',
	projects       TEXT NOT NULL DEFAULT '',
	interests      TEXT NOT NULL DEFAULT '',
	project_list   TEXT NOT NULL DEFAULT '[]',
	updated_at     TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id             TEXT PRIMARY KEY,
	message        TEXT NOT NULL,
	sender         TEXT NOT NULL,
	response       TEXT NOT NULL DEFAULT '',
	visitor_id     TEXT NOT NULL,
	visitor_name   TEXT NOT NULL DEFAULT '',
	target_user_id TEXT NOT NULL DEFAULT '',
	timestamp      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_visitor ON messages(visitor_id);
CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages(timestamp);
`

// Open connects to the SQLite database at path and ensures the schema
// exists. Use ":memory:" for an ephemeral database.
func Open(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection: WAL serializes writers anyway, and ":memory:"
	// would otherwise get a fresh empty database per pooled connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
