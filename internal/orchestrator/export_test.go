package orchestrator

import "log/slog"

// DB exposes the database interface for tests.
type DB = db

// NewWithDB returns a Connection over the given database, for tests.
func NewWithDB(l *slog.Logger, d DB) *Connection {
	return &Connection{db: d, log: l}
}
