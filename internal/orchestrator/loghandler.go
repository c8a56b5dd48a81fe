package orchestrator

import (
	"context"
	"log/slog"
)

// LogHandler is a slog.Handler mirroring records into the runtime's log
// table while forwarding them to a next handler. Insert failures are
// swallowed so that logging can never take a run down.
type LogHandler struct {
	conn    *Connection
	process string
	next    slog.Handler
}

// NewLogHandler returns a handler writing records for the named process into
// the runtime log sink, forwarding them to next.
func NewLogHandler(conn *Connection, process string, next slog.Handler) *LogHandler {
	return &LogHandler{conn: conn, process: process, next: next}
}

// LogHandler returns a handler mirroring records for the named process into
// the runtime log sink, forwarding them to next.
func (c *Connection) LogHandler(process string, next slog.Handler) slog.Handler {
	return NewLogHandler(c, process, next)
}

// Enabled defers to the next handler.
func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle inserts the record into the runtime log table and forwards it.
func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	_, err := h.conn.db.Exec(ctx,
		`INSERT INTO logs (process_name, level, message, created_at) VALUES ($1, $2, $3, $4)`,
		h.process, r.Level.String(), r.Message, r.Time)
	if err != nil {
		// Only report through the next handler, never fail the caller.
		sub := slog.NewRecord(r.Time, slog.LevelWarn, "Failed to mirror log record to orchestrator", 0)
		sub.AddAttrs(slog.Any("error", err))
		_ = h.next.Handle(ctx, sub)
	}
	return h.next.Handle(ctx, r)
}

// WithAttrs forwards attrs to the next handler. Attrs are not mirrored to
// the runtime sink, which stores plain messages.
func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{conn: h.conn, process: h.process, next: h.next.WithAttrs(attrs)}
}

// WithGroup forwards the group to the next handler.
func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{conn: h.conn, process: h.process, next: h.next.WithGroup(name)}
}
