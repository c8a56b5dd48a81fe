// Package orchestrator is the client side of the orchestration runtime.
// The runtime owns the job queue, the named credentials and the log sink in
// its database; this package only reads and updates them, it never manages
// the schema.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNoQueueElement is returned when the queue has no new element to claim.
	ErrNoQueueElement = errors.New("no new queue element")
	// ErrUnknownCredential is returned when a named credential does not exist.
	ErrUnknownCredential = errors.New("unknown credential")
)

// Status is the lifecycle state of a queue element.
type Status string

// Queue element statuses, as stored by the runtime.
const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in progress"
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
)

// Credential is a username/password pair supplied by the runtime for a run.
// It is never persisted by this application.
type Credential struct {
	Username string
	Password string
}

// QueueElement is one claimed element of a queue.
type QueueElement struct {
	ID   uuid.UUID
	Data []byte
}

// db is the slice of pgxpool.Pool the connection uses.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Connection is an authenticated handle to the runtime database.
type Connection struct {
	db    db
	close func()

	log *slog.Logger
}

// Connect opens a connection to the runtime database and verifies it.
func Connect(ctx context.Context, l *slog.Logger, dsn string) (*Connection, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to orchestrator database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping orchestrator database: %v", err)
	}

	return &Connection{db: pool, close: pool.Close, log: l}, nil
}

// Close releases the underlying connections.
func (c *Connection) Close() {
	if c.close != nil {
		c.close()
	}
}

// GetCredential looks up the named credential.
func (c *Connection) GetCredential(ctx context.Context, name string) (Credential, error) {
	var cred Credential
	err := c.db.QueryRow(ctx,
		`SELECT username, password FROM credentials WHERE name = $1`,
		name).Scan(&cred.Username, &cred.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, fmt.Errorf("%w: %s", ErrUnknownCredential, name)
	}
	if err != nil {
		return Credential{}, fmt.Errorf("failed to get credential %s: %v", name, err)
	}
	return cred, nil
}

// NextQueueElement claims the oldest new element of the queue, marking it in
// progress. ErrNoQueueElement is returned when the queue is empty.
func (c *Connection) NextQueueElement(ctx context.Context, queue string) (QueueElement, error) {
	var e QueueElement
	err := c.db.QueryRow(ctx,
		`UPDATE queue_elements SET status = $1, started_at = now()
		 WHERE id = (
		   SELECT id FROM queue_elements
		   WHERE queue_name = $2 AND status = $3
		   ORDER BY created_at
		   LIMIT 1
		   FOR UPDATE SKIP LOCKED)
		 RETURNING id, data`,
		StatusInProgress, queue, StatusNew).Scan(&e.ID, &e.Data)
	if errors.Is(err, pgx.ErrNoRows) {
		return QueueElement{}, ErrNoQueueElement
	}
	if err != nil {
		return QueueElement{}, fmt.Errorf("failed to claim queue element from %s: %v", queue, err)
	}

	c.log.Debug("Claimed queue element", "queue", queue, "id", e.ID)
	return e, nil
}

// SetQueueElementStatus records the outcome of a claimed element.
func (c *Connection) SetQueueElementStatus(ctx context.Context, id uuid.UUID, status Status, message string) error {
	_, err := c.db.Exec(ctx,
		`UPDATE queue_elements SET status = $1, message = $2, ended_at = now() WHERE id = $3`,
		status, message, id)
	if err != nil {
		return fmt.Errorf("failed to set queue element %s status to %s: %v", id, status, err)
	}
	return nil
}
