package session

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	_ "modernc.org/sqlite"
)

// sessionSchema holds at most one row: the current session. A separate
// database from the decision log so crash resumption still works when
// the decision store is degraded.
const sessionSchema = `
CREATE TABLE IF NOT EXISTS current_session (
    id TEXT PRIMARY KEY,
    task TEXT NOT NULL,
    secret_hash TEXT NOT NULL,
    started_at TIMESTAMP NOT NULL,
    ends_at TIMESTAMP NOT NULL,
    status TEXT NOT NULL
);
`

// Store persists the current session across process restarts.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the session database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One writer at a time; the supervisor serializes access anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sessionSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "session.store"),
	}, nil
}

// Save upserts the current session.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO current_session (id, task, secret_hash, started_at, ends_at, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.Task, sess.SecretHash, sess.StartedAt.UTC(), sess.EndsAt.UTC(), string(sess.Status))
	return err
}

// Load returns the persisted session, or nil when none exists.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	sess := &Session{}
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, task, secret_hash, started_at, ends_at, status
		FROM current_session LIMIT 1`).
		Scan(&sess.ID, &sess.Task, &sess.SecretHash, &sess.StartedAt, &sess.EndsAt, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sess.Status = Status(status)
	return sess, nil
}

// Clear removes the persisted session.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM current_session")
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
