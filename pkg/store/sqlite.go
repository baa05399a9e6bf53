package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/decisions.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database, applies pragmas and creates the
// schema if needed.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	// Unset pool and timeout fields get the documented defaults; a zero
	// MaxIdleConns passed through would disable idle pooling entirely.
	defaults := DefaultSQLiteConfig()
	if config.MaxOpenConns <= 0 {
		config.MaxOpenConns = defaults.MaxOpenConns
	}
	if config.MaxIdleConns <= 0 {
		config.MaxIdleConns = defaults.MaxIdleConns
	}
	if config.BusyTimeout <= 0 {
		config.BusyTimeout = defaults.BusyTimeout
	}

	logger := slog.Default().With("component", "store.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStorage{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite decision store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}
	if _, err := s.db.Exec("INSERT OR IGNORE INTO schema_info (version) VALUES (?)", SchemaVersion); err != nil {
		return NewStorageError("sqlite", "record_schema_version", err)
	}
	return nil
}

// RecordDecision appends a decision and fills in its ID.
func (s *SQLiteStorage) RecordDecision(ctx context.Context, d *Decision) error {
	features, err := encodeFeatures(d.Features)
	if err != nil {
		return NewStorageError("sqlite", "record", err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (url, domain, allow, confidence, source, tier, reason, mission, features, reward, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.URL, d.Domain, d.Allow, d.Confidence, d.Source, d.Tier, d.Reason, d.Mission, features, d.Reward, d.DecidedAt.UTC())
	if err != nil {
		return NewStorageError("sqlite", "record", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return NewStorageError("sqlite", "record", err)
	}
	d.ID = id
	return nil
}

// ApplyFeedback attaches a reward to the newest decision for (url,
// mission) with no feedback yet.
func (s *SQLiteStorage) ApplyFeedback(ctx context.Context, url, mission string, reward int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, NewStorageError("sqlite", "feedback", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM decisions
		WHERE url = ? AND mission = ? AND reward IS NULL
		ORDER BY decided_at DESC, id DESC
		LIMIT 1`, url, mission).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNoFeedbackTarget
	}
	if err != nil {
		return 0, NewStorageError("sqlite", "feedback", err)
	}

	if _, err := tx.ExecContext(ctx, "UPDATE decisions SET reward = ? WHERE id = ?", reward, id); err != nil {
		return 0, NewStorageError("sqlite", "feedback", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, NewStorageError("sqlite", "feedback", err)
	}
	return id, nil
}

// QueryDecisions lists decisions matching the query, newest first.
func (s *SQLiteStorage) QueryDecisions(ctx context.Context, q *Query) ([]*Decision, error) {
	if q == nil {
		q = &Query{}
	}

	var where []string
	var args []any
	if q.Domain != "" {
		where = append(where, "domain = ?")
		args = append(args, q.Domain)
	}
	if q.Allow != nil {
		where = append(where, "allow = ?")
		args = append(args, *q.Allow)
	}
	if !q.Since.IsZero() {
		where = append(where, "decided_at >= ?")
		args = append(args, q.Since.UTC())
	}

	query := "SELECT id, url, domain, allow, confidence, source, tier, reason, mission, features, reward, decided_at FROM decisions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY decided_at DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var out []*Decision
	for rows.Next() {
		d := &Decision{}
		var tier, reason, mission sql.NullString
		var features []byte
		var reward sql.NullInt64
		if err := rows.Scan(&d.ID, &d.URL, &d.Domain, &d.Allow, &d.Confidence, &d.Source,
			&tier, &reason, &mission, &features, &reward, &d.DecidedAt); err != nil {
			return nil, NewStorageError("sqlite", "query", err)
		}
		d.Tier = tier.String
		d.Reason = reason.String
		d.Mission = mission.String
		vec, err := decodeFeatures(features)
		if err != nil {
			return nil, NewStorageError("sqlite", "query", err)
		}
		d.Features = vec
		if reward.Valid {
			r := int(reward.Int64)
			d.Reward = &r
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	return out, nil
}

// SaveSnapshot appends a stats snapshot.
func (s *SQLiteStorage) SaveSnapshot(ctx context.Context, snap *StatsSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stats_snapshots (total, allowed, blocked, cache_hits, fast_path, slow_path, feedback_total, feedback_correct, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.Total, snap.Allowed, snap.Blocked, snap.CacheHits, snap.FastPath, snap.SlowPath,
		snap.FeedbackTotal, snap.FeedbackCorrect, snap.TakenAt.UTC())
	if err != nil {
		return NewStorageError("sqlite", "snapshot", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot, or nil if none exists.
func (s *SQLiteStorage) LatestSnapshot(ctx context.Context) (*StatsSnapshot, error) {
	snap := &StatsSnapshot{}
	err := s.db.QueryRowContext(ctx, `
		SELECT total, allowed, blocked, cache_hits, fast_path, slow_path, feedback_total, feedback_correct, taken_at
		FROM stats_snapshots ORDER BY id DESC LIMIT 1`).
		Scan(&snap.Total, &snap.Allowed, &snap.Blocked, &snap.CacheHits, &snap.FastPath,
			&snap.SlowPath, &snap.FeedbackTotal, &snap.FeedbackCorrect, &snap.TakenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, NewStorageError("sqlite", "snapshot", err)
	}
	return snap, nil
}

// Prune deletes decisions older than cutoff, then trims to maxRecords.
func (s *SQLiteStorage) Prune(ctx context.Context, cutoff time.Time, maxRecords int64) (int64, error) {
	var removed int64

	res, err := s.db.ExecContext(ctx, "DELETE FROM decisions WHERE decided_at < ?", cutoff.UTC())
	if err != nil {
		return 0, NewStorageError("sqlite", "prune", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		removed += n
	}

	if maxRecords > 0 {
		res, err := s.db.ExecContext(ctx, `
			DELETE FROM decisions WHERE id NOT IN (
				SELECT id FROM decisions ORDER BY decided_at DESC, id DESC LIMIT ?
			)`, maxRecords)
		if err != nil {
			return removed, NewStorageError("sqlite", "prune", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			removed += n
		}
	}

	return removed, nil
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	return nil
}

// encodeFeatures serializes a feature vector for the features column.
// An empty vector stores as NULL.
func encodeFeatures(vec []float32) ([]byte, error) {
	if len(vec) == 0 {
		return nil, nil
	}
	return json.Marshal(vec)
}

func decodeFeatures(raw []byte) ([]float32, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err != nil {
		return nil, err
	}
	return vec, nil
}
