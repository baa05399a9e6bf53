package store

import (
	"context"
	"time"
)

// Decision is one persisted admission decision. Records are append-only:
// the only mutation ever applied is attaching a feedback reward.
type Decision struct {
	// ID is assigned by the backend on insert.
	ID int64

	// URL is the raw URL as received, also the feedback lookup key.
	URL string

	// Domain is the extracted registrable domain, for reporting.
	Domain string

	// Allow is the verdict.
	Allow bool

	// Confidence is the classifier confidence, or 1.0 for rule verdicts.
	Confidence float64

	// Source says which stage decided: "rules", "cache" or "classifier".
	Source string

	// Tier is the rule tier for rule verdicts, empty otherwise.
	Tier string

	// Reason is the human-readable explanation.
	Reason string

	// Mission is the mission text active when the decision was made.
	Mission string

	// Features is the feature vector the classifier scored, kept for
	// auditability and offline training. Nil for rule and cache verdicts.
	Features []float32

	// Reward is nil until feedback arrives, then +1 or -1.
	Reward *int

	// DecidedAt is when the decision was made.
	DecidedAt time.Time
}

// Query filters decision listings. Zero values mean "any".
type Query struct {
	Domain string
	Allow  *bool
	Since  time.Time
	Limit  int
}

// StatsSnapshot is a periodic dump of the engine's running counters, kept
// so aggregate behavior survives restarts.
type StatsSnapshot struct {
	Total           int64     `json:"total"`
	Allowed         int64     `json:"allowed"`
	Blocked         int64     `json:"blocked"`
	CacheHits       int64     `json:"cache_hits"`
	FastPath        int64     `json:"fast_path"`
	SlowPath        int64     `json:"slow_path"`
	FeedbackTotal   int64     `json:"feedback_total"`
	FeedbackCorrect int64     `json:"feedback_correct"`
	TakenAt         time.Time `json:"taken_at"`
}

// Storage is the persistence backend for decisions and stats snapshots.
type Storage interface {
	// RecordDecision appends a decision and fills in its ID.
	RecordDecision(ctx context.Context, d *Decision) error

	// ApplyFeedback attaches a reward to the newest decision for url made
	// under the given mission that has none yet, and returns that
	// decision's ID. It returns ErrNoFeedbackTarget when every matching
	// decision already carries feedback, or none exists.
	ApplyFeedback(ctx context.Context, url, mission string, reward int) (int64, error)

	// QueryDecisions lists decisions matching the query, newest first.
	QueryDecisions(ctx context.Context, q *Query) ([]*Decision, error)

	// SaveSnapshot appends a stats snapshot.
	SaveSnapshot(ctx context.Context, s *StatsSnapshot) error

	// LatestSnapshot returns the most recent snapshot, or nil if none.
	LatestSnapshot(ctx context.Context) (*StatsSnapshot, error)

	// Prune deletes decisions older than cutoff, then trims the table to
	// maxRecords newest rows when maxRecords > 0. It returns the number of
	// rows removed.
	Prune(ctx context.Context, cutoff time.Time, maxRecords int64) (int64, error)

	// Close releases backend resources.
	Close() error
}
