package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

// MemoryStorage implements Storage using in-memory slices.
// This implementation is intended for testing only.
type MemoryStorage struct {
	mu        sync.RWMutex
	nextID    int64
	decisions []*Decision
	snapshots []*StatsSnapshot
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{nextID: 1}
}

// RecordDecision appends a decision and fills in its ID.
func (s *MemoryStorage) RecordDecision(ctx context.Context, d *Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *d
	cp.ID = s.nextID
	cp.Features = slices.Clone(d.Features)
	s.nextID++
	s.decisions = append(s.decisions, &cp)
	d.ID = cp.ID
	return nil
}

// ApplyFeedback attaches a reward to the newest decision for (url,
// mission) with no feedback yet.
func (s *MemoryStorage) ApplyFeedback(ctx context.Context, url, mission string, reward int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *Decision
	for _, d := range s.decisions {
		if d.URL != url || d.Mission != mission || d.Reward != nil {
			continue
		}
		if target == nil || d.DecidedAt.After(target.DecidedAt) ||
			(d.DecidedAt.Equal(target.DecidedAt) && d.ID > target.ID) {
			target = d
		}
	}
	if target == nil {
		return 0, ErrNoFeedbackTarget
	}

	r := reward
	target.Reward = &r
	return target.ID, nil
}

// QueryDecisions lists decisions matching the query, newest first.
func (s *MemoryStorage) QueryDecisions(ctx context.Context, q *Query) ([]*Decision, error) {
	if q == nil {
		q = &Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Decision
	for _, d := range s.decisions {
		if q.Domain != "" && d.Domain != q.Domain {
			continue
		}
		if q.Allow != nil && d.Allow != *q.Allow {
			continue
		}
		if !q.Since.IsZero() && d.DecidedAt.Before(q.Since) {
			continue
		}
		cp := *d
		cp.Features = slices.Clone(d.Features)
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].DecidedAt.Equal(out[j].DecidedAt) {
			return out[i].DecidedAt.After(out[j].DecidedAt)
		}
		return out[i].ID > out[j].ID
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// SaveSnapshot appends a stats snapshot.
func (s *MemoryStorage) SaveSnapshot(ctx context.Context, snap *StatsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *snap
	s.snapshots = append(s.snapshots, &cp)
	return nil
}

// LatestSnapshot returns the most recent snapshot, or nil if none exists.
func (s *MemoryStorage) LatestSnapshot(ctx context.Context) (*StatsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return nil, nil
	}
	cp := *s.snapshots[len(s.snapshots)-1]
	return &cp, nil
}

// Prune deletes decisions older than cutoff, then trims to maxRecords.
func (s *MemoryStorage) Prune(ctx context.Context, cutoff time.Time, maxRecords int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []*Decision
	for _, d := range s.decisions {
		if d.DecidedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, d)
	}

	if maxRecords > 0 && int64(len(kept)) > maxRecords {
		sort.Slice(kept, func(i, j int) bool {
			if !kept[i].DecidedAt.Equal(kept[j].DecidedAt) {
				return kept[i].DecidedAt.After(kept[j].DecidedAt)
			}
			return kept[i].ID > kept[j].ID
		})
		kept = kept[:maxRecords]
	}

	removed := int64(len(s.decisions) - len(kept))
	s.decisions = kept
	return removed, nil
}

// Close is a no-op for the memory backend.
func (s *MemoryStorage) Close() error {
	return nil
}
