package decision

import (
	"sync"
	"time"

	"anchorite-hq/anchorite/pkg/store"
)

// Statistics tracks the engine's running counters under one coarse
// mutex. The counters feed periodic snapshots into the store so
// aggregate behavior survives restarts.
type Statistics struct {
	mu              sync.Mutex
	total           int64
	allowed         int64
	blocked         int64
	cacheHits       int64
	fastPath        int64
	slowPath        int64
	feedbackTotal   int64
	feedbackCorrect int64
}

// NewStatistics creates zeroed statistics.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// Restore seeds the counters from a persisted snapshot.
func (s *Statistics) Restore(snap *store.StatsSnapshot) {
	if snap == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total = snap.Total
	s.allowed = snap.Allowed
	s.blocked = snap.Blocked
	s.cacheHits = snap.CacheHits
	s.fastPath = snap.FastPath
	s.slowPath = snap.SlowPath
	s.feedbackTotal = snap.FeedbackTotal
	s.feedbackCorrect = snap.FeedbackCorrect
}

func (s *Statistics) recordDecision(allow, fast, cached bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if allow {
		s.allowed++
	} else {
		s.blocked++
	}
	if fast {
		s.fastPath++
	} else {
		s.slowPath++
	}
	if cached {
		s.cacheHits++
	}
}

// recordFeedback increments the feedback counters and returns the new
// feedback total so the caller can decide whether to flush a snapshot.
func (s *Statistics) recordFeedback(correct bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedbackTotal++
	if correct {
		s.feedbackCorrect++
	}
	return s.feedbackTotal
}

// Snapshot returns a copy of the current counters.
func (s *Statistics) Snapshot() *store.StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &store.StatsSnapshot{
		Total:           s.total,
		Allowed:         s.allowed,
		Blocked:         s.blocked,
		CacheHits:       s.cacheHits,
		FastPath:        s.fastPath,
		SlowPath:        s.slowPath,
		FeedbackTotal:   s.feedbackTotal,
		FeedbackCorrect: s.feedbackCorrect,
		TakenAt:         time.Now(),
	}
}
