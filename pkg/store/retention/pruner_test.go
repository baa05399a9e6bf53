package retention

import (
	"context"
	"testing"
	"time"

	"anchorite-hq/anchorite/pkg/store"
)

func seed(t *testing.T, s store.Storage, ages ...time.Duration) {
	t.Helper()
	now := time.Now()
	for i, age := range ages {
		err := s.RecordDecision(context.Background(), &store.Decision{
			URL:       "https://example.com",
			Domain:    "example.com",
			Allow:     i%2 == 0,
			Source:    "rules",
			DecidedAt: now.Add(-age),
		})
		if err != nil {
			t.Fatalf("RecordDecision() error: %v", err)
		}
	}
}

func TestPruneByAge(t *testing.T) {
	s := store.NewMemoryStorage()
	seed(t, s, 0, 24*time.Hour, 10*24*time.Hour, 40*24*time.Hour)

	p := NewPruner(s, &Config{RetentionDays: 30})
	removed, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d, want 1", removed)
	}
}

func TestPruneByCount(t *testing.T) {
	s := store.NewMemoryStorage()
	seed(t, s, 0, time.Hour, 2*time.Hour, 3*time.Hour)

	p := NewPruner(s, &Config{MaxRecords: 2})
	removed, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}

	left, _ := s.QueryDecisions(context.Background(), nil)
	if len(left) != 2 {
		t.Errorf("%d decisions left, want 2", len(left))
	}
}

func TestPruneDisabled(t *testing.T) {
	s := store.NewMemoryStorage()
	seed(t, s, 400*24*time.Hour)

	p := NewPruner(s, &Config{})
	removed, err := p.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if removed != 0 {
		t.Errorf("disabled pruner removed %d records", removed)
	}
}

func TestSchedulerLifecycle(t *testing.T) {
	s := store.NewMemoryStorage()
	p := NewPruner(s, &Config{RetentionDays: 30, PruneSchedule: "0 3 * * *"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !p.scheduler.IsRunning() {
		t.Error("scheduler not running after Start")
	}

	p.Stop()
	if p.scheduler.IsRunning() {
		t.Error("scheduler still running after Stop")
	}
}

func TestSchedulerRejectsBadExpression(t *testing.T) {
	p := NewPruner(store.NewMemoryStorage(), &Config{PruneSchedule: "not a cron"})
	if err := p.Start(context.Background()); err == nil {
		t.Fatal("Start() accepted an invalid cron expression")
	}
}

func TestSchedulerEmptyScheduleIsNoop(t *testing.T) {
	p := NewPruner(store.NewMemoryStorage(), &Config{PruneSchedule: ""})
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if p.scheduler.IsRunning() {
		t.Error("scheduler running with empty schedule")
	}
}
