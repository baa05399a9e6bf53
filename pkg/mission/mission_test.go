package mission

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoadAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.yaml")

	want := &Mission{
		Text:            "Focus on Python programming",
		AllowedDomains:  []string{"github.com"},
		AllowedKeywords: []string{"python"},
	}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if got.Text != want.Text {
		t.Errorf("Text = %q, want %q", got.Text, want.Text)
	}
	if len(got.AllowedDomains) != 1 || got.AllowedDomains[0] != "github.com" {
		t.Errorf("AllowedDomains = %v", got.AllowedDomains)
	}
}

func TestLoadRejectsEmptyText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.yaml")
	if err := os.WriteFile(path, []byte("text: \"  \"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for mission without text")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error for missing mission document")
	}
}

func TestKeywords(t *testing.T) {
	m := &Mission{Text: "Learn logistic regression in Python"}

	keywords := m.Keywords()

	wantPresent := []string{"learn", "logistic", "regression", "python", "logistic regression"}
	for _, kw := range wantPresent {
		found := false
		for _, got := range keywords {
			if got == kw {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("keyword %q missing from %v", kw, keywords)
		}
	}
	// Stop words and short tokens filtered.
	for _, got := range keywords {
		if got == "in" || got == "the" {
			t.Errorf("stop word %q leaked into keywords", got)
		}
	}
}

func TestKeywordsDeduplicatedAndCapped(t *testing.T) {
	m := &Mission{
		Text:            "python python python",
		AllowedKeywords: []string{"python", "Django"},
	}

	keywords := m.Keywords()

	count := 0
	for _, kw := range keywords {
		if kw == "python" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected python once, got %d times in %v", count, keywords)
	}
	if len(keywords) > maxKeywords {
		t.Errorf("keyword list exceeds cap: %d", len(keywords))
	}
}

func TestMatchesText(t *testing.T) {
	m := &Mission{Text: "Learn logistic regression"}

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"aligned title", "Logistic Regression explained in 10 minutes", true},
		{"case insensitive", "LOGISTIC models for beginners", true},
		{"unrelated", "Top 10 cat videos", false},
		{"empty text", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.MatchesText(tt.text); got != tt.want {
				t.Errorf("MatchesText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mission.yaml")
	if err := Save(path, &Mission{Text: "initial"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	var reloads atomic.Int64
	w := NewWatcher(path, 20*time.Millisecond, nil)
	if err := w.Start(func() error {
		reloads.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	defer w.Stop()

	if err := Save(path, &Mission{Text: "updated"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for reloads.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("reload callback not invoked after file change")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.yaml")
	if err := Save(path, &Mission{Text: "initial"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	w := NewWatcher(path, 20*time.Millisecond, nil)
	if err := w.Start(func() error { return nil }); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	w.Stop()
	w.Stop() // second stop must not panic or block
}
