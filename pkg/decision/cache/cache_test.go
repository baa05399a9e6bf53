package cache

import (
	"testing"
	"time"
)

func TestPutGet(t *testing.T) {
	c := New(5 * time.Minute)

	c.Put("https://example.com", Entry{Allow: true, Confidence: 0.9, Source: "rules", Reason: "educational"})

	got, ok := c.Get("https://example.com")
	if !ok {
		t.Fatal("Get() missed a fresh entry")
	}
	if !got.Allow || got.Confidence != 0.9 || got.Source != "rules" {
		t.Errorf("Get() = %+v", got)
	}

	if _, ok := c.Get("https://other.com"); ok {
		t.Error("Get() hit for an unknown URL")
	}
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute)
	current := time.Unix(1000, 0)
	c.now = func() time.Time { return current }

	c.Put("u", Entry{Allow: true})

	current = current.Add(59 * time.Second)
	if _, ok := c.Get("u"); !ok {
		t.Fatal("entry expired before TTL")
	}

	current = current.Add(2 * time.Second)
	if _, ok := c.Get("u"); ok {
		t.Fatal("entry survived past TTL")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after lazy eviction, want 0", c.Size())
	}
}

func TestPutRefreshes(t *testing.T) {
	c := New(time.Minute)
	current := time.Unix(1000, 0)
	c.now = func() time.Time { return current }

	c.Put("u", Entry{Allow: false, Reason: "old"})
	current = current.Add(30 * time.Second)
	c.Put("u", Entry{Allow: true, Reason: "new"})

	current = current.Add(45 * time.Second)
	got, ok := c.Get("u")
	if !ok {
		t.Fatal("refreshed entry expired on the original clock")
	}
	if !got.Allow || got.Reason != "new" {
		t.Errorf("Get() = %+v, want refreshed entry", got)
	}
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Put("a", Entry{})
	c.Put("b", Entry{})

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() = %d after Clear, want 0", c.Size())
	}
	if _, ok := c.Get("a"); ok {
		t.Error("Get() hit after Clear")
	}
}
