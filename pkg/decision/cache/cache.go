// Package cache is a TTL verdict cache keyed by raw URL. Entries are
// evicted lazily on read; there is no background sweeper. The cache is
// deliberately not mission-aware: a mission change is expected to be
// followed by Clear.
package cache

import (
	"sync"
	"time"
)

// Entry is a cached verdict with the metadata needed to report it.
type Entry struct {
	Allow      bool
	Confidence float64
	Source     string
	Reason     string
}

type record struct {
	entry   Entry
	expires time.Time
}

// Cache is a concurrency-safe TTL map from raw URL to verdict.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]record
	now     func() time.Time
}

// New creates a cache with the given TTL.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]record),
		now:     time.Now,
	}
}

// Get returns the cached entry for url if present and unexpired. Expired
// entries are removed on the spot.
func (c *Cache) Get(url string) (Entry, bool) {
	c.mu.RLock()
	rec, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}

	if c.now().After(rec.expires) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry.
		if cur, ok := c.entries[url]; ok && c.now().After(cur.expires) {
			delete(c.entries, url)
		}
		c.mu.Unlock()
		return Entry{}, false
	}
	return rec.entry, true
}

// Put stores or refreshes the entry for url.
func (c *Cache) Put(url string, entry Entry) {
	c.mu.Lock()
	c.entries[url] = record{entry: entry, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]record)
	c.mu.Unlock()
}

// Size returns the number of entries, expired ones included.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
