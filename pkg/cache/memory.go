package cache

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a [MemoryCache] created with max <= 0.
const DefaultMaxEntries = 4096

// MemoryCache is a goroutine-safe in-process cache with per-entry expiry.
// When full, expired entries are dropped first, then the oldest insert.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	order   []string
	max     int
	now     func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most max entries.
func NewMemoryCache(max int) *MemoryCache {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		max:     max,
		now:     time.Now,
	}
}

// Get retrieves a value. Expired entries are reported as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if c.expired(e) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return bytes.Clone(e.data), true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{data: bytes.Clone(data)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	if _, ok := c.entries[key]; !ok {
		c.evict()
		c.order = append(c.order, key)
	}
	c.entries[key] = e
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops every entry.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	c.order = nil
	return nil
}

func (c *MemoryCache) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && c.now().After(e.expiresAt)
}

// evict makes room for one insert. Must be called with mu held.
func (c *MemoryCache) evict() {
	// order may hold keys already deleted; compact it first.
	live := c.order[:0]
	for _, k := range c.order {
		if e, ok := c.entries[k]; ok {
			if c.expired(e) {
				delete(c.entries, k)
				continue
			}
			live = append(live, k)
		}
	}
	c.order = live

	for len(c.entries) >= c.max && len(c.order) > 0 {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

var _ Cache = (*MemoryCache)(nil)
