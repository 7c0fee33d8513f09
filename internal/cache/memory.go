package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache is an in-process LangCache with TTL and a size bound. Used
// when Redis is not configured; the catalog is finite, but an unbounded
// map outliving every request is still a leak waiting to happen.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	ttl        time.Duration
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates a bounded in-memory cache
func NewMemoryCache(maxEntries int, ttl time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// Get retrieves a live cached value
func (mc *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	entry, ok := mc.entries[key]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(mc.entries, key)
		return "", false
	}
	return entry.value, true
}

// Set stores a value, evicting expired entries first and then the oldest
// live ones when the cache is full.
func (mc *MemoryCache) Set(_ context.Context, key, value string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.entries) >= mc.maxEntries {
		mc.evictLocked()
	}

	mc.entries[key] = memoryEntry{
		value:     value,
		expiresAt: time.Now().Add(mc.ttl),
	}
}

// evictLocked drops expired entries, then the soonest-to-expire live entry
// if the map is still full. Caller holds the lock.
func (mc *MemoryCache) evictLocked() {
	now := time.Now()
	for key, entry := range mc.entries {
		if now.After(entry.expiresAt) {
			delete(mc.entries, key)
		}
	}
	if len(mc.entries) < mc.maxEntries {
		return
	}

	var oldestKey string
	var oldestAt time.Time
	for key, entry := range mc.entries {
		if oldestKey == "" || entry.expiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.expiresAt
		}
	}
	if oldestKey != "" {
		delete(mc.entries, oldestKey)
	}
}

// Close is a no-op for the in-memory cache
func (mc *MemoryCache) Close() error { return nil }
