package client

import (
	"sync"
	"time"
)

// FeedCache is the injected staleness-aware lookup used to avoid redundant
// fetches. Callers own the TTL decision; the cache only keeps timestamps.
type FeedCache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ts time.Time)
	IsStale(key string, ttl time.Duration) bool
}

type cacheEntry struct {
	value interface{}
	ts    time.Time
}

// MemoryCache is the default FeedCache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

func (m *MemoryCache) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (m *MemoryCache) Set(key string, value interface{}, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = cacheEntry{value: value, ts: ts}
}

// IsStale reports whether key is missing or older than ttl.
func (m *MemoryCache) IsStale(key string, ttl time.Duration) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok {
		return true
	}
	return time.Since(e.ts) > ttl
}
