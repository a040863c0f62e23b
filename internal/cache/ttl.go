package cache

import (
	"sync"
	"time"
)

// TTLCache is a small in-process cache with a fixed TTL per entry. It
// backs hot storefront reads such as the resolved theme payload.
type TTLCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]ttlEntry
}

type ttlEntry struct {
	value     interface{}
	expiresAt time.Time
}

// NewTTLCache creates a TTL cache. A non-positive ttl defaults to one
// minute.
func NewTTLCache(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]ttlEntry),
	}
}

// Get returns the cached value when present and not expired.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

// Set stores a value under the cache TTL.
func (c *TTLCache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = ttlEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// Delete removes an entry.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *TTLCache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]ttlEntry)
	c.mu.Unlock()
}
