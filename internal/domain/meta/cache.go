package meta

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is an append-only string-keyed map with lazy population.
// Entries are written once and never evicted. Concurrent misses on the same
// key are collapsed into one computation; a duplicate computation from a
// lost race would be harmless anyway since every compute is idempotent.
type Cache[K ~string, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache[K ~string, V any]() *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]V)}
}

// Get returns the cached value for key.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	return v, ok
}

// Put stores value under key, replacing any existing entry.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// GetOrCompute returns the cached value for key, computing it on a miss.
// compute reports whether its result may be stored; a false keep returns the
// value to this caller only, so the next lookup computes again.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (value V, keep bool)) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	v, _, _ := c.group.Do(string(key), func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, keep := compute()
		if keep {
			c.Put(key, v)
		}
		return v, nil
	})
	return v.(V)
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
