// Package cache provides a small in-memory TTL cache. It backs the
// Meetup events cache, the Packt book cache and the per-chat reply
// tracker, matching their 10-minute expiry windows.
package cache

import (
	"sync"
	"time"
)

type item struct {
	value    interface{}
	storedAt time.Time
}

// Cache is a mutex-guarded map with a fixed per-entry TTL.
type Cache struct {
	mu    sync.Mutex
	items map[string]item
	ttl   time.Duration
}

// New creates a cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		items: make(map[string]item),
		ttl:   ttl,
	}
}

// Get retrieves a value if present and not expired. Expired entries are
// removed on access.
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Since(it.storedAt) > c.ttl {
		delete(c.items, key)
		return nil, false
	}
	return it.value, true
}

// Set stores a value, resetting its expiry window.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{value: value, storedAt: time.Now()}
}

// GetOrFill returns the cached value for key, calling fill to produce
// and store it on a miss. A fill error is returned without caching, so
// the next call retries.
func (c *Cache) GetOrFill(key string, fill func() (interface{}, error)) (interface{}, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	v, err := fill()
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}

// Delete removes an entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// CleanExpired removes expired entries and reports how many were
// removed.
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()
	for key, it := range c.items {
		if now.Sub(it.storedAt) > c.ttl {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of stored entries, including any not yet
// cleaned expired ones.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
