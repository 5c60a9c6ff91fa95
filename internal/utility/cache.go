package utility

import (
	"sync"
	"time"
)

// cacheEntry pairs a value with the instant it was stored.
type cacheEntry struct {
	value    interface{}
	storedAt time.Time
}

// Cache is a small TTL cache with per-entry expiry and a periodic cleanup
// loop. Get reports whether the entry is still fresh; stale entries stay
// readable until the cleanup pass removes them so callers can decide whether
// to serve stale data with a warning.
type Cache struct {
	items    map[string]cacheEntry
	mu       sync.RWMutex
	ttl      time.Duration
	cleanup  time.Duration
	stopChan chan struct{}
	nowFn    func() time.Time
}

// NewCache creates a cache with the given TTL and cleanup interval.
func NewCache(ttl, cleanup time.Duration) *Cache {
	cache := &Cache{
		items:    make(map[string]cacheEntry),
		ttl:      ttl,
		cleanup:  cleanup,
		stopChan: make(chan struct{}),
		nowFn:    time.Now,
	}
	go cache.cleanupLoop()
	return cache
}

// NewCacheWithClock creates a cache using an injected clock (tests).
// No cleanup goroutine is started; expiry is checked on read.
func NewCacheWithClock(ttl time.Duration, nowFn func() time.Time) *Cache {
	return &Cache{
		items:    make(map[string]cacheEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
		nowFn:    nowFn,
	}
}

// Set stores a value.
func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheEntry{value: value, storedAt: c.nowFn()}
}

// Get returns the value, its age, and whether it is still within the TTL.
// A missing key returns (nil, 0, false); an expired entry returns the stale
// value with fresh == false.
func (c *Cache) Get(key string) (value interface{}, age time.Duration, fresh bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, exists := c.items[key]
	if !exists {
		return nil, 0, false
	}
	age = c.nowFn().Sub(entry.storedAt)
	return entry.value, age, age <= c.ttl
}

// Delete removes an entry.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Stop terminates the cleanup loop.
func (c *Cache) Stop() {
	close(c.stopChan)
}

// cleanupLoop removes expired entries periodically.
func (c *Cache) cleanupLoop() {
	if c.cleanup <= 0 {
		return
	}
	ticker := time.NewTicker(c.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := c.nowFn()
			c.mu.Lock()
			for k, entry := range c.items {
				if now.Sub(entry.storedAt) > c.ttl {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		case <-c.stopChan:
			return
		}
	}
}
