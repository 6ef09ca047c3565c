// Package cache provides a small in-process TTL cache meant to be injected
// as a collaborator rather than used as package-level state, so tests can
// construct and reset their own instances.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// TTL is a mutex-guarded key/value cache with per-entry expiry.
type TTL struct {
	mu   sync.Mutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

// NewTTL constructs a cache whose entries expire after ttl.
func NewTTL(ttl time.Duration) *TTL {
	return NewTTLWithClock(ttl, time.Now)
}

// NewTTLWithClock constructs a cache with an injectable clock for tests.
func NewTTLWithClock(ttl time.Duration, now func() time.Time) *TTL {
	if now == nil {
		now = time.Now
	}
	return &TTL{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *TTL) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.data, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL.
func (c *TTL) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Delete removes key if present.
func (c *TTL) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Reset clears all entries.
func (c *TTL) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry)
}
