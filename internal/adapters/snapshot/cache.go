// Package snapshot is an in-process memoization cache for remote
// dataset fetches: key -> (value, fetch timestamp), with an injected
// clock so freshness is testable without sleeping.
package snapshot

import (
	"sync"
	"time"

	"tca_dashboard/internal/adapters/observability"
)

type Clock func() time.Time

type entry struct {
	v         any
	fetchedAt time.Time
}

type Cache struct {
	ttl time.Duration
	now Clock

	mu      sync.Mutex
	entries map[string]entry
	fills   map[string]*sync.Mutex
}

func New(ttl time.Duration, now Clock) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: map[string]entry{},
		fills:   map[string]*sync.Mutex{},
	}
}

// Do returns the cached value for key if it is still fresh, otherwise
// runs fill and stores the result. The write is all-or-nothing per key:
// a failed fill stores nothing, and concurrent callers for the same key
// wait for one fill instead of racing.
func (c *Cache) Do(key string, fill func() (any, error)) (any, error) {
	if v, ok := c.lookup(key); ok {
		observability.ObserveCache("snapshot", "hit")
		return v, nil
	}

	fm := c.fillMutex(key)
	fm.Lock()
	defer fm.Unlock()

	// another caller may have filled while we waited
	if v, ok := c.lookup(key); ok {
		observability.ObserveCache("snapshot", "hit")
		return v, nil
	}

	observability.ObserveCache("snapshot", "miss")
	v, err := fill()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = entry{v: v, fetchedAt: c.now()}
	c.mu.Unlock()
	observability.ObserveCache("snapshot", "set")
	return v, nil
}

// Invalidate drops one key so the next Do refetches.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	observability.ObserveCache("snapshot", "del")
}

func (c *Cache) lookup(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.v, true
}

func (c *Cache) fillMutex(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	fm, ok := c.fills[key]
	if !ok {
		fm = &sync.Mutex{}
		c.fills[key] = fm
	}
	return fm
}
