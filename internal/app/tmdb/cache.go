// internal/app/tmdb/cache.go
package tmdb

import (
	"sync"
	"time"
)

// responseCache is a TTL cache of raw response bodies keyed by request
// URL. Catalog listings change slowly, so a short TTL keeps pages fresh
// enough while sparing the upstream quota.
type responseCache struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]cacheEntry),
	}
}

func (c *responseCache) get(key string) ([]byte, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok || c.now().After(e.expires) {
		delete(c.m, key)
		return nil, false
	}
	return e.body, true
}

func (c *responseCache) put(key string, body []byte) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop expired entries opportunistically so the map does not grow
	// without bound across a long uptime.
	if len(c.m) > 512 {
		now := c.now()
		for k, e := range c.m {
			if now.After(e.expires) {
				delete(c.m, k)
			}
		}
	}
	c.m[key] = cacheEntry{body: body, expires: c.now().Add(c.ttl)}
}
