package content

import (
	"sync"
	"time"

	"github.com/nbamra/folio-bff/model"
)

// detailCache is a TTL cache for item detail lookups. Listing pages are
// never cached here; only GetByID results, which are stable between
// content edits.
type detailCache struct {
	mu         sync.RWMutex
	entries    map[string]detailEntry
	ttl        time.Duration
	maxEntries int
}

type detailEntry struct {
	item    model.Item
	expires time.Time
}

func newDetailCache(ttl time.Duration, maxEntries int) *detailCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries < 1 {
		maxEntries = 1000
	}
	return &detailCache{
		entries:    make(map[string]detailEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

func (c *detailCache) get(key string) (model.Item, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		return nil, false
	}
	return entry.item, true
}

func (c *detailCache) put(key string, item model.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxEntries {
		c.evictExpired()
		// Still full after sweeping: drop everything rather than grow
		// without bound. The cache is advisory.
		if len(c.entries) >= c.maxEntries {
			c.entries = make(map[string]detailEntry)
		}
	}

	c.entries[key] = detailEntry{
		item:    item,
		expires: time.Now().Add(c.ttl),
	}
}

// evictExpired removes expired entries. Caller must hold the write lock.
func (c *detailCache) evictExpired() {
	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, key)
		}
	}
}

func (c *detailCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
