package services

import (
	"sync"
	"time"

	"github.com/tropicaldog17/faro/internal/models"
)

type historyCacheKey struct {
	Symbol string
	Days   int
	Base   string
}

type historyCacheEntry struct {
	expiresAt time.Time
	response  *models.PriceHistoryResponse
}

// historyCache is a TTL cache for assembled price-history responses.
// Entries are immutable once inserted; expiry is checked lazily on lookup.
type historyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[historyCacheKey]historyCacheEntry
}

func newHistoryCache(ttl time.Duration, now func() time.Time) *historyCache {
	return &historyCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[historyCacheKey]historyCacheEntry),
	}
}

func (c *historyCache) Get(key historyCacheKey) *models.PriceHistoryResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if entry.expiresAt.Before(c.now()) {
		delete(c.entries, key)
		return nil
	}
	return entry.response
}

func (c *historyCache) Set(key historyCacheKey, response *models.PriceHistoryResponse) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = historyCacheEntry{expiresAt: c.now().Add(c.ttl), response: response}
}

func (c *historyCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[historyCacheKey]historyCacheEntry)
}
