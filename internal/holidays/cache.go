package holidays

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Entry is one recorded DayTypes response. Failed fetches are recorded
// with OK unset and are never served from the cache.
type Entry struct {
	Country   string
	Year      int
	Month     int // 0 = whole year
	Codes     string
	FetchedAt time.Time
	OK        bool
}

func (e Entry) key() string {
	return cacheKey(e.Country, e.Year, e.Month)
}

func cacheKey(country string, year, month int) string {
	return fmt.Sprintf("%s-%04d-%02d", country, year, month)
}

// Cache stores DayTypes responses keyed by (country, year, month)
type Cache interface {
	Get(ctx context.Context, country string, year, month int) (Entry, bool, error)
	Put(ctx context.Context, e Entry) error
}

// MemoryCache is a process-local Cache
type MemoryCache struct {
	entries map[string]Entry
	mu      sync.RWMutex
}

// NewMemoryCache creates an empty MemoryCache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]Entry),
	}
}

// Get returns the entry for the key, successful or not
func (c *MemoryCache) Get(_ context.Context, country string, year, month int) (Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[cacheKey(country, year, month)]
	return e, ok, nil
}

// Put records e. A successful entry is never replaced by a failed one.
func (c *MemoryCache) Put(_ context.Context, e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[e.key()]; ok && old.OK && !e.OK {
		return nil
	}
	c.entries[e.key()] = e
	return nil
}
