// Package cache provides the TTL response cache for the catalog API,
// backed by patrickmn/go-cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache wraps go-cache for HTTP response caching.
type Cache struct {
	store *gocache.Cache
}

// New creates a cache. defaultTTL is the entry lifetime,
// cleanupInterval how often expired entries are purged.
func New(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores a value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes a value.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all entries. Called after any catalog mutation.
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of cached entries.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats reports cache statistics for the stats endpoint.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// GetStats returns current statistics.
func (c *Cache) GetStats() Stats {
	return Stats{ItemCount: c.store.ItemCount()}
}
