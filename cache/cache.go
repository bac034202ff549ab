// Package cache holds recently scraped ProductRecords so the registry app
// re-submitting the same product URL does not pay the fetch cost twice.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/wishwell/wishwell/models"
)

// Cache is a TTL cache of scrape results keyed by URL. Safe for concurrent
// use.
type Cache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New creates a Cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// Get returns the cached record for url if one exists and is younger than
// maxAge. maxAge <= 0 disables the lookup.
func (c *Cache) Get(url string, maxAge time.Duration) (*models.ProductRecord, bool) {
	if maxAge <= 0 {
		return nil, false
	}
	v, expiry, ok := c.store.GetWithExpiration(url)
	if !ok {
		return nil, false
	}
	storedAt := expiry.Add(-c.ttl)
	if time.Since(storedAt) > maxAge {
		return nil, false
	}
	rec, ok := v.(*models.ProductRecord)
	return rec, ok
}

// Set stores a record for url. Failed records are not cached: a later
// retry may succeed.
func (c *Cache) Set(url string, rec *models.ProductRecord) {
	if rec == nil || rec.ScrapeMethod == models.MethodFailed {
		return
	}
	c.store.SetDefault(url, rec)
}
