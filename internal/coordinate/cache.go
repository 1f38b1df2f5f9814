package coordinate

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the datum cache when no size is configured
const DefaultCacheSize = 128

// Cache memoizes parsed datums keyed by their source string
type Cache struct {
	entries *lru.Cache[string, Datum]
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// CacheStats is a point-in-time view of cache activity
type CacheStats struct {
	Size   int    `json:"size"`
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

// NewCache creates a cache holding up to size datums
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, Datum](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Get returns the datum for source, parsing it on a miss. Parse failures
// are not cached.
func (c *Cache) Get(source string) (Datum, bool, error) {
	if d, ok := c.entries.Get(source); ok {
		c.hits.Add(1)
		return d, true, nil
	}
	c.misses.Add(1)

	d, err := Parse(source)
	if err != nil {
		return Datum{}, false, err
	}
	c.entries.Add(source, d)
	return d, false, nil
}

// Purge drops every cached datum
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Stats reports size and hit counters
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Size:   c.entries.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}
