package chain

import (
	"sync"

	"github.com/bergvall/intercept-go/contracts"
)

// Cache memoizes built chains by method key. Each key is built at most
// once, even under concurrent first calls; every caller observes the same
// Chain, or the same build error; configuration errors are permanent.
// Entries are never evicted; metadata is immutable after startup, so the
// cache only grows and only invalidates on process restart.
type Cache struct {
	mu      sync.Mutex
	entries map[contracts.MethodKey]*cacheEntry
}

type cacheEntry struct {
	once  sync.Once
	chain *Chain
	err   error
}

// NewCache creates an empty chain cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[contracts.MethodKey]*cacheEntry)}
}

// GetOrBuild returns the chain for key, calling build exactly once per
// key to produce it. Concurrent callers for the same unbuilt key block
// until the single build completes and then share its outcome.
func (c *Cache) GetOrBuild(key contracts.MethodKey, build func() (*Chain, error)) (*Chain, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		entry.chain, entry.err = build()
	})
	return entry.chain, entry.err
}

// Len returns the number of cached keys, built or building.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
