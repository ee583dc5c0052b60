// Package cache holds QuoteCache implementations for the cached price oracle.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/amirasaad/goldvault/pkg/provider"
)

// MemoryCache keeps quotes in process memory. Expired entries are dropped on read.
type MemoryCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
	now   func() time.Time
}

type cacheEntry struct {
	quote     provider.Quote
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: make(map[string]*cacheEntry),
		now:   time.Now,
	}
}

// Get returns a copy of the cached quote, or (nil, nil) on a miss.
func (c *MemoryCache) Get(_ context.Context, key string) (*provider.Quote, error) {
	c.mu.RLock()
	entry, exists := c.cache[key]
	c.mu.RUnlock()
	if !exists {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.cache[key]; ok && cur == entry {
			delete(c.cache, key)
		}
		c.mu.Unlock()
		return nil, nil
	}
	q := entry.quote
	return &q, nil
}

// Set stores a copy of q for ttl.
func (c *MemoryCache) Set(_ context.Context, key string, q *provider.Quote, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = &cacheEntry{
		quote:     *q,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a quote from cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, key)
	return nil
}
