package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"merchfinder/internal/domain"
)

// MemoryCache is the in-process fallback used when no Redis address is
// configured. Size-bounded by LRU eviction, with per-entry expiry.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
}

type memoryEntry struct {
	result  *domain.SearchResult
	expires time.Time
}

// NewMemoryCache builds an LRU cache holding at most size results.
func NewMemoryCache(size int) (*MemoryCache, error) {
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries}, nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.SearchResult, bool) {
	entry, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		c.entries.Remove(key)
		return nil, false
	}
	return entry.result, true
}

func (c *MemoryCache) Set(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) {
	c.entries.Add(key, memoryEntry{result: result, expires: time.Now().Add(ttl)})
}
