// Package cache stores completed SearchResults keyed by normalized query
// text and result cap. Absence is never an error.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"merchfinder/internal/domain"
)

// Cache is the result-cache contract. Implementations must treat every
// internal failure as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (*domain.SearchResult, bool)
	Set(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration)
}

// Key builds the cache key for a query and result cap.
func Key(query string, maxResults int) string {
	return fmt.Sprintf("search:%s|%d", strings.ToLower(strings.TrimSpace(query)), maxResults)
}
