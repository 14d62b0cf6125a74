package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merchfinder/internal/domain"
)

func TestKeyNormalizesQuery(t *testing.T) {
	assert.Equal(t, Key("red bull cap", 20), Key("  Red Bull CAP ", 20))
	assert.NotEqual(t, Key("red bull cap", 20), Key("red bull cap", 10))
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c, err := NewMemoryCache(8)
	require.NoError(t, err)

	ctx := context.Background()
	result := &domain.SearchResult{Query: "red bull cap", TotalFound: 3}

	_, ok := c.Get(ctx, Key("red bull cap", 20))
	assert.False(t, ok)

	c.Set(ctx, Key("red bull cap", 20), result, time.Minute)
	got, ok := c.Get(ctx, Key("red bull cap", 20))
	require.True(t, ok)
	assert.Equal(t, 3, got.TotalFound)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c, err := NewMemoryCache(8)
	require.NoError(t, err)

	ctx := context.Background()
	c.Set(ctx, "k", &domain.SearchResult{}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheEvictsOldest(t *testing.T) {
	c, err := NewMemoryCache(2)
	require.NoError(t, err)

	ctx := context.Background()
	c.Set(ctx, "a", &domain.SearchResult{Query: "a"}, time.Minute)
	c.Set(ctx, "b", &domain.SearchResult{Query: "b"}, time.Minute)
	c.Set(ctx, "c", &domain.SearchResult{Query: "c"}, time.Minute)

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}
