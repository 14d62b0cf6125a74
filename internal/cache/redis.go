package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"merchfinder/internal/domain"
)

// RedisCache stores results as TTL'd JSON values in Redis, shared across
// process instances.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCache connects to the given address.
func NewRedisCache(addr string, logger *zap.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisCache{client: rdb, logger: logger}
}

// Ping verifies connectivity; used by the health endpoint.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (*domain.SearchResult, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var result domain.SearchResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result *domain.SearchResult, ttl time.Duration) {
	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}
