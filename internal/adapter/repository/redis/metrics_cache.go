package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/V4T54L/shopmetrics/internal/domain"
	"github.com/redis/go-redis/v9"
)

// MetricsCache implements the domain.MetricsCache interface using Redis.
// Entries are never authoritative; the store can rebuild them at any time.
type MetricsCache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewMetricsCache creates a new Redis-backed metrics cache.
func NewMetricsCache(client *redis.Client, logger *slog.Logger) *MetricsCache {
	return &MetricsCache{
		client: client,
		logger: logger.With("component", "metrics_cache"),
	}
}

// Get returns the cached value for key, or domain.ErrCacheMiss.
func (c *MetricsCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrCacheMiss
		}
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key with the given TTL.
func (c *MetricsCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a single entry. Deleting a missing key is a no-op.
func (c *MetricsCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix, scanning
// in batches to avoid blocking Redis. Matching nothing is a no-op.
func (c *MetricsCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= 100 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete by prefix %s: %w", prefix, err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan %s: %w", prefix, err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("cache delete by prefix %s: %w", prefix, err)
		}
	}

	c.logger.Debug("cleared cache entries", "prefix", prefix)
	return nil
}
