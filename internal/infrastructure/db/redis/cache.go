package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/userhub/user-service/internal/pkg/metrics"
)

// EntityCache implements ports.EntityCache on top of Redis. Entries are
// written without expiry; eviction is left to the server's maxmemory policy.
type EntityCache struct {
	client *redis.Client
}

// NewEntityCache creates an EntityCache wrapping the given Redis client.
func NewEntityCache(client *redis.Client) *EntityCache {
	return &EntityCache{client: client}
}

// Get returns the cached value and whether it was present.
func (c *EntityCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return b, true, nil
}

func (c *EntityCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *EntityCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}
