package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"carprice/internal/adapters/redis"
	"carprice/pkg/errors"
)

// PredictionCache stores served predictions in Redis with a TTL so repeated
// identical requests skip model evaluation.
type PredictionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPredictionCache creates a cache over the shared Redis client.
func NewPredictionCache(client *redis.Client, ttl time.Duration) *PredictionCache {
	return &PredictionCache{client: client, ttl: ttl}
}

// Get implements prediction.Cache. Misses are errors.ErrNotFound.
func (c *PredictionCache) Get(ctx context.Context, key string, dest interface{}) error {
	err := c.client.Get(ctx, key, dest)
	if errors.Is(err, goredis.Nil) {
		return errors.ErrNotFound
	}
	return err
}

// Set implements prediction.Cache.
func (c *PredictionCache) Set(ctx context.Context, key string, value interface{}) error {
	return c.client.Set(ctx, key, value, c.ttl)
}
