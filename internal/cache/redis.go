package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis server, for deployments where several
// calculator instances share one cache.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed cache for the given address. A non-positive
// ttl stores entries without expiry.
func NewRedis(addr string, ttl time.Duration) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{client: client, ttl: ttl}
}

// Get returns the cached value for key if present.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores the value for key.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	ttl := r.ttl
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, key, value, ttl).Err()
}
