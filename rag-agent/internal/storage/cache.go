package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by Get when no entry exists.
var ErrCacheMiss = errors.New("storage: cache miss")

// CompletionCache stores completion text in redis with a fixed TTL.
type CompletionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCompletionCache wraps client. A zero ttl keeps entries forever.
func NewCompletionCache(client *redis.Client, ttl time.Duration) *CompletionCache {
	return &CompletionCache{client: client, ttl: ttl}
}

// Get returns the cached completion for key.
func (c *CompletionCache) Get(ctx context.Context, key string) (string, error) {
	if c == nil || c.client == nil {
		return "", fmt.Errorf("redis not available")
	}
	data, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return data, nil
}

// Set stores a completion under key.
func (c *CompletionCache) Set(ctx context.Context, key, value string) error {
	if c == nil || c.client == nil {
		return nil // No error if Redis is not available
	}
	return c.client.Set(ctx, key, value, c.ttl).Err()
}

// Close releases the underlying connection pool.
func (c *CompletionCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
