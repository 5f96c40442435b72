// Package cache provides snapshot cache providers backing the scheduler's
// write-through step: Redis for shared deployments, an in-memory store for
// single-process runs, and a no-op for tests.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/Argus/pkg/contracts"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "argus:snapshot:"

// Key builds a cache key from an endpoint path and its query string.
func Key(endpoint, query string) string {
	if query == "" {
		return keyPrefix + endpoint
	}
	return keyPrefix + endpoint + "?" + query
}

// RedisProvider is the Redis-backed cache provider.
type RedisProvider struct {
	client *redis.Client
}

var _ contracts.CacheProvider = (*RedisProvider)(nil)

// NewRedisProvider wraps an existing Redis client.
func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client}
}

func (p *RedisProvider) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := p.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, contracts.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

func (p *RedisProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := p.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (p *RedisProvider) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := p.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	if ttl < 0 {
		return 0, contracts.ErrCacheMiss
	}
	return ttl, nil
}

func (p *RedisProvider) Del(ctx context.Context, key string) error {
	if err := p.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (p *RedisProvider) Flush(ctx context.Context) error {
	// Only our own keys, not the whole database.
	iter := p.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := p.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis flush del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis flush scan: %w", err)
	}
	return nil
}
