package contracts

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider is the snapshot cache collaborator. Keys are built from
// endpoint path plus query string by the caller.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}
