package cache

import (
	"context"
	"time"

	"github.com/XavierBriggs/Argus/pkg/contracts"
)

// NoopProvider discards everything and always misses.
type NoopProvider struct{}

var _ contracts.CacheProvider = NoopProvider{}

func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Get(context.Context, string) ([]byte, error) {
	return nil, contracts.ErrCacheMiss
}

func (NoopProvider) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NoopProvider) TTL(context.Context, string) (time.Duration, error) {
	return 0, contracts.ErrCacheMiss
}

func (NoopProvider) Del(context.Context, string) error { return nil }

func (NoopProvider) Flush(context.Context) error { return nil }
