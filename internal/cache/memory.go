package cache

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/Argus/pkg/contracts"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryProvider is an in-process cache with per-key TTL, for single-node
// deployments and tests.
type MemoryProvider struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ contracts.CacheProvider = (*MemoryProvider)(nil)

// NewMemoryProvider creates an empty in-memory cache.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (p *MemoryProvider) Get(_ context.Context, key string) ([]byte, error) {
	p.mu.RLock()
	entry, ok := p.entries[key]
	p.mu.RUnlock()

	if !ok || p.expired(entry) {
		return nil, contracts.ErrCacheMiss
	}
	return entry.value, nil
}

func (p *MemoryProvider) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = p.now().Add(ttl)
	}

	p.mu.Lock()
	p.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) TTL(_ context.Context, key string) (time.Duration, error) {
	p.mu.RLock()
	entry, ok := p.entries[key]
	p.mu.RUnlock()

	if !ok || p.expired(entry) {
		return 0, contracts.ErrCacheMiss
	}
	if entry.expiresAt.IsZero() {
		return 0, nil
	}
	return entry.expiresAt.Sub(p.now()), nil
}

func (p *MemoryProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	delete(p.entries, key)
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) Flush(_ context.Context) error {
	p.mu.Lock()
	p.entries = make(map[string]memoryEntry)
	p.mu.Unlock()
	return nil
}

func (p *MemoryProvider) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && p.now().After(entry.expiresAt)
}
