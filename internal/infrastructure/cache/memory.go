package cache

import (
	"context"
	"sync"

	"github.com/fieldline/backend/internal/domain/catalog"
)

// MemoryCache is an in-process snapshot cache. It does not survive a
// restart; it exists so single-binary deployments need no Redis.
type MemoryCache struct {
	mu       sync.RWMutex
	snapshot *catalog.Snapshot
}

// NewMemoryCache creates an empty in-memory snapshot cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// Load returns the cached snapshot or ErrMiss
func (c *MemoryCache) Load(ctx context.Context) (*catalog.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snapshot == nil {
		return nil, ErrMiss
	}
	copy := *c.snapshot
	return &copy, nil
}

// Store replaces the cached snapshot
func (c *MemoryCache) Store(ctx context.Context, snapshot *catalog.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy := *snapshot
	c.snapshot = &copy
	return nil
}
