package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldline/backend/internal/domain/catalog"
)

const snapshotKey = "fieldline:catalog:snapshot"

// RedisCache stores the catalog snapshot as a JSON blob in Redis
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed snapshot cache
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Load returns the cached snapshot or ErrMiss
func (c *RedisCache) Load(ctx context.Context) (*catalog.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot from redis: %w", err)
	}

	var snapshot catalog.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return &snapshot, nil
}

// Store replaces the cached snapshot
func (c *RedisCache) Store(ctx context.Context, snapshot *catalog.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, snapshotKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("store snapshot in redis: %w", err)
	}
	return nil
}
