package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/infrastructure/config"
)

// ErrMiss is returned by Load when no snapshot is cached
var ErrMiss = errors.New("snapshot cache miss")

// SnapshotCache persists the last good catalog snapshot so a restarted
// instance can serve data before its first successful refresh.
type SnapshotCache interface {
	Load(ctx context.Context) (*catalog.Snapshot, error)
	Store(ctx context.Context, snapshot *catalog.Snapshot) error
}

// New creates a snapshot cache for the configured backend
func New(cfg *config.Config, logger *zap.Logger) (SnapshotCache, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}
		logger.Info("snapshot cache using redis", zap.String("addr", cfg.Redis.Addr()))
		return NewRedisCache(client, cfg.Cache.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Cache.Backend)
	}
}
