package catalogsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/fieldline/backend/internal/infrastructure/cache"
)

// Status describes the current snapshot state for clients
type Status struct {
	HasSnapshot bool      `json:"has_snapshot"`
	Stale       bool      `json:"stale"`
	FetchedAt   time.Time `json:"fetched_at"`
	LastError   string    `json:"last_error,omitempty"`
}

// Service owns the catalog snapshot. It bulk-fetches the remote reference
// collections, swaps the snapshot atomically on success, and on failure
// retains the previous snapshot while flagging it stale. A refresh that was
// superseded by a newer one never touches the state.
type Service struct {
	fetcher   catalog.Fetcher
	cache     cache.SnapshotCache
	publisher shared.EventPublisher
	logger    *zap.Logger
	managerID string

	mu       sync.RWMutex
	snapshot *catalog.Snapshot
	stale    bool
	lastErr  string
	gen      uint64
}

// NewService creates a catalog sync service
func NewService(
	fetcher catalog.Fetcher,
	snapshotCache cache.SnapshotCache,
	publisher shared.EventPublisher,
	managerID string,
	logger *zap.Logger,
) *Service {
	return &Service{
		fetcher:   fetcher,
		cache:     snapshotCache,
		publisher: publisher,
		logger:    logger,
		managerID: managerID,
	}
}

// WarmStart loads the last persisted snapshot so the instance can serve data
// before its first refresh. A cache-loaded snapshot is flagged stale until a
// live refresh succeeds.
func (s *Service) WarmStart(ctx context.Context) {
	snapshot, err := s.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("snapshot cache load failed", zap.Error(err))
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil {
		return
	}
	s.snapshot = snapshot
	s.stale = true
	s.logger.Info("warm-started from cached snapshot",
		zap.Time("fetched_at", snapshot.FetchedAt),
		zap.Int("products", len(snapshot.Products)))
}

// Refresh bulk-fetches all reference collections and swaps the snapshot. On
// any fetch failure the previous snapshot stays in effect and is flagged
// stale. A refresh overtaken by a later Refresh call discards its result.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	snapshot, err := s.fetchAll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// A cancelled refresh leaves the state exactly as it was.
			return err
		}
		s.markStale(ctx, gen, err)
		return err
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.logger.Debug("discarding superseded refresh")
		return nil
	}
	s.snapshot = snapshot
	s.stale = false
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.cache.Store(ctx, snapshot); err != nil {
		s.logger.Warn("snapshot cache store failed", zap.Error(err))
	}
	if err := s.publisher.Publish(ctx, catalog.NewSnapshotRefreshedEvent(snapshot)); err != nil {
		s.logger.Warn("failed to publish snapshot refreshed event", zap.Error(err))
	}

	s.logger.Info("catalog snapshot refreshed",
		zap.Int("products", len(snapshot.Products)),
		zap.Int("clients", len(snapshot.Clients)),
		zap.Int("salesmen", len(snapshot.Salesmen)),
		zap.Int("team_orders", len(snapshot.TeamOrders)))
	return nil
}

func (s *Service) fetchAll(ctx context.Context) (*catalog.Snapshot, error) {
	products, err := s.fetcher.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}
	salesmen, err := s.fetcher.FetchSalesmen(ctx, s.managerID)
	if err != nil {
		return nil, err
	}
	clients, err := s.fetcher.FetchClients(ctx, s.managerID)
	if err != nil {
		return nil, err
	}

	snapshot := &catalog.Snapshot{
		Products:  products,
		Clients:   clients,
		Salesmen:  salesmen,
		FetchedAt: time.Now(),
	}
	orders, err := s.fetcher.FetchOrders(ctx, snapshot.SalesmanIDs())
	if err != nil {
		return nil, err
	}
	snapshot.TeamOrders = orders
	return snapshot, nil
}

func (s *Service) markStale(ctx context.Context, gen uint64, cause error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.stale = true
	s.lastErr = cause.Error()
	s.mu.Unlock()

	s.logger.Warn("catalog refresh failed, keeping previous snapshot", zap.Error(cause))
	if err := s.publisher.Publish(ctx, catalog.NewSnapshotStaleEvent(cause.Error())); err != nil {
		s.logger.Warn("failed to publish snapshot stale event", zap.Error(err))
	}
}

// Snapshot returns the current snapshot, or nil before the first successful
// refresh or warm start.
func (s *Service) Snapshot() *catalog.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Stale reports whether the current snapshot is known to be out of date
func (s *Service) Stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stale
}

// Status returns the snapshot state for the status endpoint
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := Status{
		HasSnapshot: s.snapshot != nil,
		Stale:       s.stale,
		LastError:   s.lastErr,
	}
	if s.snapshot != nil {
		status.FetchedAt = s.snapshot.FetchedAt
	}
	return status
}
