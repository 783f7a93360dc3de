package analytics

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/fieldline/backend/internal/domain/report"
	"github.com/fieldline/backend/internal/domain/shared"
)

// Scope selects whose orders a dashboard aggregates over
type Scope string

const (
	// ScopeMine aggregates the requesting salesman's own ledger orders
	ScopeMine Scope = "mine"
	// ScopeTeam aggregates the whole team's mirrored orders
	ScopeTeam Scope = "team"
)

// SnapshotProvider supplies the current catalog snapshot
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
	Stale() bool
}

// Service maintains one aggregation pipeline per salesman plus one for the
// team scope. It listens on the event bus: ledger writes re-feed the
// affected salesman's pipeline, snapshot changes re-feed all of them.
type Service struct {
	repo       ledger.Repository
	snapshots  SnapshotProvider
	logger     *zap.Logger
	clock      func() time.Time
	windowDays int

	mu       sync.Mutex
	personal map[string]*Pipeline
	team     *Pipeline
}

// NewService creates an analytics service with the given default window
func NewService(
	repo ledger.Repository,
	snapshots SnapshotProvider,
	windowDays int,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:       repo,
		snapshots:  snapshots,
		logger:     logger,
		clock:      time.Now,
		windowDays: windowDays,
		personal:   make(map[string]*Pipeline),
		team:       NewPipeline(windowDays, time.Now),
	}
}

// WithClock replaces the time source, for tests
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	s.mu.Lock()
	s.team = NewPipeline(s.windowDays, clock)
	s.mu.Unlock()
	return s
}

// EventTypes implements shared.EventHandler
func (s *Service) EventTypes() []string {
	return []string{
		ledger.EventTypeOrderCommitted,
		ledger.EventTypeOrderDeleted,
		catalog.EventTypeSnapshotRefreshed,
		catalog.EventTypeSnapshotStale,
	}
}

// Handle implements shared.EventHandler. Each event re-feeds exactly the
// pipelines whose inputs it moved.
func (s *Service) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ledger.OrderCommittedEvent:
		return s.refeedSalesman(ctx, e.SalesmanID)
	case *ledger.OrderDeletedEvent:
		return s.refeedSalesman(ctx, e.SalesmanID)
	case *catalog.SnapshotRefreshedEvent, *catalog.SnapshotStaleEvent:
		s.refeedCatalog()
		return nil
	}
	return nil
}

// refeedSalesman re-queries the salesman's ledger orders and pushes them
// into their pipeline.
func (s *Service) refeedSalesman(ctx context.Context, uid string) error {
	pipeline := s.pipelineFor(uid)
	orders, err := s.repo.OrdersByOwner(ctx, uid)
	if err != nil {
		s.logger.Error("failed to reload ledger orders for analytics",
			zap.String("salesman_id", uid), zap.Error(err))
		return err
	}
	pipeline.SetOrders(report.FromLedger(orders))
	return nil
}

// refeedCatalog pushes the current snapshot into every pipeline
func (s *Service) refeedCatalog() {
	snapshot := s.snapshots.Snapshot()
	if snapshot == nil {
		return
	}
	stale := s.snapshots.Stale()

	s.mu.Lock()
	pipelines := make([]*Pipeline, 0, len(s.personal)+1)
	for _, p := range s.personal {
		pipelines = append(pipelines, p)
	}
	team := s.team
	s.mu.Unlock()

	for _, p := range pipelines {
		p.SetCatalog(snapshot.Products, snapshot.Salesmen, stale)
	}
	team.SetCatalog(snapshot.Products, snapshot.Salesmen, stale)
	team.SetOrders(report.FromRemote(snapshot.TeamOrders))
}

// pipelineFor returns the salesman's pipeline, creating and seeding it on
// first use.
func (s *Service) pipelineFor(uid string) *Pipeline {
	s.mu.Lock()
	pipeline, ok := s.personal[uid]
	if !ok {
		pipeline = NewPipeline(s.windowDays, s.clock)
		s.personal[uid] = pipeline
		if snapshot := s.snapshots.Snapshot(); snapshot != nil {
			stale := s.snapshots.Stale()
			s.mu.Unlock()
			pipeline.SetCatalog(snapshot.Products, snapshot.Salesmen, stale)
			return pipeline
		}
	}
	s.mu.Unlock()
	return pipeline
}

// Dashboard returns the current dashboard for the given scope. ScopeMine
// seeds the salesman's pipeline from the ledger on first access.
func (s *Service) Dashboard(ctx context.Context, uid string, scope Scope) (Dashboard, error) {
	pipeline, err := s.resolve(ctx, uid, scope)
	if err != nil {
		return Dashboard{}, err
	}
	return pipeline.Dashboard(), nil
}

// SetWindow changes the rolling window length for a scope's pipeline
func (s *Service) SetWindow(ctx context.Context, uid string, scope Scope, days int) (Dashboard, error) {
	if days < 1 {
		return Dashboard{}, shared.NewDomainError("INVALID_INPUT", "window must be at least one day")
	}
	pipeline, err := s.resolve(ctx, uid, scope)
	if err != nil {
		return Dashboard{}, err
	}
	pipeline.SetWindow(days)
	return pipeline.Dashboard(), nil
}

// Pin fixes a ranking list's chart on an entity, or releases the pin when id
// is empty.
func (s *Service) Pin(ctx context.Context, uid string, scope Scope, list List, id string) (Dashboard, error) {
	if !list.Valid() {
		return Dashboard{}, shared.NewDomainError("INVALID_INPUT", "unknown ranking list")
	}
	pipeline, err := s.resolve(ctx, uid, scope)
	if err != nil {
		return Dashboard{}, err
	}
	pipeline.Pin(list, id)
	return pipeline.Dashboard(), nil
}

// Subscribe returns a channel carrying dashboard updates for the scope,
// plus a cancel function releasing the subscription.
func (s *Service) Subscribe(ctx context.Context, uid string, scope Scope) (<-chan Dashboard, func(), error) {
	pipeline, err := s.resolve(ctx, uid, scope)
	if err != nil {
		return nil, nil, err
	}
	ch := pipeline.Subscribe()
	return ch, func() { pipeline.Unsubscribe(ch) }, nil
}

func (s *Service) resolve(ctx context.Context, uid string, scope Scope) (*Pipeline, error) {
	switch scope {
	case ScopeTeam:
		s.mu.Lock()
		team := s.team
		s.mu.Unlock()
		return team, nil
	case ScopeMine, "":
		s.mu.Lock()
		_, seeded := s.personal[uid]
		s.mu.Unlock()
		pipeline := s.pipelineFor(uid)
		if !seeded {
			if err := s.refeedSalesman(ctx, uid); err != nil {
				return nil, err
			}
		}
		return pipeline, nil
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "unknown analytics scope")
	}
}
