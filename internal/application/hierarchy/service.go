package hierarchy

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/fieldline/backend/internal/domain/sales"
	"github.com/fieldline/backend/internal/domain/shared"
)

// Errors for out-of-sequence delete operations
var (
	// ErrNotHidden rejects an undo or delete confirmation for an order that
	// is not in its soft-deleted window
	ErrNotHidden = shared.NewDomainError("NOT_HIDDEN", "order is not pending deletion")
	// ErrAlreadyHidden rejects a second soft delete of the same order
	ErrAlreadyHidden = shared.NewDomainError("ALREADY_HIDDEN", "order is already pending deletion")
)

// SnapshotProvider supplies the catalog snapshot the hierarchy resolves
// against
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

// Service builds the Client -> Order -> Product view over a salesman's
// ledger orders and runs the two-step delete. A soft delete only hides the
// order from the view; the ledger row goes away when the deletion is
// confirmed, and an undo before that restores the order untouched. Either
// step consumes the pending entry, so the other then fails.
type Service struct {
	repo      ledger.Repository
	snapshots SnapshotProvider
	publisher shared.EventPublisher
	logger    *zap.Logger

	mu     sync.Mutex
	hidden map[string]map[uint]bool // salesman uid -> hidden order ids
}

// NewService creates a hierarchy service
func NewService(
	repo ledger.Repository,
	snapshots SnapshotProvider,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		snapshots: snapshots,
		publisher: publisher,
		logger:    logger,
		hidden:    make(map[string]map[uint]bool),
	}
}

// View returns the salesman's hierarchy: their visible orders grouped under
// their clients, line items resolved to products. Orders pending deletion
// are omitted.
func (s *Service) View(ctx context.Context, uid string) ([]sales.ClientGroup, error) {
	orders, err := s.repo.OrdersByOwner(ctx, uid)
	if err != nil {
		return nil, err
	}

	snapshot := s.snapshots.Snapshot()
	var clients []catalog.Client
	var products []catalog.Product
	if snapshot != nil {
		clients = snapshot.Clients
		products = snapshot.Products
	}

	s.mu.Lock()
	hidden := make(map[uint]bool, len(s.hidden[uid]))
	for id := range s.hidden[uid] {
		hidden[id] = true
	}
	s.mu.Unlock()

	return sales.BuildHierarchy(orders, clients, products, hidden), nil
}

// SoftDelete hides an order from the hierarchy pending confirmation. The
// ledger is untouched until CommitDelete.
func (s *Service) SoftDelete(ctx context.Context, uid string, orderID uint) error {
	owned, err := s.owns(ctx, uid, orderID)
	if err != nil {
		return err
	}
	if !owned {
		return shared.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden[uid][orderID] {
		return ErrAlreadyHidden
	}
	if s.hidden[uid] == nil {
		s.hidden[uid] = make(map[uint]bool)
	}
	s.hidden[uid][orderID] = true
	return nil
}

// Undo restores a soft-deleted order to the hierarchy. It fails for an
// order that is not pending deletion, including one whose deletion was
// already confirmed.
func (s *Service) Undo(ctx context.Context, uid string, orderID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hidden[uid][orderID] {
		return ErrNotHidden
	}
	delete(s.hidden[uid], orderID)
	return nil
}

// CommitDelete permanently removes a soft-deleted order and its line items
// from the ledger. It fails for an order that is not pending deletion.
func (s *Service) CommitDelete(ctx context.Context, uid string, orderID uint) error {
	s.mu.Lock()
	if !s.hidden[uid][orderID] {
		s.mu.Unlock()
		return ErrNotHidden
	}
	delete(s.hidden[uid], orderID)
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, orderID); err != nil {
		// The entry was consumed; re-hide so the caller can retry the
		// confirmation instead of silently resurfacing the order.
		s.mu.Lock()
		if s.hidden[uid] == nil {
			s.hidden[uid] = make(map[uint]bool)
		}
		s.hidden[uid][orderID] = true
		s.mu.Unlock()
		return err
	}

	if err := s.publisher.Publish(ctx, ledger.NewOrderDeletedEvent(orderID, uid)); err != nil {
		s.logger.Warn("failed to publish order deleted event",
			zap.Uint("order_id", orderID), zap.Error(err))
	}
	return nil
}

// owns reports whether the order exists and belongs to the salesman
func (s *Service) owns(ctx context.Context, uid string, orderID uint) (bool, error) {
	orders, err := s.repo.OrdersByOwner(ctx, uid)
	if err != nil {
		return false, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return true, nil
		}
	}
	return false, nil
}
