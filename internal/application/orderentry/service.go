package orderentry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/fieldline/backend/internal/domain/sales"
	"github.com/fieldline/backend/internal/domain/shared"
)

const mirrorTimeout = 10 * time.Second

// SnapshotProvider supplies the catalog snapshot drafts validate against
type SnapshotProvider interface {
	Snapshot() *catalog.Snapshot
}

// DraftView is the staged state of a salesman's in-progress order
type DraftView struct {
	Lines     []sales.DraftLine `json:"lines"`
	Total     decimal.Decimal   `json:"total"`
	CanCommit bool              `json:"can_commit"`
}

// Service manages one in-progress order draft per salesman and turns a
// committed draft into a durable ledger order. The remote mirror write is
// fire-and-forget: a commit succeeds once the local ledger has it.
type Service struct {
	repo      ledger.Repository
	snapshots SnapshotProvider
	mirror    catalog.Mirror
	publisher shared.EventPublisher
	logger    *zap.Logger
	idFor     func(orderID uint) string

	mu     sync.Mutex
	drafts map[string]*sales.Draft
}

// NewService creates an order entry service
func NewService(
	repo ledger.Repository,
	snapshots SnapshotProvider,
	mirror catalog.Mirror,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		snapshots: snapshots,
		mirror:    mirror,
		publisher: publisher,
		logger:    logger,
		idFor:     remoteID,
		drafts:    make(map[string]*sales.Draft),
	}
}

// Stage validates and stores a quantity for a product in the salesman's
// draft, replacing any prior line for the same product. The returned line
// carries the validation state, invalid included.
func (s *Service) Stage(ctx context.Context, uid, productID string, quantity int64) (sales.DraftLine, error) {
	snapshot := s.snapshots.Snapshot()
	if snapshot == nil {
		return sales.DraftLine{}, shared.NewDomainError("CATALOG_UNAVAILABLE", "catalog has not been fetched yet")
	}
	product, ok := snapshot.ProductByID(productID)
	if !ok {
		return sales.DraftLine{}, shared.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftLocked(uid).Stage(product, quantity), nil
}

// Unstage removes a product line from the salesman's draft
func (s *Service) Unstage(ctx context.Context, uid, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftLocked(uid).Remove(productID)
}

// Draft returns the salesman's current draft state
func (s *Service) Draft(ctx context.Context, uid string) DraftView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return viewOf(s.draftLocked(uid))
}

// Clear discards the salesman's draft
func (s *Service) Clear(ctx context.Context, uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, uid)
}

// Commit freezes the draft into an order for the given client, writes it to
// the ledger and clears the draft. Invalid lines are excluded from the
// committed order. The mirror write happens in the background and never
// fails the commit.
func (s *Service) Commit(ctx context.Context, uid, clientID string) (*ledger.Order, error) {
	snapshot := s.snapshots.Snapshot()
	if snapshot == nil {
		return nil, shared.NewDomainError("CATALOG_UNAVAILABLE", "catalog has not been fetched yet")
	}
	if _, ok := snapshot.ClientByID(clientID); !ok {
		return nil, shared.ErrNotFound
	}

	s.mu.Lock()
	draft := s.draftLocked(uid)
	order, err := draft.Commit(clientID, uid)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.Insert(ctx, order); err != nil {
		// The draft stays staged so the caller can retry the commit.
		return nil, err
	}

	s.mu.Lock()
	delete(s.drafts, uid)
	s.mu.Unlock()

	if err := s.publisher.Publish(ctx, ledger.NewOrderCommittedEvent(order)); err != nil {
		s.logger.Warn("failed to publish order committed event",
			zap.Uint("order_id", order.ID), zap.Error(err))
	}

	go s.mirrorOrder(*order)
	return order, nil
}

// mirrorOrder pushes a committed order to the remote store. Failures are
// logged only; the ledger copy is authoritative for this device.
func (s *Service) mirrorOrder(order ledger.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	remote := catalog.Order{
		ID:         s.idFor(order.ID),
		ClientID:   order.ClientID,
		SalesmanID: order.SalesmanID,
		Lines:      order.Quantities(),
		Total:      order.Total,
		CreatedAt:  order.CreatedAt,
	}
	if err := s.mirror.AddOrder(ctx, remote); err != nil {
		s.logger.Warn("order mirror write failed",
			zap.Uint("order_id", order.ID),
			zap.String("salesman_id", order.SalesmanID),
			zap.Error(err))
		return
	}
	s.logger.Debug("order mirrored to remote store", zap.Uint("order_id", order.ID))
}

func (s *Service) draftLocked(uid string) *sales.Draft {
	draft, ok := s.drafts[uid]
	if !ok {
		draft = sales.NewDraft()
		s.drafts[uid] = draft
	}
	return draft
}

func viewOf(draft *sales.Draft) DraftView {
	return DraftView{
		Lines:     draft.Lines(),
		Total:     draft.Total(),
		CanCommit: draft.HasValidLines(),
	}
}

// remoteID assigns the document id an order gets in the remote store. Local
// autoincrement ids collide across devices, so the mirror copy gets a uuid.
func remoteID(_ uint) string {
	return uuid.NewString()
}
