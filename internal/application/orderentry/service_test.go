package orderentry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/fieldline/backend/internal/domain/sales"
	"github.com/fieldline/backend/internal/domain/shared"
)

type memLedger struct {
	mu         sync.Mutex
	nextID     uint
	orders     []ledger.Order
	failInsert error
}

func (m *memLedger) Insert(ctx context.Context, order *ledger.Order) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return 0, m.failInsert
	}
	m.nextID++
	order.ID = m.nextID
	m.orders = append(m.orders, *order)
	return order.ID, nil
}

func (m *memLedger) Delete(ctx context.Context, id uint) error { return nil }

func (m *memLedger) OrdersByOwner(ctx context.Context, ownerID string) ([]ledger.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []ledger.Order
	for _, o := range m.orders {
		if o.SalesmanID == ownerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memLedger) LineItemsByOrder(ctx context.Context, orderID uint) ([]ledger.LineItem, error) {
	return nil, nil
}

func (m *memLedger) LineItemsByOwner(ctx context.Context, ownerID string) ([]ledger.LineItem, error) {
	return nil, nil
}

type recordingMirror struct {
	mu     sync.Mutex
	orders []catalog.Order
	done   chan struct{}
}

func (m *recordingMirror) AddOrder(ctx context.Context, order catalog.Order) error {
	m.mu.Lock()
	m.orders = append(m.orders, order)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return nil
}

type fixedSnapshots struct {
	snapshot *catalog.Snapshot
}

func (f *fixedSnapshots) Snapshot() *catalog.Snapshot { return f.snapshot }

type nopPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *nopPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func draftSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Products: []catalog.Product{
			{ID: "p-a", Name: "Widget", LotSize: 5, UnitPrice: decimal.RequireFromString("2.00"), Stock: 10},
			{ID: "p-b", Name: "Gadget", LotSize: 1, UnitPrice: decimal.RequireFromString("1.00"), Stock: 0},
		},
		Clients:   []catalog.Client{{ID: "c-1", Name: "Acme"}},
		FetchedAt: time.Now(),
	}
}

func fixture() (*Service, *memLedger, *recordingMirror, *nopPublisher) {
	repo := &memLedger{}
	mirror := &recordingMirror{done: make(chan struct{}, 4)}
	publisher := &nopPublisher{}
	svc := NewService(repo, &fixedSnapshots{snapshot: draftSnapshot()}, mirror, publisher, zap.NewNop())
	return svc, repo, mirror, publisher
}

func TestService_StageValidatesAgainstCatalog(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	// Quantity off the lot size is invalid even though stock would allow it.
	line, err := svc.Stage(ctx, "sm-1", "p-a", 7)
	require.NoError(t, err)
	assert.Equal(t, sales.LineNonMultiple, line.State)
	assert.Equal(t, "incorrect value", line.Reason)

	// Out of stock.
	line, err = svc.Stage(ctx, "sm-1", "p-b", 1)
	require.NoError(t, err)
	assert.Equal(t, sales.LineExceedsStock, line.State)
	assert.Equal(t, "unavailable stock", line.Reason)

	view := svc.Draft(ctx, "sm-1")
	assert.Len(t, view.Lines, 2)
	assert.True(t, view.Total.IsZero())
	assert.False(t, view.CanCommit)
}

func TestService_StageUnknownProduct(t *testing.T) {
	svc, _, _, _ := fixture()

	_, err := svc.Stage(context.Background(), "sm-1", "p-missing", 5)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_CommitWritesLedgerAndMirrors(t *testing.T) {
	svc, repo, mirror, publisher := fixture()
	ctx := context.Background()

	_, err := svc.Stage(ctx, "sm-1", "p-a", 10)
	require.NoError(t, err)
	_, err = svc.Stage(ctx, "sm-1", "p-b", 1) // invalid, must be excluded
	require.NoError(t, err)

	order, err := svc.Commit(ctx, "sm-1", "c-1")
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "p-a", order.Items[0].ProductID)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("20.00")))

	stored, err := repo.OrdersByOwner(ctx, "sm-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// Commit clears the draft.
	assert.Empty(t, svc.Draft(ctx, "sm-1").Lines)

	// The committed event fires synchronously, the mirror write async.
	publisher.mu.Lock()
	require.Len(t, publisher.events, 1)
	assert.Equal(t, ledger.EventTypeOrderCommitted, publisher.events[0].EventType())
	publisher.mu.Unlock()

	select {
	case <-mirror.done:
	case <-time.After(time.Second):
		t.Fatal("order was not mirrored")
	}
	mirror.mu.Lock()
	require.Len(t, mirror.orders, 1)
	assert.Equal(t, "sm-1", mirror.orders[0].SalesmanID)
	assert.Equal(t, int64(10), mirror.orders[0].Lines["p-a"])
	assert.NotEmpty(t, mirror.orders[0].ID)
	mirror.mu.Unlock()
}

func TestService_CommitWithoutValidLinesFails(t *testing.T) {
	svc, repo, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Stage(ctx, "sm-1", "p-b", 1)
	require.NoError(t, err)

	_, err = svc.Commit(ctx, "sm-1", "c-1")
	assert.ErrorIs(t, err, sales.ErrNoValidLines)

	stored, err := repo.OrdersByOwner(ctx, "sm-1")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestService_FailedInsertKeepsDraftForRetry(t *testing.T) {
	svc, repo, _, publisher := fixture()
	ctx := context.Background()

	_, err := svc.Stage(ctx, "sm-1", "p-a", 10)
	require.NoError(t, err)

	repo.mu.Lock()
	repo.failInsert = ledger.NewStorageError("insert order", errors.New("disk full"))
	repo.mu.Unlock()

	_, err = svc.Commit(ctx, "sm-1", "c-1")
	require.Error(t, err)

	// The staged draft survives the storage failure.
	view := svc.Draft(ctx, "sm-1")
	require.Len(t, view.Lines, 1)
	assert.True(t, view.CanCommit)

	publisher.mu.Lock()
	assert.Empty(t, publisher.events)
	publisher.mu.Unlock()

	// A retry against a recovered store succeeds with the same draft.
	repo.mu.Lock()
	repo.failInsert = nil
	repo.mu.Unlock()

	order, err := svc.Commit(ctx, "sm-1", "c-1")
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("20.00")))
	assert.Empty(t, svc.Draft(ctx, "sm-1").Lines)
}

func TestService_CommitUnknownClient(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Stage(ctx, "sm-1", "p-a", 5)
	require.NoError(t, err)

	_, err = svc.Commit(ctx, "sm-1", "c-missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_DraftsAreIsolatedPerSalesman(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Stage(ctx, "sm-1", "p-a", 5)
	require.NoError(t, err)

	assert.Len(t, svc.Draft(ctx, "sm-1").Lines, 1)
	assert.Empty(t, svc.Draft(ctx, "sm-2").Lines)
}

func TestService_UnstageAndClear(t *testing.T) {
	svc, _, _, _ := fixture()
	ctx := context.Background()

	_, err := svc.Stage(ctx, "sm-1", "p-a", 5)
	require.NoError(t, err)
	_, err = svc.Stage(ctx, "sm-1", "p-b", 1)
	require.NoError(t, err)

	svc.Unstage(ctx, "sm-1", "p-a")
	assert.Len(t, svc.Draft(ctx, "sm-1").Lines, 1)

	svc.Clear(ctx, "sm-1")
	assert.Empty(t, svc.Draft(ctx, "sm-1").Lines)
}
