package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/fieldline/backend/internal/domain/ledger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func testOrder(salesmanID string, items ...ledger.LineItem) *ledger.Order {
	total := decimal.Zero
	for range items {
		total = total.Add(decimal.NewFromInt(10))
	}
	return &ledger.Order{
		ClientID:   "client-1",
		SalesmanID: salesmanID,
		Items:      items,
		Total:      total,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestGormLedgerRepository_InsertAssignsID(t *testing.T) {
	repo := NewGormLedgerRepository(setupTestDB(t))

	id, err := repo.Insert(context.Background(), testOrder("sm-1",
		ledger.LineItem{ProductID: "p-1", Quantity: 5},
	))
	require.NoError(t, err)
	assert.NotZero(t, id)

	id2, err := repo.Insert(context.Background(), testOrder("sm-1",
		ledger.LineItem{ProductID: "p-2", Quantity: 3},
	))
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestGormLedgerRepository_LastWriteWins(t *testing.T) {
	repo := NewGormLedgerRepository(setupTestDB(t))
	ctx := context.Background()

	order := testOrder("sm-1",
		ledger.LineItem{ProductID: "p-1", Quantity: 5},
		ledger.LineItem{ProductID: "p-2", Quantity: 3},
	)
	id, err := repo.Insert(ctx, order)
	require.NoError(t, err)

	rewrite := testOrder("sm-1", ledger.LineItem{ProductID: "p-3", Quantity: 7})
	rewrite.ID = id
	rewrite.Total = decimal.NewFromInt(99)
	_, err = repo.Insert(ctx, rewrite)
	require.NoError(t, err)

	items, err := repo.LineItemsByOrder(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p-3", items[0].ProductID)
	assert.Equal(t, int64(7), items[0].Quantity)

	orders, err := repo.OrdersByOwner(ctx, "sm-1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Total.Equal(decimal.NewFromInt(99)))
}

func TestGormLedgerRepository_DeleteCascadesLineItems(t *testing.T) {
	repo := NewGormLedgerRepository(setupTestDB(t))
	ctx := context.Background()

	items := make([]ledger.LineItem, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, ledger.LineItem{
			ProductID: fmt.Sprintf("p-%03d", i),
			Quantity:  int64(i + 1),
		})
	}
	id, err := repo.Insert(ctx, testOrder("sm-1", items...))
	require.NoError(t, err)

	stored, err := repo.LineItemsByOrder(ctx, id)
	require.NoError(t, err)
	require.Len(t, stored, 100)

	require.NoError(t, repo.Delete(ctx, id))

	stored, err = repo.LineItemsByOrder(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stored)

	orders, err := repo.OrdersByOwner(ctx, "sm-1")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGormLedgerRepository_DeleteMissingIsNoError(t *testing.T) {
	repo := NewGormLedgerRepository(setupTestDB(t))

	assert.NoError(t, repo.Delete(context.Background(), 12345))
}

func TestGormLedgerRepository_DeleteLeavesOtherOrdersIntact(t *testing.T) {
	repo := NewGormLedgerRepository(setupTestDB(t))
	ctx := context.Background()

	keep, err := repo.Insert(ctx, testOrder("sm-1",
		ledger.LineItem{ProductID: "p-1", Quantity: 2},
	))
	require.NoError(t, err)
	drop, err := repo.Insert(ctx, testOrder("sm-1",
		ledger.LineItem{ProductID: "p-2", Quantity: 4},
	))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, drop))

	items, err := repo.LineItemsByOrder(ctx, keep)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p-1", items[0].ProductID)
}

func TestGormLedgerRepository_OrdersByOwnerNewestFirst(t *testing.T) {
	repo := NewGormLedgerRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		order := testOrder("sm-1", ledger.LineItem{ProductID: "p-1", Quantity: 1})
		order.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		_, err := repo.Insert(ctx, order)
		require.NoError(t, err)
	}
	other := testOrder("sm-2", ledger.LineItem{ProductID: "p-1", Quantity: 1})
	_, err := repo.Insert(ctx, other)
	require.NoError(t, err)

	orders, err := repo.OrdersByOwner(ctx, "sm-1")
	require.NoError(t, err)
	require.Len(t, orders, 3)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.After(orders[i-1].CreatedAt))
	}
	for _, o := range orders {
		assert.Equal(t, "sm-1", o.SalesmanID)
	}
}

func TestGormLedgerRepository_LineItemsByOwner(t *testing.T) {
	repo := NewGormLedgerRepository(setupTestDB(t))
	ctx := context.Background()

	_, err := repo.Insert(ctx, testOrder("sm-1",
		ledger.LineItem{ProductID: "p-1", Quantity: 2},
		ledger.LineItem{ProductID: "p-2", Quantity: 3},
	))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testOrder("sm-1",
		ledger.LineItem{ProductID: "p-1", Quantity: 4},
	))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, testOrder("sm-2",
		ledger.LineItem{ProductID: "p-9", Quantity: 9},
	))
	require.NoError(t, err)

	items, err := repo.LineItemsByOwner(ctx, "sm-1")
	require.NoError(t, err)
	assert.Len(t, items, 3)
	for _, item := range items {
		assert.NotEqual(t, "p-9", item.ProductID)
	}
}
