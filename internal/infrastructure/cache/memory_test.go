package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldline/backend/internal/domain/catalog"
)

func TestMemoryCache_MissWhenEmpty(t *testing.T) {
	c := NewMemoryCache()

	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryCache_StoreAndLoad(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	snapshot := &catalog.Snapshot{
		Products: []catalog.Product{
			{ID: "p-1", Name: "Widget", LotSize: 5, UnitPrice: decimal.NewFromInt(2), Stock: 10},
		},
		FetchedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.Store(ctx, snapshot))

	loaded, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Products, 1)
	assert.Equal(t, "p-1", loaded.Products[0].ID)
	assert.Equal(t, snapshot.FetchedAt, loaded.FetchedAt)

	// The cache hands back a copy; mutating it must not affect the stored
	// snapshot.
	loaded.Products = nil
	again, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, again.Products, 1)
}
