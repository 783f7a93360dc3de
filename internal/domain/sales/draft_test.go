package sales

import (
	"testing"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogProduct(id, name string, lotSize, stock int64, price float64) catalog.Product {
	return catalog.Product{
		ID:        id,
		Code:      "SKU-" + id,
		Name:      name,
		LotSize:   lotSize,
		UnitPrice: decimal.NewFromFloat(price),
		Stock:     stock,
	}
}

func TestClassifyQuantity(t *testing.T) {
	productA := catalogProduct("a", "A", 5, 10, 2.00)
	productB := catalogProduct("b", "B", 1, 0, 1.00)

	tests := []struct {
		name     string
		product  catalog.Product
		quantity int64
		state    LineState
		reason   string
	}{
		{"zero quantity is empty", productA, 0, LineEmpty, "required"},
		{"negative quantity is empty", productA, -5, LineEmpty, "required"},
		{"non-multiple of lot size", productA, 7, LineNonMultiple, "incorrect value"},
		{"exceeds stock", productB, 1, LineExceedsStock, "unavailable stock"},
		{"valid", productA, 10, LineValid, ""},
		{"lot size violation wins over stock", productA, 13, LineNonMultiple, "incorrect value"},
		{"multiple but over stock", productA, 15, LineExceedsStock, "unavailable stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := ClassifyQuantity(tt.product, tt.quantity)
			assert.Equal(t, tt.state, state)
			assert.Equal(t, tt.reason, state.Reason())
		})
	}
}

func TestDraft_Stage(t *testing.T) {
	productA := catalogProduct("a", "A", 5, 10, 2.00)
	productB := catalogProduct("b", "B", 1, 0, 1.00)

	t.Run("invalid lines contribute nothing to the total", func(t *testing.T) {
		draft := NewDraft()
		draft.Stage(productA, 7)
		draft.Stage(productB, 1)
		assert.True(t, draft.Total().IsZero())
		assert.False(t, draft.HasValidLines())
	})

	t.Run("restaging a product replaces the prior line", func(t *testing.T) {
		draft := NewDraft()
		draft.Stage(productA, 7)
		line := draft.Stage(productA, 10)
		assert.Equal(t, LineValid, line.State)
		require.Len(t, draft.Lines(), 1)
		assert.True(t, draft.Total().Equal(decimal.NewFromInt(20)))
	})

	t.Run("valid lines priced from the staged snapshot", func(t *testing.T) {
		draft := NewDraft()
		line := draft.Stage(productA, 10)
		assert.True(t, line.Amount.Equal(decimal.NewFromInt(20)))
	})
}

func TestDraft_Commit(t *testing.T) {
	productA := catalogProduct("a", "A", 5, 10, 2.00)
	productB := catalogProduct("b", "B", 1, 0, 1.00)

	t.Run("fails when every line is invalid", func(t *testing.T) {
		draft := NewDraft()
		draft.Stage(productA, 7)
		draft.Stage(productB, 1)

		order, err := draft.Commit("c1", "s1")
		assert.Nil(t, order)
		require.Error(t, err)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("commits valid lines with frozen total", func(t *testing.T) {
		draft := NewDraft()
		draft.Stage(productA, 10)

		order, err := draft.Commit("c1", "s1")
		require.NoError(t, err)
		assert.Equal(t, "c1", order.ClientID)
		assert.Equal(t, "s1", order.SalesmanID)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "a", order.Items[0].ProductID)
		assert.Equal(t, int64(10), order.Items[0].Quantity)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(20)))
	})

	t.Run("silently excludes invalid lines", func(t *testing.T) {
		draft := NewDraft()
		draft.Stage(productA, 10)
		draft.Stage(productB, 1)

		order, err := draft.Commit("c1", "s1")
		require.NoError(t, err)
		require.Len(t, order.Items, 1)
		assert.Equal(t, "a", order.Items[0].ProductID)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(20)))
	})
}
