package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	items := []LineItem{{ProductID: "p1", Quantity: 5}}

	t.Run("valid order", func(t *testing.T) {
		order, err := NewOrder("c1", "s1", items, decimal.NewFromInt(10))
		require.NoError(t, err)
		assert.Zero(t, order.ID)
		assert.Equal(t, "c1", order.ClientID)
		assert.False(t, order.CreatedAt.IsZero())
	})

	tests := []struct {
		name       string
		clientID   string
		salesmanID string
		items      []LineItem
		total      decimal.Decimal
	}{
		{"empty client", "", "s1", items, decimal.NewFromInt(10)},
		{"empty salesman", "c1", "", items, decimal.NewFromInt(10)},
		{"no items", "c1", "s1", nil, decimal.NewFromInt(10)},
		{"zero quantity item", "c1", "s1", []LineItem{{ProductID: "p1"}}, decimal.NewFromInt(10)},
		{"blank product id", "c1", "s1", []LineItem{{Quantity: 1}}, decimal.NewFromInt(10)},
		{"negative total", "c1", "s1", items, decimal.NewFromInt(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOrder(tt.clientID, tt.salesmanID, tt.items, tt.total)
			assert.Error(t, err)
		})
	}
}

func TestOrder_Quantities(t *testing.T) {
	order := Order{
		Items: []LineItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 3},
			{ProductID: "p1", Quantity: 4},
		},
	}
	lines := order.Quantities()
	assert.Equal(t, int64(6), lines["p1"])
	assert.Equal(t, int64(3), lines["p2"])
}
