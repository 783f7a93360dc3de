package ledger

import (
	"time"

	"github.com/fieldline/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem is one product position of a committed order. Its existence is
// strictly bound to the order: created together, deleted together.
type LineItem struct {
	OrderID   uint
	ProductID string
	Quantity  int64
}

// Order is an order committed on this device. Write-once: after commit the
// only permitted mutation is deletion. Total is frozen at commit time from
// the catalog snapshot the order was priced against; later price changes
// never alter it.
type Order struct {
	ID         uint
	ClientID   string
	SalesmanID string
	Items      []LineItem
	Total      decimal.Decimal
	CreatedAt  time.Time
}

// NewOrder assembles an order ready for insertion. The ledger assigns the
// identity on insert when id is zero.
func NewOrder(clientID, salesmanID string, items []LineItem, total decimal.Decimal) (*Order, error) {
	if clientID == "" {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if salesmanID == "" {
		return nil, shared.NewDomainError("INVALID_SALESMAN", "Salesman ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one line item")
	}
	for _, item := range items {
		if item.ProductID == "" {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Line item product ID cannot be empty")
		}
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line item quantity must be positive")
		}
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Order total cannot be negative")
	}

	return &Order{
		ClientID:   clientID,
		SalesmanID: salesmanID,
		Items:      items,
		Total:      total,
		CreatedAt:  time.Now(),
	}, nil
}

// Quantities returns the order's line items as a productID -> quantity map.
func (o *Order) Quantities() map[string]int64 {
	lines := make(map[string]int64, len(o.Items))
	for _, item := range o.Items {
		lines[item.ProductID] += item.Quantity
	}
	return lines
}
