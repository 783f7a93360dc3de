package report

import (
	"time"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// SourceOrder is the common order shape the combinators aggregate over.
// Both the local ledger and the remote mirror reduce to it.
type SourceOrder struct {
	SalesmanID string
	ClientID   string
	Total      decimal.Decimal
	CreatedAt  time.Time
	Lines      map[string]int64 // productID -> quantity
}

// FromLedger converts ledger orders (with their line items) to source orders
func FromLedger(orders []ledger.Order) []SourceOrder {
	source := make([]SourceOrder, len(orders))
	for i, o := range orders {
		source[i] = SourceOrder{
			SalesmanID: o.SalesmanID,
			ClientID:   o.ClientID,
			Total:      o.Total,
			CreatedAt:  o.CreatedAt,
			Lines:      o.Quantities(),
		}
	}
	return source
}

// FromRemote converts remote mirror orders to source orders
func FromRemote(orders []catalog.Order) []SourceOrder {
	source := make([]SourceOrder, len(orders))
	for i, o := range orders {
		lines := make(map[string]int64, len(o.Lines))
		for productID, qty := range o.Lines {
			lines[productID] = qty
		}
		source[i] = SourceOrder{
			SalesmanID: o.SalesmanID,
			ClientID:   o.ClientID,
			Total:      o.Total,
			CreatedAt:  o.CreatedAt,
			Lines:      lines,
		}
	}
	return source
}
