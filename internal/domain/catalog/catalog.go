package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog product. Read-only on this side; the remote store
// owns it.
type Product struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	LotSize     int64           `json:"lot_size"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Stock       int64           `json:"stock"`
}

// Client is a customer of the sales team
type Client struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	ManagerID    string `json:"manager_id"`
}

// Salesman is a member of the sales team
type Salesman struct {
	UID       string `json:"uid"`
	FullName  string `json:"full_name"`
	ManagerID string `json:"manager_id"`
	Email     string `json:"email"`
}

// Order is the remote mirror of a committed order. Managers read these for
// cross-team analytics; the local ledger only ever holds this device's own
// orders.
type Order struct {
	ID         string           `json:"id"`
	ClientID   string           `json:"client_id"`
	SalesmanID string           `json:"salesman_id"`
	Lines      map[string]int64 `json:"lines"`
	Total      decimal.Decimal  `json:"total"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Snapshot is a point-in-time view of the remote reference collections. A
// snapshot is immutable once published; refresh failures leave the previous
// snapshot untouched.
type Snapshot struct {
	Products   []Product  `json:"products"`
	Clients    []Client   `json:"clients"`
	Salesmen   []Salesman `json:"salesmen"`
	TeamOrders []Order    `json:"team_orders"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// ProductByID resolves a product against the snapshot. The second return is
// false on referential loss.
func (s *Snapshot) ProductByID(id string) (Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// ClientByID resolves a client against the snapshot
func (s *Snapshot) ClientByID(id string) (Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// Prices returns a productID -> unit price index over the snapshot
func (s *Snapshot) Prices() map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(s.Products))
	for _, p := range s.Products {
		prices[p.ID] = p.UnitPrice
	}
	return prices
}

// SalesmanIDs returns the uids of all salesmen in the snapshot
func (s *Snapshot) SalesmanIDs() []string {
	ids := make([]string, 0, len(s.Salesmen))
	for _, sm := range s.Salesmen {
		ids = append(ids, sm.UID)
	}
	return ids
}
