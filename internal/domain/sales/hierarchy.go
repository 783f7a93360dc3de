package sales

import (
	"sort"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/ledger"
)

// HierarchyProduct is one resolved line item inside a hierarchy order
type HierarchyProduct struct {
	Product  catalog.Product `json:"product"`
	Quantity int64           `json:"quantity"`
}

// HierarchyOrder is one ledger order with its line items resolved against
// the catalog snapshot. Line items whose product no longer resolves are
// dropped.
type HierarchyOrder struct {
	Order    ledger.Order       `json:"order"`
	Products []HierarchyProduct `json:"products"`
}

// ClientGroup is one client with all of its visible orders
type ClientGroup struct {
	Client catalog.Client   `json:"client"`
	Orders []HierarchyOrder `json:"orders"`
}

// BuildHierarchy joins ledger orders with clients and products into the
// Client -> Order -> Product view. Clients without a matching order are
// excluded; orders are newest first within a client; products are sorted by
// name within an order. Orders whose id is in hidden are omitted (the
// soft-delete window held by the caller, not by the ledger).
func BuildHierarchy(orders []ledger.Order, clients []catalog.Client, products []catalog.Product, hidden map[uint]bool) []ClientGroup {
	productIndex := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		productIndex[p.ID] = p
	}

	byClient := make(map[string][]HierarchyOrder)
	for _, o := range orders {
		if hidden[o.ID] {
			continue
		}
		resolved := make([]HierarchyProduct, 0, len(o.Items))
		for _, item := range o.Items {
			product, ok := productIndex[item.ProductID]
			if !ok {
				continue
			}
			resolved = append(resolved, HierarchyProduct{Product: product, Quantity: item.Quantity})
		}
		sort.Slice(resolved, func(i, j int) bool {
			if resolved[i].Product.Name != resolved[j].Product.Name {
				return resolved[i].Product.Name < resolved[j].Product.Name
			}
			return resolved[i].Product.ID < resolved[j].Product.ID
		})
		byClient[o.ClientID] = append(byClient[o.ClientID], HierarchyOrder{Order: o, Products: resolved})
	}

	groups := make([]ClientGroup, 0, len(byClient))
	for _, client := range clients {
		clientOrders, ok := byClient[client.ID]
		if !ok {
			continue
		}
		sort.Slice(clientOrders, func(i, j int) bool {
			a, b := clientOrders[i].Order, clientOrders[j].Order
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		})
		groups = append(groups, ClientGroup{Client: client, Orders: clientOrders})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Client.Name != groups[j].Client.Name {
			return groups[i].Client.Name < groups[j].Client.Name
		}
		return groups[i].Client.ID < groups[j].Client.ID
	})
	return groups
}
