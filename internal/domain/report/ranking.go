package report

import (
	"sort"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// TopN is the length every ranking is truncated to
const TopN = 5

// ProductRank is one row of a product ranking
type ProductRank struct {
	Rank     int             `json:"rank"`
	Product  catalog.Product `json:"product"`
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// SalesmanRank is one row of a salesman ranking
type SalesmanRank struct {
	Rank       int              `json:"rank"`
	Salesman   catalog.Salesman `json:"salesman"`
	OrderCount int64            `json:"order_count"`
	Revenue    decimal.Decimal  `json:"revenue"`
}

// metricEntry is one accumulator entry prior to resolution
type metricEntry struct {
	id     string
	count  int64
	amount decimal.Decimal
}

// rankEntries sorts accumulator entries descending by metric and truncates
// to TopN. Ties are broken by ascending entity id; upstream behavior left
// the tie order to incidental map iteration, so a deterministic order is a
// deliberate choice here.
func rankEntries(entries []metricEntry, byAmount bool) []metricEntry {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if byAmount {
			if !a.amount.Equal(b.amount) {
				return a.amount.GreaterThan(b.amount)
			}
		} else {
			if a.count != b.count {
				return a.count > b.count
			}
		}
		return a.id < b.id
	})
	if len(entries) > TopN {
		entries = entries[:TopN]
	}
	return entries
}

// foldProducts accumulates per-product quantity and monetary value over the
// orders' line items. Prices missing from the snapshot count as zero rather
// than excluding the line.
func foldProducts(orders []SourceOrder, prices map[string]decimal.Decimal) map[string]*metricEntry {
	acc := make(map[string]*metricEntry)
	for _, o := range orders {
		for productID, qty := range o.Lines {
			entry, ok := acc[productID]
			if !ok {
				entry = &metricEntry{id: productID, amount: decimal.Zero}
				acc[productID] = entry
			}
			entry.count += qty
			price, ok := prices[productID]
			if !ok {
				price = decimal.Zero
			}
			entry.amount = entry.amount.Add(price.Mul(decimal.NewFromInt(qty)))
		}
	}
	return acc
}

// foldSalesmen accumulates per-salesman order count and revenue
func foldSalesmen(orders []SourceOrder) map[string]*metricEntry {
	acc := make(map[string]*metricEntry)
	for _, o := range orders {
		entry, ok := acc[o.SalesmanID]
		if !ok {
			entry = &metricEntry{id: o.SalesmanID, amount: decimal.Zero}
			acc[o.SalesmanID] = entry
		}
		entry.count++
		entry.amount = entry.amount.Add(o.Total)
	}
	return acc
}

func collect(acc map[string]*metricEntry) []metricEntry {
	entries := make([]metricEntry, 0, len(acc))
	for _, e := range acc {
		entries = append(entries, *e)
	}
	return entries
}

// TopProductsByCount ranks products by total quantity sold. Product ids with
// no match in the reference list are dropped (referential loss tolerated).
func TopProductsByCount(orders []SourceOrder, products []catalog.Product) []ProductRank {
	prices := priceIndex(products)
	return resolveProducts(rankEntries(collect(foldProducts(orders, prices)), false), products)
}

// TopProductsByValue ranks products by total monetary value sold
func TopProductsByValue(orders []SourceOrder, products []catalog.Product) []ProductRank {
	prices := priceIndex(products)
	return resolveProducts(rankEntries(collect(foldProducts(orders, prices)), true), products)
}

// TopSalesmenByCount ranks salesmen by number of orders
func TopSalesmenByCount(orders []SourceOrder, salesmen []catalog.Salesman) []SalesmanRank {
	return resolveSalesmen(rankEntries(collect(foldSalesmen(orders)), false), salesmen)
}

// TopSalesmenByValue ranks salesmen by summed order totals
func TopSalesmenByValue(orders []SourceOrder, salesmen []catalog.Salesman) []SalesmanRank {
	return resolveSalesmen(rankEntries(collect(foldSalesmen(orders)), true), salesmen)
}

func priceIndex(products []catalog.Product) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.UnitPrice
	}
	return prices
}

func resolveProducts(entries []metricEntry, products []catalog.Product) []ProductRank {
	index := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	ranks := make([]ProductRank, 0, len(entries))
	for _, e := range entries {
		product, ok := index[e.id]
		if !ok {
			continue
		}
		ranks = append(ranks, ProductRank{
			Rank:     len(ranks) + 1,
			Product:  product,
			Quantity: e.count,
			Amount:   e.amount,
		})
	}
	return ranks
}

func resolveSalesmen(entries []metricEntry, salesmen []catalog.Salesman) []SalesmanRank {
	index := make(map[string]catalog.Salesman, len(salesmen))
	for _, s := range salesmen {
		index[s.UID] = s
	}
	ranks := make([]SalesmanRank, 0, len(entries))
	for _, e := range entries {
		salesman, ok := index[e.id]
		if !ok {
			continue
		}
		ranks = append(ranks, SalesmanRank{
			Rank:       len(ranks) + 1,
			Salesman:   salesman,
			OrderCount: e.count,
			Revenue:    e.amount,
		})
	}
	return ranks
}
