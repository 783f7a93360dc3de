package analytics

import (
	"time"

	"github.com/fieldline/backend/internal/domain/report"
)

// List identifies one of the four ranking lists a chart selection can point
// into.
type List string

const (
	ListProductByCount  List = "product_by_count"
	ListProductByValue  List = "product_by_value"
	ListSalesmanByCount List = "salesman_by_count"
	ListSalesmanByValue List = "salesman_by_value"
)

// Valid reports whether l names a known ranking list
func (l List) Valid() bool {
	switch l {
	case ListProductByCount, ListProductByValue, ListSalesmanByCount, ListSalesmanByValue:
		return true
	}
	return false
}

// ChartSelection pairs a ranking list's selected entity with its daily
// series across the window.
type ChartSelection struct {
	ID     string               `json:"id"`
	Pinned bool                 `json:"pinned"`
	Series []report.SeriesPoint `json:"series"`
}

// Dashboard is an immutable aggregation result. Every recompute produces a
// complete new value; consumers never see a partially updated view.
type Dashboard struct {
	WindowDays   int  `json:"window_days"`
	CatalogStale bool `json:"catalog_stale"`

	TopProductsByCount []report.ProductRank  `json:"top_products_by_count"`
	TopProductsByValue []report.ProductRank  `json:"top_products_by_value"`
	TopSalesmenByCount []report.SalesmanRank `json:"top_salesmen_by_count"`
	TopSalesmenByValue []report.SalesmanRank `json:"top_salesmen_by_value"`

	Selections map[List]ChartSelection `json:"selections"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Equal reports whether two dashboards carry the same data, ignoring
// GeneratedAt. Recomputes that change nothing are suppressed by this
// comparison so downstream consumers are not re-rendered for free.
func (d Dashboard) Equal(other Dashboard) bool {
	if d.WindowDays != other.WindowDays || d.CatalogStale != other.CatalogStale {
		return false
	}
	if !productRanksEqual(d.TopProductsByCount, other.TopProductsByCount) ||
		!productRanksEqual(d.TopProductsByValue, other.TopProductsByValue) ||
		!salesmanRanksEqual(d.TopSalesmenByCount, other.TopSalesmenByCount) ||
		!salesmanRanksEqual(d.TopSalesmenByValue, other.TopSalesmenByValue) {
		return false
	}
	if len(d.Selections) != len(other.Selections) {
		return false
	}
	for list, sel := range d.Selections {
		otherSel, ok := other.Selections[list]
		if !ok || !selectionsEqual(sel, otherSel) {
			return false
		}
	}
	return true
}

func selectionsEqual(a, b ChartSelection) bool {
	if a.ID != b.ID || a.Pinned != b.Pinned || len(a.Series) != len(b.Series) {
		return false
	}
	for i := range a.Series {
		if a.Series[i] != b.Series[i] {
			return false
		}
	}
	return true
}

func productRanksEqual(a, b []report.ProductRank) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Rank != b[i].Rank ||
			a[i].Product.ID != b[i].Product.ID ||
			a[i].Quantity != b[i].Quantity ||
			!a[i].Amount.Equal(b[i].Amount) {
			return false
		}
	}
	return true
}

func salesmanRanksEqual(a, b []report.SalesmanRank) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Rank != b[i].Rank ||
			a[i].Salesman.UID != b[i].Salesman.UID ||
			a[i].OrderCount != b[i].OrderCount ||
			!a[i].Revenue.Equal(b[i].Revenue) {
			return false
		}
	}
	return true
}
