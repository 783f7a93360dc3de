package analytics

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldline/backend/internal/domain/catalog"
	"github.com/fieldline/backend/internal/domain/report"
)

// Pipeline recomputes a Dashboard whenever one of its inputs changes. The
// dependency graph is explicit: orders, catalog data, window length and
// chart selections feed the rankings, and each ranking feeds the series of
// its selected entity. A recompute runs synchronously under the pipeline
// lock, so a subscriber that observes a change event can immediately read a
// dashboard that reflects it.
type Pipeline struct {
	clock func() time.Time

	mu          sync.Mutex
	orders      []report.SourceOrder
	products    []catalog.Product
	salesmen    []catalog.Salesman
	stale       bool
	windowDays  int
	pins        map[List]string
	current     Dashboard
	subscribers map[chan Dashboard]struct{}
}

// NewPipeline creates a pipeline with the given initial window length
func NewPipeline(windowDays int, clock func() time.Time) *Pipeline {
	if clock == nil {
		clock = time.Now
	}
	p := &Pipeline{
		clock:       clock,
		windowDays:  windowDays,
		pins:        make(map[List]string),
		subscribers: make(map[chan Dashboard]struct{}),
	}
	p.mu.Lock()
	p.recompute()
	p.mu.Unlock()
	return p
}

// SetOrders replaces the order input and recomputes
func (p *Pipeline) SetOrders(orders []report.SourceOrder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = orders
	p.recompute()
}

// SetCatalog replaces the reference data input and recomputes
func (p *Pipeline) SetCatalog(products []catalog.Product, salesmen []catalog.Salesman, stale bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.products = products
	p.salesmen = salesmen
	p.stale = stale
	p.recompute()
}

// SetWindow changes the rolling window length and recomputes. Lengths below
// one day are clamped.
func (p *Pipeline) SetWindow(days int) {
	if days < 1 {
		days = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.windowDays = days
	p.recompute()
}

// Pin fixes a ranking list's chart on the given entity id. An empty id
// releases the pin and returns the list to automatic selection, which tracks
// the list's top entry.
func (p *Pipeline) Pin(list List, id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id == "" {
		delete(p.pins, list)
	} else {
		p.pins[list] = id
	}
	p.recompute()
}

// Dashboard returns the current aggregation result
func (p *Pipeline) Dashboard() Dashboard {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Subscribe returns a channel that receives every dashboard change, starting
// with the current one. The channel holds the latest value only: a slow
// consumer sees intermediate dashboards dropped, never a stall of the
// pipeline. The initial send happens under the pipeline lock while the
// buffer is still empty, so it cannot block against a concurrent recompute.
func (p *Pipeline) Subscribe() chan Dashboard {
	ch := make(chan Dashboard, 1)
	p.mu.Lock()
	ch <- p.current
	p.subscribers[ch] = struct{}{}
	p.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscription channel
func (p *Pipeline) Unsubscribe(ch chan Dashboard) {
	p.mu.Lock()
	delete(p.subscribers, ch)
	p.mu.Unlock()
}

// recompute rebuilds the dashboard from the current inputs. Callers hold
// p.mu. Equal results are suppressed: subscribers only hear about changes.
func (p *Pipeline) recompute() {
	now := p.clock()
	window := report.NewWindow(p.windowDays, now)
	orders := window.Filter(p.orders)
	prices := priceIndex(p.products)

	next := Dashboard{
		WindowDays:         window.Days,
		CatalogStale:       p.stale,
		TopProductsByCount: report.TopProductsByCount(orders, p.products),
		TopProductsByValue: report.TopProductsByValue(orders, p.products),
		TopSalesmenByCount: report.TopSalesmenByCount(orders, p.salesmen),
		TopSalesmenByValue: report.TopSalesmenByValue(orders, p.salesmen),
		Selections:         make(map[List]ChartSelection, 4),
		GeneratedAt:        now,
	}

	next.Selections[ListProductByCount] = p.selection(ListProductByCount,
		productIDs(next.TopProductsByCount),
		func(id string) []report.SeriesPoint {
			return report.ProductCountSeries(orders, id, window)
		})
	next.Selections[ListProductByValue] = p.selection(ListProductByValue,
		productIDs(next.TopProductsByValue),
		func(id string) []report.SeriesPoint {
			return report.ProductValueSeries(orders, id, prices, window)
		})
	next.Selections[ListSalesmanByCount] = p.selection(ListSalesmanByCount,
		salesmanIDs(next.TopSalesmenByCount),
		func(id string) []report.SeriesPoint {
			return report.SalesmanCountSeries(orders, id, window)
		})
	next.Selections[ListSalesmanByValue] = p.selection(ListSalesmanByValue,
		salesmanIDs(next.TopSalesmenByValue),
		func(id string) []report.SeriesPoint {
			return report.SalesmanValueSeries(orders, id, window)
		})

	if next.Equal(p.current) {
		return
	}
	p.current = next
	for ch := range p.subscribers {
		select {
		case ch <- next:
		default:
			// Replace the stale queued value with the newest one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- next:
			default:
			}
		}
	}
}

// selection resolves a list's effective chart selection. A pinned id stays
// selected while it remains in the ranking; once it drops out, automatic
// selection resumes with the list's top entry.
func (p *Pipeline) selection(list List, ranked []string, buildSeries func(string) []report.SeriesPoint) ChartSelection {
	pinnedID, pinned := p.pins[list]
	if pinned && !contains(ranked, pinnedID) {
		delete(p.pins, list)
		pinned = false
	}

	var id string
	if pinned {
		id = pinnedID
	} else if len(ranked) > 0 {
		id = ranked[0]
	}

	sel := ChartSelection{ID: id, Pinned: pinned}
	if id != "" {
		sel.Series = buildSeries(id)
	}
	return sel
}

func productIDs(ranks []report.ProductRank) []string {
	ids := make([]string, len(ranks))
	for i, r := range ranks {
		ids[i] = r.Product.ID
	}
	return ids
}

func salesmanIDs(ranks []report.SalesmanRank) []string {
	ids := make([]string, len(ranks))
	for i, r := range ranks {
		ids[i] = r.Salesman.UID
	}
	return ids
}

func priceIndex(products []catalog.Product) map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.UnitPrice
	}
	return prices
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
