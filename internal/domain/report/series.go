package report

import (
	"github.com/shopspring/decimal"
)

// SeriesPoint is one calendar-day bucket of a time series. Day is the day of
// month of the bucket; buckets are keyed internally by full calendar day, the
// day-of-month label is the upstream display contract.
type SeriesPoint struct {
	Day   int   `json:"day"`
	Value int64 `json:"value"`
}

// ProductCountSeries buckets the selected product's quantity per calendar
// day across the window, oldest to newest, zero-filled.
func ProductCountSeries(orders []SourceOrder, productID string, w Window) []SeriesPoint {
	return series(orders, w, func(o SourceOrder) decimal.Decimal {
		return decimal.NewFromInt(o.Lines[productID])
	})
}

// ProductValueSeries buckets the selected product's monetary contribution per
// calendar day. Each bucket total is truncated to an integer.
func ProductValueSeries(orders []SourceOrder, productID string, prices map[string]decimal.Decimal, w Window) []SeriesPoint {
	price, ok := prices[productID]
	if !ok {
		price = decimal.Zero
	}
	return series(orders, w, func(o SourceOrder) decimal.Decimal {
		return price.Mul(decimal.NewFromInt(o.Lines[productID]))
	})
}

// SalesmanCountSeries buckets the selected salesman's order count per day
func SalesmanCountSeries(orders []SourceOrder, salesmanID string, w Window) []SeriesPoint {
	return series(orders, w, func(o SourceOrder) decimal.Decimal {
		if o.SalesmanID != salesmanID {
			return decimal.Zero
		}
		return decimal.NewFromInt(1)
	})
}

// SalesmanValueSeries buckets the selected salesman's revenue per day,
// truncated to an integer per bucket
func SalesmanValueSeries(orders []SourceOrder, salesmanID string, w Window) []SeriesPoint {
	return series(orders, w, func(o SourceOrder) decimal.Decimal {
		if o.SalesmanID != salesmanID {
			return decimal.Zero
		}
		return o.Total
	})
}

// series emits Window.Days buckets from oldest to newest. Orders outside the
// window contribute nothing even if present in the input. Bucket membership
// is decided on the window's calendar: timestamps are converted into the
// window's zone before day truncation, so a UTC-stamped order lands in the
// local day it belongs to.
func series(orders []SourceOrder, w Window, contribution func(SourceOrder) decimal.Decimal) []SeriesPoint {
	loc := w.Now.Location()
	points := make([]SeriesPoint, 0, w.Days)
	for d := w.Days - 1; d >= 0; d-- {
		day := w.Day(d)
		sum := decimal.Zero
		for _, o := range orders {
			if !sameDay(o.CreatedAt.In(loc), day) {
				continue
			}
			sum = sum.Add(contribution(o))
		}
		points = append(points, SeriesPoint{Day: day.Day(), Value: sum.IntPart()})
	}
	return points
}
