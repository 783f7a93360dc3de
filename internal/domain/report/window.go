package report

import "time"

// Window is a trailing span of Days calendar days ending on the day of Now,
// inclusive on both ends.
type Window struct {
	Days int
	Now  time.Time
}

// NewWindow creates a window of the given length ending today. Days below 1
// is clamped to 1.
func NewWindow(days int, now time.Time) Window {
	if days < 1 {
		days = 1
	}
	return Window{Days: days, Now: now}
}

// Cutoff returns the start of the oldest calendar day inside the window
func (w Window) Cutoff() time.Time {
	return startOfDay(w.Now).AddDate(0, 0, -(w.Days - 1))
}

// Contains reports whether t falls on or after the window cutoff
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Cutoff())
}

// Filter returns the orders whose CreatedAt falls inside the window
func (w Window) Filter(orders []SourceOrder) []SourceOrder {
	filtered := make([]SourceOrder, 0, len(orders))
	for _, o := range orders {
		if w.Contains(o.CreatedAt) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

// Day returns the start of the calendar day offset days before the window's
// last day. Offset 0 is the last (newest) day.
func (w Window) Day(offset int) time.Time {
	return startOfDay(w.Now).AddDate(0, 0, -offset)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	return startOfDay(a).Equal(startOfDay(b))
}
