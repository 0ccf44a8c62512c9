// Package view holds the navigation state machine for the Month, Week and
// Day views. A Navigator keeps one anchor per mode so switching modes
// returns to wherever that mode was last positioned. All "now" access goes
// through an injected clock, which keeps the whole package testable with
// fixed times.
package view

import (
	"time"

	"calgrid/internal/dateutil"
	"calgrid/internal/model"
	"calgrid/internal/position"
)

// Clock supplies the current wall-clock time.
type Clock func() time.Time

// Navigator tracks the active view mode, the per-mode anchors and the
// selected date. It is mutated only through its own transitions and is
// meant to be driven from a single goroutine.
type Navigator struct {
	clock Clock

	mode        model.ViewMode
	monthAnchor time.Time // first of the displayed month
	weekAnchor  time.Time // Monday of the displayed week
	dayAnchor   time.Time // displayed day
	selected    time.Time
}

// New builds a Navigator in Month mode with every anchor derived from the
// clock's current time. A nil clock falls back to time.Now.
func New(clock Clock) *Navigator {
	if clock == nil {
		clock = time.Now
	}
	n := &Navigator{clock: clock, mode: model.ViewMonth}
	n.Today()
	return n
}

func (n *Navigator) Mode() model.ViewMode   { return n.mode }
func (n *Navigator) MonthAnchor() time.Time { return n.monthAnchor }
func (n *Navigator) WeekAnchor() time.Time  { return n.weekAnchor }
func (n *Navigator) DayAnchor() time.Time   { return n.dayAnchor }
func (n *Navigator) Selected() time.Time    { return n.selected }

// Anchor returns the anchor of the active mode.
func (n *Navigator) Anchor() time.Time {
	switch n.mode {
	case model.ViewWeek:
		return n.weekAnchor
	case model.ViewDay:
		return n.dayAnchor
	default:
		return n.monthAnchor
	}
}

// SetMode switches the active view. Anchors are untouched, so each mode
// resumes at its last position.
func (n *Navigator) SetMode(m model.ViewMode) {
	if m.Valid() {
		n.mode = m
	}
}

// Select marks a date as selected. Selection is independent of navigation
// and survives Previous/Next.
func (n *Navigator) Select(d time.Time) {
	n.selected = dateutil.Midnight(d)
}

// Previous steps the active mode's anchor backward: one month, seven days
// or one day. The other anchors stay where they are.
func (n *Navigator) Previous() { n.step(-1) }

// Next steps the active mode's anchor forward.
func (n *Navigator) Next() { n.step(1) }

func (n *Navigator) step(dir int) {
	switch n.mode {
	case model.ViewMonth:
		n.monthAnchor = dateutil.AddMonths(n.monthAnchor, dir)
	case model.ViewWeek:
		n.weekAnchor = dateutil.AddDays(n.weekAnchor, 7*dir)
	case model.ViewDay:
		n.dayAnchor = dateutil.AddDays(n.dayAnchor, dir)
	}
}

// Today realigns all three anchors and the selection to the clock's
// current day in one step, so every mode shows "today" afterward no matter
// which one is active.
func (n *Navigator) Today() {
	now := n.clock()
	n.monthAnchor = dateutil.StartOfMonth(now)
	n.weekAnchor = dateutil.StartOfWeek(now)
	n.dayAnchor = dateutil.Midnight(now)
	n.selected = dateutil.Midnight(now)
}

// IsToday reports whether d is the clock's current calendar day.
func (n *Navigator) IsToday(d time.Time) bool {
	return dateutil.SameDay(d, n.clock())
}

// IsSelected reports whether d is the selected calendar day.
func (n *Navigator) IsSelected(d time.Time) bool {
	return dateutil.SameDay(d, n.selected)
}

// IsSaturday reports whether d falls on a Saturday.
func (n *Navigator) IsSaturday(d time.Time) bool {
	return dateutil.IsSaturday(d)
}

// NowMarker returns the current-time indicator offset for a date column of
// the active grid; ok is false for any column that is not today.
func (n *Navigator) NowMarker(date time.Time, rowHeight float64) (float64, bool) {
	return position.NowMarker(n.clock(), date, rowHeight)
}

// HeaderTitle formats the header for the active mode and anchor.
func (n *Navigator) HeaderTitle() string {
	return Title(n.mode, n.Anchor())
}

// Title formats the header for a mode/anchor pair: "March 2025" for a
// month, "January 2025" or "January - February 2025" for a week depending
// on whether it spans a month boundary (the year comes from the week's
// end), and "Mon, March 3, 2025" for a day.
func Title(mode model.ViewMode, anchor time.Time) string {
	switch mode {
	case model.ViewWeek:
		start := dateutil.StartOfWeek(anchor)
		end := dateutil.AddDays(start, 6)
		if start.Month() == end.Month() {
			return end.Format("January 2006")
		}
		return start.Format("January") + " - " + end.Format("January 2006")
	case model.ViewDay:
		return anchor.Format("Mon, January 2, 2006")
	default:
		return anchor.Format("January 2006")
	}
}
