// Package position converts wall-clock times and event ranges into vertical
// pixel offsets within an hour-row layout. The row height is a caller
// parameter so the same math serves different layout densities.
package position

import (
	"time"

	"calgrid/internal/dateutil"
	"calgrid/internal/model"
)

// RowIndex returns the 0-based hour-row index for t under the display
// convention where rows start at 1 AM and local midnight wraps to the
// last row.
func RowIndex(t time.Time) int {
	h := t.Hour()
	if h == 0 {
		return 23
	}
	return h - 1
}

// Offset returns the vertical pixel offset of t within the hour grid:
// full rows above it plus the minute fraction into its own row.
func Offset(t time.Time, rowHeight float64) float64 {
	return float64(RowIndex(t))*rowHeight + float64(t.Minute())/60*rowHeight
}

// Box is the vertical placement of a timed event inside its day column.
type Box struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// EventBox computes the placement of a timed event. The top carries the
// start's minute fraction; the height is the whole-hour difference only,
// end-time minutes are deliberately not consulted. Inverted or degenerate
// ranges collapse to zero height instead of failing. All-day events have
// no vertical placement and yield the zero Box.
func EventBox(ev model.Event, rowHeight float64) Box {
	if ev.AllDay {
		return Box{}
	}
	h := float64(ev.End.Hour()-ev.Start.Hour()) * rowHeight
	if h < 0 || ev.End.Before(ev.Start) {
		h = 0
	}
	return Box{
		Top:    Offset(ev.Start, rowHeight),
		Height: h,
	}
}

// NowMarker returns the offset of the current-time indicator for the given
// date column. The marker exists only on the column whose date is now's
// calendar day; every other column reports ok=false.
func NowMarker(now, date time.Time, rowHeight float64) (offset float64, ok bool) {
	if !dateutil.SameDay(now, date) {
		return 0, false
	}
	return Offset(now, rowHeight), true
}
