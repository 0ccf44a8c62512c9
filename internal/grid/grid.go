// Package grid builds the cell/row structures for the Month, Week and Day
// views and buckets events into them. Builders and binders are pure: the
// same inputs always produce the same grid, so callers may recompute or
// memoize freely.
package grid

import (
	"time"

	"calgrid/internal/dateutil"
	"calgrid/internal/model"
)

// MonthCells is the fixed size of a month grid: 6 rows of 7 columns.
// Every month fits, so the layout never changes row count under a caller.
const MonthCells = 42

// HourRows is the number of hour rows in the Week and Day views.
const HourRows = 24

// hourLabels maps 1-indexed row numbers to their display labels. Row h
// covers the local hour beginning at h for h in 1..23; row 24 wraps to
// local hour 0 and is labeled "12 AM".
var hourLabels = [HourRows]string{
	"1 AM", "2 AM", "3 AM", "4 AM", "5 AM", "6 AM",
	"7 AM", "8 AM", "9 AM", "10 AM", "11 AM", "12 PM",
	"1 PM", "2 PM", "3 PM", "4 PM", "5 PM", "6 PM",
	"7 PM", "8 PM", "9 PM", "10 PM", "11 PM", "12 AM",
}

// HourLabel returns the display label for a 1-indexed hour row.
// Rows outside 1..24 yield an empty label.
func HourLabel(row int) string {
	if row < 1 || row > HourRows {
		return ""
	}
	return hourLabels[row-1]
}

// RowForHour maps a local wall-clock hour (0..23) to its 1-indexed row.
// Hour 0 belongs to the last row.
func RowForHour(hour int) int {
	if hour == 0 {
		return HourRows
	}
	return hour
}

// HourForRow is the inverse of RowForHour: the local hour a 1-indexed row
// represents. Row 24 maps back to hour 0.
func HourForRow(row int) int {
	if row == HourRows {
		return 0
	}
	return row
}

// DayCell is one cell of the month grid.
type DayCell struct {
	Date           time.Time     `json:"date"`
	InCurrentMonth bool          `json:"inCurrentMonth"`
	Events         []model.Event `json:"events,omitempty"`
}

// HourRow is one hour slot of a week column or of the day view.
type HourRow struct {
	// Row is the 1-indexed row number under the label convention.
	Row    int           `json:"row"`
	Label  string        `json:"label"`
	Events []model.Event `json:"events,omitempty"`
}

// MonthGrid is the annotated 42-cell month structure.
type MonthGrid struct {
	Anchor time.Time `json:"anchor"` // first of the displayed month
	Cells  []DayCell `json:"cells"`
}

// WeekColumn is one date of the week view: an all-day bucket plus the
// 24 hourly rows.
type WeekColumn struct {
	Date   time.Time     `json:"date"`
	AllDay []model.Event `json:"allDay,omitempty"`
	Rows   []HourRow     `json:"rows"`
}

// WeekGrid is the annotated 7-column week structure.
type WeekGrid struct {
	Anchor time.Time    `json:"anchor"` // Monday the week starts on
	Days   []WeekColumn `json:"days"`
}

// DayGrid is the annotated single-day structure.
type DayGrid struct {
	Date time.Time `json:"date"`
	Rows []HourRow `json:"rows"`
}

// Month builds the 42-cell grid for the month containing anchor,
// Monday-first. Leading cells carry the tail of the previous month and
// trailing cells the head of the next one, both marked as outside the
// current month.
func Month(anchor time.Time) MonthGrid {
	first := dateutil.StartOfMonth(anchor)
	last := dateutil.EndOfMonth(anchor)

	lead := (int(first.Weekday()) + 6) % 7

	cells := make([]DayCell, 0, MonthCells)
	for i := lead; i > 0; i-- {
		cells = append(cells, DayCell{Date: dateutil.AddDays(first, -i)})
	}
	for d := 1; d <= last.Day(); d++ {
		cells = append(cells, DayCell{
			Date:           dateutil.AddDays(first, d-1),
			InCurrentMonth: true,
		})
	}
	next := dateutil.AddMonths(first, 1)
	for i := 0; len(cells) < MonthCells; i++ {
		cells = append(cells, DayCell{Date: dateutil.AddDays(next, i)})
	}

	return MonthGrid{Anchor: first, Cells: cells}
}

// Week builds the 7-column grid starting at the Monday of the week
// containing anchor.
func Week(anchor time.Time) WeekGrid {
	start := dateutil.StartOfWeek(anchor)

	days := make([]WeekColumn, 7)
	for i := range days {
		days[i] = WeekColumn{
			Date: dateutil.AddDays(start, i),
			Rows: emptyRows(),
		}
	}
	return WeekGrid{Anchor: start, Days: days}
}

// Day builds the single-date hour-row grid for anchor's calendar day.
func Day(anchor time.Time) DayGrid {
	return DayGrid{
		Date: dateutil.Midnight(anchor),
		Rows: emptyRows(),
	}
}

func emptyRows() []HourRow {
	rows := make([]HourRow, HourRows)
	for i := range rows {
		rows[i] = HourRow{Row: i + 1, Label: hourLabels[i]}
	}
	return rows
}
