package grid

import (
	"time"

	"calgrid/internal/dateutil"
	"calgrid/internal/model"
)

// Binding is pure re-bucketing: every Bind* call rebuilds the event lists
// from scratch, so binding the same events twice yields identical buckets.
// An all-day event never lands in an hourly row and a timed event never
// lands in an all-day bucket. Missing palette tags are resolved to the
// default here so the renderer always sees a known tag.

// BindMonth attaches each all-day event to the cell of its start date.
func BindMonth(g MonthGrid, events []model.Event) MonthGrid {
	for i := range g.Cells {
		g.Cells[i].Events = allDayFor(events, g.Cells[i].Date)
	}
	return g
}

// BindWeek attaches all-day events to each column's all-day bucket and
// timed events to the hour row of their start hour.
func BindWeek(g WeekGrid, events []model.Event) WeekGrid {
	for i := range g.Days {
		day := &g.Days[i]
		day.AllDay = allDayFor(events, day.Date)
		bindRows(day.Rows, events, day.Date)
	}
	return g
}

// BindDay attaches timed events for the grid's date to its hour rows.
func BindDay(g DayGrid, events []model.Event) DayGrid {
	bindRows(g.Rows, events, g.Date)
	return g
}

func bindRows(rows []HourRow, events []model.Event, date time.Time) {
	for i := range rows {
		rows[i].Events = nil
	}
	for _, ev := range events {
		if ev.AllDay || !dateutil.SameDay(ev.Start, date) {
			continue
		}
		row := RowForHour(ev.Start.Hour())
		ev.Color = ev.Color.OrDefault()
		rows[row-1].Events = append(rows[row-1].Events, ev)
	}
}

func allDayFor(events []model.Event, date time.Time) []model.Event {
	var out []model.Event
	for _, ev := range events {
		if !ev.AllDay || !dateutil.SameDay(ev.Start, date) {
			continue
		}
		ev.Color = ev.Color.OrDefault()
		out = append(out, ev)
	}
	return out
}
