package ics

import (
	"errors"
	"time"

	"github.com/teambition/rrule-go"

	"calgrid/internal/dateutil"
	"calgrid/internal/log"
	"calgrid/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// FlattenConfig controls recurrence flattening.
type FlattenConfig struct {
	// RangeStart / RangeEnd bound the occurrence window, inclusive.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps runaway rules. Zero means the default.
	MaxOccurrencesPerEvent int
}

// Flatten expands parsed events into the plain event list the grid engine
// consumes: every RRULE is resolved into concrete occurrences inside the
// window, EXDATEs removed, and each occurrence stamped with its source's
// palette tag. The engine never sees recurrence; it only re-buckets what
// this produces.
func Flatten(events []ParsedEvent, cfg FlattenConfig) ([]model.Event, error) {
	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return nil, errors.New("flatten: RangeEnd is before RangeStart")
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if ev.RawRRule == "" {
			if overlaps(ev.Start, ev.End, cfg.RangeStart, cfg.RangeEnd) {
				out = append(out, makeEvent(ev, ev.Start, ev.End))
			}
			continue
		}
		out = append(out, flattenRecurring(ev, cfg)...)
	}
	return out, nil
}

func flattenRecurring(ev ParsedEvent, cfg FlattenConfig) []model.Event {
	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		log.Error("flatten: bad RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	rangeStart := cfg.RangeStart.In(ev.Start.Location())
	rangeEnd := cfg.RangeEnd.In(ev.Start.Location())
	starts := set.Between(rangeStart, rangeEnd, true)

	if len(starts) > cfg.MaxOccurrencesPerEvent {
		starts = starts[:cfg.MaxOccurrencesPerEvent]
		log.Error("flatten: occurrence cap hit", errors.New("max occurrences reached"),
			"uid", ev.UID, "cap", cfg.MaxOccurrencesPerEvent)
	}

	out := make([]model.Event, 0, len(starts))
	dur := ev.End.Sub(ev.Start)
	for _, start := range starts {
		var end time.Time
		if ev.AllDay {
			start = dateutil.Midnight(start)
			end = dateutil.AddDays(start, 1)
		} else {
			end = start.Add(dur)
		}
		out = append(out, makeEvent(ev, start, end))
	}
	return out
}

// makeEvent converts one occurrence into an engine event in the local
// display zone. The ID combines UID and start so recurring instances stay
// distinct and stable across recomputations.
func makeEvent(ev ParsedEvent, start, end time.Time) model.Event {
	startLocal := start.In(time.Local)
	return model.Event{
		ID:          ev.UID + "/" + startLocal.Format(time.RFC3339),
		Title:       ev.Summary,
		Start:       startLocal,
		End:         end.In(time.Local),
		AllDay:      ev.AllDay,
		Color:       ev.Source.Color.OrDefault(),
		Location:    ev.Location,
		Description: ev.Description,
	}
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !bEnd.Before(aStart)
}
