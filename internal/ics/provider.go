package ics

import (
	"context"
	"time"

	"calgrid/internal/dateutil"
	"calgrid/internal/log"
	"calgrid/internal/model"
)

// Provider fetches, parses and flattens every configured feed into the
// single event list the grid engine takes as input. It satisfies the web
// server's EventProvider contract.
type Provider struct {
	fetcher     *Fetcher
	sources     []Source
	horizonDays int
	clock       func() time.Time
}

// NewProvider builds a Provider over the given sources. horizonDays bounds
// recurrence flattening on both sides of "today". A nil clock falls back
// to time.Now.
func NewProvider(fetcher *Fetcher, sources []Source, horizonDays int, clock func() time.Time) *Provider {
	if clock == nil {
		clock = time.Now
	}
	if horizonDays <= 0 {
		horizonDays = 90
	}
	return &Provider{
		fetcher:     fetcher,
		sources:     sources,
		horizonDays: horizonDays,
		clock:       clock,
	}
}

// Events returns the flattened events of all feeds. A feed that fails to
// fetch or parse is skipped; the remaining feeds still produce a usable
// calendar.
func (p *Provider) Events(ctx context.Context) ([]model.Event, error) {
	// Individual fetch failures were already logged; the batch carries on
	// with whatever arrived.
	results, errs := p.fetcher.FetchAll(ctx, p.sources)
	if len(errs) > 0 {
		log.Debug("some feeds failed to fetch", "failed", len(errs), "ok", len(results))
	}

	today := dateutil.Midnight(p.clock())
	window := FlattenConfig{
		RangeStart: dateutil.AddDays(today, -p.horizonDays),
		RangeEnd:   dateutil.AddDays(today, p.horizonDays),
	}

	var all []model.Event
	for _, res := range results {
		parsed, err := Parse(res.Source, res.Body)
		if err != nil {
			log.Error("feed parse failed", err, "id", res.Source.ID)
			continue
		}
		flat, err := Flatten(parsed, window)
		if err != nil {
			log.Error("feed flatten failed", err, "id", res.Source.ID)
			continue
		}
		all = append(all, flat...)
	}

	log.Debug("events assembled", "feeds", len(results), "event_count", len(all))
	return all, nil
}
