package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calgrid/internal/config"
	"calgrid/internal/model"
)

type stubProvider struct {
	events []model.Event
	err    error
	calls  int
}

func (p *stubProvider) Events(context.Context) ([]model.Event, error) {
	p.calls++
	return p.events, p.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestServer(t *testing.T, provider *stubProvider, now time.Time) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	return NewServer(cfg, provider, fixedClock(now))
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubProvider{}, time.Now())
	rec := get(t, s, "/health")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestGridWeekResponse(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 3, 10, 30, 0, 0, time.Local)
	start := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.Local)
	provider := &stubProvider{events: []model.Event{{
		ID:    "meeting",
		Title: "Team Meeting",
		Start: start,
		End:   start.Add(time.Hour),
		Color: model.ColorBlue,
	}}}
	s := newTestServer(t, provider, now)
	s.RefreshNow()

	rec := get(t, s, "/api/grid?view=week&anchor=2025-03-03")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp gridResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.View != model.ViewWeek || resp.Week == nil {
		t.Fatalf("unexpected shape: %+v", resp)
	}
	if resp.Title != "March 2025" {
		t.Fatalf("title = %q", resp.Title)
	}
	if len(resp.Week.Days) != 7 {
		t.Fatalf("days = %d", len(resp.Week.Days))
	}

	monday := resp.Week.Days[0]
	if len(monday.Rows[9].Events) != 1 || monday.Rows[9].Events[0].ID != "meeting" {
		t.Fatalf("10 AM row = %+v", monday.Rows[9].Events)
	}

	if resp.NowMarker == nil {
		t.Fatal("now marker missing for a week containing today")
	}
	if resp.NowMarker.Date != "2025-03-03" {
		t.Fatalf("marker date = %q", resp.NowMarker.Date)
	}
	if want := 9*48.0 + 24; resp.NowMarker.Offset != want {
		t.Fatalf("marker offset = %v, want %v", resp.NowMarker.Offset, want)
	}
}

func TestGridMonthHasNoMarker(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubProvider{}, time.Date(2025, time.March, 3, 10, 0, 0, 0, time.Local))
	rec := get(t, s, "/api/grid?view=month&anchor=2025-03-01")

	var resp gridResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Month == nil || len(resp.Month.Cells) != 42 {
		t.Fatalf("month grid shape wrong: %+v", resp.Month)
	}
	if resp.NowMarker != nil {
		t.Fatal("month view must not carry a now marker")
	}
}

func TestGridDayOutsideTodayHasNoMarker(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubProvider{}, time.Date(2025, time.March, 3, 10, 0, 0, 0, time.Local))
	rec := get(t, s, "/api/grid?view=day&anchor=2025-03-10")

	var resp gridResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if resp.Day == nil || len(resp.Day.Rows) != 24 {
		t.Fatalf("day grid shape wrong: %+v", resp.Day)
	}
	if resp.NowMarker != nil {
		t.Fatal("marker shown on a non-today date")
	}
}

func TestGridBadParams(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubProvider{}, time.Now())
	if rec := get(t, s, "/api/grid?view=quarter"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad view accepted: %d", rec.Code)
	}
	if rec := get(t, s, "/api/grid?view=day&anchor=03-2025"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad anchor accepted: %d", rec.Code)
	}
}

func TestEventsCacheAndInvalidate(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{}
	s := newTestServer(t, provider, time.Now())

	get(t, s, "/api/events")
	get(t, s, "/api/events")
	if provider.calls != 1 {
		t.Fatalf("provider called %d times, want 1 (cache hit)", provider.calls)
	}

	s.InvalidateEvents()
	get(t, s, "/api/events")
	if provider.calls != 2 {
		t.Fatalf("provider called %d times after invalidate, want 2", provider.calls)
	}
}

func TestProviderFailure(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &stubProvider{err: errors.New("feed down")}, time.Now())
	if rec := get(t, s, "/api/grid?view=day"); rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestBasicAuth(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "cal", Password: "grid"}
	s := NewServer(cfg, &stubProvider{}, fixedClock(time.Now()))

	// /health stays open.
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health behind auth: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated request passed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.SetBasicAuth("cal", "grid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated request rejected: %d", rec.Code)
	}
}
