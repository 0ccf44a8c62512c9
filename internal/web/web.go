// Package web exposes the annotated grids over a small JSON API. The
// rendering layer lives on the other side of this boundary: it receives
// cells, rows, bound events and pixel offsets and turns them into markup.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"calgrid/internal/config"
	"calgrid/internal/grid"
	"calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/position"
	"calgrid/internal/view"
)

// EventProvider supplies the full event list for a computation. The grid
// engine never stores events; whatever backs this interface owns them.
type EventProvider interface {
	Events(ctx context.Context) ([]model.Event, error)
}

// eventsCacheTTL bounds how long a fetched event list is reused before the
// provider is asked again.
const eventsCacheTTL = 5 * time.Minute

type eventsCache struct {
	events    []model.Event
	fetchedAt time.Time
}

// Server serves grid computations and the flattened event list.
type Server struct {
	cfg      *config.Config
	provider EventProvider
	clock    view.Clock
	mux      *http.ServeMux

	// eventsMu guards the provider result cache.
	eventsMu    sync.RWMutex
	eventsCache *eventsCache

	// nowMu guards the sampled wall-clock time driving the now marker.
	// The sample is refreshed on a fixed schedule rather than per request.
	nowMu     sync.RWMutex
	nowSample time.Time
}

// NewServer constructs a Server. A nil clock falls back to time.Now.
func NewServer(cfg *config.Config, provider EventProvider, clock view.Clock) *Server {
	if clock == nil {
		clock = time.Now
	}
	s := &Server{
		cfg:      cfg,
		provider: provider,
		clock:    clock,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for this server, wrapped in basic auth
// when credentials are configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		log.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

// RefreshNow re-samples the wall clock for the now marker. Main schedules
// this once a minute; between samples every response reuses the same
// marker position.
func (s *Server) RefreshNow() {
	s.nowMu.Lock()
	s.nowSample = s.clock()
	s.nowMu.Unlock()
}

// InvalidateEvents drops the cached provider result so the next request
// fetches fresh events. Wired to the feed refresh schedule.
func (s *Server) InvalidateEvents() {
	s.eventsMu.Lock()
	s.eventsCache = nil
	s.eventsMu.Unlock()
}

func (s *Server) now() time.Time {
	s.nowMu.RLock()
	sample := s.nowSample
	s.nowMu.RUnlock()
	if sample.IsZero() {
		return s.clock()
	}
	return sample
}

func (s *Server) basicAuthEnabled() bool {
	ba := s.cfg.BasicAuth
	return ba != nil && ba.Username != "" && ba.Password != ""
}

// basicAuthMiddleware protects every endpoint except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="calgrid", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/grid", s.handleGrid)
	s.mux.HandleFunc("/api/events", s.handleEvents)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// nowMarkerPayload pins the current-time indicator to one date column.
type nowMarkerPayload struct {
	Date   string  `json:"date"`
	Offset float64 `json:"offset"`
}

// gridResponse is the annotated grid handed to the renderer. Exactly one
// of Month/Week/Day is set, matching View.
type gridResponse struct {
	View      model.ViewMode    `json:"view"`
	Title     string            `json:"title"`
	RowHeight float64           `json:"rowHeight"`
	Month     *grid.MonthGrid   `json:"month,omitempty"`
	Week      *grid.WeekGrid    `json:"week,omitempty"`
	Day       *grid.DayGrid     `json:"day,omitempty"`
	NowMarker *nowMarkerPayload `json:"nowMarker,omitempty"`
}

// handleGrid computes the annotated grid for ?view=month|week|day and an
// optional ?anchor=YYYY-MM-DD (defaulting to the sampled "now").
func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}

	mode, ok := parseViewParam(r.URL.Query().Get("view"))
	if !ok {
		writeError(w, http.StatusBadRequest, "view must be month, week or day")
		return
	}

	now := s.now()
	anchor := now
	if raw := r.URL.Query().Get("anchor"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "anchor must be YYYY-MM-DD")
			return
		}
		anchor = parsed
	}

	events, err := s.events(r.Context())
	if err != nil {
		log.Error("event provider failed", err)
		writeError(w, http.StatusBadGateway, "event source unavailable")
		return
	}
	if !s.cfg.ShowAllDay {
		events = dropAllDay(events)
	}

	resp := gridResponse{
		View:      mode,
		Title:     view.Title(mode, anchor),
		RowHeight: s.cfg.RowHeight,
	}

	switch mode {
	case model.ViewMonth:
		g := grid.BindMonth(grid.Month(anchor), events)
		resp.Month = &g
	case model.ViewWeek:
		g := grid.BindWeek(grid.Week(anchor), events)
		resp.Week = &g
		for _, day := range g.Days {
			if offset, ok := position.NowMarker(now, day.Date, s.cfg.RowHeight); ok {
				resp.NowMarker = &nowMarkerPayload{
					Date:   day.Date.Format("2006-01-02"),
					Offset: offset,
				}
				break
			}
		}
	case model.ViewDay:
		g := grid.BindDay(grid.Day(anchor), events)
		resp.Day = &g
		if offset, ok := position.NowMarker(now, g.Date, s.cfg.RowHeight); ok {
			resp.NowMarker = &nowMarkerPayload{
				Date:   g.Date.Format("2006-01-02"),
				Offset: offset,
			}
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleEvents returns the flattened event list backing the grids.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	events, err := s.events(r.Context())
	if err != nil {
		log.Error("event provider failed", err)
		writeError(w, http.StatusBadGateway, "event source unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// events returns the provider's event list through the TTL cache.
func (s *Server) events(ctx context.Context) ([]model.Event, error) {
	s.eventsMu.RLock()
	c := s.eventsCache
	s.eventsMu.RUnlock()
	if c != nil && time.Since(c.fetchedAt) < eventsCacheTTL {
		return c.events, nil
	}

	events, err := s.provider.Events(ctx)
	if err != nil {
		return nil, err
	}

	s.eventsMu.Lock()
	s.eventsCache = &eventsCache{events: events, fetchedAt: time.Now()}
	s.eventsMu.Unlock()
	return events, nil
}

func parseViewParam(v string) (model.ViewMode, bool) {
	switch v {
	case "month", "":
		return model.ViewMonth, true
	case "week":
		return model.ViewWeek, true
	case "day":
		return model.ViewDay, true
	}
	return "", false
}

func dropAllDay(events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		if !ev.AllDay {
			out = append(out, ev)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("response encode failed", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
