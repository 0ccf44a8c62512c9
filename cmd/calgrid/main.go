package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"calgrid/internal/config"
	"calgrid/internal/grid"
	"calgrid/internal/ics"
	"calgrid/internal/log"
	"calgrid/internal/model"
	"calgrid/internal/view"
	"calgrid/internal/web"
)

// nowSampleSchedule drives the current-time marker: the wall clock is
// re-sampled once a minute, never per request.
const nowSampleSchedule = "@every 1m"

type flagConfig struct {
	configPath string
	listen     string
	cacheDir   string
	once       bool
	debug      bool
}

func main() {
	log.Info("calgrid starting", "version", "0.1.0")

	flags := parseFlags()
	log.SetDebug(flags.debug)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		log.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	log.Info("effective config",
		"listen", conf.Listen,
		"row_height", conf.RowHeight,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"show_all_day", conf.ShowAllDay,
		"feed_count", len(conf.Feeds),
		"once", flags.once,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	provider := ics.NewProvider(
		ics.NewFetcher(flags.cacheDir),
		feedSources(conf),
		conf.HorizonDays,
		time.Now,
	)

	if flags.once {
		if err := runOnce(ctx, conf, provider); err != nil {
			log.Error("single-shot run failed", err)
			os.Exit(1)
		}
		return
	}

	server := web.NewServer(conf, provider, time.Now)
	server.RefreshNow()

	sched := cron.New()
	if _, err := sched.AddFunc(nowSampleSchedule, server.RefreshNow); err != nil {
		log.Error("failed to schedule clock sampling", err)
		os.Exit(1)
	}
	if _, err := sched.AddFunc(conf.RefreshCron, func() {
		log.Info("feed refresh triggered", "schedule", conf.RefreshCron)
		server.InvalidateEvents()
	}); err != nil {
		log.Error("failed to schedule feed refresh", err, "schedule", conf.RefreshCron)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:    conf.Listen,
		Handler: server.Handler(),
	}
	go func() {
		log.Info("starting HTTP server", "listen", "http://"+conf.Listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown failed", err)
	}
	log.Info("calgrid exiting")
}

// runOnce fetches the feeds once, binds today's three grids and dumps them
// as JSON to stdout. Useful for cron-driven renderers and debugging.
func runOnce(ctx context.Context, conf *config.Config, provider *ics.Provider) error {
	events, err := provider.Events(ctx)
	if err != nil {
		return err
	}

	nav := view.New(time.Now)
	out := map[string]any{
		"month": grid.BindMonth(grid.Month(nav.MonthAnchor()), events),
		"week":  grid.BindWeek(grid.Week(nav.WeekAnchor()), events),
		"day":   grid.BindDay(grid.Day(nav.DayAnchor()), events),
		"titles": map[string]string{
			"month": view.Title(model.ViewMonth, nav.MonthAnchor()),
			"week":  view.Title(model.ViewWeek, nav.WeekAnchor()),
			"day":   view.Title(model.ViewDay, nav.DayAnchor()),
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func feedSources(conf *config.Config) []ics.Source {
	sources := make([]ics.Source, 0, len(conf.Feeds))
	for _, f := range conf.Feeds {
		sources = append(sources, ics.Source{
			ID:    f.ID,
			URL:   f.URL,
			Name:  f.Name,
			Color: f.Color,
		})
	}
	return sources
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/calgrid/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.cacheDir, "cache-dir", "", "Feed cache directory (default ./var/ics-cache)")
	flag.BoolVar(&cfg.once, "once", false, "Fetch feeds, dump today's grids as JSON and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
