package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/api"
	"github.com/marketgrid/nsewatch/config"
	"github.com/marketgrid/nsewatch/heatmap"
	"github.com/marketgrid/nsewatch/monitor"
	"github.com/marketgrid/nsewatch/scraper"
	"github.com/marketgrid/nsewatch/store"
)

// NSE pages the table monitors watch.
const (
	eventCalendarURL = "https://www.nseindia.com/companies-listing/corporate-filings-event-calendar"
	announcementsURL = "https://www.nseindia.com/companies-listing/corporate-filings-announcements"
	crdURL           = "https://www.nseindia.com/companies-listing/debt-centralised-database/crd"
	creditRatingURL  = "https://www.nseindia.com/companies-listing/corporate-filings-regulation30"
)

// Tab labels on the NSE filing pages, by market key. Equity is the tab the
// pages open on.
var marketTabs = map[string]string{
	"equity":         "",
	"sme":            "SME",
	"debt":           "Debt",
	"mf":             "MF",
	"reit_invit":     "REIT/InvIT",
	"municipal_bond": "Municipal Bond",
	"sse":            "SSE",
	"dt":             "DT Disclosures",
}

func main() {
	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg)
	slog.Info("nsewatch starting",
		"port", cfg.Port,
		"dataDir", cfg.DataDir,
		"interval", cfg.ScrapeInterval,
		"markets", cfg.Markets,
	)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ── 3. Launch browser ───────────────────────────────────────────
	browser, err := scraper.New(cfg)
	if err != nil {
		slog.Error("failed to launch browser", "error", err)
		os.Exit(1)
	}
	defer browser.Close()

	// ── 4. Snapshot store ───────────────────────────────────────────
	st, err := store.New(cfg.DataDir, 32)
	if err != nil {
		slog.Error("failed to initialise store", "error", err)
		os.Exit(1)
	}

	// ── 5. Assemble monitors ────────────────────────────────────────
	metrics := monitor.NewMetrics()
	markets := resolveMarkets(cfg.Markets)

	monitors := []monitor.Monitor{
		monitor.NewTableMonitor(monitor.TableConfig{
			Name: "event_calendar",
			URL:  eventCalendarURL,
			Dir:  "event_calendar_data",
		}, browser, st, metrics),
		monitor.NewTableMonitor(monitor.TableConfig{
			Name:     "announcements",
			URL:      announcementsURL,
			Dir:      "announcements_data",
			Markets:  markets,
			MaxPages: cfg.MaxAnnPages,
		}, browser, st, metrics),
		monitor.NewTableMonitor(monitor.TableConfig{
			Name:     "crd",
			URL:      crdURL,
			Dir:      "crd_data",
			MaxPages: cfg.MaxCRDPages,
		}, browser, st, metrics),
		monitor.NewTableMonitor(monitor.TableConfig{
			Name:     "credit_rating",
			URL:      creditRatingURL,
			Dir:      "credit_rating_data",
			Markets:  markets,
			MaxPages: cfg.MaxCreditPages,
		}, browser, st, metrics),
	}
	if cfg.EnableGroww {
		monitors = append(monitors, monitor.NewNewsMonitor(browser, st, metrics))
	}
	if cfg.EnableEconomic {
		monitors = append(monitors, monitor.NewEconomicMonitor(browser, st, metrics))
	}

	runner := monitor.NewRunner(browser, metrics, cfg.ScrapeInterval, monitors...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Run(ctx)

	// ── 6. HTTP API ─────────────────────────────────────────────────
	hm := heatmap.New(browser)
	router := api.NewRouter(cfg, st, browser, monitors, hm, metrics, marketKeys(markets))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// ── 7. Graceful shutdown ────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig.String())

	cancel()

	// Give in-flight requests 5 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server forced shutdown", "error", err)
	} else {
		slog.Info("HTTP server drained gracefully")
	}

	// browser.Close runs via defer — drains the page pool and kills Chrome.
	slog.Info("nsewatch stopped")
}

// resolveMarkets maps configured market keys to their NSE tab labels,
// dropping unknown keys with a warning.
func resolveMarkets(keys []string) []monitor.Market {
	out := make([]monitor.Market, 0, len(keys))
	for _, key := range keys {
		tab, ok := marketTabs[key]
		if !ok {
			slog.Warn("unknown market key ignored", "market", key)
			continue
		}
		out = append(out, monitor.Market{Key: key, TabText: tab})
	}
	if len(out) == 0 {
		out = []monitor.Market{{Key: "equity"}}
	}
	return out
}

func marketKeys(markets []monitor.Market) []string {
	keys := make([]string, len(markets))
	for i, m := range markets {
		keys[i] = m.Key
	}
	return keys
}

// initLogger configures slog from the config.
func initLogger(cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
