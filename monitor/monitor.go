// Package monitor runs the page monitors: each one polls a source on a fixed
// interval and overwrites its latest.json snapshot through the store.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/marketgrid/nsewatch/scraper"
)

// Monitor is one scrape loop target.
type Monitor interface {
	// Name identifies the monitor in logs, metrics and health output.
	Name() string
	// SnapshotFiles lists the store-relative files the monitor maintains;
	// the health endpoint checks their presence.
	SnapshotFiles() []string
	// Scrape runs one full cycle and persists the snapshot.
	Scrape(ctx context.Context) error
}

// Runner drives a set of monitors, one goroutine each, on a shared interval.
type Runner struct {
	browser  *scraper.Browser
	metrics  *Metrics
	interval time.Duration
	monitors []Monitor

	// restartAfter consecutive failures force a browser restart. NSE
	// sessions go stale; one bad cycle is usually transient, two means the
	// browser profile is burned.
	restartAfter int
}

// NewRunner builds a Runner over the given monitors.
func NewRunner(b *scraper.Browser, m *Metrics, interval time.Duration, monitors ...Monitor) *Runner {
	return &Runner{
		browser:      b,
		metrics:      m,
		interval:     interval,
		monitors:     monitors,
		restartAfter: 2,
	}
}

// Run starts one loop per monitor and blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	done := make(chan struct{}, len(r.monitors))
	for _, m := range r.monitors {
		go func(m Monitor) {
			r.loop(ctx, m)
			done <- struct{}{}
		}(m)
	}
	for range r.monitors {
		<-done
	}
}

// loop scrapes immediately, then on every interval tick.
func (r *Runner) loop(ctx context.Context, m Monitor) {
	log := slog.With("monitor", m.Name())
	log.Info("monitor started", "interval", r.interval)

	failures := 0
	cycle := func() {
		start := time.Now()
		err := m.Scrape(ctx)
		r.metrics.ObserveCycle(m.Name(), time.Since(start), err)

		if err != nil {
			failures++
			log.Error("scrape cycle failed", "error", err, "consecutiveFailures", failures)
			if failures >= r.restartAfter {
				if restartErr := r.browser.Restart(); restartErr != nil {
					log.Error("browser restart failed", "error", restartErr)
				} else {
					r.metrics.IncRestarts()
					failures = 0
				}
			}
			return
		}
		failures = 0
		log.Info("scrape cycle complete", "duration", time.Since(start).Round(time.Millisecond))
	}

	cycle()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("monitor stopped")
			return
		case <-ticker.C:
			cycle()
		}
	}
}
