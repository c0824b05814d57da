package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/marketgrid/nsewatch/extract"
	"github.com/marketgrid/nsewatch/models"
	"github.com/marketgrid/nsewatch/scraper"
	"github.com/marketgrid/nsewatch/store"
)

const economicCalendarURL = "https://tradingeconomics.com/calendar"

// EconomicMonitor scrapes the Trading Economics macro calendar. The site
// usually serves full HTML to a Chrome-fingerprinted plain fetch, so the
// cheap path runs first and the browser only spins up when the response
// looks like an unrendered shell.
type EconomicMonitor struct {
	browser *scraper.Browser
	store   *store.Store
	metrics *Metrics
	timeout time.Duration
}

// NewEconomicMonitor builds the economic calendar monitor.
func NewEconomicMonitor(b *scraper.Browser, st *store.Store, m *Metrics) *EconomicMonitor {
	return &EconomicMonitor{browser: b, store: st, metrics: m, timeout: 2 * time.Minute}
}

func (e *EconomicMonitor) Name() string { return "economic_calendar" }

func (e *EconomicMonitor) SnapshotFiles() []string {
	return []string{"te_calendar_data/latest.json"}
}

// Scrape fetches the calendar HTTP-first with a browser fallback, extracts
// events and persists the snapshot.
func (e *EconomicMonitor) Scrape(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	htmlStr, err := e.fetchHTML(ctx)
	if err != nil {
		return err
	}

	headers, rows := extract.EconomicCalendar(htmlStr)
	if len(rows) == 0 {
		return models.NewScrapeError(models.ErrCodeExtraction, "no calendar events extracted", nil)
	}

	snap := &models.Snapshot{
		Metadata: models.SnapshotMetadata{
			ScrapeTimestamp: time.Now().Format(time.RFC3339),
			TotalRecords:    len(rows),
			TotalPages:      1,
			SourceURL:       economicCalendarURL,
			Headers:         headers,
		},
		Data: rows,
	}
	if err := e.store.Write(e.SnapshotFiles()[0], snap); err != nil {
		return err
	}
	e.metrics.SetRecords(e.Name(), len(rows))
	return nil
}

func (e *EconomicMonitor) fetchHTML(ctx context.Context) (string, error) {
	body, err := e.browser.Fetch(ctx, economicCalendarURL)
	if err == nil && !scraper.NeedsBrowser(body) {
		e.metrics.IncPages(e.Name())
		return string(body), nil
	}
	if err != nil {
		slog.Debug("plain fetch failed, rendering in browser", "error", err)
	}

	sess, err := e.browser.Open(ctx, economicCalendarURL)
	if err != nil {
		return "", err
	}
	defer sess.Close()
	e.metrics.IncPages(e.Name())
	return sess.HTML()
}
