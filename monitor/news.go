package monitor

import (
	"context"
	"time"

	"github.com/marketgrid/nsewatch/extract"
	"github.com/marketgrid/nsewatch/models"
	"github.com/marketgrid/nsewatch/scraper"
	"github.com/marketgrid/nsewatch/store"
)

const growwNewsURL = "https://groww.in/share-market-today"

// NewsHeaders is the column set news snapshots use.
var NewsHeaders = []string{"source", "time", "headline", "stock_name", "stock_change"}

// NewsMonitor scrapes the Groww stock news feed. The feed lazy-loads on
// scroll, so the session scrolls a few screens before extraction.
type NewsMonitor struct {
	browser *scraper.Browser
	store   *store.Store
	metrics *Metrics
	timeout time.Duration
}

// NewNewsMonitor builds the Groww news monitor.
func NewNewsMonitor(b *scraper.Browser, st *store.Store, m *Metrics) *NewsMonitor {
	return &NewsMonitor{browser: b, store: st, metrics: m, timeout: 2 * time.Minute}
}

func (n *NewsMonitor) Name() string { return "groww_news" }

func (n *NewsMonitor) SnapshotFiles() []string {
	return []string{"groww_news_data/latest.json"}
}

// Scrape runs one cycle: render, scroll, extract, persist.
func (n *NewsMonitor) Scrape(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	sess, err := n.browser.Open(ctx, growwNewsURL)
	if err != nil {
		return err
	}
	defer sess.Close()

	sess.ScrollBottom(5, time.Second)
	n.metrics.IncPages(n.Name())

	htmlStr, err := sess.HTML()
	if err != nil {
		return err
	}

	items := extract.News(htmlStr)
	rows := make([]models.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.Row{
			"source":       models.TextCell(item.Source),
			"time":         models.TextCell(item.Time),
			"headline":     models.TextCell(item.Headline),
			"stock_name":   models.TextCell(item.StockName),
			"stock_change": models.TextCell(item.StockChange),
		})
	}

	snap := &models.Snapshot{
		Metadata: models.SnapshotMetadata{
			ScrapeTimestamp: time.Now().Format(time.RFC3339),
			TotalRecords:    len(rows),
			TotalPages:      1,
			SourceURL:       growwNewsURL,
			Headers:         NewsHeaders,
		},
		Data: rows,
	}
	if err := n.store.Write(n.SnapshotFiles()[0], snap); err != nil {
		return err
	}
	n.metrics.SetRecords(n.Name(), len(rows))
	return nil
}
