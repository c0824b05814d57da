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

// Market is one market-segment tab on an NSE listing page. An empty TabText
// means the segment the page opens on.
type Market struct {
	Key     string
	TabText string
}

// TableConfig describes one NSE table page to monitor.
type TableConfig struct {
	Name     string
	URL      string
	Dir      string   // snapshot directory under the store root
	Markets  []Market // nil means the page has no market tabs
	MaxPages int      // pagination cap; 1 disables pagination
	Timeout  time.Duration
}

// TableMonitor scrapes an NSE table page: select the market tab, walk the
// pagination up to the cap, and write one snapshot per market. Event
// calendar, corporate announcements, CRD and credit-rating pages all run
// through this one monitor with different configs.
type TableMonitor struct {
	cfg     TableConfig
	browser *scraper.Browser
	store   *store.Store
	metrics *Metrics
}

// NewTableMonitor builds a table monitor.
func NewTableMonitor(cfg TableConfig, b *scraper.Browser, st *store.Store, m *Metrics) *TableMonitor {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 4 * time.Minute
	}
	return &TableMonitor{cfg: cfg, browser: b, store: st, metrics: m}
}

func (t *TableMonitor) Name() string { return t.cfg.Name }

// SnapshotFiles lists one file per market; pages without market tabs keep a
// single latest.json.
func (t *TableMonitor) SnapshotFiles() []string {
	if len(t.cfg.Markets) == 0 {
		return []string{t.cfg.Dir + "/latest.json"}
	}
	files := make([]string, len(t.cfg.Markets))
	for i, mkt := range t.cfg.Markets {
		files[i] = t.cfg.Dir + "/" + snapshotName(mkt.Key)
	}
	return files
}

func snapshotName(marketKey string) string {
	if marketKey == "" {
		return "latest.json"
	}
	return "latest_" + marketKey + ".json"
}

// Scrape runs one cycle across all configured markets. A market that fails
// keeps its previous snapshot; the cycle only errors when every market fails.
func (t *TableMonitor) Scrape(ctx context.Context) error {
	markets := t.cfg.Markets
	if len(markets) == 0 {
		markets = []Market{{}}
	}

	totalRecords := 0
	var lastErr error
	succeeded := 0

	for _, mkt := range markets {
		snap, err := t.scrapeMarket(ctx, mkt)
		if err != nil {
			lastErr = err
			slog.Warn("market scrape failed", "monitor", t.cfg.Name, "market", mkt.Key, "error", err)
			continue
		}
		if err := t.store.Write(t.cfg.Dir+"/"+snapshotName(mkt.Key), snap); err != nil {
			lastErr = err
			continue
		}
		succeeded++
		totalRecords += snap.Metadata.TotalRecords
	}

	if succeeded == 0 {
		return lastErr
	}
	t.metrics.SetRecords(t.cfg.Name, totalRecords)
	return nil
}

func (t *TableMonitor) scrapeMarket(ctx context.Context, mkt Market) (*models.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	sess, err := t.browser.Open(ctx, t.cfg.URL)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if mkt.TabText != "" {
		if err := sess.ClickText(mkt.TabText); err != nil {
			return nil, err
		}
	}

	var (
		headers  []string
		rows     []models.Row
		pages    int
		lastPage string
	)
	for {
		htmlStr, err := sess.HTML()
		if err != nil {
			if pages > 0 {
				break
			}
			return nil, err
		}

		h, raw, err := extract.Table(htmlStr, t.cfg.URL)
		if err != nil {
			if pages > 0 {
				break
			}
			return nil, err
		}
		// NSE occasionally ignores a Next click and re-renders the same
		// page; an unchanged first row means pagination is done.
		if fp := pageFingerprint(raw); fp != "" && fp == lastPage {
			break
		} else if fp != "" {
			lastPage = fp
		}

		if headers == nil {
			headers = h
		}
		rows = append(rows, models.ZipRows(headers, raw)...)
		pages++
		t.metrics.IncPages(t.cfg.Name)

		if pages >= t.cfg.MaxPages {
			break
		}
		advanced, err := sess.ClickNext()
		if err != nil || !advanced {
			break
		}
	}

	return &models.Snapshot{
		Metadata: models.SnapshotMetadata{
			ScrapeTimestamp: time.Now().Format(time.RFC3339),
			TotalRecords:    len(rows),
			TotalPages:      pages,
			MarketType:      mkt.Key,
			SourceURL:       t.cfg.URL,
			Headers:         headers,
		},
		Data: rows,
	}, nil
}

func pageFingerprint(raw [][]models.Cell) string {
	if len(raw) == 0 {
		return ""
	}
	var fp string
	for _, cell := range raw[0] {
		fp += cell.Text + "\x1f"
	}
	return fp
}
