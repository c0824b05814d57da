// Package heatmap serves live heatmap scrapes. Unlike the monitors it has no
// snapshot files: every request drives the browser, so scrapes are
// serialised on one mutex to keep concurrent API calls from fighting over
// the page.
package heatmap

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marketgrid/nsewatch/extract"
	"github.com/marketgrid/nsewatch/models"
	"github.com/marketgrid/nsewatch/scraper"
)

const heatmapURL = "https://www.nseindia.com/market-data/live-market-indices/heatmap"

// Tab labels on the heatmap page, by category key.
var categoryTabs = map[string]string{
	models.CategoryBroadMarket: "Broad Market Indices",
	models.CategorySectoral:    "Sectoral Indices",
	models.CategoryThematic:    "Thematic Indices",
	models.CategoryStrategy:    "Strategy Indices",
}

// Service runs live heatmap scrapes against the shared browser.
type Service struct {
	mu      sync.Mutex
	browser *scraper.Browser
	timeout time.Duration
}

// New builds a heatmap service.
func New(b *scraper.Browser) *Service {
	return &Service{browser: b, timeout: 90 * time.Second}
}

// Categories lists the selectable index families. Static, no scrape.
func (s *Service) Categories() []models.HeatmapCategory {
	return models.HeatmapCategories()
}

// Indices scrapes the index cards available under a category.
func (s *Service) Indices(ctx context.Context, category string) ([]models.IndexCard, error) {
	if !models.ValidHeatmapCategory(category) {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "unknown category: "+category, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess, err := s.open(ctx, category)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	htmlStr, err := sess.HTML()
	if err != nil {
		return nil, err
	}
	cards := extract.IndexCards(htmlStr)
	if len(cards) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "no indices found for "+category, nil)
	}
	return cards, nil
}

// Heatmap scrapes the constituent tiles for one index under a category.
func (s *Service) Heatmap(ctx context.Context, category, index string) (*models.HeatmapData, error) {
	if !models.ValidHeatmapCategory(category) {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "unknown category: "+category, nil)
	}
	if strings.TrimSpace(index) == "" {
		return nil, models.NewScrapeError(models.ErrCodeInvalidInput, "index is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess, err := s.open(ctx, category)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := clickIndex(sess, index); err != nil {
		return nil, err
	}
	if !waitTileView(sess) {
		slog.Warn("tile view not detected after index click, extracting anyway", "index", index)
	}
	// Tiles below the fold render lazily.
	sess.ScrollBottom(2, time.Second)

	htmlStr, err := sess.HTML()
	if err != nil {
		return nil, err
	}
	tiles := extract.Tiles(htmlStr)
	if len(tiles) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeExtraction, "no tiles rendered for "+index, nil)
	}

	return &models.HeatmapData{
		Category:        category,
		IndexName:       index,
		TotalStocks:     len(tiles),
		ScrapeTimestamp: time.Now().Format(time.RFC3339),
		Stocks:          tiles,
	}, nil
}

// open navigates to the heatmap and selects the category tab. The default
// tab is broad market, so that category skips the click.
func (s *Service) open(ctx context.Context, category string) (*scraper.Session, error) {
	sess, err := s.browser.Open(ctx, heatmapURL)
	if err != nil {
		return nil, err
	}
	if category != models.CategoryBroadMarket {
		if err := clickContains(sess, categoryTabs[category]); err != nil {
			sess.Close()
			return nil, err
		}
	}
	return sess, nil
}

// waitTileView polls the rendered document until it shows heatmap tiles.
// Index clicks swap the page in place, so the old card list lingers for a
// moment before the tile containers appear.
func waitTileView(sess *scraper.Session) bool {
	for i := 0; i < 3; i++ {
		htmlStr, err := sess.HTML()
		if err == nil && extract.HasTileView(htmlStr) {
			return true
		}
		time.Sleep(time.Second)
	}
	return false
}

// clickContains clicks the first visible element whose text contains want,
// case-insensitively. Tab labels vary slightly between page versions, so
// exact matching is too brittle here.
func clickContains(sess *scraper.Session, want string) error {
	ok, err := sess.ClickJS(`(want) => {
		want = want.toLowerCase();
		const nodes = document.querySelectorAll('a, button, [role="tab"], li');
		for (const el of nodes) {
			const t = (el.innerText || '').trim().toLowerCase();
			if (t && t.includes(want) && t.length < want.length + 20 && el.offsetParent !== null) {
				el.click();
				return true;
			}
		}
		return false;
	}`, want)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewScrapeError(models.ErrCodeExtraction, "category tab not found: "+want, nil)
	}
	return nil
}

// clickIndex activates one index card. Cards trigger their reload through a
// javascript: href, an onclick handler or a plain click depending on the
// page version; the script tries them in that order.
func clickIndex(sess *scraper.Session, index string) error {
	ok, err := sess.ClickJS(`(want) => {
		want = want.toLowerCase();
		const nodes = document.querySelectorAll('a, button, [role="button"], [onclick]');
		for (const el of nodes) {
			const t = (el.innerText || '').trim().toLowerCase();
			if (!t || !t.includes(want)) continue;
			if (el.offsetParent === null) continue;
			const href = el.getAttribute('href') || '';
			if (href.startsWith('javascript:')) {
				eval(href.slice('javascript:'.length));
				return true;
			}
			if (el.hasAttribute('onclick')) {
				el.click();
				return true;
			}
			el.click();
			return true;
		}
		return false;
	}`, index)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewScrapeError(models.ErrCodeExtraction, "index card not found: "+index, nil)
	}
	return nil
}
