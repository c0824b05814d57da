// Package scraper owns the headless browser lifecycle and the low-level
// page operations the monitors build on.
package scraper

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/marketgrid/nsewatch/config"
	"github.com/marketgrid/nsewatch/models"
)

// Browser manages the shared headless Chromium instance and its page pool.
// It is safe for concurrent use; Restart swaps the underlying browser when a
// monitor detects it has died mid-cycle.
type Browser struct {
	mu          sync.RWMutex
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	cfg         *config.Config
	fetcher     *httpFetcher
	activePages atomic.Int32
	startTime   time.Time
}

// New launches a headless browser and initialises the reusable page pool.
func New(cfg *config.Config) (*Browser, error) {
	browser, err := launch(cfg)
	if err != nil {
		return nil, err
	}
	return &Browser{
		browser:   browser,
		pagePool:  rod.NewPagePool(cfg.PagePoolSize),
		cfg:       cfg,
		fetcher:   newHTTPFetcher(cfg.UserAgent),
		startTime: time.Now(),
	}, nil
}

func launch(cfg *config.Config) (*rod.Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true)

	if cfg.BrowserBin != "" {
		l = l.Bin(cfg.BrowserBin)
	}

	// Flags that keep NSE's bot detection from flagging the session.
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("window-size"), "1920,1080")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to launch browser", err)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to connect to browser", err)
	}
	return browser, nil
}

// Restart tears down the current browser and launches a fresh one. Monitors
// call this after repeated navigation failures; NSE sessions go stale and a
// clean profile recovers them.
func (b *Browser) Restart() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	slog.Warn("restarting browser")
	b.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	_ = b.browser.Close()

	browser, err := launch(b.cfg)
	if err != nil {
		return err
	}
	b.browser = browser
	b.pagePool = rod.NewPagePool(b.cfg.PagePoolSize)
	return nil
}

// ActivePages reports how many pool pages are checked out.
func (b *Browser) ActivePages() int {
	return int(b.activePages.Load())
}

// Uptime reports how long the browser manager has been alive.
func (b *Browser) Uptime() time.Duration {
	return time.Since(b.startTime)
}

// Close drains the page pool and kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	slog.Info("browser shutting down: draining page pool")
	b.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	b.browser.MustClose()
	slog.Info("browser shutdown complete")
}
