package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/marketgrid/nsewatch/models"
	"github.com/ysmood/gson"
)

// Session is one interactive page borrowed from the pool. Monitors drive it
// through tab clicks and pagination, pull rendered HTML between steps, and
// must Close it to return the page.
type Session struct {
	browser *Browser
	pool    rod.Pool[rod.Page] // the pool that vended page
	page    *rod.Page          // original reference, used for cleanup
	p       *rod.Page          // context-bound, used for all operations
	router  *rod.HijackRouter
}

// Open borrows a page, installs stealth and resource blocking, navigates to
// rawURL and waits for the DOM to settle.
//
// Stealth JS and the hijack router must both be installed before navigation:
// they only take effect for loads that start after they are mounted.
func (b *Browser) Open(ctx context.Context, rawURL string) (*Session, error) {
	b.mu.RLock()
	browser, pool := b.browser, b.pagePool
	b.mu.RUnlock()

	b.activePages.Add(1)
	page, err := pool.Get(func() (*rod.Page, error) {
		return browser.Page(proto.TargetCreateTarget{})
	})
	if err != nil {
		b.activePages.Add(-1)
		return nil, models.NewScrapeError(models.ErrCodeBrowserCrash, "failed to acquire page from pool", err)
	}

	s := &Session{browser: b, pool: pool, page: page}

	if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
		slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
	}

	headers := proto.NetworkHeaders{
		"Accept-Language": gson.New("en-US,en;q=0.9"),
	}
	if u, parseErr := url.Parse(rawURL); parseErr == nil {
		headers["Referer"] = gson.New("https://www.google.com/search?q=" + url.QueryEscape(u.Hostname()))
	}
	_ = proto.NetworkSetExtraHTTPHeaders{Headers: headers}.Call(page)

	if b.cfg.BlockResources {
		s.router = setupHijack(page, []string{"Image", "Font", "Media"})
	}

	s.p = page.Context(ctx)

	if navErr := s.p.Timeout(b.cfg.NavTimeout).Navigate(rawURL); navErr != nil {
		s.Close()
		return nil, categorizeError(navErr, "navigation to "+rawURL+" failed")
	}
	s.waitStable()
	return s, nil
}

// HTML returns the current rendered document.
func (s *Session) HTML() (string, error) {
	html, err := s.p.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

// ClickText clicks the first visible element whose trimmed text equals text
// (links, buttons and tab headers), then waits for the DOM to settle.
func (s *Session) ClickText(text string) error {
	res, err := s.p.Eval(`(want) => {
		const nodes = document.querySelectorAll('a, button, [role="tab"], li, span');
		for (const el of nodes) {
			if (el.innerText && el.innerText.trim() === want && el.offsetParent !== null) {
				el.click();
				return true;
			}
		}
		return false;
	}`, text)
	if err != nil {
		return categorizeError(err, "click failed for "+text)
	}
	if !res.Value.Bool() {
		return models.NewScrapeError(models.ErrCodeExtraction, fmt.Sprintf("no clickable element with text %q", text), nil)
	}
	s.waitStable()
	return nil
}

// ClickNext advances table pagination. It returns false when the Next
// control is absent or disabled, which callers treat as the last page.
func (s *Session) ClickNext() (bool, error) {
	res, err := s.p.Eval(`() => {
		const candidates = document.querySelectorAll(
			'a.next, li.next a, [aria-label="Next"], a[title="Next"], button.next');
		for (const el of candidates) {
			const holder = el.closest('li') || el;
			const cls = (holder.className || '') + ' ' + (el.className || '');
			if (cls.includes('disabled') || el.hasAttribute('disabled')) continue;
			if (el.offsetParent === null) continue;
			el.click();
			return true;
		}
		// Fallback: any visible control whose text is exactly "Next".
		for (const el of document.querySelectorAll('a, button')) {
			if (el.innerText && el.innerText.trim() === 'Next' &&
				el.offsetParent !== null &&
				!((el.closest('li') || el).className || '').includes('disabled')) {
				el.click();
				return true;
			}
		}
		return false;
	}`)
	if err != nil {
		return false, categorizeError(err, "pagination click failed")
	}
	if !res.Value.Bool() {
		return false, nil
	}
	s.waitStable()
	return true, nil
}

// ClickJS runs a caller-supplied click script that returns a boolean.
func (s *Session) ClickJS(js string, args ...interface{}) (bool, error) {
	res, err := s.p.Eval(js, args...)
	if err != nil {
		return false, categorizeError(err, "scripted click failed")
	}
	ok := res.Value.Bool()
	if ok {
		s.waitStable()
	}
	return ok, nil
}

// ScrollBottom scrolls to the bottom of the page n times with a pause between
// scrolls, triggering lazy-loaded content.
func (s *Session) ScrollBottom(n int, pause time.Duration) {
	for i := 0; i < n; i++ {
		_, _ = s.p.Eval(`() => window.scrollTo(0, document.body.scrollHeight)`)
		time.Sleep(pause)
	}
	s.waitStable()
}

func (s *Session) waitStable() {
	p := s.p.Timeout(s.browser.cfg.StableTimeout)
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		// Pages with live tickers never fully settle; the current DOM is usable.
		slog.Debug("WaitDOMStable did not converge, proceeding with current DOM", "error", err)
	}
}

// Close navigates the page to about:blank and returns it to the pool. The
// cleanup uses the original page reference so it succeeds even after the
// request context has expired.
func (s *Session) Close() {
	if s.router != nil {
		_ = s.router.Stop()
	}
	_ = s.page.Navigate("about:blank")
	s.release()
}

// release returns the page to the pool it was borrowed from. Restart swaps in
// a fresh, full pool; only the originating pool has the free slot this page
// came out of, so putting it anywhere else would block forever.
func (s *Session) release() {
	s.pool.Put(s.page)
	s.browser.activePages.Add(-1)
}

// categorizeError wraps raw errors into typed ScrapeErrors so callers can
// tell timeouts from hard navigation failures.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "operation canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
