package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/types"
)

// BrowserRenderer renders pages in a headless Chromium via Rod. Each
// Render opens a fresh page and closes it afterwards, so per-page state
// (cookies aside) does not leak between articles.
type BrowserRenderer struct {
	browser *rod.Browser
	cfg     *config.FetcherConfig
	logger  *slog.Logger
}

// NewBrowserRenderer launches a browser and connects to it.
func NewBrowserRenderer(cfg *config.Config, logger *slog.Logger) (*BrowserRenderer, error) {
	br := &BrowserRenderer{
		cfg:    &cfg.Fetcher,
		logger: logger.With("component", "browser_renderer"),
	}

	launchURL, err := br.launchBrowser()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	br.browser = browser

	br.logger.Info("browser renderer ready",
		"headless", cfg.Fetcher.Headless,
		"stealth", cfg.Fetcher.Stealth,
	)
	return br, nil
}

// launchBrowser starts a Chromium instance with appropriate flags.
func (br *BrowserRenderer) launchBrowser() (string, error) {
	l := launcher.New().
		Headless(br.cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	return l.Launch()
}

// Render navigates to the URL, waits for it to settle, and snapshots
// the rendered HTML.
func (br *BrowserRenderer) Render(ctx context.Context, url string) (*types.Page, error) {
	start := time.Now()

	page, err := br.newPage()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)

	if ua := br.userAgent(); ua != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); err != nil {
			br.logger.Warn("failed to set user agent", "error", err)
		}
	}

	timeout := br.cfg.RequestTimeout
	if err := page.Timeout(timeout).Navigate(url); err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}

	if err := page.Timeout(timeout).WaitStable(300 * time.Millisecond); err != nil {
		br.logger.Warn("page stability timeout, continuing", "url", url, "error", err)
	}

	// Interstitial challenges need real time to clear.
	if br.cfg.SettleWait > 0 {
		select {
		case <-time.After(br.cfg.SettleWait):
		case <-ctx.Done():
			return nil, &types.FetchError{URL: url, Err: ctx.Err(), Retryable: true}
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info != nil {
		finalURL = info.URL
	}

	br.logger.Debug("browser render complete",
		"url", url,
		"final_url", finalURL,
		"size", len(html),
		"duration", time.Since(start),
	)

	return types.NewPage(finalURL, []byte(html)), nil
}

// newPage creates a fresh page, with stealth patches when configured.
func (br *BrowserRenderer) newPage() (*rod.Page, error) {
	if br.cfg.Stealth {
		return stealth.Page(br.browser)
	}
	return br.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
}

func (br *BrowserRenderer) userAgent() string {
	if len(br.cfg.UserAgents) == 0 {
		return ""
	}
	return br.cfg.UserAgents[0]
}

// Close shuts down the browser.
func (br *BrowserRenderer) Close() error {
	if br.browser != nil {
		return br.browser.Close()
	}
	return nil
}

// Type returns the renderer type identifier.
func (br *BrowserRenderer) Type() string { return "browser" }
