package render

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/types"
)

// HTTPRenderer fetches pages with plain net/http. No JavaScript runs,
// so it only works for sites that serve article markup statically.
type HTTPRenderer struct {
	client     *http.Client
	cfg        *config.FetcherConfig
	logger     *slog.Logger
	userAgents []string
	uaIndex    atomic.Int64
}

// NewHTTPRenderer creates a plain-HTTP renderer.
func NewHTTPRenderer(cfg *config.Config, logger *slog.Logger) (*HTTPRenderer, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // decompression handled below, including brotli
	}

	return &HTTPRenderer{
		client: &http.Client{
			Transport: transport,
			Jar:       jar,
			Timeout:   cfg.Fetcher.RequestTimeout,
		},
		cfg:        &cfg.Fetcher,
		logger:     logger.With("component", "http_renderer"),
		userAgents: cfg.Fetcher.UserAgents,
	}, nil
}

// Render executes a GET request and returns the response body as a page.
func (hr *HTTPRenderer) Render(ctx context.Context, url string) (*types.Page, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: false}
	}

	req.Header.Set("User-Agent", hr.nextUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "is-IS,is;q=0.9,en;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := hr.client.Do(req)
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &types.FetchError{
			URL:       url,
			Err:       fmt.Errorf("unexpected status %d", resp.StatusCode),
			Retryable: resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	reader, err := decompressReader(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: false}
	}

	body, err := io.ReadAll(io.LimitReader(reader, hr.cfg.MaxBodySize))
	if err != nil {
		return nil, &types.FetchError{URL: url, Err: err, Retryable: true}
	}
	if len(body) == 0 {
		return nil, &types.FetchError{URL: url, Err: types.ErrEmptyPage, Retryable: true}
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	hr.logger.Debug("http render complete",
		"url", url,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", time.Since(start),
	)

	return types.NewPage(finalURL, body), nil
}

// decompressReader wraps the body reader according to Content-Encoding.
// Handles gzip, deflate, and brotli (br).
func decompressReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return r, nil
	case "gzip":
		return gzip.NewReader(r)
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return brotli.NewReader(r), nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

func (hr *HTTPRenderer) nextUserAgent() string {
	if len(hr.userAgents) == 0 {
		return "frettir/" + config.Version
	}
	i := hr.uaIndex.Add(1)
	return hr.userAgents[int(i)%len(hr.userAgents)]
}

// Close releases idle connections.
func (hr *HTTPRenderer) Close() error {
	hr.client.CloseIdleConnections()
	return nil
}

// Type returns the renderer type identifier.
func (hr *HTTPRenderer) Type() string { return "http" }
