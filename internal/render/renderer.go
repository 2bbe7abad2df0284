package render

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/types"
)

// Renderer turns a URL into a rendered page snapshot. Implementations
// are used strictly sequentially; one render is in flight at a time.
type Renderer interface {
	// Render navigates to the URL and returns the rendered document.
	Render(ctx context.Context, url string) (*types.Page, error)

	// Close releases any resources held by the renderer.
	Close() error

	// Type returns the renderer type identifier.
	Type() string
}

// New creates the renderer selected by cfg.Fetcher.Type.
func New(cfg *config.Config, logger *slog.Logger) (Renderer, error) {
	switch cfg.Fetcher.Type {
	case "browser":
		return NewBrowserRenderer(cfg, logger)
	case "http":
		return NewHTTPRenderer(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown fetcher type %q", cfg.Fetcher.Type)
	}
}
