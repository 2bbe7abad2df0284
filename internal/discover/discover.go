// Package discover walks the paginated search results of a news site
// and collects candidate article links.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/render"
	"github.com/solvik/frettir/internal/types"
)

// Discoverer paginates through keyword search results and returns the
// deduplicated candidate set in discovery order.
type Discoverer struct {
	renderer    render.Renderer
	cfg         *config.SearchConfig
	linkPattern *regexp.Regexp
	logger      *slog.Logger
}

// New creates a Discoverer. The link pattern must compile; Validate
// checks this earlier, but New guards against direct construction.
func New(renderer render.Renderer, cfg *config.SearchConfig, logger *slog.Logger) (*Discoverer, error) {
	pattern, err := regexp.Compile(cfg.LinkPattern)
	if err != nil {
		return nil, fmt.Errorf("compile link pattern: %w", err)
	}
	return &Discoverer{
		renderer:    renderer,
		cfg:         cfg,
		linkPattern: pattern,
		logger:      logger.With("component", "discoverer"),
	}, nil
}

// Discover fetches result pages at increasing offsets until the site
// stops advertising a next page or a page yields no new links. The
// second condition guards against sites that keep serving the last
// page forever. A page fetch fault aborts the whole discovery; it has
// produced no durable side effects yet and is cheap to rerun.
func (d *Discoverer) Discover(ctx context.Context, keyword string) ([]types.CandidateLink, error) {
	var all []types.CandidateLink
	seen := make(map[string]struct{})
	offset := 0

	for {
		pageURL := d.pageURL(keyword, offset)

		page, err := d.renderer.Render(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("fetch results page at offset %d: %w", offset, err)
		}

		doc, err := page.Document()
		if err != nil {
			return nil, fmt.Errorf("parse results page at offset %d: %w", offset, err)
		}

		links := d.pageLinks(doc, page.URL)
		hasNext := doc.Find(d.cfg.NextSelector).Length() > 0

		newCount := 0
		for _, link := range links {
			if _, ok := seen[link.Href]; ok {
				continue
			}
			seen[link.Href] = struct{}{}
			all = append(all, link)
			newCount++
		}

		d.logger.Info("results page scanned",
			"page", offset/d.cfg.PageSize+1,
			"new_links", newCount,
			"total", len(all),
		)

		if !hasNext || newCount == 0 {
			break
		}
		offset += d.cfg.PageSize
	}

	return all, nil
}

// pageURL fills the listing endpoint template.
func (d *Discoverer) pageURL(keyword string, offset int) string {
	return strings.NewReplacer(
		"{keyword}", url.QueryEscape(keyword),
		"{offset}", strconv.Itoa(offset),
	).Replace(d.cfg.BaseURL)
}

// pageLinks extracts article links from one results page. A link
// qualifies when its href matches the content-section pattern and its
// display text is longer than the configured minimum, which filters
// out navigation chrome.
func (d *Discoverer) pageLinks(doc *goquery.Document, base string) []types.CandidateLink {
	baseURL, _ := url.Parse(base)

	var links []types.CandidateLink
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = d.absolute(baseURL, href)
		text := strings.TrimSpace(s.Text())

		if !d.linkPattern.MatchString(href) {
			return
		}
		if utf8.RuneCountInString(text) <= d.cfg.MinLinkText {
			return
		}
		links = append(links, types.CandidateLink{Href: href, Text: text})
	})
	return links
}

// absolute resolves a possibly relative href against the page URL.
func (d *Discoverer) absolute(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
