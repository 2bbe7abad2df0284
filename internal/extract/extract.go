// Package extract pulls a normalized publication date and body text out
// of a rendered article page.
package extract

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/types"
)

// publishTimeXPath locates the structured per-page publication time.
const publishTimeXPath = `//meta[@name='cXenseParse:publishtime']`

var (
	structuredDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	urlDatePattern        = regexp.MustCompile(`/(\d{4})/(\d{2})/(\d{2})/`)
)

// dateStrategy tries to produce a normalized date from a page. An empty
// result means the strategy found nothing; the next one is tried.
type dateStrategy func(page *types.Page) string

// Extractor turns rendered pages into article records. Missing date or
// body degrade to empty fields; only a challenge/placeholder page is an
// error, reported as types.ErrBlocked so the caller can retry the URL
// in a later run.
type Extractor struct {
	blockedTitles  map[string]struct{}
	bodySelectors  []string
	dateStrategies []dateStrategy
	logger         *slog.Logger
}

// New creates an Extractor from the extraction configuration.
func New(cfg *config.ExtractConfig, logger *slog.Logger) *Extractor {
	blocked := make(map[string]struct{}, len(cfg.BlockedTitles))
	for _, t := range cfg.BlockedTitles {
		blocked[t] = struct{}{}
	}

	e := &Extractor{
		blockedTitles: blocked,
		bodySelectors: cfg.BodySelectors,
		logger:        logger.With("component", "extractor"),
	}
	// Ordered: structured metadata first, URL segment as fallback.
	e.dateStrategies = []dateStrategy{
		e.dateFromMeta,
		e.dateFromURL,
	}
	return e
}

// Extract produces an article record for the page, or ErrBlocked when
// the page is a challenge/placeholder rather than content.
func (e *Extractor) Extract(page *types.Page) (*types.Article, error) {
	doc, err := page.Document()
	if err != nil {
		return nil, &types.ExtractError{URL: page.URL, Err: err}
	}

	heading := strings.TrimSpace(doc.Find("h1").First().Text())
	if e.isBlocked(heading) {
		return nil, types.ErrBlocked
	}

	article := &types.Article{
		URL:         page.URL,
		HarvestedAt: time.Now(),
	}

	for _, strategy := range e.dateStrategies {
		if d := strategy(page); d != "" {
			article.Date = d
			break
		}
	}
	if article.Date == "" {
		e.logger.Debug("no publication date found", "url", page.URL)
	}

	article.Body = e.bodyText(doc)
	if article.Body == "" {
		e.logger.Debug("no body paragraphs found", "url", page.URL)
	}

	return article, nil
}

// isBlocked reports whether the heading identifies a non-article page.
// An absent heading counts as blocked: real articles always carry one.
func (e *Extractor) isBlocked(heading string) bool {
	if heading == "" {
		return true
	}
	_, ok := e.blockedTitles[heading]
	return ok
}

// dateFromMeta reads the structured publication-time meta tag.
func (e *Extractor) dateFromMeta(page *types.Page) string {
	root, err := htmlquery.Parse(bytes.NewReader(page.HTML))
	if err != nil {
		return ""
	}
	node := e.queryMeta(root)
	if node == nil {
		return ""
	}
	return normalizeDate(htmlquery.SelectAttr(node, "content"), structuredDatePattern)
}

func (e *Extractor) queryMeta(root *html.Node) *html.Node {
	node, err := htmlquery.Query(root, publishTimeXPath)
	if err != nil {
		return nil
	}
	return node
}

// dateFromURL parses a /YYYY/MM/DD/ segment out of the article URL.
func (e *Extractor) dateFromURL(page *types.Page) string {
	return normalizeDate(page.URL, urlDatePattern)
}

// normalizeDate matches a year/month/day triple and reformats it as
// D.M.YYYY with no leading zeros on day or month.
func normalizeDate(s string, pattern *regexp.Regexp) string {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return ""
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d.%d.%d", day, month, year)
}

// bodyText evaluates the selector chain in order and returns the first
// non-empty paragraph join.
func (e *Extractor) bodyText(doc *goquery.Document) string {
	for _, selector := range e.bodySelectors {
		if body := paragraphs(doc, selector); body != "" {
			return body
		}
	}
	return ""
}

// paragraphs collects trimmed, non-empty paragraph texts under the
// selector and joins them with a double line break.
func paragraphs(doc *goquery.Document, selector string) string {
	var parts []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n\n")
}
