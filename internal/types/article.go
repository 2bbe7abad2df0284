package types

import (
	"bytes"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// CandidateLink is a discovered article URL with its display text.
// Uniqueness key is Href; links exist only within one discovery run.
type CandidateLink struct {
	Href string
	Text string
}

// Article is the extracted record for a single page. Date and Body may
// each be empty when the page rendered but the field was not found.
type Article struct {
	// URL is the article page this record was extracted from.
	URL string

	// Date is the normalized publication date "D.M.YYYY", or "" if no
	// strategy produced one.
	Date string

	// Body is the joined paragraph text, or "" if no selector matched.
	Body string

	// HarvestedAt is when extraction completed.
	HarvestedAt time.Time
}

// Page is a rendered document snapshot produced by a Renderer.
type Page struct {
	// URL is the final URL after any redirects.
	URL string

	// HTML is the rendered markup.
	HTML []byte

	doc *goquery.Document
}

// NewPage creates a Page from a URL and its rendered markup.
func NewPage(url string, html []byte) *Page {
	return &Page{URL: url, HTML: html}
}

// Document parses the page HTML into a goquery document. The parse is
// done once and cached.
func (p *Page) Document() (*goquery.Document, error) {
	if p.doc != nil {
		return p.doc, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.HTML))
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc, nil
}
