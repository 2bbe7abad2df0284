package extract

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testExtractor() *Extractor {
	cfg := config.DefaultConfig()
	return New(&cfg.Extract, testLogger)
}

const articleHTML = `<!DOCTYPE html>
<html>
<head>
	<meta name="cXenseParse:publishtime" content="2025-05-28T08:36:00+0000">
</head>
<body>
	<h1>Eldgos hafið á Reykjanesskaga</h1>
	<div class="main-layout">
		<p>Fyrsta málsgrein.</p>
		<p>  Önnur málsgrein.  </p>
		<p>   </p>
	</div>
</body>
</html>`

func TestExtractDateFromMeta(t *testing.T) {
	e := testExtractor()
	page := types.NewPage("https://www.mbl.is/frettir/innlent/2024/01/02/gos/", []byte(articleHTML))

	article, err := e.Extract(page)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}

	// Meta tag wins over the URL segment.
	if article.Date != "28.5.2025" {
		t.Errorf("expected date 28.5.2025, got %q", article.Date)
	}
}

func TestExtractDateFromURLFallback(t *testing.T) {
	e := testExtractor()
	html := `<html><body><h1>Eldgos hafið á Reykjanesskaga</h1><article><p>Texti.</p></article></body></html>`
	page := types.NewPage("https://www.mbl.is/frettir/innlent/2025/05/28/eldgos_hafid/", []byte(html))

	article, err := e.Extract(page)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if article.Date != "28.5.2025" {
		t.Errorf("expected date 28.5.2025, got %q", article.Date)
	}
}

func TestExtractNoDate(t *testing.T) {
	e := testExtractor()
	html := `<html><body><h1>Frétt án dagsetningar</h1><article><p>Texti.</p></article></body></html>`
	page := types.NewPage("https://www.mbl.is/frettir/innlent/gos/", []byte(html))

	article, err := e.Extract(page)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if article.Date != "" {
		t.Errorf("expected empty date, got %q", article.Date)
	}
}

func TestExtractBody(t *testing.T) {
	e := testExtractor()
	page := types.NewPage("https://www.mbl.is/frettir/innlent/2025/05/28/gos/", []byte(articleHTML))

	article, err := e.Extract(page)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}

	want := "Fyrsta málsgrein.\n\nÖnnur málsgrein."
	if article.Body != want {
		t.Errorf("expected body %q, got %q", want, article.Body)
	}
}

func TestExtractBodyFallbackSelector(t *testing.T) {
	e := testExtractor()
	html := `<html><body>
		<h1>Frétt með öðru sniðmáti</h1>
		<div class="frett-container"><p>Fyrsta.</p><p>Önnur.</p></div>
	</body></html>`
	page := types.NewPage("https://www.mbl.is/sport/2025/05/28/leikur/", []byte(html))

	article, err := e.Extract(page)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if article.Body != "Fyrsta.\n\nÖnnur." {
		t.Errorf("unexpected body %q", article.Body)
	}
}

func TestExtractNoBody(t *testing.T) {
	e := testExtractor()
	html := `<html><body><h1>Frétt án meginmáls</h1><div class="sidebar"><p>Auglýsing.</p></div></body></html>`
	page := types.NewPage("https://www.mbl.is/frettir/innlent/2025/05/28/tom/", []byte(html))

	article, err := e.Extract(page)
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	// Accessible page with no paragraphs degrades to an empty body; it
	// is not blocked.
	if article.Body != "" {
		t.Errorf("expected empty body, got %q", article.Body)
	}
	if article.Date != "28.5.2025" {
		t.Errorf("expected URL date, got %q", article.Date)
	}
}

func TestExtractBlocked(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name string
		html string
	}{
		{"challenge title", `<html><body><h1>Just a moment...</h1></body></html>`},
		{"placeholder title", `<html><body><h1>www.mbl.is</h1></body></html>`},
		{"missing heading", `<html><body><p>Ekkert hér.</p></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := types.NewPage("https://www.mbl.is/frettir/innlent/2025/05/28/gos/", []byte(tt.html))
			article, err := e.Extract(page)
			if !errors.Is(err, types.ErrBlocked) {
				t.Fatalf("expected ErrBlocked, got article=%v err=%v", article, err)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		pattern string
		want    string
	}{
		{"2025-05-28T08:36:00+0000", "structured", "28.5.2025"},
		{"2025-12-01T00:00:00+0000", "structured", "1.12.2025"},
		{"2024-01-09", "structured", "9.1.2024"},
		{"no date here", "structured", ""},
		{"https://www.mbl.is/frettir/innlent/2025/05/28/gos/", "url", "28.5.2025"},
		{"https://www.mbl.is/frettir/innlent/gos/", "url", ""},
	}

	for _, tt := range tests {
		pattern := structuredDatePattern
		if tt.pattern == "url" {
			pattern = urlDatePattern
		}
		if got := normalizeDate(tt.in, pattern); got != tt.want {
			t.Errorf("normalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
