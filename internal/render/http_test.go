package render

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestHTTPRenderer(t *testing.T) *HTTPRenderer {
	t.Helper()
	cfg := config.DefaultConfig()
	hr, err := NewHTTPRenderer(cfg, testLogger)
	if err != nil {
		t.Fatalf("new http renderer: %v", err)
	}
	t.Cleanup(func() { hr.Close() })
	return hr
}

func TestHTTPRendererRender(t *testing.T) {
	const body = `<html><body><h1>Frétt</h1><p>Texti.</p></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, body)
	}))
	defer srv.Close()

	hr := newTestHTTPRenderer(t)
	page, err := hr.Render(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(page.HTML) != body {
		t.Errorf("unexpected html %q", page.HTML)
	}

	doc, err := page.Document()
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if got := doc.Find("h1").Text(); got != "Frétt" {
		t.Errorf("h1 = %q", got)
	}
}

func TestHTTPRendererBrotli(t *testing.T) {
	const body = `<html><body><p>Þjappað efni.</p></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "br")
		bw := brotli.NewWriter(w)
		io.WriteString(bw, body)
		bw.Close()
	}))
	defer srv.Close()

	hr := newTestHTTPRenderer(t)
	page, err := hr.Render(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(page.HTML) != body {
		t.Errorf("unexpected html %q", page.HTML)
	}
}

func TestHTTPRendererServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	hr := newTestHTTPRenderer(t)
	_, err := hr.Render(context.Background(), srv.URL)

	var fetchErr *types.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if !fetchErr.IsRetryable() {
		t.Error("5xx should be retryable")
	}
}

func TestDecompressReader(t *testing.T) {
	const payload = "halló heimur"

	gzipped := func() string {
		var b strings.Builder
		gw := gzip.NewWriter(&b)
		io.WriteString(gw, payload)
		gw.Close()
		return b.String()
	}()
	brotlied := func() string {
		var b strings.Builder
		bw := brotli.NewWriter(&b)
		io.WriteString(bw, payload)
		bw.Close()
		return b.String()
	}()

	tests := []struct {
		encoding string
		input    string
	}{
		{"", payload},
		{"identity", payload},
		{"gzip", gzipped},
		{"br", brotlied},
	}

	for _, tt := range tests {
		t.Run("encoding_"+tt.encoding, func(t *testing.T) {
			r, err := decompressReader(strings.NewReader(tt.input), tt.encoding)
			if err != nil {
				t.Fatalf("decompressReader: %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(got) != payload {
				t.Errorf("got %q, want %q", got, payload)
			}
		})
	}

	if _, err := decompressReader(strings.NewReader(payload), "zstd"); err == nil {
		t.Error("expected error for unsupported encoding")
	}
}

func TestNewUnknownFetcherType(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fetcher.Type = "carrier-pigeon"
	if _, err := New(cfg, testLogger); err == nil {
		t.Fatal("expected error for unknown fetcher type")
	}
}
