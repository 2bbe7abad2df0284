package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/solvik/frettir/internal/types"
)

// PlaceholderBody is written when a page was accessible but no
// extractable paragraphs were found.
const PlaceholderBody = "(no body text found)"

// FileArchiver appends article blocks to a plain UTF-8 text log. Per
// article: the date line when present, then the body (or the
// placeholder), then a blank line. Blocks are never rewritten; each
// append is synced before the next article is processed so the log
// order matches resume-marker commit order.
type FileArchiver struct {
	path   string
	file   *os.File
	count  int
	logger *slog.Logger
}

// NewFileArchiver opens (or creates) the text log in append mode.
func NewFileArchiver(path string, logger *slog.Logger) (*FileArchiver, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}

	return &FileArchiver{
		path:   path,
		file:   f,
		logger: logger.With("component", "file_archiver"),
	}, nil
}

func (a *FileArchiver) Name() string { return "file" }

// Archive appends one article block and syncs it to disk.
func (a *FileArchiver) Archive(article *types.Article) error {
	var b strings.Builder
	if article.Date != "" {
		b.WriteString(article.Date)
		b.WriteString("\n")
	}
	body := article.Body
	if body == "" {
		body = PlaceholderBody
	}
	b.WriteString(body)
	b.WriteString("\n\n")

	if _, err := a.file.WriteString(b.String()); err != nil {
		return &types.StorageError{Backend: a.Name(), Err: err}
	}
	if err := a.file.Sync(); err != nil {
		return &types.StorageError{Backend: a.Name(), Err: err}
	}

	a.count++
	a.logger.Debug("article archived", "url", article.URL, "total", a.count)
	return nil
}

func (a *FileArchiver) Close() error {
	a.logger.Info("archive written", "path", a.path, "articles", a.count)
	return a.file.Close()
}
