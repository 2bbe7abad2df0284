// Package storage persists harvested articles.
package storage

import (
	"log/slog"

	"github.com/solvik/frettir/internal/types"
)

// Archiver is the interface for article output backends.
type Archiver interface {
	// Archive appends one article record.
	Archive(article *types.Article) error

	// Close flushes and releases the backend.
	Close() error

	// Name returns the backend identifier.
	Name() string
}

// MultiArchiver fans out each article to several backends. The first
// backend is the durable one; a failure there fails the archive, while
// mirror failures are logged and reported as the first error only.
type MultiArchiver struct {
	backends []Archiver
	logger   *slog.Logger
}

// NewMultiArchiver creates an archiver that writes to all backends.
func NewMultiArchiver(backends []Archiver, logger *slog.Logger) *MultiArchiver {
	return &MultiArchiver{
		backends: backends,
		logger:   logger.With("component", "multi_archiver"),
	}
}

func (m *MultiArchiver) Name() string { return "multi" }

func (m *MultiArchiver) Archive(article *types.Article) error {
	var firstErr error
	for _, backend := range m.backends {
		if err := backend.Archive(article); err != nil {
			m.logger.Error("backend archive failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (m *MultiArchiver) Close() error {
	var firstErr error
	for _, backend := range m.backends {
		if err := backend.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
