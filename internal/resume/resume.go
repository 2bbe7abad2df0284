// Package resume tracks which article URLs have already been durably
// processed, across process restarts.
package resume

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/solvik/frettir/internal/types"
)

// Store is an append-only set of processed URLs backed by a
// newline-delimited file. It is loaded once at open and appended to on
// each commit; entries are never removed. Scope is global, not
// per-keyword: once committed, a URL stays resumed for all future
// searches.
type Store struct {
	path   string
	file   *os.File
	seen   map[string]struct{}
	logger *slog.Logger
}

// Open loads the resume log at path and keeps an append handle for
// commits. A missing file means an empty set.
func Open(path string, logger *slog.Logger) (*Store, error) {
	seen := make(map[string]struct{})

	existing, err := os.Open(path)
	switch {
	case err == nil:
		scanner := bufio.NewScanner(existing)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				seen[line] = struct{}{}
			}
		}
		scanErr := scanner.Err()
		existing.Close()
		if scanErr != nil {
			return nil, fmt.Errorf("read resume log %s: %w", path, scanErr)
		}
	case os.IsNotExist(err):
		// First run.
	default:
		return nil, fmt.Errorf("open resume log %s: %w", path, err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open resume log %s for append: %w", path, err)
	}

	return &Store{
		path:   path,
		file:   file,
		seen:   seen,
		logger: logger.With("component", "resume_store"),
	}, nil
}

// Contains reports whether the URL was committed in this or a prior run.
func (s *Store) Contains(url string) bool {
	_, ok := s.seen[url]
	return ok
}

// Commit durably appends the URL to the resume log. The write is
// synced before returning, so a crash right after Commit never loses
// the marker and a crash right before it never fabricates one.
func (s *Store) Commit(url string) error {
	if s.file == nil {
		return types.ErrStoreClosed
	}
	if _, err := s.file.WriteString(url + "\n"); err != nil {
		return fmt.Errorf("append resume marker: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		return fmt.Errorf("sync resume log: %w", err)
	}
	s.seen[url] = struct{}{}
	s.logger.Debug("url committed", "url", url, "total", len(s.seen))
	return nil
}

// Len returns the number of committed URLs.
func (s *Store) Len() int { return len(s.seen) }

// Close releases the append handle.
func (s *Store) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
