package resume

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/solvik/frettir/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.txt")

	s, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d entries", s.Len())
	}
}

func TestCommitAndContains(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.txt")
	s, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	url := "https://www.mbl.is/frettir/innlent/2025/05/28/gos/"
	if s.Contains(url) {
		t.Error("should not contain url before commit")
	}
	if err := s.Commit(url); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if !s.Contains(url) {
		t.Error("should contain url after commit")
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
}

func TestCommitSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.txt")
	urls := []string{
		"https://www.mbl.is/frettir/innlent/2025/05/28/gos/",
		"https://www.mbl.is/sport/2025/05/29/leikur/",
	}

	s, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, u := range urls {
		if err := s.Commit(u); err != nil {
			t.Fatalf("commit %s: %v", u, err)
		}
	}
	s.Close()

	s2, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if s2.Len() != len(urls) {
		t.Fatalf("expected %d entries after reopen, got %d", len(urls), s2.Len())
	}
	for _, u := range urls {
		if !s2.Contains(u) {
			t.Errorf("missing %s after reopen", u)
		}
	}
}

func TestLoadIgnoresBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.txt")
	content := "https://www.mbl.is/frettir/a/2025/01/01/x/\n\n  \nhttps://www.mbl.is/frettir/b/2025/01/02/y/\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if s.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", s.Len())
	}
}

func TestCommitAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.txt")
	s, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	err = s.Commit("https://www.mbl.is/frettir/innlent/2025/05/28/gos/")
	if !errors.Is(err, types.ErrStoreClosed) {
		t.Fatalf("expected ErrStoreClosed, got %v", err)
	}
}

// An uncommitted URL must not appear after reopen: the marker only
// exists once Commit returns.
func TestUncommittedURLNotResumed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "done.txt")

	s, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Commit("https://www.mbl.is/frettir/a/2025/01/01/x/"); err != nil {
		t.Fatal(err)
	}
	// The second URL's archive block was written, but the process died
	// before Commit.
	s.Close()

	s2, err := Open(path, testLogger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	if s2.Contains("https://www.mbl.is/frettir/b/2025/01/02/y/") {
		t.Error("uncommitted url must not be resumed")
	}
}
