package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrBlocked marks a page that rendered as an anti-automation
	// challenge or placeholder instead of article content. The URL must
	// not be committed so a later run can retry it.
	ErrBlocked = errors.New("page blocked by challenge or placeholder")

	ErrInvalidURL  = errors.New("invalid URL")
	ErrEmptyPage   = errors.New("empty page content")
	ErrStoreClosed = errors.New("resume store is closed")
	ErrNoRenderer  = errors.New("no renderer configured")
)

// FetchError wraps errors that occur while rendering a page.
type FetchError struct {
	URL       string
	Err       error
	Retryable bool
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) IsRetryable() bool { return e.Retryable }

// ExtractError wraps errors that occur while extracting fields from a
// rendered page.
type ExtractError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// StorageError wraps errors from the archive backends.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
