package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url must be set")
	}
	if !strings.Contains(cfg.Search.BaseURL, "{keyword}") || !strings.Contains(cfg.Search.BaseURL, "{offset}") {
		return fmt.Errorf("search.base_url must contain {keyword} and {offset} placeholders")
	}
	if cfg.Search.PageSize < 1 {
		return fmt.Errorf("search.page_size must be >= 1, got %d", cfg.Search.PageSize)
	}
	if _, err := regexp.Compile(cfg.Search.LinkPattern); err != nil {
		return fmt.Errorf("invalid search.link_pattern: %w", err)
	}
	if cfg.Search.MinLinkText < 0 {
		return fmt.Errorf("search.min_link_text must be >= 0, got %d", cfg.Search.MinLinkText)
	}
	if cfg.Search.NextSelector == "" {
		return fmt.Errorf("search.next_selector must be set")
	}

	if cfg.Fetcher.Type != "browser" && cfg.Fetcher.Type != "http" {
		return fmt.Errorf("fetcher.type must be 'browser' or 'http', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout <= 0 {
		return fmt.Errorf("fetcher.request_timeout must be > 0")
	}
	if cfg.Fetcher.SettleWait < 0 {
		return fmt.Errorf("fetcher.settle_wait must be >= 0")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}

	if len(cfg.Extract.BodySelectors) == 0 {
		return fmt.Errorf("extract.body_selectors must not be empty")
	}

	if cfg.Harvest.MaxArticles < 0 {
		return fmt.Errorf("harvest.max_articles must be >= 0, got %d", cfg.Harvest.MaxArticles)
	}
	if cfg.Harvest.Wait < 0 {
		return fmt.Errorf("harvest.wait must be >= 0")
	}

	if cfg.Output.ArchivePath == "" {
		return fmt.Errorf("output.archive_path must be set")
	}
	if cfg.Output.ResumePath == "" {
		return fmt.Errorf("output.resume_path must be set")
	}

	if cfg.Mongo.Enabled {
		if cfg.Mongo.URI == "" || cfg.Mongo.Database == "" || cfg.Mongo.Collection == "" {
			return fmt.Errorf("mongo.uri, mongo.database and mongo.collection must be set when mongo.enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a harvest target.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
