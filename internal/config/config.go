package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for frettir.
type Config struct {
	Search  SearchConfig  `mapstructure:"search"  yaml:"search"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
	Harvest HarvestConfig `mapstructure:"harvest" yaml:"harvest"`
	Output  OutputConfig  `mapstructure:"output"  yaml:"output"`
	Mongo   MongoConfig   `mapstructure:"mongo"   yaml:"mongo"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// SearchConfig controls result-page discovery.
type SearchConfig struct {
	// BaseURL is the listing endpoint template. {keyword} and {offset}
	// are replaced per request.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// PageSize is the listing page size; offsets advance in this unit.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// LinkPattern selects hrefs that point at article content rather
	// than navigation chrome. A heuristic tuned to the target site's
	// section layout, kept configurable for that reason.
	LinkPattern string `mapstructure:"link_pattern" yaml:"link_pattern"`

	// MinLinkText is the minimum display-text length (in runes) for a
	// link to count as an article link. Same caveat as LinkPattern.
	MinLinkText int `mapstructure:"min_link_text" yaml:"min_link_text"`

	// NextSelector matches the "next page" indicator on a results page.
	NextSelector string `mapstructure:"next_selector" yaml:"next_selector"`
}

// FetcherConfig controls page rendering.
type FetcherConfig struct {
	// Type selects the renderer: "browser" (headless Chromium) or
	// "http" (plain requests, no JS).
	Type string `mapstructure:"type" yaml:"type"`

	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// SettleWait is how long to let a page settle after navigation,
	// giving interstitial challenges a chance to clear.
	SettleWait time.Duration `mapstructure:"settle_wait" yaml:"settle_wait"`

	// Stealth applies anti-fingerprinting patches to browser pages.
	Stealth bool `mapstructure:"stealth" yaml:"stealth"`

	Headless bool `mapstructure:"headless" yaml:"headless"`

	UserAgents []string `mapstructure:"user_agents" yaml:"user_agents"`

	MaxBodySize int64 `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// ExtractConfig controls article field extraction.
type ExtractConfig struct {
	// BlockedTitles are heading texts that identify a challenge or
	// placeholder page instead of an article.
	BlockedTitles []string `mapstructure:"blocked_titles" yaml:"blocked_titles"`

	// BodySelectors are paragraph selectors tried in order; the first
	// one yielding any text wins.
	BodySelectors []string `mapstructure:"body_selectors" yaml:"body_selectors"`
}

// HarvestConfig controls the per-article loop.
type HarvestConfig struct {
	// MaxArticles bounds one run; 0 means unbounded.
	MaxArticles int `mapstructure:"max_articles" yaml:"max_articles"`

	// Wait is the pacing delay between article fetches.
	Wait time.Duration `mapstructure:"wait" yaml:"wait"`
}

// OutputConfig controls the durable files.
type OutputConfig struct {
	ArchivePath string `mapstructure:"archive_path" yaml:"archive_path"`
	ResumePath  string `mapstructure:"resume_path"  yaml:"resume_path"`
}

// MongoConfig controls the optional structured mirror of harvested
// articles.
type MongoConfig struct {
	Enabled    bool   `mapstructure:"enabled"    yaml:"enabled"`
	URI        string `mapstructure:"uri"        yaml:"uri"`
	Database   string `mapstructure:"database"   yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults for the mbl.is
// search layout.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			BaseURL:      "https://www.mbl.is/frettir/search/?qs={keyword}&offset={offset}&limit=20&sort=1&period=0",
			PageSize:     20,
			LinkPattern:  `mbl\.is/(frettir|folk|sport|vidskipti|smartland|menning)/.*/\d{4}/`,
			MinLinkText:  10,
			NextSelector: "span.next",
		},
		Fetcher: FetcherConfig{
			Type:           "browser",
			RequestTimeout: 30 * time.Second,
			SettleWait:     10 * time.Second,
			Stealth:        true,
			Headless:       true,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
			MaxBodySize: 10 * 1024 * 1024,
		},
		Extract: ExtractConfig{
			BlockedTitles: []string{"Just a moment...", "www.mbl.is"},
			BodySelectors: []string{
				".main-layout p",
				".frett-container p, article p",
			},
		},
		Harvest: HarvestConfig{
			MaxArticles: 0,
			Wait:        5 * time.Second,
		},
		Output: OutputConfig{
			ArchivePath: "articles.txt",
			ResumePath:  "scraped_urls.txt",
		},
		Mongo: MongoConfig{
			Enabled:    false,
			URI:        "mongodb://localhost:27017",
			Database:   "frettir",
			Collection: "articles",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
