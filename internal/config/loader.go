package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load reads configuration from file, environment, and defaults.
// Priority (highest to lowest): env vars > config file > defaults.
// CLI flags are applied on top by the command layer.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v, cfg)

	v.SetEnvPrefix("FRETTIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("frettir")
		v.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".frettir"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing config file is fine unless one was named explicitly.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers default values in viper.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("search.base_url", cfg.Search.BaseURL)
	v.SetDefault("search.page_size", cfg.Search.PageSize)
	v.SetDefault("search.link_pattern", cfg.Search.LinkPattern)
	v.SetDefault("search.min_link_text", cfg.Search.MinLinkText)
	v.SetDefault("search.next_selector", cfg.Search.NextSelector)

	v.SetDefault("fetcher.type", cfg.Fetcher.Type)
	v.SetDefault("fetcher.request_timeout", cfg.Fetcher.RequestTimeout)
	v.SetDefault("fetcher.settle_wait", cfg.Fetcher.SettleWait)
	v.SetDefault("fetcher.stealth", cfg.Fetcher.Stealth)
	v.SetDefault("fetcher.headless", cfg.Fetcher.Headless)
	v.SetDefault("fetcher.user_agents", cfg.Fetcher.UserAgents)
	v.SetDefault("fetcher.max_body_size", cfg.Fetcher.MaxBodySize)

	v.SetDefault("extract.blocked_titles", cfg.Extract.BlockedTitles)
	v.SetDefault("extract.body_selectors", cfg.Extract.BodySelectors)

	v.SetDefault("harvest.max_articles", cfg.Harvest.MaxArticles)
	v.SetDefault("harvest.wait", cfg.Harvest.Wait)

	v.SetDefault("output.archive_path", cfg.Output.ArchivePath)
	v.SetDefault("output.resume_path", cfg.Output.ResumePath)

	v.SetDefault("mongo.enabled", cfg.Mongo.Enabled)
	v.SetDefault("mongo.uri", cfg.Mongo.URI)
	v.SetDefault("mongo.database", cfg.Mongo.Database)
	v.SetDefault("mongo.collection", cfg.Mongo.Collection)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}
