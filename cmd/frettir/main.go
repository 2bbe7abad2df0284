package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/solvik/frettir/internal/config"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "frettir",
		Short: "frettir — incremental news article harvester",
		Long: `frettir harvests articles from a paginated, keyword-searchable news
site. It discovers candidate links through the search results, skips
URLs already captured in prior runs, renders each article in a headless
browser, extracts a normalized date and body text, and appends the
results to a durable text archive. Interrupted runs resume where they
left off.`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(harvestCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("frettir %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Printf("Search:\n")
			fmt.Printf("  Base URL:        %s\n", cfg.Search.BaseURL)
			fmt.Printf("  Page Size:       %d\n", cfg.Search.PageSize)
			fmt.Printf("  Link Pattern:    %s\n", cfg.Search.LinkPattern)
			fmt.Printf("  Min Link Text:   %d\n", cfg.Search.MinLinkText)
			fmt.Printf("  Next Selector:   %s\n", cfg.Search.NextSelector)
			fmt.Printf("\nFetcher:\n")
			fmt.Printf("  Type:            %s\n", cfg.Fetcher.Type)
			fmt.Printf("  Request Timeout: %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Printf("  Settle Wait:     %s\n", cfg.Fetcher.SettleWait)
			fmt.Printf("  Stealth:         %v\n", cfg.Fetcher.Stealth)
			fmt.Printf("  Headless:        %v\n", cfg.Fetcher.Headless)
			fmt.Printf("\nExtract:\n")
			fmt.Printf("  Blocked Titles:  %v\n", cfg.Extract.BlockedTitles)
			fmt.Printf("  Body Selectors:  %v\n", cfg.Extract.BodySelectors)
			fmt.Printf("\nHarvest:\n")
			fmt.Printf("  Max Articles:    %d (0 = unbounded)\n", cfg.Harvest.MaxArticles)
			fmt.Printf("  Wait:            %s\n", cfg.Harvest.Wait)
			fmt.Printf("\nOutput:\n")
			fmt.Printf("  Archive:         %s\n", cfg.Output.ArchivePath)
			fmt.Printf("  Resume Log:      %s\n", cfg.Output.ResumePath)
			fmt.Printf("\nMongo:\n")
			fmt.Printf("  Enabled:         %v\n", cfg.Mongo.Enabled)
			if cfg.Mongo.Enabled {
				fmt.Printf("  Database:        %s\n", cfg.Mongo.Database)
				fmt.Printf("  Collection:      %s\n", cfg.Mongo.Collection)
			}
			return nil
		},
	}
}

// setupLogger creates a structured logger.
func setupLogger(format string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
