package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/discover"
	"github.com/solvik/frettir/internal/extract"
	"github.com/solvik/frettir/internal/harvest"
	"github.com/solvik/frettir/internal/render"
	"github.com/solvik/frettir/internal/resume"
	"github.com/solvik/frettir/internal/storage"
)

var (
	maxArticles int
	waitSeconds int
	archivePath string
	resumePath  string
	fetcherType string
)

// harvestCmd creates the "harvest" subcommand.
func harvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest [keyword]",
		Short: "Search for a keyword and harvest matching articles",
		Long: `Paginate through the site's search results for the keyword, then
render and extract every article not captured in a previous run.
Already-harvested URLs are skipped; blocked or failing pages are
skipped without being marked done, so a later run retries them.`,
		Args: cobra.ExactArgs(1),
		RunE: runHarvest,
	}

	cmd.Flags().IntVarP(&maxArticles, "max-articles", "m", 0, "maximum articles to harvest (0 = all)")
	cmd.Flags().IntVarP(&waitSeconds, "wait", "w", -1, "seconds to wait between article fetches (-1 = use config)")
	cmd.Flags().StringVarP(&archivePath, "output", "o", "", "article archive file path")
	cmd.Flags().StringVar(&resumePath, "resume-file", "", "resume log file path")
	cmd.Flags().StringVar(&fetcherType, "fetcher", "", "renderer type: browser or http")

	return cmd
}

// runHarvest executes the harvest command.
func runHarvest(cmd *cobra.Command, args []string) error {
	keyword := args[0]

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.ValidateURL(searchProbeURL(cfg)); err != nil {
		return fmt.Errorf("invalid search.base_url: %w", err)
	}

	logger := setupLogger(cfg.Logging.Format)

	renderer, err := render.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Close()

	store, err := resume.Open(cfg.Output.ResumePath, logger)
	if err != nil {
		return fmt.Errorf("open resume log: %w", err)
	}
	defer store.Close()

	fileArchive, err := storage.NewFileArchiver(cfg.Output.ArchivePath, logger)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}

	var archive storage.Archiver = fileArchive
	if cfg.Mongo.Enabled {
		mongoArchive, err := storage.NewMongoArchiver(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection, logger)
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		archive = storage.NewMultiArchiver([]storage.Archiver{fileArchive, mongoArchive}, logger)
	}
	defer archive.Close()

	discoverer, err := discover.New(renderer, &cfg.Search, logger)
	if err != nil {
		return fmt.Errorf("create discoverer: %w", err)
	}
	extractor := extract.New(&cfg.Extract, logger)

	harvester := harvest.New(cfg, renderer, discoverer, extractor, store, archive, logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, finishing current article...", "signal", sig)
		cancel()
	}()

	fmt.Printf("Already harvested %d articles from previous runs.\n", store.Len())
	fmt.Printf("Searching for %q...\n", keyword)

	start := time.Now()
	report, err := harvester.Run(ctx, keyword)
	if err != nil {
		return err
	}

	fmt.Printf("\nDone in %s. %d/%d successful, %d blocked, %d failed.\n",
		time.Since(start).Round(time.Second),
		report.Committed, report.Attempted, report.Blocked, report.Failed,
	)
	fmt.Printf("Saved to %s\n", cfg.Output.ArchivePath)
	return nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if maxArticles > 0 {
		cfg.Harvest.MaxArticles = maxArticles
	}
	if waitSeconds >= 0 {
		cfg.Harvest.Wait = time.Duration(waitSeconds) * time.Second
	}
	if archivePath != "" {
		cfg.Output.ArchivePath = archivePath
	}
	if resumePath != "" {
		cfg.Output.ResumePath = resumePath
	}
	if fetcherType != "" {
		cfg.Fetcher.Type = fetcherType
	}
}

// searchProbeURL fills the listing template with dummy values so the
// endpoint itself can be URL-validated up front.
func searchProbeURL(cfg *config.Config) string {
	return strings.NewReplacer("{keyword}", "probe", "{offset}", "0").Replace(cfg.Search.BaseURL)
}
