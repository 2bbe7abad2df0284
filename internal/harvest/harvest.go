// Package harvest drives the discovery-dedup-extract-resume pipeline.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/solvik/frettir/internal/config"
	"github.com/solvik/frettir/internal/discover"
	"github.com/solvik/frettir/internal/extract"
	"github.com/solvik/frettir/internal/render"
	"github.com/solvik/frettir/internal/resume"
	"github.com/solvik/frettir/internal/storage"
	"github.com/solvik/frettir/internal/types"
)

// Outcome classifies the processing of one candidate within a run.
type Outcome int

const (
	// OutcomeCommitted: extracted, archived, and resume-marked.
	OutcomeCommitted Outcome = iota

	// OutcomeBlocked: the page was a challenge/placeholder; the URL
	// stays eligible for a future run.
	OutcomeBlocked

	// OutcomeFailed: an unexpected fault; the URL stays eligible for a
	// future run.
	OutcomeFailed
)

// Report summarizes one harvest run.
type Report struct {
	Discovered  int
	AlreadyDone int
	Attempted   int
	Committed   int
	Blocked     int
	Failed      int
}

// Harvester composes discovery, extraction, the resume store and the
// archive into one sequential run. One page operation is in flight at
// a time; the resume log and archive are append-only for the run.
type Harvester struct {
	cfg        *config.Config
	renderer   render.Renderer
	discoverer *discover.Discoverer
	extractor  *extract.Extractor
	store      *resume.Store
	archive    storage.Archiver
	logger     *slog.Logger

	// pace is the inter-article delay hook, replaceable in tests.
	pace func(ctx context.Context, d time.Duration) error
}

// New wires a Harvester from its collaborators.
func New(
	cfg *config.Config,
	renderer render.Renderer,
	discoverer *discover.Discoverer,
	extractor *extract.Extractor,
	store *resume.Store,
	archive storage.Archiver,
	logger *slog.Logger,
) *Harvester {
	return &Harvester{
		cfg:        cfg,
		renderer:   renderer,
		discoverer: discoverer,
		extractor:  extractor,
		store:      store,
		archive:    archive,
		logger:     logger.With("component", "harvester"),
		pace:       sleepCtx,
	}
}

// Run discovers candidates for the keyword, filters out already
// committed URLs, bounds the remainder to harvest.max_articles when
// positive, and processes each candidate in order with per-item
// failure isolation. A discovery fault aborts the run; per-article
// faults never do.
func (h *Harvester) Run(ctx context.Context, keyword string) (*Report, error) {
	report := &Report{AlreadyDone: h.store.Len()}

	h.logger.Info("starting harvest",
		"keyword", keyword,
		"already_done", h.store.Len(),
		"max_articles", h.cfg.Harvest.MaxArticles,
		"wait", h.cfg.Harvest.Wait,
	)

	candidates, err := h.discoverer.Discover(ctx, keyword)
	if err != nil {
		return report, fmt.Errorf("discovery failed: %w", err)
	}
	report.Discovered = len(candidates)

	remaining := make([]types.CandidateLink, 0, len(candidates))
	for _, c := range candidates {
		if !h.store.Contains(c.Href) {
			remaining = append(remaining, c)
		}
	}
	if max := h.cfg.Harvest.MaxArticles; max > 0 && len(remaining) > max {
		remaining = remaining[:max]
	}

	h.logger.Info("candidates selected",
		"discovered", report.Discovered,
		"new", len(remaining),
	)

	for i, candidate := range remaining {
		if i > 0 && h.cfg.Harvest.Wait > 0 {
			if err := h.pace(ctx, h.cfg.Harvest.Wait); err != nil {
				return report, err
			}
		}

		report.Attempted++
		h.logger.Info("harvesting article",
			"n", i+1,
			"of", len(remaining),
			"url", candidate.Href,
		)

		switch h.processOne(ctx, candidate) {
		case OutcomeCommitted:
			report.Committed++
		case OutcomeBlocked:
			report.Blocked++
		case OutcomeFailed:
			report.Failed++
		}
	}

	h.logger.Info("harvest complete",
		"attempted", report.Attempted,
		"committed", report.Committed,
		"blocked", report.Blocked,
		"failed", report.Failed,
	)
	return report, nil
}

// processOne renders and extracts one candidate and, on success only,
// archives the record and commits the resume marker — in that order,
// so a crash between the two re-selects the URL next run rather than
// dropping it. All faults are contained to this candidate.
func (h *Harvester) processOne(ctx context.Context, candidate types.CandidateLink) Outcome {
	page, err := h.renderer.Render(ctx, candidate.Href)
	if err != nil {
		h.logger.Warn("render failed, skipping", "url", candidate.Href, "error", err)
		return OutcomeFailed
	}

	article, err := h.extractor.Extract(page)
	if err != nil {
		if errors.Is(err, types.ErrBlocked) {
			h.logger.Warn("page blocked, skipping", "url", candidate.Href)
			return OutcomeBlocked
		}
		h.logger.Warn("extraction failed, skipping", "url", candidate.Href, "error", err)
		return OutcomeFailed
	}
	// Keep the resume key stable even if the page redirected.
	article.URL = candidate.Href

	if err := h.archive.Archive(article); err != nil {
		h.logger.Warn("archive failed, skipping commit", "url", candidate.Href, "error", err)
		return OutcomeFailed
	}
	if err := h.store.Commit(candidate.Href); err != nil {
		h.logger.Warn("resume commit failed", "url", candidate.Href, "error", err)
		return OutcomeFailed
	}

	h.logger.Info("article saved", "url", candidate.Href, "date", article.Date)
	return OutcomeCommitted
}

// sleepCtx waits for the duration unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
