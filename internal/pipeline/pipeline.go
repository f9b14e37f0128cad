// Package pipeline orchestrates a scrape run: it instantiates the
// configured sources, runs them against their processed-item caches,
// and appends what is new to the pending-events queue.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/mhartmann/frankenevents/internal/ai"
	"github.com/mhartmann/frankenevents/internal/config"
	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/fetch"
	"github.com/mhartmann/frankenevents/internal/locations"
	"github.com/mhartmann/frankenevents/internal/logger"
	"github.com/mhartmann/frankenevents/internal/resolver"
	"github.com/mhartmann/frankenevents/internal/source"
	"github.com/mhartmann/frankenevents/internal/storage"
)

// SourceResult is the per-source outcome of a run.
type SourceResult struct {
	Name    string `json:"name"`
	Scraped int    `json:"scraped"`
	Cached  int    `json:"cached"`
	Added   int    `json:"added"`
	Err     string `json:"error,omitempty"`
}

// Summary is the outcome of one scrape run.
type Summary struct {
	RunID         string         `json:"run_id"`
	Sources       []SourceResult `json:"sources"`
	SourcesFailed int            `json:"sources_failed"`
	Scraped       int            `json:"scraped"`
	SkippedCached int            `json:"skipped_cached"`
	Added         int            `json:"added"`
	Hint          string         `json:"hint,omitempty"`
	Duration      time.Duration  `json:"duration"`
}

// Pipeline wires the shared collaborators for scrape runs.
type Pipeline struct {
	cfg        *config.Config
	store      *storage.Store
	verified   *locations.Verified
	tracker    *locations.Tracker
	normalizer *resolver.Normalizer
	deps       source.Deps
	metrics    *logger.Metrics
	log        *zap.SugaredLogger

	// Progress reporting on the terminal; disabled when stderr is not
	// a TTY (cron runs, CI).
	showProgress bool
}

// New builds a Pipeline from the deployment configuration. A corrupt
// verified-locations database is fatal; curated data must never be
// silently ignored.
func New(cfg *config.Config) (*Pipeline, error) {
	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	verified, err := locations.LoadVerified(store.VerifiedPath())
	if err != nil {
		return nil, fmt.Errorf("loading verified locations: %w", err)
	}

	tracker := locations.NewTracker(store.TrackedPath(), cfg.TrackerMaxEntries)
	tracker.Load()

	normalizer := resolver.NewNormalizer(verified, tracker)
	client := fetch.New()

	return &Pipeline{
		cfg:        cfg,
		store:      store,
		verified:   verified,
		tracker:    tracker,
		normalizer: normalizer,
		deps: source.Deps{
			Client:     client,
			Normalizer: normalizer,
			Providers:  ai.Available(cfg.AI),
			MaxItems:   cfg.MaxEventsPerSource,
		},
		metrics:      logger.NewMetrics(),
		log:          logger.Get("pipeline"),
		showProgress: isatty.IsTerminal(os.Stderr.Fd()),
	}, nil
}

// Store exposes the pipeline's storage layer for CLI subcommands.
func (p *Pipeline) Store() *storage.Store { return p.store }

// Verified exposes the curated locations database for CLI subcommands.
func (p *Pipeline) Verified() *locations.Verified { return p.verified }

// Normalizer exposes the shared resolution chain for CLI subcommands.
func (p *Pipeline) Normalizer() *resolver.Normalizer { return p.normalizer }

// Client exposes the shared HTTP client for CLI subcommands.
func (p *Pipeline) Client() *fetch.Client { return p.deps.Client }

// Run executes one scrape over all enabled sources. A broken source
// configuration is fatal; a source failing at runtime is logged, counted,
// and skipped.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}

	enabled := p.cfg.EnabledSources()
	p.log.Infow("run started", "run_id", summary.RunID, "sources", len(enabled))

	bar := p.progressBar(len(enabled))

	for _, srcCfg := range enabled {
		src, err := source.New(srcCfg, p.deps)
		if err != nil {
			return nil, err
		}

		result := p.runSource(ctx, src)
		summary.Sources = append(summary.Sources, result)
		summary.Scraped += result.Scraped
		summary.SkippedCached += result.Cached
		summary.Added += result.Added
		if result.Err != "" {
			summary.SourcesFailed++
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	hint, err := p.normalizer.SaveTracked()
	if err != nil {
		p.log.Warnw("saving tracked locations failed", "error", err)
	}
	summary.Hint = hint
	summary.Duration = time.Since(start)

	p.metrics.RecordTiming("run", summary.Duration)
	p.log.Infow("run finished",
		"run_id", summary.RunID,
		"scraped", summary.Scraped,
		"added", summary.Added,
		"cached", summary.SkippedCached,
		"failed_sources", summary.SourcesFailed,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (p *Pipeline) runSource(ctx context.Context, src source.Source) SourceResult {
	result := SourceResult{Name: src.Name()}
	started := time.Now()

	events, err := src.Scrape(ctx)
	if err != nil {
		p.log.Warnw("source failed", "source", src.Name(), "error", err)
		result.Err = err.Error()
		return result
	}
	result.Scraped = len(events)
	p.metrics.Add("events_scraped", int64(len(events)))

	cache := source.NewCache(p.store.CachePath(src.Name()), p.cfg.CacheMaxEntries)
	cache.Load()

	var fresh []event.Event
	for _, ev := range events {
		key := ev.CacheKey()
		if cache.IsProcessed(key) {
			result.Cached++
			continue
		}
		cache.MarkProcessed(key)
		fresh = append(fresh, ev)
	}
	p.metrics.Add("events_cached", int64(result.Cached))

	added, err := p.store.AppendPending(fresh)
	if err != nil {
		p.log.Warnw("appending pending events failed", "source", src.Name(), "error", err)
		result.Err = err.Error()
		return result
	}
	result.Added = added
	p.metrics.Add("events_added", int64(added))

	if err := cache.Save(); err != nil {
		p.log.Warnw("saving cache failed", "source", src.Name(), "error", err)
	}

	p.metrics.RecordTiming("source."+src.Name(), time.Since(started))
	return result
}

func (p *Pipeline) progressBar(total int) *progressbar.ProgressBar {
	if !p.showProgress || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("scraping"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
