package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mhartmann/frankenevents/internal/ai"
	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/fetch"
	"github.com/mhartmann/frankenevents/internal/filter"
	"github.com/mhartmann/frankenevents/internal/geo"
	"github.com/mhartmann/frankenevents/internal/logger"
	"github.com/mhartmann/frankenevents/internal/resolver"
)

// Options is the per-source configuration bag.
type Options struct {
	// Category tag stamped on every candidate from this source
	Category string `json:"category,omitempty"`

	// Candidates containing one of these keywords are dropped
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`

	// Fallback location for listings that carry no venue. Optional;
	// its coordinates are always flagged for review downstream.
	DefaultLocation *event.Location `json:"default_location,omitempty"`

	// Candidates starting further ahead than this are dropped; zero
	// disables the check
	MaxDaysAhead int `json:"max_days_ahead,omitempty"`
}

// Config describes one configured source. The schema is a hard contract
// with the deployment configuration.
type Config struct {
	Name    string  `json:"name"`
	URL     string  `json:"url"`
	Type    string  `json:"type"`
	Enabled bool    `json:"enabled"`
	Options Options `json:"options,omitempty"`
}

// Source is a configured origin of event listings.
type Source interface {
	Name() string
	Scrape(ctx context.Context) ([]event.Event, error)
}

// Deps carries the shared collaborators a source needs. Normalizer and
// Providers may be nil/empty; the source then emits raw candidates and
// skips AI fallback extraction.
type Deps struct {
	Client     *fetch.Client
	Normalizer *resolver.Normalizer
	Providers  []ai.Provider

	// MaxItems caps how many candidates one source may emit per run;
	// zero means the default cap.
	MaxItems int
}

// New constructs the source implementation for cfg.Type. An unknown type
// or missing required field is a configuration error and fails loudly;
// it indicates a broken deployment, not bad scraped data.
func New(cfg Config, deps Deps) (Source, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, fmt.Errorf("source: name is required")
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, fmt.Errorf("source %q: url is required", cfg.Name)
	}
	if deps.Client == nil {
		deps.Client = fetch.New()
	}

	b := newBase(cfg, deps)
	switch cfg.Type {
	case "rss", "atom":
		return &Feed{base: b}, nil
	case "html":
		return &HTML{base: b}, nil
	case "frankenpost":
		return &Frankenpost{base: b}, nil
	default:
		return nil, fmt.Errorf("source %q: unknown type %q", cfg.Name, cfg.Type)
	}
}

// base holds what every source implementation shares.
type base struct {
	cfg        Config
	client     *fetch.Client
	normalizer *resolver.Normalizer
	providers  []ai.Provider
	filter     *filter.Filter
	maxItems   int
	log        *zap.SugaredLogger
}

func newBase(cfg Config, deps Deps) base {
	f := filter.New()
	f.ExcludeKeywords = cfg.Options.ExcludeKeywords
	f.MaxDaysAhead = cfg.Options.MaxDaysAhead

	maxItems := deps.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}

	return base{
		cfg:        cfg,
		client:     deps.Client,
		normalizer: deps.Normalizer,
		providers:  deps.Providers,
		filter:     f,
		maxItems:   maxItems,
		log:        logger.Get("source." + cfg.Name),
	}
}

func (b *base) Name() string { return b.cfg.Name }

// keep reports whether a candidate passes the configured filter.
func (b *base) keep(ev *event.Event) bool {
	if b.filter.Matches(ev) {
		return true
	}
	b.log.Debugw("candidate filtered out", "title", ev.Title)
	return false
}

// defaultLocation returns the configured fallback location, or a bare
// placeholder named after the source. It never fabricates coordinates.
func (b *base) defaultLocation() event.Location {
	if b.cfg.Options.DefaultLocation != nil {
		return *b.cfg.Options.DefaultLocation
	}
	return event.Location{Name: b.cfg.Name, NeedsReview: true}
}

// normalize attaches coordinates through the resolution chain. Without a
// normalizer the raw candidate passes through unchanged.
func (b *base) normalize(loc event.Location, embed *geo.Coord) event.Location {
	if b.normalizer == nil {
		return loc
	}
	return b.normalizer.Normalize(loc, embed, b.cfg.Name)
}

// extractWithAI runs the configured providers in order until one returns
// a usable record. Returns nil when extraction fails everywhere, which
// callers treat as "fall back to patterns".
func (b *base) extractWithAI(ctx context.Context, text string) *ai.EventInfo {
	for _, p := range b.providers {
		info, err := p.ExtractEventInfo(ctx, text, "")
		if err != nil {
			b.log.Debugw("provider extraction failed", "provider", p.Name(), "error", err)
			continue
		}
		return info
	}
	return nil
}

// startTimeFromText parses a date out of listing text, falling back to
// one week ahead at the default event hour when nothing parses.
func (b *base) startTimeFromText(text string) time.Time {
	if t, ok := event.ParseDateText(text, time.Now()); ok {
		return t
	}
	next := time.Now().AddDate(0, 0, 7)
	return time.Date(next.Year(), next.Month(), next.Day(), 18, 0, 0, 0, next.Location())
}
