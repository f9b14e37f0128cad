package resolver

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/fetch"
	"github.com/mhartmann/frankenevents/internal/geo"
	"github.com/mhartmann/frankenevents/internal/locations"
	"github.com/mhartmann/frankenevents/internal/logger"
)

// genericNames are placeholder location names some sources emit when the
// listing carries no venue. Events with these names are worth a second
// look at their detail page.
var genericNames = map[string]bool{
	"Hof":         true,
	"Frankenpost": true,
}

// IsGenericName reports whether a location name is a known placeholder.
func IsGenericName(name string) bool {
	return genericNames[strings.TrimSpace(name)]
}

var (
	labelPattern = regexp.MustCompile(`(?i)(?:Ort|Veranstaltungsort|Location|Venue|Wo):\s*(.+)`)

	streetPattern = regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß]+(?:straße|str\.|weg|platz|allee)\s+\d+[a-z]?`)
	plzPattern    = regexp.MustCompile(`\d{5}\s+[A-ZÄÖÜ][a-zäöüß\-]+`)
)

// Change records one backfilled event for the run report.
type Change struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	OldLocation string `json:"old_location"`
	NewLocation string `json:"new_location"`
	URL         string `json:"url"`
}

// BackfillSummary is the outcome of one backfill run.
type BackfillSummary struct {
	TotalChecked int      `json:"total_checked"`
	Resolved     int      `json:"resolved_count"`
	Failed       int      `json:"failed_count"`
	DryRun       bool     `json:"dry_run"`
	Changes      []Change `json:"changes,omitempty"`
}

// Backfill revisits queued events whose location is a generic placeholder
// and scrapes their detail pages for the actual venue.
type Backfill struct {
	client   *fetch.Client
	verified *locations.Verified
	log      *zap.SugaredLogger
}

// NewBackfill creates a Backfill. verified may be nil when no curated
// database is available; resolved names are then kept as-is.
func NewBackfill(client *fetch.Client, verified *locations.Verified) *Backfill {
	return &Backfill{
		client:   client,
		verified: verified,
		log:      logger.Get("backfill"),
	}
}

// Run scans events for generic location names, fetches each detail page,
// and rewrites the location in place. With dryRun set the events are left
// untouched and the summary reports what would change.
func (b *Backfill) Run(ctx context.Context, events []event.Event, dryRun bool) BackfillSummary {
	summary := BackfillSummary{DryRun: dryRun}

	for i := range events {
		ev := &events[i]
		if !IsGenericName(ev.Location.Name) {
			continue
		}
		summary.TotalChecked++

		if ev.URL == "" {
			b.log.Debugw("no detail URL", "title", ev.Title)
			summary.Failed++
			continue
		}

		found, err := b.extractFromURL(ctx, ev.URL)
		if err != nil {
			b.log.Debugw("detail page fetch failed", "url", ev.URL, "error", err)
			summary.Failed++
			continue
		}
		if found == nil || IsGenericName(found.Name) {
			summary.Failed++
			continue
		}

		summary.Changes = append(summary.Changes, Change{
			EventID:     ev.ID,
			Title:       event.Truncate(ev.Title, 50),
			OldLocation: ev.Location.Name,
			NewLocation: found.Name,
			URL:         ev.URL,
		})
		summary.Resolved++

		if dryRun {
			continue
		}
		b.apply(ev, found)
	}

	return summary
}

// apply rewrites the event's location with the scraped venue. When the
// venue turns out to be curated, the whole location is upgraded to the
// verified entry; otherwise the placeholder's coordinates are kept and the
// review flag stays set.
func (b *Backfill) apply(ev *event.Event, found *event.Location) {
	if b.verified != nil {
		if vl, ok := b.verified.Lookup(found.Name); ok {
			ev.Location = vl.Location()
			return
		}
	}
	ev.Location.Name = found.Name
	if found.Address != "" {
		ev.Location.Address = found.Address
	}
	ev.Location.NeedsReview = true
}

func (b *Backfill) extractFromURL(ctx context.Context, url string) (*event.Location, error) {
	body, err := b.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return ExtractVenueFromDetailPage(doc), nil
}

// ExtractVenueFromDetailPage pulls a venue name (and, when present, an
// address) out of an event detail page. Strategies in order of trust:
// labeled text, schema.org microdata, venue-ish CSS classes, table rows.
// Returns nil when no usable name was found.
func ExtractVenueFromDetailPage(doc *goquery.Document) *event.Location {
	loc := &event.Location{}
	pageText := doc.Text()

	if m := labelPattern.FindStringSubmatch(pageText); m != nil {
		loc.Name = cleanVenueName(m[1])
	}

	if elem := doc.Find(`[itemtype*="schema.org/Event"]`).First(); elem.Length() > 0 {
		venue := elem.Find(`[itemprop="location"]`).First()
		if venue.Length() > 0 {
			if name := strings.TrimSpace(venue.Find(`[itemprop="name"]`).First().Text()); name != "" {
				loc.Name = name
			}
			loc.Address = strings.TrimSpace(venue.Find(`[itemprop="address"]`).First().Text())
		}
	}

	if loc.Name == "" {
		doc.Find(`[class*="location"], [class*="venue"], [class*="ort"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if len([]rune(text)) > 2 && !IsGenericName(text) && text != "Bayern" {
				loc.Name = text
				return false
			}
			return true
		})
	}

	if loc.Name == "" {
		doc.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
			cells := row.Find("td, th")
			if cells.Length() < 2 {
				return true
			}
			label := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
			if !strings.Contains(label, "ort") && !strings.Contains(label, "location") &&
				!strings.Contains(label, "venue") && !strings.Contains(label, "wo") {
				return true
			}
			venue := strings.TrimSpace(cells.Eq(1).Text())
			if len([]rune(venue)) > 2 && !IsGenericName(venue) {
				loc.Name = venue
				return false
			}
			return true
		})
	}

	if loc.Address == "" {
		if addr, ok := geo.ExtractAddress(pageText); ok {
			loc.Address = addr
		} else if m := streetPattern.FindString(pageText); m != "" {
			loc.Address = m
		} else if m := plzPattern.FindString(pageText); m != "" {
			loc.Address = m
		}
	}

	if loc.Name == "" {
		return nil
	}
	return loc
}

// cleanVenueName trims label captures down to the venue itself.
func cleanVenueName(s string) string {
	if i := strings.IndexAny(s, ",|\n"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= 2 {
		return ""
	}
	return s
}
