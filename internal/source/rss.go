package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/mhartmann/frankenevents/internal/event"
)

// Feed scrapes RSS and Atom feeds. gofeed handles both formats behind
// one parser, so a single implementation serves the "rss" and "atom"
// source types.
type Feed struct {
	base
}

// Scrape fetches and parses the feed and returns the candidates that
// pass the source filter.
func (s *Feed) Scrape(ctx context.Context) ([]event.Event, error) {
	body, err := s.client.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	var events []event.Event
	for _, item := range parsed.Items {
		if len(events) >= s.maxItems {
			break
		}
		ev, ok := s.parseItem(item)
		if !ok {
			continue
		}
		if !s.keep(&ev) {
			continue
		}
		events = append(events, ev)
	}

	s.log.Infow("feed scraped", "items", len(parsed.Items), "events", len(events))
	return events, nil
}

func (s *Feed) parseItem(item *gofeed.Item) (event.Event, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		s.log.Debugw("skipping untitled feed item", "link", item.Link)
		return event.Event{}, false
	}

	start := feedStartTime(item)
	loc := s.normalize(s.defaultLocation(), nil)

	ev := event.New(title, stripHTML(item.Description), loc, &start, nil, item.Link, s.cfg.Name)
	ev.Category = s.cfg.Options.Category
	return ev, true
}

// feedStartTime prefers the item's published timestamp, then updated.
// Feeds that date nothing get tomorrow evening; a pending event with a
// guessed date is reviewable, an undated one disappears from calendars.
func feedStartTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	tomorrow := time.Now().AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 18, 0, 0, 0, tomorrow.Location())
}

// stripHTML flattens feed descriptions, which are frequently HTML
// fragments, into plain text.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
