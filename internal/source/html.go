package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/geo"
)

// listingSelectors are tried in order against a listing page; the first
// selector with hits wins. Ordered from specific to generic so a page
// with proper event markup is not mined via bare <article> tags.
var listingSelectors = []string{
	".event", ".veranstaltung", `[class*="event"]`,
	`[class*="calendar"]`, "article", ".item",
}

// defaultMaxItems caps how many items one listing page may emit when the
// configuration names no limit.
const defaultMaxItems = 20

// HTML scrapes generic event listing pages via CSS-selector heuristics.
type HTML struct {
	base
}

// Scrape fetches the listing page and extracts candidates from the first
// matching selector group.
func (s *HTML) Scrape(ctx context.Context) ([]event.Event, error) {
	body, err := s.client.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	var events []event.Event
	for _, selector := range listingSelectors {
		items := doc.Find(selector)
		if items.Length() == 0 {
			continue
		}

		items.EachWithBreak(func(i int, item *goquery.Selection) bool {
			if len(events) >= s.maxItems {
				return false
			}
			ev, ok := s.parseElement(item)
			if !ok {
				return true
			}
			if !s.keep(&ev) {
				return true
			}
			events = append(events, ev)
			return true
		})
		break
	}

	s.log.Infow("listing scraped", "events", len(events))
	return events, nil
}

func (s *HTML) parseElement(item *goquery.Selection) (event.Event, bool) {
	title := strings.TrimSpace(item.Find("h1, h2, h3, h4, a").First().Text())
	if title == "" {
		return event.Event{}, false
	}

	description := strings.TrimSpace(item.Find("p, div, span").First().Text())
	link := s.resolveLink(item)
	start := s.startTimeFromText(item.Text())

	// A map embed inside the listing item is the best location signal
	// the page can give us.
	var embed *geo.Coord
	item.Find("iframe[src]").EachWithBreak(func(_ int, frame *goquery.Selection) bool {
		src, _ := frame.Attr("src")
		if c := geo.ExtractFromIframe(src); c != nil {
			embed = c
			return false
		}
		return true
	})

	loc := s.normalize(s.defaultLocation(), embed)

	ev := event.New(title, description, loc, &start, nil, link, s.cfg.Name)
	ev.Category = s.cfg.Options.Category
	return ev, true
}

// resolveLink returns the item's first href resolved against the listing
// URL, or the listing URL itself when the item links nowhere.
func (s *HTML) resolveLink(item *goquery.Selection) string {
	href, ok := item.Find("a[href]").First().Attr("href")
	if !ok {
		return s.cfg.URL
	}
	return resolveURL(s.cfg.URL, href)
}

func resolveURL(baseRaw, href string) string {
	base, err := url.Parse(baseRaw)
	if err != nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return baseRaw
	}
	return base.ResolveReference(ref).String()
}
