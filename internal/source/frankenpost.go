package source

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/geo"
)

// frankenpostSelectors extend the generic listing selectors with the
// portal's table-row and detail-link markup.
var frankenpostSelectors = []string{
	".event", ".veranstaltung", `[class*="event"]`,
	"article", ".item", "tr[onclick]", `a[href*="detail.php"]`,
}

var detailLabelPattern = regexp.MustCompile(`(?i)(?:Ort|Veranstaltungsort|Location|Adresse|Venue):\s*(.+)`)

// descriptionSelectors are tried in order on a detail page.
var descriptionSelectors = []string{
	".description", ".event-description", ".beschreibung",
	`[class*="description"]`, "article p", ".content p",
}

// Frankenpost scrapes the Frankenpost event portal. The listing page
// only carries titles, dates and detail links; the actual venue lives on
// the per-event detail page, so scraping is two-phase: listing first,
// then one fetch per event (bounded by the per-source item cap).
type Frankenpost struct {
	base
}

type frankenpostListing struct {
	title    string
	url      string
	dateText string
}

// Scrape runs the two-phase fetch. A failing detail page skips that one
// event and keeps the rest of the listing.
func (s *Frankenpost) Scrape(ctx context.Context) ([]event.Event, error) {
	body, err := s.client.Get(ctx, s.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing listing: %w", err)
	}

	listings := s.extractListings(doc)
	s.log.Infow("listing scraped", "links", len(listings))

	if len(listings) > s.maxItems {
		listings = listings[:s.maxItems]
	}

	var events []event.Event
	for _, li := range listings {
		ev, err := s.scrapeDetail(ctx, li)
		if err != nil {
			s.log.Warnw("detail page failed", "title", li.title, "url", li.url, "error", err)
			continue
		}
		if !s.keep(&ev) {
			continue
		}
		events = append(events, ev)
	}

	return events, nil
}

// extractListings pulls (title, detail URL, date text) triples from the
// listing page. Only links into detail.php with an event_id count; the
// first selector that yields any wins.
func (s *Frankenpost) extractListings(doc *goquery.Document) []frankenpostListing {
	var listings []frankenpostListing
	seen := make(map[string]bool)

	for _, selector := range frankenpostSelectors {
		doc.Find(selector).Each(func(_ int, item *goquery.Selection) {
			title := strings.TrimSpace(item.Find("h1, h2, h3, h4, a").First().Text())
			if title == "" {
				title = strings.TrimSpace(item.Text())
			}
			if title == "" {
				return
			}

			href, ok := item.Find(`a[href*="detail.php"]`).First().Attr("href")
			if !ok {
				if node := goquery.NodeName(item); node == "a" {
					href, _ = item.Attr("href")
				}
			}
			if !strings.Contains(href, "detail.php") || !strings.Contains(href, "event_id=") {
				return
			}

			detailURL := resolveURL(s.cfg.URL, href)
			if seen[detailURL] {
				return
			}
			seen[detailURL] = true

			listings = append(listings, frankenpostListing{
				title:    title,
				url:      detailURL,
				dateText: item.Text(),
			})
		})

		if len(listings) > 0 {
			break
		}
	}

	return listings
}

func (s *Frankenpost) scrapeDetail(ctx context.Context, li frankenpostListing) (event.Event, error) {
	body, err := s.client.Get(ctx, li.url)
	if err != nil {
		return event.Event{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return event.Event{}, err
	}

	loc, embed := s.extractDetailLocation(ctx, li.title, doc)
	start := s.startTimeFromText(li.dateText)

	ev := event.New(li.title, s.extractDescription(doc), s.normalize(loc, embed), &start, nil, li.url, s.cfg.Name)
	ev.Category = s.cfg.Options.Category
	return ev, nil
}

// extractDetailLocation mines the detail page for a venue, in order of
// trust: map embed, labeled fields, postal address, venue-ish headings,
// AI extraction. Sources with none of these fall back to the configured
// default location.
func (s *Frankenpost) extractDetailLocation(ctx context.Context, title string, doc *goquery.Document) (event.Location, *geo.Coord) {
	var embed *geo.Coord
	doc.Find("iframe[src]").EachWithBreak(func(_ int, frame *goquery.Selection) bool {
		src, _ := frame.Attr("src")
		if c := geo.ExtractFromIframe(src); c != nil {
			embed = c
			return false
		}
		return true
	})

	loc := event.Location{}
	pageText := doc.Text()

	if m := detailLabelPattern.FindStringSubmatch(pageText); m != nil {
		loc.Name = cleanLabelValue(m[1])
	}

	if addr, ok := geo.ExtractAddress(pageText); ok {
		loc.Address = addr
		if loc.Name == "" {
			loc.Name = addr
		}
	}

	if loc.Name == "" {
		var headings []string
		doc.Find("h1, h2, h3, h4").Each(func(_ int, h *goquery.Selection) {
			headings = append(headings, strings.TrimSpace(h.Text()))
		})
		if venue, ok := geo.VenueFromHeadings(headings); ok {
			loc.Name = venue
		}
	}

	if loc.Name == "" && embed == nil {
		if info := s.extractWithAI(ctx, title+"\n\n"+event.Truncate(pageText, 2000)); info != nil && info.Location != nil {
			loc.Name = strings.TrimSpace(info.Location.Name)
		}
	}

	if loc.Name == "" {
		loc = s.defaultLocation()
	}
	return loc, embed
}

func (s *Frankenpost) extractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return strings.TrimSpace(doc.Find("p").First().Text())
}

// cleanLabelValue trims a labeled capture down to the value itself.
func cleanLabelValue(s string) string {
	if i := strings.IndexAny(s, ",|"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= 3 {
		return ""
	}
	return s
}
