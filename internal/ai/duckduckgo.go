package ai

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/mhartmann/frankenevents/internal/fetch"
	"github.com/mhartmann/frankenevents/internal/geo"
)

const duckduckgoBaseURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo is the search-snippet fallback provider. It has no model
// behind it: it queries the HTML search frontend for the event text and
// pattern-extracts a venue and address from the result snippets. Cheap,
// keyless, and correspondingly modest in what it can find.
type DuckDuckGo struct {
	baseURL string
	client  *fetch.Client
}

// NewDuckDuckGo creates the search-backed provider. It needs no key;
// an endpoint override is honored for testing.
func NewDuckDuckGo(settings Settings) (Provider, error) {
	base := settings.Endpoint
	if base == "" {
		base = duckduckgoBaseURL
	}
	return &DuckDuckGo{
		baseURL: base,
		client:  fetch.New(),
	}, nil
}

func (d *DuckDuckGo) Name() string { return "duckduckgo" }

// ExtractEventInfo searches for the first line of the text and mines the
// result snippets for a venue name and address. The prompt is ignored;
// there is no model to instruct.
func (d *DuckDuckGo) ExtractEventInfo(ctx context.Context, text, prompt string) (*EventInfo, error) {
	query := firstLine(text)
	if query == "" {
		return nil, fmt.Errorf("duckduckgo: empty query text")
	}

	body, err := d.client.Get(ctx, d.baseURL+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var snippets []string
	doc.Find(".result__snippet").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			snippets = append(snippets, t)
		}
	})
	if len(snippets) == 0 {
		return nil, fmt.Errorf("duckduckgo: no result snippets for %q", query)
	}

	info := &EventInfo{Title: query}

	for _, snippet := range snippets {
		if info.Location == nil {
			if venue, ok := venueFromSnippet(snippet); ok {
				info.Location = &LocationInfo{Name: venue}
			}
		}
		if addr, ok := geo.ExtractAddress(snippet); ok {
			if info.Location == nil {
				if city, found := geo.CityFromAddress(addr); found {
					info.Location = &LocationInfo{Name: city}
				}
			}
			info.Description = addr
			break
		}
	}

	if info.Location == nil && info.Description == "" {
		return nil, fmt.Errorf("duckduckgo: snippets carry no location for %q", query)
	}
	return info, nil
}

// venueFromSnippet picks the first short comma- or period-separated
// phrase that names a venue type. Long fragments are prose, not venue
// names, and are skipped.
func venueFromSnippet(snippet string) (string, bool) {
	for _, part := range strings.FieldsFunc(snippet, func(r rune) bool {
		return r == ',' || r == '.' || r == ';' || r == '|'
	}) {
		part = strings.TrimSpace(part)
		if part == "" || len(strings.Fields(part)) > 4 {
			continue
		}
		if geo.ContainsVenueIndicator(part) {
			return part, true
		}
	}
	return "", false
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	return strings.TrimSpace(line)
}
