package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Status is the review state of a candidate event.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
)

const (
	// MaxTitleLen bounds event titles.
	MaxTitleLen = 200
	// MaxDescriptionLen bounds event descriptions.
	MaxDescriptionLen = 500
)

// Location is a venue with optional coordinates. Lat/Lon are pointers so an
// unresolved location is representable as nil rather than 0,0. Coordinates,
// when set, are always rounded to exactly 4 decimal places.
//
// NeedsReview marks coordinates that are approximations (e.g. a city
// center). A location with non-nil coordinates must carry NeedsReview=true
// unless the coordinates came from the verified database or an explicit
// map-embed URL.
type Location struct {
	Name        string   `json:"name"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Address     string   `json:"address,omitempty"`
	NeedsReview bool     `json:"needs_review,omitempty"`
}

// HasCoordinates reports whether both coordinates are set.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// Event is a candidate event produced by a source, pre-review.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    Location   `json:"location"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	ScrapedAt   time.Time  `json:"scraped_at"`
	Status      Status     `json:"status"`
	Category    string     `json:"category,omitempty"`
}

// GenerateID creates a deterministic ID from the fields that identify an
// event across scrapes: title, start time, and producing source. The same
// underlying item must always hash to the same ID or cache deduplication
// breaks.
func GenerateID(title string, start *time.Time, source string) string {
	startText := ""
	if start != nil {
		startText = start.UTC().Format(time.RFC3339)
	}
	h := sha1.New()
	h.Write([]byte(title + "|" + startText + "|" + source))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a pending Event with ID, ScrapedAt, and bounded title and
// description populated.
func New(title, description string, loc Location, start, end *time.Time, url, source string) Event {
	title = Truncate(strings.TrimSpace(title), MaxTitleLen)
	return Event{
		ID:          GenerateID(title, start, source),
		Title:       title,
		Description: Truncate(strings.TrimSpace(description), MaxDescriptionLen),
		Location:    loc,
		StartTime:   start,
		EndTime:     end,
		URL:         url,
		Source:      source,
		ScrapedAt:   time.Now().UTC(),
		Status:      StatusPending,
	}
}

// Truncate bounds s to max runes. Multi-byte text is common in German
// listings, so this counts runes, not bytes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// CacheKey derives the per-source cache key for an event. Title plus URL is
// enough to identify a listing item; the key is hashed so cache files stay
// uniform regardless of item content.
func (e Event) CacheKey() string {
	h := sha1.New()
	h.Write([]byte(e.Title + "|" + e.URL))
	return fmt.Sprintf("%x", h.Sum(nil))
}
