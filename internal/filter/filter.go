// Package filter provides candidate filtering for scraped events.
//
// Each source carries filter criteria from its configuration:
//   - Keyword exclusion (case-insensitive substring match on title/description)
//   - Category allow-list
//   - Maximum days ahead (drop events too far in the future)
//
// The CLI additionally builds date-range filters for listing queued events.
//
// Example usage:
//
//	f := filter.New()
//	f.ExcludeKeywords = []string{"abgesagt"}
//	f.MaxDaysAhead = 90
//
//	kept := f.Apply(events)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/mhartmann/frankenevents/internal/event"
)

// Filter represents event filtering criteria.
type Filter struct {
	// Date range filtering (inclusive)
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Events whose title or description contains one of these keywords
	// are rejected (case-insensitive substring match)
	ExcludeKeywords []string `json:"exclude_keywords,omitempty"`

	// Category allow-list; empty means all categories pass
	Categories []string `json:"categories,omitempty"`

	// City filtering against the location name/address
	// (case-insensitive substring match)
	Cities []string `json:"cities,omitempty"`

	// Events starting more than this many days in the future are rejected;
	// zero disables the check
	MaxDaysAhead int `json:"max_days_ahead,omitempty"`
}

// New creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func New() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria.
// Returns true if the filter would match all events.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.ExcludeKeywords) == 0 &&
		len(f.Categories) == 0 &&
		len(f.Cities) == 0 &&
		f.MaxDaysAhead == 0
}

// Matches checks if an event passes all active filter criteria.
// An empty filter matches all events. Events without a start time pass
// all date-based checks; a missing date is a review problem, not a
// filtering decision.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.IsEmpty() {
		return true
	}

	if evt.StartTime != nil {
		if f.DateFrom != nil && evt.StartTime.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && evt.StartTime.After(*f.DateTo) {
			return false
		}
		if f.MaxDaysAhead > 0 {
			horizon := time.Now().AddDate(0, 0, f.MaxDaysAhead)
			if evt.StartTime.After(horizon) {
				return false
			}
		}
	}

	if len(f.ExcludeKeywords) > 0 {
		haystack := strings.ToLower(evt.Title + " " + evt.Description)
		for _, kw := range f.ExcludeKeywords {
			if kw == "" {
				continue
			}
			if strings.Contains(haystack, strings.ToLower(kw)) {
				return false
			}
		}
	}

	if len(f.Categories) > 0 {
		matched := false
		for _, cat := range f.Categories {
			if strings.EqualFold(evt.Category, cat) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(f.Cities) > 0 {
		matched := false
		locLower := strings.ToLower(evt.Location.Name + " " + evt.Location.Address)
		for _, city := range f.Cities {
			if strings.Contains(locLower, strings.ToLower(city)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

// Apply applies the filter to a list of events and returns only matching
// events. If the filter is empty, returns the original list unchanged.
func (f *Filter) Apply(events []event.Event) []event.Event {
	if f.IsEmpty() {
		return events
	}

	var filtered []event.Event
	for i := range events {
		if f.Matches(&events[i]) {
			filtered = append(filtered, events[i])
		}
	}

	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}

	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}

	if len(f.ExcludeKeywords) > 0 {
		parts = append(parts, fmt.Sprintf("Excluding: %s", strings.Join(f.ExcludeKeywords, ", ")))
	}

	if len(f.Categories) > 0 {
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(f.Categories, ", ")))
	}

	if len(f.Cities) > 0 {
		parts = append(parts, fmt.Sprintf("Cities: %s", strings.Join(f.Cities, ", ")))
	}

	if f.MaxDaysAhead > 0 {
		parts = append(parts, fmt.Sprintf("Max days ahead: %d", f.MaxDaysAhead))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
// All slices and pointers are copied to new memory locations,
// ensuring modifications to the clone don't affect the original.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		MaxDaysAhead: f.MaxDaysAhead,
	}

	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}

	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}

	if len(f.ExcludeKeywords) > 0 {
		clone.ExcludeKeywords = make([]string, len(f.ExcludeKeywords))
		copy(clone.ExcludeKeywords, f.ExcludeKeywords)
	}

	if len(f.Categories) > 0 {
		clone.Categories = make([]string, len(f.Categories))
		copy(clone.Categories, f.Categories)
	}

	if len(f.Cities) > 0 {
		clone.Cities = make([]string, len(f.Cities))
		copy(clone.Cities, f.Cities)
	}

	return clone
}
