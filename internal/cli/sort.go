package cli

import (
	"sort"
	"strings"

	"github.com/mhartmann/frankenevents/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate   SortOrder = "date"
	SortByTitle  SortOrder = "title"
	SortBySource SortOrder = "source"
)

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.Slice(events, func(i, j int) bool {
			return compareByDate(&events[i], &events[j])
		})
	case SortByTitle:
		sort.Slice(events, func(i, j int) bool {
			if events[i].Title != events[j].Title {
				return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
			}
			return compareByDate(&events[i], &events[j])
		})
	case SortBySource:
		sort.Slice(events, func(i, j int) bool {
			if events[i].Source != events[j].Source {
				return events[i].Source < events[j].Source
			}
			return compareByDate(&events[i], &events[j])
		})
	}
}

// compareByDate compares two events by start time. Undated events sort
// last; ties fall back to source then title.
func compareByDate(i, j *event.Event) bool {
	if i.StartTime != nil && j.StartTime != nil {
		return i.StartTime.Before(*j.StartTime)
	}
	if i.StartTime != nil {
		return true
	}
	if j.StartTime != nil {
		return false
	}

	if i.Source != j.Source {
		return i.Source < j.Source
	}
	return strings.ToLower(i.Title) < strings.ToLower(j.Title)
}
