package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/filter"
	"github.com/mhartmann/frankenevents/internal/pipeline"
	"github.com/mhartmann/frankenevents/internal/resolver"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteSummary writes a scrape run summary in the specified format.
func WriteSummary(w io.Writer, summary *pipeline.Summary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	for _, src := range summary.Sources {
		if src.Err != "" {
			fmt.Fprintf(w, "%s: FAILED (%s)\n", src.Name, src.Err)
			continue
		}
		fmt.Fprintf(w, "%s: %d scraped, %d cached, %d new\n", src.Name, src.Scraped, src.Cached, src.Added)
	}

	if summary.Added == 0 {
		fmt.Fprintln(w, "\nNo new events found.")
	} else {
		fmt.Fprintf(w, "\n%d new events queued for review.\n", summary.Added)
	}
	if summary.SourcesFailed > 0 {
		fmt.Fprintf(w, "%d sources failed.\n", summary.SourcesFailed)
	}
	if summary.Hint != "" {
		fmt.Fprintln(w, summary.Hint)
	}

	return nil
}

// WriteBackfill writes a location backfill report in the specified format.
func WriteBackfill(w io.Writer, summary *resolver.BackfillSummary, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, summary)
	}

	if summary.TotalChecked == 0 {
		fmt.Fprintln(w, "No events with placeholder locations.")
		return nil
	}

	for _, change := range summary.Changes {
		fmt.Fprintf(w, "%s: %q -> %q\n", change.Title, change.OldLocation, change.NewLocation)
	}

	verb := "resolved"
	if summary.DryRun {
		verb = "would resolve"
	}
	fmt.Fprintf(w, "\nChecked %d, %s %d, failed %d.\n",
		summary.TotalChecked, verb, summary.Resolved, summary.Failed)

	return nil
}

// EventList is the JSON shape of the list command output.
type EventList struct {
	Events []event.Event `json:"events"`
	Count  int           `json:"count"`
	Filter string        `json:"filter,omitempty"`
}

// WriteEvents writes queued events in the specified format. Verbose text
// output adds the event ID, source, and URL per entry.
func WriteEvents(w io.Writer, events []event.Event, f *filter.Filter, format OutputFormat, verbose bool) error {
	if format == FormatJSON {
		list := EventList{Events: events, Count: len(events)}
		if list.Events == nil {
			list.Events = []event.Event{}
		}
		if !f.IsEmpty() {
			list.Filter = f.String()
		}
		return writeJSON(w, list)
	}

	if !f.IsEmpty() {
		fmt.Fprintf(w, "Filter: %s\n\n", f.String())
	}

	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for i := range events {
		evt := &events[i]

		line := fmt.Sprintf("%s  %s", eventDateLabel(evt), evt.Title)
		if evt.Location.Name != "" {
			line += fmt.Sprintf("  (%s)", evt.Location.Name)
		}
		if evt.Location.NeedsReview {
			line += "  [needs review]"
		}
		fmt.Fprintln(w, line)

		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", evt.ID)
			fmt.Fprintf(w, "     Source: %s\n", evt.Source)
			if evt.URL != "" {
				fmt.Fprintf(w, "     URL: %s\n", evt.URL)
			}
			if evt.Location.Address != "" {
				fmt.Fprintf(w, "     Address: %s\n", evt.Location.Address)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))

	return nil
}
