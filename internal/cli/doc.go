// Package cli implements the command-line interface for frankenevents.
//
// The cli package provides the Cobra-based CLI: scraping configured sources
// into the pending-events queue, backfilling placeholder venue names from
// detail pages, listing queued events with date and city filters, and
// exporting the queue as an iCalendar file. Output is available as text or
// JSON for scripting.
package cli
