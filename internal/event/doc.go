// Package event provides the candidate-event and location types shared by
// the whole pipeline.
//
// Each event is assigned a deterministic SHA1-based ID generated from its
// title, start time, and source name, so repeated scrapes of the same
// underlying item produce the same ID and the per-source cache can
// deduplicate across runs. The package also carries the date utilities for
// resolving relative and absolute date/time expressions found in scraped
// text.
package event
