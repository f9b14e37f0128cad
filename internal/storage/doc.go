// Package storage provides JSON-based persistence for the scraping
// pipeline's data directory.
//
// The central artifact is the pending-events queue (pending_events.json),
// a read-modify-write file shared with the downstream editor tooling.
// The package also hands out the conventional paths for per-source
// caches and the location databases so every run agrees on the layout.
package storage
