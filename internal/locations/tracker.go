package locations

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/logger"
)

// DefaultTrackerMaxEntries bounds the tracked-locations file.
const DefaultTrackerMaxEntries = 500

// TrackedLocation records a venue name the resolver could not confidently
// place, for later manual curation.
type TrackedLocation struct {
	Name      string    `json:"name"`
	Count     int       `json:"count"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
	Source    string    `json:"source"`
	Lat       *float64  `json:"lat,omitempty"`
	Lon       *float64  `json:"lon,omitempty"`
	Address   string    `json:"address,omitempty"`
}

type trackerFile struct {
	Locations map[string]TrackedLocation `json:"locations"`
}

// Tracker accumulates unverified locations across a run and persists them
// for the editor review queue. Growth is bounded: beyond maxEntries the
// entries with the oldest first-seen timestamps are trimmed.
type Tracker struct {
	path       string
	maxEntries int
	entries    map[string]TrackedLocation
	log        *zap.SugaredLogger
}

// NewTracker creates a tracker persisting to path. Pass maxEntries <= 0 for
// the default bound.
func NewTracker(path string, maxEntries int) *Tracker {
	if maxEntries <= 0 {
		maxEntries = DefaultTrackerMaxEntries
	}
	return &Tracker{
		path:       path,
		maxEntries: maxEntries,
		entries:    make(map[string]TrackedLocation),
		log:        logger.Get("locations.tracker"),
	}
}

// Load reads previously tracked locations. Missing or corrupt files are
// non-fatal and yield an empty tracker.
func (t *Tracker) Load() {
	data, err := os.ReadFile(t.path)
	if err != nil {
		if !os.IsNotExist(err) {
			t.log.Warnw("could not read tracked locations, starting empty", "path", t.path, "error", err)
		}
		return
	}

	var f trackerFile
	if err := json.Unmarshal(data, &f); err != nil {
		t.log.Warnw("tracked locations file corrupt, starting empty", "path", t.path, "error", err)
		return
	}
	if f.Locations != nil {
		t.entries = f.Locations
	}
}

// Track records one sighting of an unverified location. Repeat sightings
// bump the reference count and last-seen metadata.
func (t *Tracker) Track(loc event.Location, source string) {
	if loc.Name == "" {
		return
	}
	now := time.Now().UTC()

	entry, ok := t.entries[loc.Name]
	if !ok {
		entry = TrackedLocation{
			Name:      loc.Name,
			FirstSeen: now,
		}
	}
	entry.Count++
	entry.LastSeen = now
	entry.Source = source
	if loc.HasCoordinates() {
		entry.Lat = loc.Lat
		entry.Lon = loc.Lon
	}
	if loc.Address != "" {
		entry.Address = loc.Address
	}
	t.entries[loc.Name] = entry

	t.trim()
}

// trim drops the oldest entries (by first-seen) beyond the bound.
func (t *Tracker) trim() {
	if len(t.entries) <= t.maxEntries {
		return
	}

	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := t.entries[names[i]], t.entries[names[j]]
		if !a.FirstSeen.Equal(b.FirstSeen) {
			return a.FirstSeen.Before(b.FirstSeen)
		}
		return names[i] < names[j]
	})

	for _, name := range names[:len(names)-t.maxEntries] {
		delete(t.entries, name)
	}
}

// Len returns the number of tracked locations.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// Has reports whether a venue name is currently tracked.
func (t *Tracker) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Save persists the tracker. The file is consumed by external editor
// tooling, so the shape must stay {"locations": {...}}.
func (t *Tracker) Save() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return fmt.Errorf("creating tracker directory: %w", err)
	}

	data, err := json.MarshalIndent(trackerFile{Locations: t.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding tracked locations: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0644); err != nil {
		return fmt.Errorf("writing tracked locations: %w", err)
	}
	return nil
}

// HintMessage summarizes the review queue for the run summary. Empty when
// nothing needs attention.
func (t *Tracker) HintMessage() string {
	if len(t.entries) == 0 {
		return ""
	}
	return fmt.Sprintf("%d location(s) need review; run the location editor to verify them", len(t.entries))
}
