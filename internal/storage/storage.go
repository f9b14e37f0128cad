package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/logger"
)

// Store handles persistence of the pending-events queue and hands out
// the data-directory paths the rest of the pipeline persists under.
type Store struct {
	dataDir string
	log     *zap.SugaredLogger
}

// pendingFile is the on-disk shape of the queue. External editor tooling
// consumes this file; the field names are a contract.
type pendingFile struct {
	PendingEvents []event.Event `json:"pending_events"`
	UpdatedAt     string        `json:"updated_at,omitempty"`
}

// New creates a Store rooted at dataDir, creating the directory if needed.
func New(dataDir string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{
		dataDir: dataDir,
		log:     logger.Get("storage"),
	}, nil
}

// PendingPath returns the pending-events file path.
func (s *Store) PendingPath() string {
	return filepath.Join(s.dataDir, "pending_events.json")
}

// CachePath returns the processed-key cache path for a source.
func (s *Store) CachePath(sourceName string) string {
	return filepath.Join(s.dataDir, "cache", sourceName+".json")
}

// VerifiedPath returns the curated locations database path.
func (s *Store) VerifiedPath() string {
	return filepath.Join(s.dataDir, "verified_locations.json")
}

// TrackedPath returns the unverified locations review-queue path.
func (s *Store) TrackedPath() string {
	return filepath.Join(s.dataDir, "unverified_locations.json")
}

// LoadPending loads the queued events. A missing file is an empty queue;
// a corrupt file is logged and treated as empty so a damaged queue never
// blocks a scrape run.
func (s *Store) LoadPending() ([]event.Event, error) {
	data, err := os.ReadFile(s.PendingPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading pending events: %w", err)
	}

	var f pendingFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.log.Warnw("pending events file corrupt, starting empty", "path", s.PendingPath(), "error", err)
		return nil, nil
	}

	return f.PendingEvents, nil
}

// SavePending writes the queue back to disk.
func (s *Store) SavePending(events []event.Event) error {
	if events == nil {
		events = []event.Event{}
	}

	data, err := json.MarshalIndent(pendingFile{
		PendingEvents: events,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pending events: %w", err)
	}

	if err := os.WriteFile(s.PendingPath(), data, 0644); err != nil {
		return fmt.Errorf("writing pending events: %w", err)
	}

	return nil
}

// AppendPending merges new candidates into the queue, deduplicating by
// event ID, and persists the result. Returns how many were actually added.
func (s *Store) AppendPending(events []event.Event) (int, error) {
	existing, err := s.LoadPending()
	if err != nil {
		return 0, err
	}

	known := make(map[string]bool, len(existing))
	for _, ev := range existing {
		known[ev.ID] = true
	}

	added := 0
	for _, ev := range events {
		if ev.ID == "" || known[ev.ID] {
			continue
		}
		known[ev.ID] = true
		existing = append(existing, ev)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	return added, s.SavePending(existing)
}

// GetEventByID retrieves a queued event by ID.
func (s *Store) GetEventByID(eventID string) (*event.Event, error) {
	events, err := s.LoadPending()
	if err != nil {
		return nil, err
	}

	for i := range events {
		if events[i].ID == eventID {
			return &events[i], nil
		}
	}

	return nil, fmt.Errorf("event not found: %s", eventID)
}
