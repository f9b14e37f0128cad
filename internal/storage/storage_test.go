package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhartmann/frankenevents/internal/event"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func testEvent(title string) event.Event {
	start := time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC)
	return event.New(title, "Beschreibung", event.Location{Name: "Theater Hof"}, &start, nil, "https://example.org", "test")
}

func TestLoadPendingMissingFile(t *testing.T) {
	s := newTestStore(t)
	events, err := s.LoadPending()
	require.NoError(t, err, "missing file should not error")
	assert.Empty(t, events)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	saved := []event.Event{testEvent("Jazzkonzert"), testEvent("Lesung")}

	require.NoError(t, s.SavePending(saved))

	events, err := s.LoadPending()
	require.NoError(t, err)

	if diff := cmp.Diff(saved, events); diff != "" {
		t.Errorf("queue changed across round trip (-saved +loaded):\n%s", diff)
	}
}

func TestPendingFileFormat(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SavePending([]event.Event{testEvent("Jazzkonzert")}))

	data, err := os.ReadFile(s.PendingPath())
	require.NoError(t, err)

	// The field names are a contract with the editor tooling.
	var f map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Contains(t, f, "pending_events")
	assert.Contains(t, f, "updated_at")
}

func TestAppendPendingDeduplicatesByID(t *testing.T) {
	s := newTestStore(t)

	ev := testEvent("Jazzkonzert")
	added, err := s.AppendPending([]event.Event{ev})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	// Same event again plus one new: only the new one lands.
	added, err = s.AppendPending([]event.Event{ev, testEvent("Lesung")})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	events, err := s.LoadPending()
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestLoadPendingCorruptFileIsNonFatal(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.PendingPath(), []byte("{broken"), 0644))

	events, err := s.LoadPending()
	require.NoError(t, err, "corrupt queue must not error")
	assert.Empty(t, events)
}

func TestGetEventByID(t *testing.T) {
	s := newTestStore(t)
	ev := testEvent("Jazzkonzert")
	_, err := s.AppendPending([]event.Event{ev})
	require.NoError(t, err)

	got, err := s.GetEventByID(ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jazzkonzert", got.Title)

	_, err = s.GetEventByID("nope")
	assert.Error(t, err, "unknown id must error")
}

func TestPaths(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "cache", "frankenpost.json"), s.CachePath("frankenpost"))
	assert.Equal(t, filepath.Join(dir, "verified_locations.json"), s.VerifiedPath())
	assert.Equal(t, filepath.Join(dir, "unverified_locations.json"), s.TrackedPath())
}
