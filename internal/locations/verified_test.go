package locations

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadVerified(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "verified_locations.json", `{
		"locations": {
			"Theater Hof": {
				"name": "Theater Hof",
				"lat": 50.3200,
				"lon": 11.9180,
				"address": "Kulmbacher Str., 95030 Hof"
			},
			"Freiheitshalle": {"lat": 50.319954, "lon": 11.904812}
		}
	}`)

	v, err := LoadVerified(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", v.Len())
	}

	loc, ok := v.Lookup("Theater Hof")
	if !ok {
		t.Fatal("expected exact match for Theater Hof")
	}
	if loc.Lat != 50.3200 || loc.Lon != 11.9180 {
		t.Errorf("unexpected coordinates: %v, %v", loc.Lat, loc.Lon)
	}

	// Entries without an explicit name inherit the key, and coordinates
	// are normalized to 4 decimals on load.
	loc, ok = v.Lookup("Freiheitshalle")
	if !ok {
		t.Fatal("expected match for Freiheitshalle")
	}
	if loc.Name != "Freiheitshalle" {
		t.Errorf("expected inherited name, got %q", loc.Name)
	}
	if loc.Lat != 50.3200 || loc.Lon != 11.9048 {
		t.Errorf("expected rounded coordinates, got %v, %v", loc.Lat, loc.Lon)
	}
}

func TestLookupCaseInsensitiveFallback(t *testing.T) {
	v := NewVerified(map[string]VerifiedLocation{
		"Theater Hof": {Lat: 50.3200, Lon: 11.9180},
	})

	if _, ok := v.Lookup("theater hof"); !ok {
		t.Error("expected case-insensitive fallback to match")
	}
	if _, ok := v.Lookup("  Theater Hof  "); !ok {
		t.Error("expected lookup to trim whitespace")
	}
	if _, ok := v.Lookup("Theater Selb"); ok {
		t.Error("unexpected match for unknown venue")
	}
}

func TestLoadVerifiedMissingFile(t *testing.T) {
	v, err := LoadVerified(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if v.Len() != 0 {
		t.Errorf("expected empty database, got %d entries", v.Len())
	}
}

func TestLoadVerifiedCorruptFileErrors(t *testing.T) {
	path := writeFile(t, t.TempDir(), "verified_locations.json", "{not json")
	if _, err := LoadVerified(path); err == nil {
		t.Error("corrupt verified database must be an error, not silently empty")
	}
}

func TestVerifiedLocationConversion(t *testing.T) {
	vl := VerifiedLocation{Name: "Theater Hof", Lat: 50.3200, Lon: 11.9180, Address: "Kulmbacher Str., 95030 Hof"}
	loc := vl.Location()

	if !loc.HasCoordinates() {
		t.Fatal("expected coordinates")
	}
	if loc.NeedsReview {
		t.Error("verified locations never need review")
	}
	if *loc.Lat != 50.3200 || *loc.Lon != 11.9180 {
		t.Errorf("unexpected coordinates: %v, %v", *loc.Lat, *loc.Lon)
	}
}
