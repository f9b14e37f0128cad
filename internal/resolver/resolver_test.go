package resolver

import (
	"path/filepath"
	"testing"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/geo"
	"github.com/mhartmann/frankenevents/internal/locations"
)

func testVerified() *locations.Verified {
	return locations.NewVerified(map[string]locations.VerifiedLocation{
		"Theater Hof": {
			Name:    "Theater Hof",
			Lat:     50.3200,
			Lon:     11.9180,
			Address: "Kulmbacher Str. 5, 95030 Hof",
		},
	})
}

func testTracker(t *testing.T) *locations.Tracker {
	t.Helper()
	return locations.NewTracker(filepath.Join(t.TempDir(), "unverified.json"), 0)
}

func TestResolveSuppliedCoordinatesWin(t *testing.T) {
	r := New(testVerified(), nil)

	// Even a verified venue name must not override author-placed map
	// coordinates.
	res := r.Resolve("Theater Hof", "", &geo.Coord{Lat: 50.3167, Lon: 11.9167}, "test")

	if res.Method != MethodIframe {
		t.Fatalf("expected %s, got %s", MethodIframe, res.Method)
	}
	if res.NeedsReview {
		t.Error("map-embed coordinates must not need review")
	}
	if res.Lat == nil || *res.Lat != 50.3167 || *res.Lon != 11.9167 {
		t.Errorf("unexpected coordinates: %v, %v", res.Lat, res.Lon)
	}
}

func TestResolveCoordinatesAreRounded(t *testing.T) {
	r := New(testVerified(), nil)

	res := r.Resolve("Irgendwo", "", &geo.Coord{Lat: 50.31670449, Lon: 11.91669551}, "test")

	if *res.Lat != 50.3167 || *res.Lon != 11.9167 {
		t.Errorf("expected 4-decimal rounding, got %v, %v", *res.Lat, *res.Lon)
	}
}

func TestResolveVerifiedDatabase(t *testing.T) {
	r := New(testVerified(), nil)

	res := r.Resolve("theater hof", "", nil, "test")

	if res.Method != MethodVerified {
		t.Fatalf("expected %s, got %s", MethodVerified, res.Method)
	}
	if res.NeedsReview {
		t.Error("verified hits must not need review")
	}
	if res.Name != "Theater Hof" {
		t.Errorf("expected canonical name, got %q", res.Name)
	}
	if res.Address != "Kulmbacher Str. 5, 95030 Hof" {
		t.Errorf("expected verified address, got %q", res.Address)
	}
}

func TestResolveVerifiedBeatsAddressLookup(t *testing.T) {
	r := New(testVerified(), nil)

	// The address names Kulmbach, but the verified entry must win and keep
	// the Hof coordinates.
	res := r.Resolve("Theater Hof", "Marktplatz 1, 95326 Kulmbach", nil, "test")

	if res.Method != MethodVerified {
		t.Fatalf("expected %s, got %s", MethodVerified, res.Method)
	}
	if *res.Lat != 50.3200 {
		t.Errorf("expected verified latitude, got %v", *res.Lat)
	}
}

func TestResolveAddressCityLookup(t *testing.T) {
	r := New(testVerified(), nil)

	res := r.Resolve("Irgendein Saal", "Webergasse 3, 95326 Kulmbach", nil, "test")

	if res.Method != MethodAddress {
		t.Fatalf("expected %s, got %s", MethodAddress, res.Method)
	}
	if !res.NeedsReview {
		t.Error("city-center approximations must need review")
	}
	center, _ := geo.CityCenter("Kulmbach")
	if *res.Lat != center.Lat || *res.Lon != center.Lon {
		t.Errorf("expected Kulmbach city center, got %v, %v", *res.Lat, *res.Lon)
	}
}

func TestResolveAddressWithUnknownCityFallsThrough(t *testing.T) {
	r := New(testVerified(), nil)

	// The address parses but Musterstadt is not a known city; the chain
	// must continue and end unresolved, not stop with a half result.
	res := r.Resolve("Saal", "Hauptstraße 1, 12345 Musterstadt", nil, "test")

	if res.Method != MethodUnresolved {
		t.Fatalf("expected %s, got %s", MethodUnresolved, res.Method)
	}
}

func TestResolveVenueNameCityLookup(t *testing.T) {
	r := New(testVerified(), nil)

	res := r.Resolve("Sporthalle Kulmbach", "", nil, "test")

	if res.Method != MethodVenueName {
		t.Fatalf("expected %s, got %s", MethodVenueName, res.Method)
	}
	if !res.NeedsReview {
		t.Error("city-center approximations must need review")
	}
	center, _ := geo.CityCenter("Kulmbach")
	if *res.Lat != center.Lat || *res.Lon != center.Lon {
		t.Errorf("expected Kulmbach city center, got %v, %v", *res.Lat, *res.Lon)
	}
}

func TestResolveUnresolvedNeverFabricatesCoordinates(t *testing.T) {
	tr := testTracker(t)
	r := New(testVerified(), tr)

	res := r.Resolve("Richard-Wagner-Museum", "", nil, "frankenpost")

	if res.Method != MethodUnresolved {
		t.Fatalf("expected %s, got %s", MethodUnresolved, res.Method)
	}
	if res.Lat != nil || res.Lon != nil {
		t.Fatalf("unresolved locations must carry no coordinates, got %v, %v", res.Lat, res.Lon)
	}
	if !res.NeedsReview {
		t.Error("unresolved locations must need review")
	}
	if !tr.Has("Richard-Wagner-Museum") {
		t.Error("unresolved locations must be tracked")
	}
}

func TestResolveNilTrackerIsFine(t *testing.T) {
	r := New(testVerified(), nil)
	res := r.Resolve("Unbekannter Ort", "", nil, "test")
	if res.Method != MethodUnresolved {
		t.Fatalf("expected %s, got %s", MethodUnresolved, res.Method)
	}
}

func TestNormalizeVerifiedFastPath(t *testing.T) {
	n := NewNormalizer(testVerified(), testTracker(t))

	loc := n.Normalize(event.Location{Name: "Theater Hof"}, nil, "test")

	if loc.NeedsReview {
		t.Error("verified venues must not need review")
	}
	if *loc.Lat != 50.3200 {
		t.Errorf("expected verified coordinates, got %v", *loc.Lat)
	}
}

func TestNormalizeKeepsFallbackCoordinatesFlagged(t *testing.T) {
	tr := testTracker(t)
	n := NewNormalizer(testVerified(), tr)

	lat, lon := 50.31670449, 11.9167
	loc := n.Normalize(event.Location{Name: "MAKkultur", Lat: &lat, Lon: &lon}, nil, "frankenpost")

	if !loc.NeedsReview {
		t.Fatal("fallback coordinates must stay flagged for review")
	}
	if loc.Lat == nil || *loc.Lat != 50.3167 {
		t.Errorf("expected rounded fallback latitude, got %v", loc.Lat)
	}
	if !tr.Has("MAKkultur") {
		t.Error("unresolved venue must be tracked even with fallback coordinates")
	}
}

func TestNormalizeDisambiguatesGenericVenues(t *testing.T) {
	n := NewNormalizer(testVerified(), testTracker(t))

	// "Sportheim" alone is ambiguous; map coordinates near Hof pin it down.
	loc := n.Normalize(event.Location{Name: "Sportheim"}, &geo.Coord{Lat: 50.3167, Lon: 11.9167}, "test")

	if loc.Name != "Sportheim Hof" {
		t.Errorf("expected disambiguated name, got %q", loc.Name)
	}
	if loc.NeedsReview {
		t.Error("map-embed coordinates must not need review")
	}
}

func TestNormalizeUnresolvedWithoutFallback(t *testing.T) {
	tr := testTracker(t)
	n := NewNormalizer(testVerified(), tr)

	loc := n.Normalize(event.Location{Name: "Kulturzentrum XYZ"}, nil, "stadt-hof")

	if loc.HasCoordinates() {
		t.Fatal("expected no coordinates")
	}
	if !loc.NeedsReview {
		t.Error("expected review flag")
	}

	msg, err := n.SaveTracked()
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if msg == "" {
		t.Error("expected a review hint after tracking a venue")
	}
}
