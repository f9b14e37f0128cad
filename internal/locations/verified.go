package locations

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/geo"
)

// verifiedFile mirrors the on-disk shape:
// {"locations": {"Theater Hof": {"name": ..., "lat": ..., "lon": ..., "address": ...}}}
type verifiedFile struct {
	Locations map[string]VerifiedLocation `json:"locations"`
}

// VerifiedLocation is a trusted venue entry maintained by editors.
type VerifiedLocation struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Address string  `json:"address,omitempty"`
}

// Verified is the read-only verified-locations database. Lookup is by venue
// name, case-sensitive first with a case-insensitive fallback.
type Verified struct {
	byName map[string]VerifiedLocation
}

// LoadVerified reads the verified-locations file. A missing file yields an
// empty database (valid for fresh deployments); a malformed file is an
// error, because silently ignoring curated data would reintroduce the
// guessing this database exists to prevent.
func LoadVerified(path string) (*Verified, error) {
	v := &Verified{byName: make(map[string]VerifiedLocation)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return nil, fmt.Errorf("reading verified locations: %w", err)
	}

	var f verifiedFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing verified locations: %w", err)
	}

	for name, loc := range f.Locations {
		if loc.Name == "" {
			loc.Name = name
		}
		loc.Lat = geo.Round(loc.Lat)
		loc.Lon = geo.Round(loc.Lon)
		v.byName[name] = loc
	}
	return v, nil
}

// NewVerified builds an in-memory database, used by tests and the backfill.
func NewVerified(entries map[string]VerifiedLocation) *Verified {
	byName := make(map[string]VerifiedLocation, len(entries))
	for name, loc := range entries {
		if loc.Name == "" {
			loc.Name = name
		}
		loc.Lat = geo.Round(loc.Lat)
		loc.Lon = geo.Round(loc.Lon)
		byName[name] = loc
	}
	return &Verified{byName: byName}
}

// Lookup finds a venue by name: exact match first, then case-insensitive.
func (v *Verified) Lookup(name string) (VerifiedLocation, bool) {
	name = strings.TrimSpace(name)
	if loc, ok := v.byName[name]; ok {
		return loc, true
	}
	for key, loc := range v.byName {
		if strings.EqualFold(key, name) {
			return loc, true
		}
	}
	return VerifiedLocation{}, false
}

// Len returns the number of verified entries.
func (v *Verified) Len() int {
	return len(v.byName)
}

// Location converts a verified entry into the shared Location type. Verified
// coordinates never need review.
func (vl VerifiedLocation) Location() event.Location {
	lat, lon := vl.Lat, vl.Lon
	return event.Location{
		Name:    vl.Name,
		Lat:     &lat,
		Lon:     &lon,
		Address: vl.Address,
	}
}
