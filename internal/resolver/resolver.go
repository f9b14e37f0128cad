package resolver

import (
	"strings"

	"go.uber.org/zap"

	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/geo"
	"github.com/mhartmann/frankenevents/internal/locations"
	"github.com/mhartmann/frankenevents/internal/logger"
)

// Method identifies which strategy of the chain produced a result.
type Method string

const (
	// MethodIframe: coordinates supplied upstream from a map-embed URL.
	// Author-placed, high confidence.
	MethodIframe Method = "iframe_extraction"
	// MethodVerified: exact or case-insensitive hit in the curated
	// verified-locations database.
	MethodVerified Method = "verified_database"
	// MethodAddress: city extracted from a postal address, resolved to
	// the city center. An approximation.
	MethodAddress Method = "address_city_lookup"
	// MethodVenueName: city token found inside the venue name itself,
	// resolved to the city center. An approximation.
	MethodVenueName Method = "venue_name_city_lookup"
	// MethodUnresolved: nothing matched. No coordinates.
	MethodUnresolved Method = "unresolved"
)

// Result is the outcome of one resolution.
type Result struct {
	Name        string   `json:"name"`
	Lat         *float64 `json:"lat"`
	Lon         *float64 `json:"lon"`
	Address     string   `json:"address,omitempty"`
	Method      Method   `json:"resolution_method"`
	NeedsReview bool     `json:"needs_review"`
}

// Location converts the result into the shared Location type.
func (r Result) Location() event.Location {
	return event.Location{
		Name:        r.Name,
		Lat:         r.Lat,
		Lon:         r.Lon,
		Address:     r.Address,
		NeedsReview: r.NeedsReview,
	}
}

// Resolver runs the ordered strategy chain against the verified database
// and hands everything it cannot place to the tracker.
type Resolver struct {
	verified *locations.Verified
	tracker  *locations.Tracker
	log      *zap.SugaredLogger
}

// New creates a Resolver. The tracker may be nil (e.g. dry runs); unresolved
// names are then simply not recorded.
func New(verified *locations.Verified, tracker *locations.Tracker) *Resolver {
	return &Resolver{
		verified: verified,
		tracker:  tracker,
		log:      logger.Get("resolver"),
	}
}

// Resolve maps a venue name, an optional address, and optional map-derived
// coordinates to a best-effort coordinate with explicit confidence.
//
// Strategies are tried strictly in order; the first success terminates the
// chain even if a later strategy might have produced a "better" result:
//
//  1. supplied coordinates (map embed)          needs_review=false
//  2. verified database                         needs_review=false
//  3. city from address -> city center          needs_review=true
//  4. city from venue name -> city center       needs_review=true
//  5. unresolved: nil coordinates               needs_review=true
//
// Stage 5 never fabricates a default coordinate. A wrong-but-plausible
// marker on the map is strictly worse than a missing one.
func (r *Resolver) Resolve(name, address string, coords *geo.Coord, source string) Result {
	name = strings.TrimSpace(name)

	// Strategy 1: map-embed coordinates.
	if coords != nil {
		c := geo.RoundCoord(*coords)
		return Result{
			Name:        name,
			Lat:         &c.Lat,
			Lon:         &c.Lon,
			Address:     address,
			Method:      MethodIframe,
			NeedsReview: false,
		}
	}

	// Strategy 2: verified database.
	if vl, ok := r.verified.Lookup(name); ok {
		lat, lon := vl.Lat, vl.Lon
		addr := vl.Address
		if addr == "" {
			addr = address
		}
		return Result{
			Name:        vl.Name,
			Lat:         &lat,
			Lon:         &lon,
			Address:     addr,
			Method:      MethodVerified,
			NeedsReview: false,
		}
	}

	// Strategy 3: city from the postal address.
	if address != "" {
		if city, ok := geo.CityFromAddress(address); ok {
			if center, known := geo.CityCenter(city); known {
				lat, lon := center.Lat, center.Lon
				return Result{
					Name:        name,
					Lat:         &lat,
					Lon:         &lon,
					Address:     address,
					Method:      MethodAddress,
					NeedsReview: true,
				}
			}
			r.log.Debugw("address names an unknown city", "name", name, "city", city)
		}
	}

	// Strategy 4: city token inside the venue name.
	if city, ok := geo.CityFromText(name); ok {
		if center, known := geo.CityCenter(city); known {
			lat, lon := center.Lat, center.Lon
			return Result{
				Name:        name,
				Lat:         &lat,
				Lon:         &lon,
				Address:     address,
				Method:      MethodVenueName,
				NeedsReview: true,
			}
		}
	}

	// Strategy 5: unresolved. Track for manual curation.
	result := Result{
		Name:        name,
		Address:     address,
		Method:      MethodUnresolved,
		NeedsReview: true,
	}
	if r.tracker != nil && name != "" {
		r.tracker.Track(result.Location(), source)
	}
	return result
}
