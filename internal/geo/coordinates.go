package geo

import (
	"math"
	"regexp"
	"strconv"
)

// Coord is a latitude/longitude pair, rounded to 4 decimals.
type Coord struct {
	Lat float64
	Lon float64
}

// Round rounds a single coordinate value to exactly 4 decimal places.
func Round(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// RoundCoord rounds both components of a coordinate pair.
func RoundCoord(c Coord) Coord {
	return Coord{Lat: Round(c.Lat), Lon: Round(c.Lon)}
}

// Map-embed URL patterns, tried in order. Each has two capture groups:
// latitude then longitude.
var iframePatterns = []*regexp.Regexp{
	// Google Maps: ?q=lat,lon or @lat,lon or &q=lat,lon
	regexp.MustCompile(`[?&@]q?=?(-?\d+\.\d+),(-?\d+\.\d+)`),
	// OpenStreetMap marker parameters: mlat=lat&mlon=lon
	regexp.MustCompile(`mlat=(-?\d+\.\d+)&mlon=(-?\d+\.\d+)`),
	// OpenStreetMap fragment: #map=zoom/lat/lon
	regexp.MustCompile(`#map=\d+/(-?\d+\.\d+)/(-?\d+\.\d+)`),
	// Apple Maps: ll=lat,lon
	regexp.MustCompile(`[?&]?ll=(-?\d+\.\d+),(-?\d+\.\d+)`),
}

// ExtractFromIframe parses a map-embed URL into a coordinate pair. The
// recognized conventions are tried in order and the first match wins. This
// is the highest-confidence coordinate origin in the pipeline, since the
// page author placed the embed, so callers treat the result as exempt from
// the needs-review flag.
//
// Returns nil when no convention matches. Never panics on malformed input.
func ExtractFromIframe(src string) *Coord {
	if src == "" {
		return nil
	}

	for _, pattern := range iframePatterns {
		m := pattern.FindStringSubmatch(src)
		if m == nil {
			continue
		}
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lon, errLon := strconv.ParseFloat(m[2], 64)
		if errLat != nil || errLon != nil {
			continue
		}
		c := RoundCoord(Coord{Lat: lat, Lon: lon})
		return &c
	}

	return nil
}

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates.
func DistanceKm(a, b Coord) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
