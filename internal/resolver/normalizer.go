package resolver

import (
	"github.com/mhartmann/frankenevents/internal/event"
	"github.com/mhartmann/frankenevents/internal/geo"
	"github.com/mhartmann/frankenevents/internal/locations"
)

// Normalizer is the thin orchestration sources call for every candidate
// location: verified fast path, full resolver chain, disambiguation, and
// tracking of anything that still needs editor attention.
type Normalizer struct {
	verified *locations.Verified
	tracker  *locations.Tracker
	resolver *Resolver
}

// NewNormalizer wires a Normalizer over the shared stores.
func NewNormalizer(verified *locations.Verified, tracker *locations.Tracker) *Normalizer {
	return &Normalizer{
		verified: verified,
		tracker:  tracker,
		resolver: New(verified, tracker),
	}
}

// Resolver exposes the underlying strategy chain (used by the backfill).
func (n *Normalizer) Resolver() *Resolver {
	return n.resolver
}

// Normalize attaches trusted-or-flagged coordinates to a raw candidate
// location. embedCoords are coordinates extracted from a map-embed URL on
// the source page, the only coordinate provenance exempt from review;
// coordinates already present on loc (for instance a source's configured
// default) are kept only as a flagged fallback.
func (n *Normalizer) Normalize(loc event.Location, embedCoords *geo.Coord, source string) event.Location {
	// Fast path for the common case: the venue is already curated.
	if vl, ok := n.verified.Lookup(loc.Name); ok {
		return vl.Location()
	}

	res := n.resolver.Resolve(loc.Name, loc.Address, embedCoords, source)
	out := res.Location()

	// Nothing resolved but the source carried fallback coordinates (e.g.
	// its configured default location): keep them so the event is still
	// mappable, but never silently: the review flag stays set.
	if res.Method == MethodUnresolved && loc.HasCoordinates() {
		lat := geo.Round(*loc.Lat)
		lon := geo.Round(*loc.Lon)
		out.Lat = &lat
		out.Lon = &lon
		out.NeedsReview = true
	}

	if out.HasCoordinates() {
		out.Name = geo.Disambiguate(out.Name, &geo.Coord{Lat: *out.Lat, Lon: *out.Lon})
	}

	return out
}

// SaveTracked persists the review queue and returns the hint message for
// the run summary ("" when nothing needs attention).
func (n *Normalizer) SaveTracked() (string, error) {
	if n.tracker == nil {
		return "", nil
	}
	if err := n.tracker.Save(); err != nil {
		return "", err
	}
	return n.tracker.HintMessage(), nil
}
