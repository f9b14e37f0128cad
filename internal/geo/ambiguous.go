package geo

import "strings"

// ambiguousNames are generic venue-type words that could refer to many
// distinct real-world places. A bare "Rathaus" on a map is useless; every
// town has one. The set is matched exactly (after case normalization), so a
// qualified name like "Rathaus Selb" is not ambiguous.
var ambiguousNames = map[string]struct{}{
	"sportheim":       {},
	"sporthalle":      {},
	"bahnhof":         {},
	"rathaus":         {},
	"feuerwehrhaus":   {},
	"schützenhaus":    {},
	"turnhalle":       {},
	"mehrzweckhalle":  {},
	"kirche":          {},
	"gemeindehaus":    {},
	"bürgerhaus":      {},
	"vereinsheim":     {},
	"festhalle":       {},
	"marktplatz":      {},
	"festplatz":       {},
	"dorfgemeinschaftshaus": {},
}

// IsAmbiguous reports whether a venue name is a bare generic venue word with
// no qualifying token.
func IsAmbiguous(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	_, ok := ambiguousNames[normalized]
	return ok
}

// Disambiguate rewrites an ambiguous venue name by appending the city its
// coordinates fall in: "Sportheim" at Hof's coordinates becomes
// "Sportheim Hof".
//
// The rewrite only happens when all of these hold:
//   - the name is ambiguous,
//   - coordinates are present (ambiguity alone is not enough to guess a city),
//   - the coordinates reverse-geocode to a known city,
//   - the name does not already contain a known city token.
//
// The last condition makes the operation idempotent: disambiguating an
// already-disambiguated name is a no-op.
func Disambiguate(name string, coord *Coord) string {
	if coord == nil || !IsAmbiguous(name) {
		return name
	}
	// Idempotence guard: a name that already carries a known city token is
	// left alone even if the ambiguity table would still match it.
	if _, hasCity := CityFromText(name); hasCity {
		return name
	}

	city, ok := CityFromCoordinates(coord.Lat, coord.Lon)
	if !ok {
		return name
	}
	return name + " " + city
}
