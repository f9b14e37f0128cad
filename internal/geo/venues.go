package geo

import "strings"

// venueTypes are German venue-type tokens. They frequently appear embedded
// in compound words ("Freiheitshalle" contains "halle"), so detection is a
// case-insensitive substring match rather than a word match.
var venueTypes = []string{
	"Museum", "Halle", "Schloss", "Galerie", "Theater",
	"Kirche", "Zentrum", "Haus", "Platz", "Rathaus",
	"Saal", "Kulturzentrum", "Bibliothek", "Stadthalle",
	"Konzerthaus", "Oper", "Festspielhaus", "Dom",
}

// ContainsVenueIndicator reports whether text contains a venue-type token,
// including agglutinated compounds.
func ContainsVenueIndicator(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, vt := range venueTypes {
		if strings.Contains(lower, strings.ToLower(vt)) {
			return true
		}
	}
	return false
}

// VenueFromHeadings returns the first heading text that names a venue, or
// false when none does. Headings are passed in document order, so the most
// prominent candidate wins.
func VenueFromHeadings(headings []string) (string, bool) {
	for _, h := range headings {
		h = strings.TrimSpace(h)
		if ContainsVenueIndicator(h) {
			return h, true
		}
	}
	return "", false
}
