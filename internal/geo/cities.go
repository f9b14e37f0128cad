package geo

import (
	"regexp"
	"strings"
)

// cityCenters maps known city names to their center coordinates. Curated for
// the Hochfranken region; extending coverage means extending this table, not
// calling a geocoding API. The point of the resolution chain is that every
// coordinate in the system is editorially accountable.
var cityCenters = map[string]Coord{
	"Hof":        {Lat: 50.3167, Lon: 11.9167},
	"Bayreuth":   {Lat: 49.9440, Lon: 11.5760},
	"Selb":       {Lat: 50.1705, Lon: 12.1328},
	"Rehau":      {Lat: 50.2489, Lon: 12.0364},
	"Kulmbach":   {Lat: 50.1050, Lon: 11.4458},
	"Münchberg":  {Lat: 50.1900, Lon: 11.7900},
	"Naila":      {Lat: 50.3306, Lon: 11.7036},
	"Helmbrechts": {Lat: 50.2358, Lon: 11.7161},
	"Wunsiedel":  {Lat: 50.0383, Lon: 12.0047},
	"Marktredwitz": {Lat: 50.0040, Lon: 12.0806},
}

// maxCityRadiusKm is how far a coordinate may lie from a city center and
// still be attributed to that city.
const maxCityRadiusKm = 10.0

// CityCenter returns the center coordinates for a known city. Lookup is
// exact first, then case-insensitive.
func CityCenter(name string) (Coord, bool) {
	if c, ok := cityCenters[name]; ok {
		return c, true
	}
	for city, c := range cityCenters {
		if strings.EqualFold(city, name) {
			return c, true
		}
	}
	return Coord{}, false
}

// CityFromText finds a known city name inside free text. The match is a
// case-sensitive substring match, not an exact match, because venue names
// are usually compound: "Sporthalle Kulmbach" must yield "Kulmbach".
func CityFromText(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for city := range cityCenters {
		if strings.Contains(text, city) {
			return city, true
		}
	}
	return "", false
}

// addressPattern matches the regional postal-address shape:
// street name + house number, comma, 5-digit postal code, city.
// Example: "Maximilianstraße 33, 95444 Bayreuth".
var addressPattern = regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß\-\s.]+\s+\d+[a-z]?\s*,\s*\d{5}\s+([A-ZÄÖÜ][a-zäöüß\-]+)`)

// CityFromAddress extracts the city token from a postal address. The token
// is whatever the address names; whether it maps to known coordinates is the
// resolver's decision.
func CityFromAddress(address string) (string, bool) {
	if address == "" {
		return "", false
	}
	m := addressPattern.FindStringSubmatch(address)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// CityFromCoordinates reverse-geocodes by nearest known city center. Returns
// false when no center lies within maxCityRadiusKm; a far-away coordinate
// must never silently snap to a default city.
func CityFromCoordinates(lat, lon float64) (string, bool) {
	point := Coord{Lat: lat, Lon: lon}
	bestCity := ""
	bestDist := maxCityRadiusKm

	for city, center := range cityCenters {
		d := DistanceKm(point, center)
		if d <= bestDist {
			bestCity = city
			bestDist = d
		}
	}

	if bestCity == "" {
		return "", false
	}
	return bestCity, true
}
