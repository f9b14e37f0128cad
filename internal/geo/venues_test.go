package geo

import "testing"

func TestContainsVenueIndicator(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Richard-Wagner-Museum", true},
		{"Freiheitshalle", true}, // compound word containing "halle"
		{"Stadtkirche St. Michaelis", true},
		{"Festspielhaus Bayreuth", true},
		{"Kulturzentrum", true},
		{"Einlass ab 19 Uhr", false},
		{"Kartenvorverkauf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ContainsVenueIndicator(tt.text); got != tt.want {
				t.Errorf("ContainsVenueIndicator(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestVenueFromHeadings(t *testing.T) {
	tests := []struct {
		name     string
		headings []string
		want     string
		wantOK   bool
	}{
		{
			"first venue heading wins",
			[]string{"Veranstaltungen", "Konzert im Theater Hof", "Karten"},
			"Konzert im Theater Hof",
			true,
		},
		{
			"no venue heading",
			[]string{"Aktuelles", "Kontakt"},
			"",
			false,
		},
		{
			"whitespace trimmed",
			[]string{"  Freiheitshalle  "},
			"Freiheitshalle",
			true,
		},
		{"empty list", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := VenueFromHeadings(tt.headings)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("VenueFromHeadings(%v) = %q, %v; want %q, %v", tt.headings, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
