package geo

import "strings"

// ExtractAddress finds the first regional postal address (street + number,
// comma, 5-digit code, city) in free text. Returns false when none matches.
func ExtractAddress(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	m := addressPattern.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}
