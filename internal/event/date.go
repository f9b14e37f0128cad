package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// relativeOffsets maps relative date phrases (German and English) to day
// offsets. Ordered longest-first so "übermorgen" is not shadowed by
// "morgen".
var relativeOffsets = []struct {
	phrase string
	days   int
}{
	{"übermorgen", 2},
	{"day after tomorrow", 2},
	{"tomorrow", 1},
	{"morgen", 1},
	{"today", 0},
	{"heute", 0},
}

var (
	timeColonPattern = regexp.MustCompile(`(\d{1,2})[:.](\d{2})\s*(?:uhr)?`)
	timeHourPattern  = regexp.MustCompile(`(\d{1,2})\s*uhr`)
	dateDMYPattern   = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	dateYMDPattern   = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// ResolveRelativeDate resolves phrases like "morgen" or "tomorrow" against
// base into a date at midnight. Returns the zero time and false when no
// phrase matches.
func ResolveRelativeDate(text string, base time.Time) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	lower := strings.ToLower(text)

	for _, ro := range relativeOffsets {
		if !containsWord(lower, ro.phrase) {
			continue
		}
		target := base.AddDate(0, 0, ro.days)
		return time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, base.Location()), true
	}

	return time.Time{}, false
}

// containsWord reports whether text contains phrase on word boundaries, so
// "morgens" does not count as "morgen".
func containsWord(text, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end == len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b >= 0x80
}

// ExtractTime extracts a clock time from text. Supports "19:30", "19.30",
// "19:30 Uhr", and "19 Uhr". Returns hour, minute, and whether a valid time
// was found.
func ExtractTime(text string) (int, int, bool) {
	if text == "" {
		return 0, 0, false
	}
	lower := strings.ToLower(text)

	for _, m := range timeColonPattern.FindAllStringSubmatch(lower, -1) {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			return hour, minute, true
		}
	}

	for _, m := range timeHourPattern.FindAllStringSubmatch(lower, -1) {
		hour, _ := strconv.Atoi(m[1])
		if hour <= 23 {
			return hour, 0, true
		}
	}

	return 0, 0, false
}

// ResolveYear picks the year for a month/day with no explicit year,
// preferring the next occurrence: if the date already passed this year, it
// lands in the next one.
func ResolveYear(month, day int, base time.Time) int {
	year := base.Year()
	candidate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, base.Location())
	// Reject impossible dates (e.g. Feb 30) that time.Date normalized away.
	if int(candidate.Month()) != month || candidate.Day() != day {
		return year
	}
	baseDay := time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())
	if candidate.Before(baseDay) {
		return year + 1
	}
	return year
}

// ParseDateText extracts an absolute date from free text. Supports
// DD.MM.YYYY (German listings) and YYYY-MM-DD. The time of day defaults to
// 18:00, the usual start of evening events, unless the text carries an
// explicit time. Returns the zero time and false when nothing parses.
func ParseDateText(text string, base time.Time) (time.Time, bool) {
	var parsed time.Time
	found := false

	if m := dateDMYPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := makeDate(year, month, day); ok {
			parsed, found = t, true
		}
	}

	if !found {
		if m := dateYMDPattern.FindStringSubmatch(text); m != nil {
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			if t, ok := makeDate(year, month, day); ok {
				parsed, found = t, true
			}
		}
	}

	if !found {
		if t, ok := ResolveRelativeDate(text, base); ok {
			parsed, found = t, true
		}
	}

	if !found {
		return time.Time{}, false
	}

	hour, minute := 18, 0
	if h, m, ok := ExtractTime(text); ok {
		hour, minute = h, m
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), hour, minute, 0, 0, time.UTC), true
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
