package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseDateRange parses a German-style date range string into start and end
// times.
//
// Supported formats:
//   - "1.3.-15.3." or "01.03.-15.03." - Numeric day.month range
//   - "01.03.2026-15.04.2026" - Full dates with year
//   - "15.3." - Single day
//   - "März" - Entire month (German month names)
//
// When no year is given the parser infers one:
//   - If the month is in the past, assumes next year
//   - For cross-month ranges, if end month < start month, end is in next year
//
// Returns (dateFrom, dateTo, error). Times are in UTC.
// Start time is at 00:00:00, end time is at 23:59:59.
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	// Format 1: "DD.MM.YYYY-DD.MM.YYYY"
	reFull := regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})\s*-\s*(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	if m := reFull.FindStringSubmatch(input); m != nil {
		from, err := makeDay(m[3], m[2], m[1], false)
		if err != nil {
			return nil, nil, err
		}
		to, err := makeDay(m[6], m[5], m[4], true)
		if err != nil {
			return nil, nil, err
		}
		if from.After(*to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}
		return from, to, nil
	}

	// Format 2: "DD.MM.-DD.MM." (year inferred)
	reShort := regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.\s*-\s*(\d{1,2})\.(\d{1,2})\.?$`)
	if m := reShort.FindStringSubmatch(input); m != nil {
		month1, err := parseMonthNumber(m[2])
		if err != nil {
			return nil, nil, err
		}
		month2, err := parseMonthNumber(m[4])
		if err != nil {
			return nil, nil, err
		}

		year1 := getYearForMonth(month1)
		year2 := year1
		// A range like "15.12.-10.1." wraps into the next year.
		if month2 < month1 {
			year2++
		}

		from, err := makeDay(strconv.Itoa(year1), m[2], m[1], false)
		if err != nil {
			return nil, nil, err
		}
		to, err := makeDay(strconv.Itoa(year2), m[4], m[3], true)
		if err != nil {
			return nil, nil, err
		}
		if from.After(*to) {
			return nil, nil, fmt.Errorf("start date must be before end date")
		}
		return from, to, nil
	}

	// Format 3: single day "DD.MM." or "DD.MM.YYYY"
	reDay := regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})?$`)
	if m := reDay.FindStringSubmatch(input); m != nil {
		year := m[3]
		if year == "" {
			month, err := parseMonthNumber(m[2])
			if err != nil {
				return nil, nil, err
			}
			year = strconv.Itoa(getYearForMonth(month))
		}
		from, err := makeDay(year, m[2], m[1], false)
		if err != nil {
			return nil, nil, err
		}
		to, _ := makeDay(year, m[2], m[1], true)
		return from, to, nil
	}

	// Format 4: German month name, entire month.
	if month := parseMonthName(input); month != 0 {
		year := getYearForMonth(month)
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Last day of month
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use '1.3.-15.3.', '01.03.2026-15.04.2026', '15.3.', or a month name")
}

func makeDay(year, month, day string, endOfDay bool) (*time.Time, error) {
	y, _ := strconv.Atoi(year)
	m, err := parseMonthNumber(month)
	if err != nil {
		return nil, err
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return nil, fmt.Errorf("invalid day: %s", day)
	}

	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31.4. becomes 1.5.); reject that.
	if t.Day() != d || t.Month() != m {
		return nil, fmt.Errorf("invalid date: %s.%s.%s", day, month, year)
	}
	if endOfDay {
		t = time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	}
	return &t, nil
}

func parseMonthNumber(s string) (time.Month, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 12 {
		return 0, fmt.Errorf("invalid month: %s", s)
	}
	return time.Month(n), nil
}

// parseMonthName converts a German month name to time.Month.
// Returns 0 for unknown names.
func parseMonthName(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"januar": time.January, "jan": time.January,
		"februar": time.February, "feb": time.February,
		"märz": time.March, "maerz": time.March, "mär": time.March,
		"april": time.April, "apr": time.April,
		"mai": time.May,
		"juni": time.June, "jun": time.June,
		"juli": time.July, "jul": time.July,
		"august": time.August, "aug": time.August,
		"september": time.September, "sep": time.September,
		"oktober": time.October, "okt": time.October,
		"november": time.November, "nov": time.November,
		"dezember": time.December, "dez": time.December,
	}

	return months[name]
}

// getYearForMonth returns the appropriate year for a given month
// If the month has already passed this year, returns next year
func getYearForMonth(month time.Month) int {
	now := time.Now()
	year := now.Year()

	// If month is in the past, use next year
	if month < now.Month() {
		year++
	}

	return year
}
