package filter

import (
	"testing"
	"time"
)

func TestParseDateRangeFullDates(t *testing.T) {
	from, to, err := ParseDateRange("01.03.2026-15.04.2026")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected from: %v", from)
	}
	if !to.Equal(time.Date(2026, 4, 15, 23, 59, 59, 0, time.UTC)) {
		t.Errorf("unexpected to: %v", to)
	}
}

func TestParseDateRangeShortForm(t *testing.T) {
	from, to, err := ParseDateRange("1.3.-15.3.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Day() != 1 || from.Month() != time.March {
		t.Errorf("unexpected from: %v", from)
	}
	if to.Day() != 15 || to.Month() != time.March {
		t.Errorf("unexpected to: %v", to)
	}
	if to.Hour() != 23 || to.Minute() != 59 {
		t.Errorf("expected end of day, got %v", to)
	}
}

func TestParseDateRangeYearWrap(t *testing.T) {
	from, to, err := ParseDateRange("15.12.-10.1.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if to.Year() != from.Year()+1 {
		t.Errorf("expected end date in next year: from=%v to=%v", from, to)
	}
}

func TestParseDateRangeSingleDay(t *testing.T) {
	from, to, err := ParseDateRange("15.03.2026")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.Day() != 15 || to.Day() != 15 {
		t.Errorf("expected single day, got %v - %v", from, to)
	}
	if from.Hour() != 0 || to.Hour() != 23 {
		t.Errorf("expected whole day covered, got %v - %v", from, to)
	}
}

func TestParseDateRangeMonthName(t *testing.T) {
	tests := []string{"März", "maerz", "Dezember", "okt"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			from, to, err := ParseDateRange(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if from.Day() != 1 {
				t.Errorf("expected first of month, got %v", from)
			}
			if to.Before(*from) {
				t.Errorf("end before start: %v - %v", from, to)
			}
		})
	}
}

func TestParseDateRangeErrors(t *testing.T) {
	tests := []string{
		"",
		"kein datum",
		"32.1.-5.2.",
		"15.13.2026",
		"15.3.2026-1.3.2026",
		"31.04.2026",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if _, _, err := ParseDateRange(input); err == nil {
				t.Errorf("expected error for %q", input)
			}
		})
	}
}
