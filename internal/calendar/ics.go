package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/mhartmann/frankenevents/internal/event"
)

// defaultEventDuration is assumed when an event has no end time.
const defaultEventDuration = 2 * time.Hour

// GenerateICS generates an iCalendar (.ics) file for a single event.
func GenerateICS(evt *event.Event) string {
	var ics strings.Builder

	writeCalendarHeader(&ics)
	writeEvent(&ics, evt)
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// GenerateBulkICS generates one iCalendar file containing all events.
// Returns the empty string when there is nothing to export.
func GenerateBulkICS(events []event.Event, calendarName string) string {
	if len(events) == 0 {
		return ""
	}

	var ics strings.Builder

	writeCalendarHeader(&ics)
	if calendarName != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(calendarName)))
	}
	for i := range events {
		writeEvent(&ics, &events[i])
	}
	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeCalendarHeader(ics *strings.Builder) {
	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//frankenevents//frankenevents//DE\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
}

func writeEvent(ics *strings.Builder, evt *event.Event) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	ics.WriteString(fmt.Sprintf("UID:%s@frankenevents\r\n", evt.ID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", formatICSTime(time.Now().UTC())))

	// Undated events still export; a week out is a visible placeholder,
	// not a hidden guess, because the description carries no date either.
	start := time.Now().AddDate(0, 0, 7)
	if evt.StartTime != nil {
		start = *evt.StartTime
	}
	end := start.Add(defaultEventDuration)
	if evt.EndTime != nil {
		end = *evt.EndTime
	}

	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(end)))

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))

	description := evt.Description
	if evt.URL != "" {
		if description != "" {
			description += "\n\n"
		}
		description += "Details: " + evt.URL
	}
	if description != "" {
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))
	}

	location := evt.Location.Name
	if evt.Location.Address != "" {
		location = fmt.Sprintf("%s, %s", location, evt.Location.Address)
	}
	if location != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(location)))
	}
	if evt.Location.HasCoordinates() {
		ics.WriteString(fmt.Sprintf("GEO:%v;%v\r\n", *evt.Location.Lat, *evt.Location.Lon))
	}

	if evt.URL != "" {
		ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.URL))
	}

	// Only published events are confirmed; everything still pending
	// review exports as tentative.
	if evt.Status == event.StatusPublished {
		ics.WriteString("STATUS:CONFIRMED\r\n")
	} else {
		ics.WriteString("STATUS:TENTATIVE\r\n")
	}

	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
