package sources

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dayMonthRe extracts "21 JUNE" out of "SATURDAY 21 JUNE" or "12 juli" out of
// "zaterdag 12 juli"; the weekday prefix is ignored.
var dayMonthRe = regexp.MustCompile(`(\d{1,2})\s+(\w+)`)

var englishMonths = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

var dutchMonths = map[string]time.Month{
	"januari": time.January, "februari": time.February, "maart": time.March,
	"april": time.April, "mei": time.May, "juni": time.June,
	"juli": time.July, "augustus": time.August, "september": time.September,
	"oktober": time.October, "november": time.November, "december": time.December,
}

// stringField fetches a non-empty string value from a raw payload.
func stringField(raw map[string]any, key string) (string, bool) {
	v, ok := raw[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// parseNumericDate parses "18/05/2025" into a UTC midnight date.
func parseNumericDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation("02/01/2006", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseNamedDate parses a year-less "weekday day month" date such as
// "SATURDAY 21 JUNE" using the given month table and reference year.
func parseNamedDate(s string, months map[string]time.Month, year int) (time.Time, bool) {
	match := dayMonthRe.FindStringSubmatch(s)
	if match == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(match[1])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := months[strings.ToLower(match[2])]
	if !ok {
		return time.Time{}, false
	}
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

// clock is a wall-clock time of day.
type clock struct {
	hour, minute int
}

// parseClock parses "17:30" into a clock value.
func parseClock(s string) (clock, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return clock{}, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return clock{}, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return clock{}, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return clock{}, false
	}
	return clock{hour: hour, minute: minute}, true
}

// parseClockRange parses "17:30 - 18:25" into start and end clocks.
func parseClockRange(s string) (clock, clock, bool) {
	parts := strings.SplitN(s, " - ", 2)
	if len(parts) != 2 {
		return clock{}, clock{}, false
	}
	start, ok := parseClock(parts[0])
	if !ok {
		return clock{}, clock{}, false
	}
	end, ok := parseClock(parts[1])
	if !ok {
		return clock{}, clock{}, false
	}
	return start, end, true
}

// at places a clock value on a date, keeping UTC.
func (c clock) at(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.hour, c.minute, 0, 0, time.UTC)
}

// parseFraction parses an availability string like "3 / 5" or "8/10" into
// (booked-or-available, capacity).
func parseFraction(s string) (*int, *int) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	spots, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil
	}
	return &spots, &capacity
}
