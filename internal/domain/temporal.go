package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// lastNDaysPattern matches "last 30 days", "past 7 days" and the open form
// "last days" (no number).
var lastNDaysPattern = regexp.MustCompile(`(?:last|past)\s+(?:(\d+)\s+)?days?`)

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// ResolveDateRange turns a fuzzy temporal phrase into a concrete inclusive
// date range, anchored at referenceDate. The phrase is expected to be
// lower-cased by the caller. Matchers run in a fixed priority order so
// overlapping phrases ("last 30 days" also contains "days") resolve
// deterministically. An unrecognized phrase yields the zero DateRange; this
// function never fails.
func ResolveDateRange(phrase string, referenceDate time.Time) DateRange {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if phrase == "" {
		return DateRange{}
	}
	ref := truncateToDay(referenceDate)

	if strings.Contains(phrase, "last month") || strings.Contains(phrase, "previous month") {
		firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		return monthRange(firstOfMonth.AddDate(0, 0, -1))
	}

	if strings.Contains(phrase, "this month") || strings.Contains(phrase, "current month") {
		return monthRange(ref)
	}

	if m := lastNDaysPattern.FindStringSubmatch(phrase); m != nil {
		n := 30
		if m[1] != "" {
			if parsed, err := strconv.Atoi(m[1]); err == nil {
				n = parsed
			}
		}
		return DateRange{Start: ref.AddDate(0, 0, -n), End: ref}
	}

	if strings.Contains(phrase, "last week") || strings.Contains(phrase, "past week") {
		return DateRange{Start: ref.AddDate(0, 0, -7), End: ref}
	}

	for _, token := range strings.Fields(phrase) {
		if month, ok := monthsByName[strings.Trim(token, ".,!?")]; ok {
			// Always the reference year, even when the named month lies
			// after the reference month. Year inference across the boundary
			// is ambiguous and intentionally not attempted.
			start := time.Date(ref.Year(), month, 1, 0, 0, 0, 0, ref.Location())
			return monthRange(start)
		}
	}

	// Recurring year-end bonus window (Brazilian 13th salary payout period).
	if strings.Contains(phrase, "thirteenth salary") || strings.Contains(phrase, "13th salary") ||
		strings.Contains(phrase, "decimo terceiro") || strings.Contains(phrase, "décimo terceiro") {
		return DateRange{
			Start: time.Date(ref.Year(), time.November, 30, 0, 0, 0, 0, ref.Location()),
			End:   time.Date(ref.Year(), time.December, 20, 0, 0, 0, 0, ref.Location()),
		}
	}

	return DateRange{}
}

// monthRange expands any day of a month to that month's full calendar span.
// The end is computed as day zero of the following month, which is exact for
// variable month lengths and leap years.
func monthRange(day time.Time) DateRange {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	end := time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, day.Location())
	return DateRange{Start: start, End: end}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
