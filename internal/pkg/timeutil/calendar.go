package timeutil

import (
	"fmt"
	"time"
)

// DateLayout is the canonical YYYY-MM-DD date key layout.
const DateLayout = "2006-01-02"

// DateKey returns the calendar date of t in the given site-local zone.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key in the given zone.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, key, loc)
}

// MonthRange returns the first instant of the month and the first instant of
// the next month in the given zone.
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// MonthDateKeys returns one YYYY-MM-DD key per calendar day of the month,
// in order.
func MonthDateKeys(year int, month time.Month, loc *time.Location) []string {
	start, end := MonthRange(year, month, loc)
	days := make([]string, 0, 31)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}

var weekdayLabelsJA = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// WeekdayLabel returns the single-character Japanese weekday label for a
// YYYY-MM-DD key. Unknown keys return an empty label.
func WeekdayLabel(dateKey string, loc *time.Location) string {
	t, err := ParseDateKey(dateKey, loc)
	if err != nil {
		return ""
	}
	return weekdayLabelsJA[int(t.Weekday())]
}

// MonthKey formats a year/month pair as YYYY-MM.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
