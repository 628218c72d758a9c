package dateutil

import (
	"fmt"
	"time"
)

// TestTimeEnv names the variable that pins "today" for deterministic runs
const TestTimeEnv = "CAL_TEST_TIME"

// dateFormats are accepted by ParseDate, most specific last
var dateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05-0700",
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// ParseDate parses date string in various formats
func ParseDate(dateStr string) (time.Time, error) {
	for _, format := range dateFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", dateStr)
}

// Today returns today's date (start of day). A CAL_TEST_TIME value in
// YYYY-MM-DD form replaces the clock; anything else is ignored.
func Today(getenv func(string) string, now func() time.Time) time.Time {
	if getenv != nil {
		if v := getenv(TestTimeEnv); v != "" {
			if t, err := time.Parse("2006-01-02", v); err == nil {
				return t
			}
		}
	}
	if now == nil {
		now = time.Now
	}
	return StartOfDay(now())
}
