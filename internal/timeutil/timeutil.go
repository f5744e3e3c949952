package timeutil

import (
	"strings"
	"time"
)

// ISODateLayout is the YYYY-MM-DD layout used for Notion date filters.
const ISODateLayout = "2006-01-02"

// Clock returns the current time. Callers inject it so tests can pin "today".
type Clock func() time.Time

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func FormatISODate(value time.Time) string {
	return value.Format(ISODateLayout)
}

// ParseISODate parses value strictly as YYYY-MM-DD in the local time zone.
func ParseISODate(value string) (time.Time, error) {
	return time.ParseInLocation(ISODateLayout, value, time.Local)
}

// Today formats the calendar day of clock in its own location.
func Today(clock Clock) string {
	if clock == nil {
		clock = time.Now
	}
	return FormatISODate(clock())
}

// FixedClock returns a Clock that always reports value.
func FixedClock(value time.Time) Clock {
	return func() time.Time { return value }
}

// IsISODate reports whether value is a valid YYYY-MM-DD date.
func IsISODate(value string) bool {
	if strings.TrimSpace(value) != value {
		return false
	}
	_, err := ParseISODate(value)
	return err == nil
}
