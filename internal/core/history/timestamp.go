package history

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedTimestamp is returned when a history record's time cannot be parsed.
var ErrMalformedTimestamp = errors.New("malformed history timestamp")

const (
	// runTimeLayout is the strict form of the service timestamp once the
	// date/time separator has been normalized.
	runTimeLayout = "2006-01-02T15:04:05.999999999"

	// DayLabelLayout renders "5 June, 2024".
	DayLabelLayout = "2 January, 2006"
)

// NormalizeRunTime replaces the space the history service puts between
// date and time with the "T" separator expected by the parser.
func NormalizeRunTime(raw string) string {
	return strings.Replace(strings.TrimSpace(raw), " ", "T", 1)
}

// ParseRunTime parses a history timestamp. Times without an offset are
// interpreted in loc; a nil loc means time.Local.
func ParseRunTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	normalized := NormalizeRunTime(raw)
	if t, err := time.ParseInLocation(runTimeLayout, normalized, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, normalized); err == nil {
		return t.In(loc), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, raw)
}

// DayLabel returns the calendar day label a record is grouped under.
func DayLabel(t time.Time) string {
	return t.Format(DayLabelLayout)
}

// startOfDay truncates t to local midnight, DST-safe.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
