package domain

import (
	"fmt"
	"time"
)

// DayFormat is the ISO-8601 format used to represent calendar days as strings.
const DayFormat = "2006-01-02"

// Day is a calendar day with no time or zone component. Conversion lookups are
// keyed by Day rather than by an instant so that reconciliation produces the
// same result no matter when or where it runs.
type Day struct {
	y int
	m time.Month
	d int
}

// NewDay returns a normalized Day for the given year, month and day.
func NewDay(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) Day {
	return NewDay(t.Date())
}

// Today returns the current calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// ParseDay parses an ISO-8601 day string ("2024-05-01").
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q, want format %q: %w", s, DayFormat, err)
	}
	return NewDay(t.Date()), nil
}

// MustParseDay is like ParseDay but panics on error. For tests and constants.
func MustParseDay(s string) Day {
	d, err := ParseDay(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// time returns the canonical instant for the day: midnight UTC.
func (d Day) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Time returns the day as midnight UTC, for storage layers keyed by DATE.
func (d Day) Time() time.Time { return d.time() }

// Year returns the year of the day.
func (d Day) Year() int { return d.y }

// Month returns the month of the day.
func (d Day) Month() time.Month { return d.m }

// DayOfMonth returns the day of the month.
func (d Day) DayOfMonth() int { return d.d }

// Before reports whether d is before x.
func (d Day) Before(x Day) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Day) After(x Day) bool { return d.time().After(x.time()) }

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d == Day{} }

// String formats the day in ISO-8601.
func (d Day) String() string { return d.time().Format(DayFormat) }

// MarshalJSON encodes the day as an ISO-8601 string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes an ISO-8601 day string.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid day JSON: %s", s)
	}
	parsed, err := ParseDay(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
