package atime

import (
	"fmt"
	"time"
)

// CivilDate is a calendar date with no time-of-day and no zone.
type CivilDate struct {
	Year  int        `json:"year,omitempty"`
	Month time.Month `json:"month,omitempty"`
	Day   int        `json:"day,omitempty"`
}

// CivilDateOf extracts the calendar date of t in loc. A nil loc means UTC.
func CivilDateOf(t time.Time, loc *time.Location) CivilDate {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return CivilDate{Year: y, Month: m, Day: d}
}

// ParseCivilDate parses a "YYYY-MM-DD" string. The date is a civil day; when
// an instant is needed it is treated as UTC midnight of that day.
func ParseCivilDate(s string) (CivilDate, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q: %v", s, err)
	}
	return CivilDateOf(t, time.UTC), nil
}

// AddDays returns the civil date n days later, normalizing across month and
// year boundaries.
func (cd CivilDate) AddDays(n int) CivilDate {
	t := time.Date(cd.Year, cd.Month, cd.Day+n, 0, 0, 0, 0, time.UTC)
	return CivilDateOf(t, time.UTC)
}

// Weekday returns the day of week of the civil date.
func (cd CivilDate) Weekday() time.Weekday {
	return time.Date(cd.Year, cd.Month, cd.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// Key renders the date as "YYYY-MM-DD", the form used for date comparisons.
func (cd CivilDate) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", cd.Year, cd.Month, cd.Day)
}

// Before compares civil dates chronologically.
func (cd CivilDate) Before(other CivilDate) bool {
	return cd.Key() < other.Key()
}

func (cd CivilDate) IsZero() bool { return cd == CivilDate{} }

// LocalToUTC resolves a civil date plus an HH:MM wall time in loc to a UTC
// instant, consulting the zone database at the target local instant so DST
// transitions are honored.
//
// At a skipped (spring-forward) local time the result lands immediately after
// the gap, keeping the pre-transition offset. At an ambiguous (fall-back)
// local time the later of the two UTC instants is chosen. Both choices are
// stable.
func LocalToUTC(day CivilDate, lt LocalTime, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	h, m, err := lt.Clock()
	if err != nil {
		return time.Time{}, err
	}
	t := time.Date(day.Year, day.Month, day.Day+h/24, h%24, m, 0, 0, loc)
	// A wall time that t does not show was skipped by a spring-forward
	// transition; time.Date may have landed before the gap. Apply the offset
	// in force before the transition, which places the instant after it.
	naive := time.Date(day.Year, day.Month, day.Day+h/24, h%24, m, 0, 0, time.UTC)
	if wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC); !wall.Equal(naive) {
		_, before := t.Add(-6 * time.Hour).Zone()
		return naive.Add(-time.Duration(before) * time.Second), nil
	}
	// When the wall time is ambiguous, time.Date may have picked the earlier
	// offset. Probe forward by the common transition sizes: if a later
	// instant shows the same wall clock, prefer it.
	for _, shift := range []time.Duration{time.Hour, 30 * time.Minute} {
		probe := t.Add(shift)
		if sameWallClock(probe, day, h%24, m, loc) {
			return probe.UTC(), nil
		}
	}
	return t.UTC(), nil
}

// sameWallClock reports whether t shows the given civil date and clock in loc.
func sameWallClock(t time.Time, day CivilDate, hour, minute int, loc *time.Location) bool {
	lt := t.In(loc)
	y, m, d := lt.Date()
	return y == day.Year && m == day.Month && d == day.Day &&
		lt.Hour() == hour && lt.Minute() == minute
}

// DateKey renders the UTC calendar date of t as "YYYY-MM-DD".
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ISOWeekKey renders the ISO-8601 week of t (UTC) as "<week-year>-W<week>".
// Weeks are Monday-based; the week year may differ from the calendar year at
// year boundaries.
func ISOWeekKey(t time.Time) string {
	y, w := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", y, w)
}
