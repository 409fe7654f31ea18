package atime

import (
	"strings"
	"time"
)

const (
	TIMEUNIT_HOUR  TimeUnit = "hour"
	TIMEUNIT_DAY   TimeUnit = "day"
	TIMEUNIT_WEEK  TimeUnit = "week"
	TIMEUNIT_MONTH TimeUnit = "month"
	TIMEUNIT_YEAR  TimeUnit = "year"
)

// TimeUnit defines a calendar unit for window math. Weeks start Monday.
type TimeUnit string

func (t TimeUnit) IsEmpty() bool { return string(t) == "" }

func (t TimeUnit) String() string {
	return strings.ToLower(string(t))
}

func (t TimeUnit) IsValid() bool {
	switch t {
	case TIMEUNIT_HOUR, TIMEUNIT_DAY, TIMEUNIT_WEEK, TIMEUNIT_MONTH, TIMEUNIT_YEAR:
		return true
	default:
		return false
	}
}

func (t TimeUnit) Default() TimeUnit {
	if t.IsEmpty() {
		return TIMEUNIT_DAY // Assume daily is the default
	}
	return t
}

// StartOfUnit returns the start of the calendar unit containing t, evaluated
// in loc. A nil loc means UTC. Calendar math never uses approximate durations.
func StartOfUnit(t time.Time, unit TimeUnit, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	y, m, d := lt.Date()
	switch unit.Default() {
	case TIMEUNIT_HOUR:
		return time.Date(y, m, d, lt.Hour(), 0, 0, 0, loc)
	case TIMEUNIT_WEEK:
		// Roll back to Monday.
		back := (int(lt.Weekday()) - int(time.Monday) + 7) % 7
		return time.Date(y, m, d-back, 0, 0, 0, 0, loc)
	case TIMEUNIT_MONTH:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case TIMEUNIT_YEAR:
		return time.Date(y, 1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// EndOfUnit returns the exclusive upper bound of the unit containing t,
// which equals the start of the next unit.
func EndOfUnit(t time.Time, unit TimeUnit, loc *time.Location) time.Time {
	return NextUnitStart(StartOfUnit(t, unit, loc), unit, loc)
}

// NextUnitStart advances a unit start to the start of the following unit.
// Day and larger units are advanced by civil date so DST days keep their
// local midnight boundary.
func NextUnitStart(start time.Time, unit TimeUnit, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := start.In(loc)
	y, m, d := lt.Date()
	switch unit.Default() {
	case TIMEUNIT_HOUR:
		return time.Date(y, m, d, lt.Hour()+1, 0, 0, 0, loc)
	case TIMEUNIT_WEEK:
		return time.Date(y, m, d+7, 0, 0, 0, 0, loc)
	case TIMEUNIT_MONTH:
		return time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
	case TIMEUNIT_YEAR:
		return time.Date(y+1, 1, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	}
}
