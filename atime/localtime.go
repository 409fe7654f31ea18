package atime

import (
	"fmt"
	"strings"
	"time"
)

// LocalTime is a wall-clock time of day in 24-hour "HH:MM" form.
// It carries no zone; pair it with an IANA zone id wherever it is interpreted.
// "24:00" is accepted and means midnight at the end of the day.
type LocalTime string

func (lt LocalTime) IsEmpty() bool { return strings.TrimSpace(string(lt)) == "" }

func (lt LocalTime) String() string { return string(lt) }

// Clock parses the hour and minute components.
func (lt LocalTime) Clock() (hour, minute int, err error) {
	s := strings.TrimSpace(string(lt))
	if _, err = fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid local time %q: %v", s, err)
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, 0, fmt.Errorf("local time %q out of range", s)
	}
	return hour, minute, nil
}

// Validate checks the HH:MM form.
func (lt LocalTime) Validate() error {
	_, _, err := lt.Clock()
	return err
}

// MinuteOfDay returns the minute offset from midnight (0..1440).
func (lt LocalTime) MinuteOfDay() (int, error) {
	h, m, err := lt.Clock()
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

const (
	DAYOFWEEK_MON DayOfWeek = "mon"
	DAYOFWEEK_TUE DayOfWeek = "tue"
	DAYOFWEEK_WED DayOfWeek = "wed"
	DAYOFWEEK_THU DayOfWeek = "thu"
	DAYOFWEEK_FRI DayOfWeek = "fri"
	DAYOFWEEK_SAT DayOfWeek = "sat"
	DAYOFWEEK_SUN DayOfWeek = "sun"
)

// DayOfWeek names a weekday. Weeks start Monday for ISO-week math.
type DayOfWeek string

func (d DayOfWeek) IsEmpty() bool { return string(d) == "" }

func (d DayOfWeek) String() string { return strings.ToLower(string(d)) }

func (d DayOfWeek) IsValid() bool {
	switch DayOfWeek(d.String()) {
	case DAYOFWEEK_MON, DAYOFWEEK_TUE, DAYOFWEEK_WED, DAYOFWEEK_THU, DAYOFWEEK_FRI, DAYOFWEEK_SAT, DAYOFWEEK_SUN:
		return true
	default:
		return false
	}
}

// Weekday maps to the time package weekday. The second return is false for
// an unrecognized name.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	switch DayOfWeek(d.String()) {
	case DAYOFWEEK_MON:
		return time.Monday, true
	case DAYOFWEEK_TUE:
		return time.Tuesday, true
	case DAYOFWEEK_WED:
		return time.Wednesday, true
	case DAYOFWEEK_THU:
		return time.Thursday, true
	case DAYOFWEEK_FRI:
		return time.Friday, true
	case DAYOFWEEK_SAT:
		return time.Saturday, true
	case DAYOFWEEK_SUN:
		return time.Sunday, true
	default:
		return time.Monday, false
	}
}

// DayOfWeekFromWeekday converts a time.Weekday to its DayOfWeek name.
func DayOfWeekFromWeekday(wd time.Weekday) DayOfWeek {
	switch wd {
	case time.Monday:
		return DAYOFWEEK_MON
	case time.Tuesday:
		return DAYOFWEEK_TUE
	case time.Wednesday:
		return DAYOFWEEK_WED
	case time.Thursday:
		return DAYOFWEEK_THU
	case time.Friday:
		return DAYOFWEEK_FRI
	case time.Saturday:
		return DAYOFWEEK_SAT
	default:
		return DAYOFWEEK_SUN
	}
}

// DaysOfWeek is a set of weekday names.
type DaysOfWeek []DayOfWeek

// Contains reports whether wd is in the set.
func (ds DaysOfWeek) Contains(wd time.Weekday) bool {
	for _, d := range ds {
		if dwd, ok := d.Weekday(); ok && dwd == wd {
			return true
		}
	}
	return false
}

// Validate checks every member name.
func (ds DaysOfWeek) Validate() error {
	for i, d := range ds {
		if !d.IsValid() {
			return fmt.Errorf("day of week at index %d is invalid: %q", i, d)
		}
	}
	return nil
}
