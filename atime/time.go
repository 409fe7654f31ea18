package atime

import (
	"time"

	"github.com/teambition/rrule-go"
)

// ToPointer converts a time.Time to a pointer to time.Time.
func ToPointer(t time.Time) *time.Time {
	return &t
}

// ToPointerNil converts a time.Time to a pointer to time.Time, returning nil if the time is zero.
func ToPointerNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// SanitizePtr ensures that a *time.Time pointer is either nil or a meaningful value.
// If the input pointer is nil or points to a zero-value time (`time.Time{}`),
// it returns nil. Otherwise, it returns the original pointer.
func SanitizePtr(target *time.Time) *time.Time {
	if target == nil || target.IsZero() {
		return nil
	}
	return target
}

// MustParseRFC3339 parses a time string according to RFC3339.
// If parsing fails, it returns the zero value of time.Time.
func MustParseRFC3339(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

// TimeWeekdayToRRuleWeekday converts a single time.Weekday to its corresponding rrule.Weekday
func TimeWeekdayToRRuleWeekday(d time.Weekday) rrule.Weekday {
	switch d {
	case time.Sunday:
		return rrule.SU
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.MO // fallback to Monday... otherwise `panic("invalid time.Weekday value")`
	}
}

// TimeWeekdaysToRRuleWeekdays converts a variadic slice of time.Weekday into []rrule.Weekday
func TimeWeekdaysToRRuleWeekdays(days ...time.Weekday) []rrule.Weekday {
	result := make([]rrule.Weekday, len(days))
	for i, d := range days {
		result[i] = TimeWeekdayToRRuleWeekday(d)
	}
	return result
}

// IsWeekendByTime returns a true if the date falls on a Saturday or Sunday.
func IsWeekendByTime(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
