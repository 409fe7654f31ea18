package aschedule

import (
	"time"

	"github.com/jpfluger/acal-slim/atime"
)

// ScheduleOverride is a per-date exception to a schedule's rules. The date is
// a civil day interpreted in the schedule's primary zone.
//
// Available=false subtracts: the whole local day, or only the given wall-time
// window when StartTime/EndTime are set. Available=true with times adds that
// window; without times it is a no-op.
type ScheduleOverride struct {
	Date      time.Time       `json:"date,omitempty"`
	Available bool            `json:"available"`
	StartTime atime.LocalTime `json:"startTime,omitempty"`
	EndTime   atime.LocalTime `json:"endTime,omitempty"`
}

// hasTimes reports whether both wall times are set.
func (so *ScheduleOverride) hasTimes() bool {
	return !so.StartTime.IsEmpty() && !so.EndTime.IsEmpty()
}

// window resolves the override's interval in the primary zone. With no times
// set it covers the whole local day.
func (so *ScheduleOverride) window(loc *time.Location) (atime.Interval, error) {
	day := atime.CivilDateOf(so.Date, time.UTC)
	if so.hasTimes() {
		start, err := atime.LocalToUTC(day, so.StartTime, loc)
		if err != nil {
			return atime.Interval{}, err
		}
		end, err := atime.LocalToUTC(day, so.EndTime, loc)
		if err != nil {
			return atime.Interval{}, err
		}
		if end.Before(start) {
			if end, err = atime.LocalToUTC(day.AddDays(1), so.EndTime, loc); err != nil {
				return atime.Interval{}, err
			}
		}
		return atime.Interval{Start: start, End: end}, nil
	}
	start, err := atime.LocalToUTC(day, "00:00", loc)
	if err != nil {
		return atime.Interval{}, err
	}
	end, err := atime.LocalToUTC(day.AddDays(1), "00:00", loc)
	if err != nil {
		return atime.Interval{}, err
	}
	return atime.Interval{Start: start, End: end}, nil
}
