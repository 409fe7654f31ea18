package aschedule

import (
	"fmt"
	"time"

	"github.com/jpfluger/acal-slim/atime"
)

// ScheduleRule is a recurring weekly availability window expressed in local
// wall time within an IANA zone. The rule applies to an instant iff the
// instant's local day in the rule's zone is in Days and falls inside the
// optional [EffectiveFrom, EffectiveUntil) civil-date bounds.
type ScheduleRule struct {
	Days      atime.DaysOfWeek `json:"days,omitempty"`
	StartTime atime.LocalTime  `json:"startTime,omitempty"`
	EndTime   atime.LocalTime  `json:"endTime,omitempty"`
	Zone      string           `json:"zone,omitempty"`

	// Date-only bounds; compared as civil dates in the rule's zone.
	EffectiveFrom  *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveUntil *time.Time `json:"effectiveUntil,omitempty"`
}

// Validate checks days, wall times and the zone id.
func (sr *ScheduleRule) Validate() error {
	if len(sr.Days) == 0 {
		return fmt.Errorf("schedule rule has no days")
	}
	if err := sr.Days.Validate(); err != nil {
		return err
	}
	if err := sr.StartTime.Validate(); err != nil {
		return err
	}
	if err := sr.EndTime.Validate(); err != nil {
		return err
	}
	if !atime.IsValidZone(sr.Zone) {
		return fmt.Errorf("schedule rule zone is unknown: %q", sr.Zone)
	}
	return nil
}

// Location resolves the rule's zone, defaulting to UTC when empty.
func (sr *ScheduleRule) Location() (*time.Location, error) {
	return atime.GetLocation(sr.Zone)
}

// appliesOn reports whether the rule is active on the given civil day.
func (sr *ScheduleRule) appliesOn(day atime.CivilDate, loc *time.Location) bool {
	if !sr.Days.Contains(day.Weekday()) {
		return false
	}
	key := day.Key()
	if sr.EffectiveFrom != nil && key < atime.CivilDateOf(*sr.EffectiveFrom, loc).Key() {
		return false
	}
	if sr.EffectiveUntil != nil && key >= atime.CivilDateOf(*sr.EffectiveUntil, loc).Key() {
		return false
	}
	return true
}

// windowOn converts the rule's wall-time window on a civil day to a UTC
// interval. A window whose end wall time is earlier than its start crosses
// midnight and ends on the following day. Equal wall times yield an empty
// interval, which callers drop.
func (sr *ScheduleRule) windowOn(day atime.CivilDate, loc *time.Location) (atime.Interval, error) {
	start, err := atime.LocalToUTC(day, sr.StartTime, loc)
	if err != nil {
		return atime.Interval{}, err
	}
	end, err := atime.LocalToUTC(day, sr.EndTime, loc)
	if err != nil {
		return atime.Interval{}, err
	}
	if end.Before(start) {
		if end, err = atime.LocalToUTC(day.AddDays(1), sr.EndTime, loc); err != nil {
			return atime.Interval{}, err
		}
	}
	return atime.Interval{Start: start, End: end}, nil
}
