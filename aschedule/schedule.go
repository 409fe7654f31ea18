// Package aschedule expands recurring availability rules, per-date overrides
// and recurrence rules into sorted, disjoint UTC intervals. All expansion is
// pure: inputs are values, outputs are freshly allocated.
package aschedule

import (
	"time"

	"github.com/jpfluger/acal-slim/ainterval"
	"github.com/jpfluger/acal-slim/atime"
)

// Schedule is a named set of weekly rules plus per-date overrides.
// Override dates are interpreted in the schedule's primary zone: the first
// rule's zone, else UTC. HolidayISO optionally excludes observed holidays of
// that country calendar from the expanded availability.
type Schedule struct {
	ID         string             `json:"id,omitempty"`
	Rules      []ScheduleRule     `json:"rules,omitempty"`
	Overrides  []ScheduleOverride `json:"overrides,omitempty"`
	HolidayISO string             `json:"holidayISO,omitempty"`
}

// Validate checks every rule and override wall time.
func (s *Schedule) Validate() error {
	for i := range s.Rules {
		if err := s.Rules[i].Validate(); err != nil {
			return err
		}
	}
	for i := range s.Overrides {
		ov := &s.Overrides[i]
		if !ov.StartTime.IsEmpty() {
			if err := ov.StartTime.Validate(); err != nil {
				return err
			}
		}
		if !ov.EndTime.IsEmpty() {
			if err := ov.EndTime.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrimaryLocation resolves the zone used for override date matching.
func (s *Schedule) PrimaryLocation() (*time.Location, error) {
	if len(s.Rules) > 0 {
		return s.Rules[0].Location()
	}
	return time.UTC, nil
}

// Expand turns the schedule into merged, sorted UTC availability intervals
// clipped to rng. Rule windows that span a DST transition shrink or stretch
// with the transition because both edges derive from the zone database.
func (s *Schedule) Expand(rng atime.Interval) ([]atime.Interval, error) {
	if rng.IsEmpty() {
		return nil, nil
	}

	primary, err := s.PrimaryLocation()
	if err != nil {
		return nil, err
	}

	// Walk one civil day beyond the range on each side so zone offsets and
	// midnight-crossing windows are caught.
	first := atime.CivilDateOf(rng.Start, time.UTC).AddDays(-1)
	last := atime.CivilDateOf(rng.End, time.UTC).AddDays(1)

	var working, removals, additions []atime.Interval

	var holidays IHolidayCalendar
	if s.HolidayISO != "" {
		if holidays, err = GetHolidayCalendar(s.HolidayISO); err != nil {
			return nil, err
		}
	}

	for day := first; !last.Before(day); day = day.AddDays(1) {
		for i := range s.Rules {
			rule := &s.Rules[i]
			loc, err := rule.Location()
			if err != nil {
				return nil, err
			}
			if !rule.appliesOn(day, loc) {
				continue
			}
			window, err := rule.windowOn(day, loc)
			if err != nil {
				return nil, err
			}
			if !window.IsEmpty() {
				working = append(working, window)
			}
		}

		if holidays != nil {
			local := time.Date(day.Year, day.Month, day.Day, 12, 0, 0, 0, primary)
			if _, observed, _ := holidays.IsHoliday(local); observed {
				removal, err := wholeLocalDay(day, primary)
				if err != nil {
					return nil, err
				}
				removals = append(removals, removal)
			}
		}
	}

	for i := range s.Overrides {
		ov := &s.Overrides[i]
		if ov.Available && !ov.hasTimes() {
			continue // no-op by contract
		}
		window, err := ov.window(primary)
		if err != nil {
			return nil, err
		}
		if window.IsEmpty() {
			continue
		}
		if ov.Available {
			additions = append(additions, window)
		} else {
			removals = append(removals, window)
		}
	}

	merged := ainterval.Merge(working)
	merged = ainterval.Subtract(merged, removals)
	merged = ainterval.Merge(append(merged, additions...))

	return atime.Intervals(merged).Clip(rng), nil
}

// wholeLocalDay returns the full local day as a UTC interval.
func wholeLocalDay(day atime.CivilDate, loc *time.Location) (atime.Interval, error) {
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
