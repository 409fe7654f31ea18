package aschedule

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jpfluger/acal-slim/atime"
)

const (
	RECUR_DAILY    Frequency = "daily"
	RECUR_WEEKLY   Frequency = "weekly"
	RECUR_BIWEEKLY Frequency = "biweekly"
	RECUR_MONTHLY  Frequency = "monthly"
)

// Frequency names the recurrence cadence.
type Frequency string

func (f Frequency) IsEmpty() bool { return string(f) == "" }

func (f Frequency) String() string { return strings.ToLower(string(f)) }

func (f Frequency) IsValid() bool {
	switch f {
	case RECUR_DAILY, RECUR_WEEKLY, RECUR_BIWEEKLY, RECUR_MONTHLY:
		return true
	default:
		return false
	}
}

// RecurrenceRule describes a repeating wall-time window in an IANA zone.
//
// Daily emits every day unless Days filters it; weekly emits on Days;
// biweekly emits on Days in weeks whose ISO-week distance from the anchor is
// even (anchor defaults to the query range start); monthly emits on
// DayOfMonth. Exclude drops occurrences by civil-day match in the rule zone.
type RecurrenceRule struct {
	Frequency  Frequency        `json:"frequency,omitempty"`
	Days       atime.DaysOfWeek `json:"days,omitempty"`
	DayOfMonth int              `json:"dayOfMonth,omitempty"`
	StartTime  atime.LocalTime  `json:"startTime,omitempty"`
	EndTime    atime.LocalTime  `json:"endTime,omitempty"`
	Zone       string           `json:"zone,omitempty"`
	Anchor     *time.Time       `json:"anchor,omitempty"`
	Until      *time.Time       `json:"until,omitempty"`
	Count      int              `json:"count,omitempty"`
	Exclude    []time.Time      `json:"exclude,omitempty"`
}

// Validate checks frequency, wall times and the zone id.
func (rr *RecurrenceRule) Validate() error {
	if !rr.Frequency.IsValid() {
		return fmt.Errorf("recurrence frequency is invalid: %q", rr.Frequency)
	}
	if err := rr.StartTime.Validate(); err != nil {
		return err
	}
	if err := rr.EndTime.Validate(); err != nil {
		return err
	}
	if err := rr.Days.Validate(); err != nil {
		return err
	}
	if rr.Frequency == RECUR_MONTHLY && (rr.DayOfMonth < 1 || rr.DayOfMonth > 31) {
		return fmt.Errorf("monthly recurrence needs dayOfMonth in 1..31, got %d", rr.DayOfMonth)
	}
	if !atime.IsValidZone(rr.Zone) {
		return fmt.Errorf("recurrence zone is unknown: %q", rr.Zone)
	}
	return nil
}

// Expand emits the rule's occurrence intervals whose start lies within rng
// (inclusive lower, exclusive upper), ordered by start.
func (rr *RecurrenceRule) Expand(rng atime.Interval) ([]atime.Interval, error) {
	if rng.IsEmpty() {
		return nil, nil
	}
	loc, err := atime.GetLocation(rr.Zone)
	if err != nil {
		return nil, err
	}

	// Pad one day each side to catch zone offsets; clamp to until.
	first := atime.CivilDateOf(rng.Start, time.UTC).AddDays(-1)
	lastInstant := rng.End.Add(24 * time.Hour)
	if rr.Until != nil && rr.Until.Before(lastInstant) {
		lastInstant = *rr.Until
	}
	last := atime.CivilDateOf(lastInstant, time.UTC)
	if last.Before(first) {
		return nil, nil
	}

	days, err := rr.occurrenceDays(first, last, rng, loc)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(rr.Exclude))
	for _, ex := range rr.Exclude {
		excluded[atime.DateKey(ex)] = true
	}

	var out []atime.Interval
	for _, day := range days {
		if excluded[day.Key()] {
			continue
		}
		start, err := atime.LocalToUTC(day, rr.StartTime, loc)
		if err != nil {
			return nil, err
		}
		end, err := atime.LocalToUTC(day, rr.EndTime, loc)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			if end, err = atime.LocalToUTC(day.AddDays(1), rr.EndTime, loc); err != nil {
				return nil, err
			}
		}
		iv := atime.Interval{Start: start, End: end}
		if iv.IsEmpty() || !rng.Contains(start) {
			continue
		}
		if rr.Until != nil && start.After(*rr.Until) {
			continue
		}
		out = append(out, iv)
		if rr.Count > 0 && len(out) >= rr.Count {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// occurrenceDays produces candidate civil days in [first, last] ascending.
// Daily is walked directly; the other cadences delegate day selection to an
// rrule set built in the rule zone.
func (rr *RecurrenceRule) occurrenceDays(first, last atime.CivilDate, rng atime.Interval, loc *time.Location) ([]atime.CivilDate, error) {
	if rr.Frequency == RECUR_DAILY {
		var days []atime.CivilDate
		for day := first; !last.Before(day); day = day.AddDays(1) {
			if len(rr.Days) > 0 && !rr.Days.Contains(day.Weekday()) {
				continue
			}
			days = append(days, day)
		}
		return days, nil
	}

	opt := rrule.ROption{Interval: 1, Wkst: rrule.MO}
	dtstart := time.Date(first.Year, first.Month, first.Day, 0, 0, 0, 0, loc)

	switch rr.Frequency {
	case RECUR_WEEKLY, RECUR_BIWEEKLY:
		opt.Freq = rrule.WEEKLY
		if len(rr.Days) == 0 {
			return nil, fmt.Errorf("weekly recurrence needs days")
		}
		for _, d := range rr.Days {
			wd, ok := d.Weekday()
			if !ok {
				return nil, fmt.Errorf("day of week is invalid: %q", d)
			}
			opt.Byweekday = append(opt.Byweekday, atime.TimeWeekdayToRRuleWeekday(wd))
		}
		if rr.Frequency == RECUR_BIWEEKLY {
			opt.Interval = 2
			anchor := rng.Start
			if rr.Anchor != nil {
				anchor = *rr.Anchor
			}
			anchorDay := atime.CivilDateOf(anchor, time.UTC)
			// Rewind the anchor in two-week steps so it precedes the walk
			// window; parity against the original anchor week is preserved.
			for first.Before(anchorDay) {
				anchorDay = anchorDay.AddDays(-14)
			}
			dtstart = time.Date(anchorDay.Year, anchorDay.Month, anchorDay.Day, 0, 0, 0, 0, loc)
		}
	case RECUR_MONTHLY:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{rr.DayOfMonth}
	default:
		return nil, fmt.Errorf("recurrence frequency is invalid: %q", rr.Frequency)
	}

	opt.Dtstart = dtstart
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil, err
	}

	after := dtstart
	before := time.Date(last.Year, last.Month, last.Day, 23, 59, 59, 0, loc)
	var days []atime.CivilDate
	for _, occ := range rule.Between(after, before, true) {
		day := atime.CivilDateOf(occ, loc)
		if day.Before(first) || last.Before(day) {
			continue
		}
		days = append(days, day)
	}
	return days, nil
}
