package aschedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jpfluger/acal-slim/atime"
)

// maxCronOccurrences bounds a single expansion so a dense crontab line over a
// wide range cannot spin unbounded.
const maxCronOccurrences = 10000

// CronRule expands a standard five-field crontab line into occurrence
// intervals of a fixed length. The line is evaluated in Zone; no scheduler
// runs, this is pure calendar math over the query range.
type CronRule struct {
	Line   string        `json:"line,omitempty"`
	Zone   string        `json:"zone,omitempty"`
	Length time.Duration `json:"length,omitempty"`
}

// Validate parses the crontab line and checks zone and length.
func (cr *CronRule) Validate() error {
	if _, err := cron.ParseStandard(cr.Line); err != nil {
		return fmt.Errorf("invalid crontab line %q: %v", cr.Line, err)
	}
	if cr.Length <= 0 {
		return fmt.Errorf("cron rule length must be positive")
	}
	if !atime.IsValidZone(cr.Zone) {
		return fmt.Errorf("cron rule zone is unknown: %q", cr.Zone)
	}
	return nil
}

// Expand emits [occurrence, occurrence+Length) for every firing whose start
// lies within rng, ordered by start.
func (cr *CronRule) Expand(rng atime.Interval) ([]atime.Interval, error) {
	if rng.IsEmpty() || cr.Length <= 0 {
		return nil, nil
	}
	sched, err := cron.ParseStandard(cr.Line)
	if err != nil {
		return nil, err
	}
	loc, err := atime.GetLocation(cr.Zone)
	if err != nil {
		return nil, err
	}

	var out []atime.Interval
	cursor := rng.Start.Add(-24 * time.Hour).In(loc)
	for i := 0; i < maxCronOccurrences; i++ {
		next := sched.Next(cursor)
		if next.IsZero() || !next.Before(rng.End) {
			break
		}
		if !next.Before(rng.Start) {
			out = append(out, atime.Interval{Start: next.UTC(), End: next.Add(cr.Length).UTC()})
		}
		cursor = next
	}
	return out, nil
}
