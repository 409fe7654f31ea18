package atime

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	WINDOW_CALENDAR WindowKind = "calendar"
	WINDOW_SLIDING  WindowKind = "sliding"
	WINDOW_LIFETIME WindowKind = "lifetime"
	WINDOW_FIXED    WindowKind = "fixed"
)

// WindowKind selects the window variant.
type WindowKind string

func (k WindowKind) IsEmpty() bool { return string(k) == "" }

func (k WindowKind) String() string { return strings.ToLower(string(k)) }

func (k WindowKind) IsValid() bool {
	switch k {
	case WINDOW_CALENDAR, WINDOW_SLIDING, WINDOW_LIFETIME, WINDOW_FIXED:
		return true
	default:
		return false
	}
}

// DurationSpec is a duration given either as raw milliseconds or as a
// structured value. Months are approximated as 30 days; the approximation is
// only ever used for sliding windows and display, never for calendar math.
type DurationSpec struct {
	Milliseconds int64 `json:"milliseconds,omitempty"`
	Hours        int   `json:"hours,omitempty"`
	Days         int   `json:"days,omitempty"`
	Weeks        int   `json:"weeks,omitempty"`
	Months       int   `json:"months,omitempty"`
}

// DurationOfMs wraps raw milliseconds in a DurationSpec.
func DurationOfMs(ms int64) DurationSpec {
	return DurationSpec{Milliseconds: ms}
}

// ToDuration flattens the spec to a time.Duration.
func (ds DurationSpec) ToDuration() time.Duration {
	d := time.Duration(ds.Milliseconds) * time.Millisecond
	d += time.Duration(ds.Hours) * time.Hour
	d += time.Duration(ds.Days) * 24 * time.Hour
	d += time.Duration(ds.Weeks) * 7 * 24 * time.Hour
	d += time.Duration(ds.Months) * 30 * 24 * time.Hour // documented approximation
	return d
}

// IsRawMs reports whether the spec was given as raw milliseconds only.
func (ds DurationSpec) IsRawMs() bool {
	return ds.Milliseconds != 0 && ds.Hours == 0 && ds.Days == 0 && ds.Weeks == 0 && ds.Months == 0
}

// WindowSpec describes the time region within which usage is counted.
// Exactly one variant applies, selected by Kind.
type WindowSpec struct {
	Kind     WindowKind    `json:"kind,omitempty"`
	Unit     TimeUnit      `json:"unit,omitempty"`     // calendar
	Zone     string        `json:"zone,omitempty"`     // calendar, optional
	Duration *DurationSpec `json:"duration,omitempty"` // sliding
	Fixed    *Interval     `json:"fixed,omitempty"`    // fixed
}

// CalendarWindow builds a calendar window for a unit, optionally zoned.
func CalendarWindow(unit TimeUnit, zone string) WindowSpec {
	return WindowSpec{Kind: WINDOW_CALENDAR, Unit: unit, Zone: zone}
}

// SlidingWindow builds a sliding window of the given duration.
func SlidingWindow(d DurationSpec) WindowSpec {
	return WindowSpec{Kind: WINDOW_SLIDING, Duration: &d}
}

// LifetimeWindow builds the unbounded window.
func LifetimeWindow() WindowSpec {
	return WindowSpec{Kind: WINDOW_LIFETIME}
}

// FixedWindow builds a window over the literal interval [start, end).
func FixedWindow(start, end time.Time) WindowSpec {
	return WindowSpec{Kind: WINDOW_FIXED, Fixed: &Interval{Start: start, End: end}}
}

// Epoch is the lower bound of lifetime windows.
func Epoch() time.Time {
	return time.Unix(0, 0).UTC()
}

// FarFuture is the upper bound of lifetime windows.
func FarFuture() time.Time {
	return time.Date(9999, 12, 31, 23, 59, 59, 999000000, time.UTC)
}

// location resolves the window zone, defaulting to UTC.
func (w WindowSpec) location() (*time.Location, error) {
	if w.Zone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(w.Zone)
}

// Resolve returns the window's interval [start, end) relative to at.
func (w WindowSpec) Resolve(at time.Time) (Interval, error) {
	switch w.Kind {
	case WINDOW_CALENDAR:
		loc, err := w.location()
		if err != nil {
			return Interval{}, err
		}
		return Interval{
			Start: StartOfUnit(at, w.Unit, loc),
			End:   EndOfUnit(at, w.Unit, loc),
		}, nil
	case WINDOW_SLIDING:
		var d time.Duration
		if w.Duration != nil {
			d = w.Duration.ToDuration()
		}
		return Interval{Start: at.Add(-d), End: at}, nil
	case WINDOW_FIXED:
		if w.Fixed == nil {
			return Interval{}, fmt.Errorf("fixed window has no interval")
		}
		return *w.Fixed, nil
	case WINDOW_LIFETIME:
		return Interval{Start: Epoch(), End: FarFuture()}, nil
	default:
		return Interval{}, fmt.Errorf("unknown window kind: %q", w.Kind)
	}
}

// NextReset returns the instant the window rolls over, relative to at.
// Lifetime and fixed windows never reset and return nil.
func (w WindowSpec) NextReset(at time.Time) (*time.Time, error) {
	switch w.Kind {
	case WINDOW_CALENDAR:
		loc, err := w.location()
		if err != nil {
			return nil, err
		}
		next := NextUnitStart(StartOfUnit(at, w.Unit, loc), w.Unit, loc)
		return &next, nil
	case WINDOW_SLIDING:
		var d time.Duration
		if w.Duration != nil {
			d = w.Duration.ToDuration()
		}
		next := at.Add(d)
		return &next, nil
	default:
		return nil, nil
	}
}

// Describe renders a short human phrase for the window. A raw-millisecond
// sliding duration is described in hours; display convenience only.
func (w WindowSpec) Describe() string {
	switch w.Kind {
	case WINDOW_CALENDAR:
		s := "each " + w.Unit.Default().String()
		if w.Zone != "" {
			s += " (" + w.Zone + ")"
		}
		return s
	case WINDOW_SLIDING:
		if w.Duration == nil {
			return "sliding"
		}
		if w.Duration.IsRawMs() {
			hours := float64(w.Duration.Milliseconds) / float64(time.Hour/time.Millisecond)
			return fmt.Sprintf("last %g hours", hours)
		}
		rel := strings.TrimSpace(humanize.RelTime(Epoch(), Epoch().Add(w.Duration.ToDuration()), "", ""))
		return "last " + rel
	case WINDOW_FIXED:
		if w.Fixed == nil {
			return "fixed"
		}
		return fmt.Sprintf("from %s until %s",
			w.Fixed.Start.UTC().Format(time.RFC3339), w.Fixed.End.UTC().Format(time.RFC3339))
	case WINDOW_LIFETIME:
		return "lifetime"
	default:
		return string(w.Kind)
	}
}
