// Package aslot computes bookable time windows from expanded schedules,
// existing bookings with their own buffer context, external busy blocks and
// event-type constraints. The generator is pure; the Engine wraps it behind
// an adapter for callers that load their data elsewhere.
package aslot

import (
	"sort"
	"time"

	"github.com/jpfluger/acal-slim/ainterval"
	"github.com/jpfluger/acal-slim/atime"
)

// SlotInput carries the fully-materialized facts for one availability query.
type SlotInput struct {
	EventType *EventType      `json:"eventType,omitempty"`
	Hosts     []HostSchedules `json:"hosts,omitempty"`
	Bookings  []Booking       `json:"bookings,omitempty"`
	Blocks    []Block         `json:"blocks,omitempty"`
	Range     atime.Interval  `json:"range,omitempty"`

	// EventTypes supplies each booking's own buffers, keyed by event-type id.
	EventTypes BufferTable `json:"eventTypes,omitempty"`
}

// GetAvailableSlots runs the slot pipeline for every host and returns the
// concatenated result sorted by (start, hostId). A zero now means the wall
// clock; pass an explicit instant for deterministic evaluation.
//
// Buffering is asymmetric: each existing booking inflates by its own event
// type's buffers, while each candidate slot inflates by the queried event
// type's buffers and must fit entirely inside a free interval.
func GetAvailableSlots(input SlotInput, now time.Time) ([]Slot, error) {
	if input.EventType == nil || input.Range.IsEmpty() {
		return nil, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var slots []Slot
	for i := range input.Hosts {
		hostSlots, err := slotsForHost(input, &input.Hosts[i], now)
		if err != nil {
			return nil, err
		}
		slots = append(slots, hostSlots...)
	}

	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Start.Equal(slots[j].Start) {
			return slots[i].Start.Before(slots[j].Start)
		}
		return slots[i].HostID < slots[j].HostID
	})
	return slots, nil
}

func slotsForHost(input SlotInput, host *HostSchedules, now time.Time) ([]Slot, error) {
	cfg := input.EventType.ResolveForHost(host.HostID)
	if cfg.Length <= 0 || cfg.SlotInterval <= 0 {
		return nil, nil
	}

	// Unknown schedule key silently yields no slots for this host.
	sched, ok := host.Schedules[cfg.ScheduleKey]
	if !ok || sched == nil {
		return nil, nil
	}
	free, err := sched.Expand(input.Range)
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		return nil, nil
	}

	// Subtract busy time: bookings inflated by their own event type's
	// buffers, blocks as-is.
	var busy []atime.Interval
	for i := range input.Bookings {
		b := &input.Bookings[i]
		if b.HostID != host.HostID {
			continue
		}
		var spec BufferSpec
		if b.EventTypeID != "" {
			spec = input.EventTypes[b.EventTypeID]
		}
		busy = append(busy, atime.Interval{
			Start: b.Start.Add(-spec.BufferBefore),
			End:   b.End.Add(spec.BufferAfter),
		})
	}
	for i := range input.Blocks {
		bl := &input.Blocks[i]
		if bl.HostID != host.HostID {
			continue
		}
		busy = append(busy, atime.Interval{Start: bl.Start, End: bl.End})
	}
	free = ainterval.Subtract(free, busy)

	// Minimum notice clips interval starts forward; maximum lead time clips
	// interval ends back.
	notBefore := now.Add(cfg.MinimumNotice)
	var fenced []atime.Interval
	for _, f := range free {
		if f.Start.Before(notBefore) {
			f.Start = notBefore
		}
		if cfg.MaximumLeadTime > 0 {
			if horizon := now.Add(cfg.MaximumLeadTime); f.End.After(horizon) {
				f.End = horizon
			}
		}
		if !f.IsEmpty() {
			fenced = append(fenced, f)
		}
	}

	candidates := placeCandidates(fenced, &cfg, host.HostID)
	return applyCaps(candidates, input, &cfg, host.HostID), nil
}

// placeCandidates walks each free interval on the slot-interval grid starting
// at start+bufferBefore, admitting a candidate only while its inflated end
// stays inside the free interval.
func placeCandidates(free []atime.Interval, cfg *EventType, hostID string) []Slot {
	var out []Slot
	for _, f := range free {
		for start := f.Start.Add(cfg.BufferBefore); ; start = start.Add(cfg.SlotInterval) {
			end := start.Add(cfg.Length)
			if end.Add(cfg.BufferAfter).After(f.End) {
				break
			}
			slot := Slot{HostID: hostID, Start: start, End: end}
			if cfg.BufferBefore > 0 {
				slot.BufferBefore = &atime.Interval{Start: start.Add(-cfg.BufferBefore), End: start}
			}
			if cfg.BufferAfter > 0 {
				slot.BufferAfter = &atime.Interval{Start: end, End: end.Add(cfg.BufferAfter)}
			}
			out = append(out, slot)
		}
	}
	return out
}

// applyCaps filters candidates against maxPerDay/maxPerWeek, counting
// existing bookings of the queried event type along with newly admitted
// slots. Days are UTC calendar days; weeks are ISO-8601 Monday-based weeks.
func applyCaps(candidates []Slot, input SlotInput, cfg *EventType, hostID string) []Slot {
	if cfg.MaxPerDay <= 0 && cfg.MaxPerWeek <= 0 {
		return candidates
	}

	existingDay := make(map[string]int)
	existingWeek := make(map[string]int)
	for i := range input.Bookings {
		b := &input.Bookings[i]
		if b.HostID != hostID || b.EventTypeID != input.EventType.ID {
			continue
		}
		existingDay[atime.DateKey(b.Start)]++
		existingWeek[atime.ISOWeekKey(b.Start)]++
	}

	newDay := make(map[string]int)
	newWeek := make(map[string]int)
	var out []Slot
	for _, s := range candidates {
		dayKey := atime.DateKey(s.Start)
		weekKey := atime.ISOWeekKey(s.Start)
		if cfg.MaxPerDay > 0 && existingDay[dayKey]+newDay[dayKey] >= cfg.MaxPerDay {
			continue
		}
		if cfg.MaxPerWeek > 0 && existingWeek[weekKey]+newWeek[weekKey] >= cfg.MaxPerWeek {
			continue
		}
		newDay[dayKey]++
		newWeek[weekKey]++
		out = append(out, s)
	}
	return out
}
