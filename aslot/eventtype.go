package aslot

import (
	"fmt"
	"time"

	"github.com/jpfluger/acal-slim/aschedule"
)

// SCHEDULE_KEY_DEFAULT is the schedule looked up when an event type does not
// name one.
const SCHEDULE_KEY_DEFAULT = "default"

// EventType is the shape of what is being booked: length, buffers, placement
// grid, notice and lead-time fences, and per-day/per-week caps. Durations of
// zero mean "unset" where the field is optional.
type EventType struct {
	ID              string        `json:"id,omitempty"`
	Length          time.Duration `json:"length,omitempty"`
	ScheduleKey     string        `json:"scheduleKey,omitempty"`
	BufferBefore    time.Duration `json:"bufferBefore,omitempty"`
	BufferAfter     time.Duration `json:"bufferAfter,omitempty"`
	SlotInterval    time.Duration `json:"slotInterval,omitempty"` // defaults to Length
	MinimumNotice   time.Duration `json:"minimumNotice,omitempty"`
	MaximumLeadTime time.Duration `json:"maximumLeadTime,omitempty"` // 0 = no fence
	MaxPerDay       int           `json:"maxPerDay,omitempty"`       // 0 = no cap
	MaxPerWeek      int           `json:"maxPerWeek,omitempty"`      // 0 = no cap

	// HostOverrides adjusts fields per host; a set field wins over the base,
	// including an explicit zero.
	HostOverrides map[string]HostOverride `json:"hostOverrides,omitempty"`
}

// HostOverride is a partial EventType: nil fields inherit from the base.
type HostOverride struct {
	Length          *time.Duration `json:"length,omitempty"`
	ScheduleKey     *string        `json:"scheduleKey,omitempty"`
	BufferBefore    *time.Duration `json:"bufferBefore,omitempty"`
	BufferAfter     *time.Duration `json:"bufferAfter,omitempty"`
	SlotInterval    *time.Duration `json:"slotInterval,omitempty"`
	MinimumNotice   *time.Duration `json:"minimumNotice,omitempty"`
	MaximumLeadTime *time.Duration `json:"maximumLeadTime,omitempty"`
	MaxPerDay       *int           `json:"maxPerDay,omitempty"`
	MaxPerWeek      *int           `json:"maxPerWeek,omitempty"`
}

// Validate checks the fields a meaningful query requires.
func (et *EventType) Validate() error {
	if et.ID == "" {
		return fmt.Errorf("event type has no id")
	}
	if et.Length <= 0 {
		return fmt.Errorf("event type %q length must be positive", et.ID)
	}
	return nil
}

// ResolveForHost applies the host's override field-by-field, then the derived
// defaults: empty schedule key becomes "default" and an unset slot interval
// falls back to the length. A set override field wins even when zero, so
// explicit zeros cannot ride through a generic zero-is-empty merge here.
func (et *EventType) ResolveForHost(hostID string) EventType {
	resolved := *et
	resolved.HostOverrides = nil

	if ov, ok := et.HostOverrides[hostID]; ok {
		if ov.Length != nil {
			resolved.Length = *ov.Length
		}
		if ov.ScheduleKey != nil {
			resolved.ScheduleKey = *ov.ScheduleKey
		}
		if ov.BufferBefore != nil {
			resolved.BufferBefore = *ov.BufferBefore
		}
		if ov.BufferAfter != nil {
			resolved.BufferAfter = *ov.BufferAfter
		}
		if ov.SlotInterval != nil {
			resolved.SlotInterval = *ov.SlotInterval
		}
		if ov.MinimumNotice != nil {
			resolved.MinimumNotice = *ov.MinimumNotice
		}
		if ov.MaximumLeadTime != nil {
			resolved.MaximumLeadTime = *ov.MaximumLeadTime
		}
		if ov.MaxPerDay != nil {
			resolved.MaxPerDay = *ov.MaxPerDay
		}
		if ov.MaxPerWeek != nil {
			resolved.MaxPerWeek = *ov.MaxPerWeek
		}
	}

	if resolved.ScheduleKey == "" {
		resolved.ScheduleKey = SCHEDULE_KEY_DEFAULT
	}
	if resolved.SlotInterval <= 0 {
		resolved.SlotInterval = resolved.Length
	}
	return resolved
}

// HostSchedules is a host's set of named schedules.
type HostSchedules struct {
	HostID    string                         `json:"hostId,omitempty"`
	Schedules map[string]*aschedule.Schedule `json:"schedules,omitempty"`
}
