package aslot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfluger/acal-slim/aschedule"
	"github.com/jpfluger/acal-slim/atime"
)

func iv(start, end string) atime.Interval {
	return atime.Interval{
		Start: atime.MustParseRFC3339(start),
		End:   atime.MustParseRFC3339(end),
	}
}

func weekdayHost(hostID string) HostSchedules {
	return HostSchedules{
		HostID: hostID,
		Schedules: map[string]*aschedule.Schedule{
			SCHEDULE_KEY_DEFAULT: {
				ID: SCHEDULE_KEY_DEFAULT,
				Rules: []aschedule.ScheduleRule{{
					Days:      atime.DaysOfWeek{atime.DAYOFWEEK_MON, atime.DAYOFWEEK_TUE, atime.DAYOFWEEK_WED, atime.DAYOFWEEK_THU, atime.DAYOFWEEK_FRI},
					StartTime: "09:00",
					EndTime:   "17:00",
				}},
			},
		},
	}
}

func slotStarts(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Start.UTC().Format("15:04")
	}
	return out
}

// One host, MON-FRI 09:00-17:00 UTC, 30m length, no bookings: 16 slots.
func TestBasicWeekdaySlots(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Range:     iv("2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T09:00:00Z"), slots[0].Start)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T09:30:00Z"), slots[0].End)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T16:30:00Z"), slots[15].Start)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T17:00:00Z"), slots[15].End)
}

// A bufferless booking removes exactly its own window.
func TestBookingSubtraction(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Bookings: []Booking{{
			HostID:      "h1",
			EventTypeID: "other",
			Start:       atime.MustParseRFC3339("2024-01-01T10:00:00Z"),
			End:         atime.MustParseRFC3339("2024-01-01T11:00:00Z"),
		}},
		Range: iv("2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, slotStarts(slots))
}

// Asymmetric buffers: the existing booking inflates by its own event type's
// buffers while candidates inflate by the queried event type's buffers.
func TestAsymmetricBuffers(t *testing.T) {
	host := HostSchedules{
		HostID: "h1",
		Schedules: map[string]*aschedule.Schedule{
			SCHEDULE_KEY_DEFAULT: {
				Rules: []aschedule.ScheduleRule{{
					Days:      atime.DaysOfWeek{atime.DAYOFWEEK_MON},
					StartTime: "09:00",
					EndTime:   "12:00",
				}},
			},
		},
	}
	input := SlotInput{
		EventType: &EventType{
			ID:          "follow_up",
			Length:      30 * time.Minute,
			BufferAfter: 5 * time.Minute,
		},
		Hosts: []HostSchedules{host},
		Bookings: []Booking{{
			HostID:      "h1",
			EventTypeID: "initial_visit",
			Start:       atime.MustParseRFC3339("2024-01-01T10:00:00Z"),
			End:         atime.MustParseRFC3339("2024-01-01T10:30:00Z"),
		}},
		Range: iv("2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z"),
		EventTypes: BufferTable{
			"initial_visit": {BufferAfter: 15 * time.Minute},
			"follow_up":     {BufferAfter: 5 * time.Minute},
		},
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	// 09:30 is out (inflated [09:30,10:05) hits the busy region);
	// 11:45 is out (inflated end 12:20 passes 12:00).
	assert.Equal(t, []string{"09:00", "10:45", "11:15"}, slotStarts(slots))

	for _, s := range slots {
		require.NotNil(t, s.BufferAfter)
		assert.Equal(t, s.End, s.BufferAfter.Start)
		assert.Equal(t, s.End.Add(5*time.Minute), s.BufferAfter.End)
		assert.Nil(t, s.BufferBefore)
	}
}

// Bookings with no event type id contribute zero buffer.
func TestBookingWithoutEventTypeIDHasNoBuffer(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Bookings: []Booking{{
			HostID: "h1",
			Start:  atime.MustParseRFC3339("2024-01-01T10:00:00Z"),
			End:    atime.MustParseRFC3339("2024-01-01T11:00:00Z"),
		}},
		Range: iv("2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z"),
		EventTypes: BufferTable{
			"intro": {BufferBefore: time.Hour, BufferAfter: time.Hour},
		},
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, slotStarts(slots))
}

// maxPerDay counts existing bookings of the queried event type.
func TestDailyCap(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute, MaxPerDay: 2},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Bookings: []Booking{
			{HostID: "h1", EventTypeID: "intro", Start: atime.MustParseRFC3339("2024-01-01T09:00:00Z"), End: atime.MustParseRFC3339("2024-01-01T09:30:00Z")},
			{HostID: "h1", EventTypeID: "intro", Start: atime.MustParseRFC3339("2024-01-01T09:30:00Z"), End: atime.MustParseRFC3339("2024-01-01T10:00:00Z")},
		},
		Range: iv("2024-01-01T00:00:00Z", "2024-01-03T00:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	for _, s := range slots {
		assert.Equal(t, "2024-01-02", atime.DateKey(s.Start), "Monday is capped out; Tuesday unaffected")
	}
	// Tuesday admits at most two new slots.
	assert.Len(t, slots, 2)
}

func TestWeeklyCap(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute, MaxPerWeek: 3},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Bookings: []Booking{
			{HostID: "h1", EventTypeID: "intro", Start: atime.MustParseRFC3339("2024-01-01T09:00:00Z"), End: atime.MustParseRFC3339("2024-01-01T09:30:00Z")},
		},
		Range: iv("2024-01-01T00:00:00Z", "2024-01-03T00:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Len(t, slots, 2, "one existing booking plus two admitted slots reaches the weekly cap")
}

// Minimum notice clips the start of free time forward.
func TestMinimumNotice(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute, MinimumNotice: time.Hour},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Range:     iv("2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T09:30:00Z"))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T10:30:00Z"), slots[0].Start)
}

// Maximum lead time clips the end of free time.
func TestMaximumLeadTime(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute, MaximumLeadTime: 2 * time.Hour},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Range:     iv("2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T09:00:00Z"))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	last := slots[len(slots)-1]
	assert.False(t, last.End.After(atime.MustParseRFC3339("2024-01-01T11:00:00Z")))
}

// Blocks subtract like bookings but never inflate.
func TestBlocksSubtract(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Blocks: []Block{{
			HostID: "h1",
			Start:  atime.MustParseRFC3339("2024-01-01T09:00:00Z"),
			End:    atime.MustParseRFC3339("2024-01-01T11:00:00Z"),
		}},
		Range: iv("2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "11:30"}, slotStarts(slots))
}

// An unknown schedule key silently yields no slots for that host.
func TestUnknownScheduleKeySkipsHost(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute, ScheduleKey: "weekend"},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Range:     iv("2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Empty(t, slots)
}

// Slot interval widens the placement grid independently of length.
func TestSlotIntervalGrid(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute, SlotInterval: time.Hour},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Range:     iv("2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotStarts(slots))
}

// Multi-host output is sorted by (start, hostId) with both hosts present.
func TestMultiHostSorting(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{ID: "intro", Length: 30 * time.Minute},
		Hosts:     []HostSchedules{weekdayHost("h2"), weekdayHost("h1")},
		Range:     iv("2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, "h1", slots[0].HostID)
	assert.Equal(t, "h2", slots[1].HostID)
	assert.True(t, slots[0].Start.Equal(slots[1].Start))
	assert.True(t, !slots[2].Start.Before(slots[1].Start))
}

// A candidate whose inflated interval exactly fills the free interval is
// admitted.
func TestExactFitAdmitted(t *testing.T) {
	input := SlotInput{
		EventType: &EventType{
			ID:           "intro",
			Length:       30 * time.Minute,
			BufferBefore: 10 * time.Minute,
			BufferAfter:  20 * time.Minute,
		},
		Hosts: []HostSchedules{{
			HostID: "h1",
			Schedules: map[string]*aschedule.Schedule{
				SCHEDULE_KEY_DEFAULT: {
					Rules: []aschedule.ScheduleRule{{
						Days:      atime.DaysOfWeek{atime.DAYOFWEEK_MON},
						StartTime: "09:00",
						EndTime:   "10:00",
					}},
				},
			},
		}},
		Range: iv("2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"),
	}
	slots, err := GetAvailableSlots(input, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T09:10:00Z"), slots[0].Start)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T09:40:00Z"), slots[0].End)
	require.NotNil(t, slots[0].BufferBefore)
	require.NotNil(t, slots[0].BufferAfter)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T09:00:00Z"), slots[0].BufferBefore.Start)
	assert.Equal(t, atime.MustParseRFC3339("2024-01-01T10:00:00Z"), slots[0].BufferAfter.End)
}

// Nil event type or empty range yields nothing rather than an error.
func TestDegenerateInputs(t *testing.T) {
	slots, err := GetAvailableSlots(SlotInput{}, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = GetAvailableSlots(SlotInput{
		EventType: &EventType{ID: "intro", Length: -time.Hour},
		Hosts:     []HostSchedules{weekdayHost("h1")},
		Range:     iv("2024-01-01T00:00:00Z", "2024-01-02T00:00:00Z"),
	}, atime.MustParseRFC3339("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Empty(t, slots, "non-positive length drops silently")
}
