package atime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCalendarWindow(t *testing.T) {
	w := CalendarWindow(TIMEUNIT_MONTH, "")
	iv, err := w.Resolve(ts("2024-01-15T12:34:00Z"))
	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), iv.Start)
	assert.Equal(t, ts("2024-02-01T00:00:00Z"), iv.End)

	// Idempotence: the window start is already a unit start.
	assert.Equal(t, iv.Start, StartOfUnit(iv.Start, TIMEUNIT_MONTH, nil))
}

func TestResolveSlidingWindow(t *testing.T) {
	at := ts("2024-01-15T12:00:00Z")

	w := SlidingWindow(DurationSpec{Hours: 24})
	iv, err := w.Resolve(at)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-14T12:00:00Z"), iv.Start)
	assert.Equal(t, at, iv.End)

	// Raw milliseconds behave the same.
	raw := SlidingWindow(DurationOfMs(60 * 60 * 1000))
	iv, err = raw.Resolve(at)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-15T11:00:00Z"), iv.Start)
}

func TestResolveLifetimeWindow(t *testing.T) {
	w := LifetimeWindow()

	a, err := w.Resolve(ts("2024-01-15T12:00:00Z"))
	require.NoError(t, err)
	b, err := w.Resolve(ts("1999-06-01T00:00:00Z"))
	require.NoError(t, err)

	assert.True(t, a.Equal(b), "lifetime window is independent of the reference instant")
	assert.Equal(t, Epoch(), a.Start)
	assert.Equal(t, FarFuture(), a.End)

	reset, err := w.NextReset(ts("2024-01-15T12:00:00Z"))
	require.NoError(t, err)
	assert.Nil(t, reset)
}

func TestResolveFixedWindow(t *testing.T) {
	start, end := ts("2024-03-01T00:00:00Z"), ts("2024-04-01T00:00:00Z")
	w := FixedWindow(start, end)

	iv, err := w.Resolve(ts("2024-01-15T12:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, start, iv.Start)
	assert.Equal(t, end, iv.End)

	reset, err := w.NextReset(ts("2024-01-15T12:00:00Z"))
	require.NoError(t, err)
	assert.Nil(t, reset)
}

func TestNextReset(t *testing.T) {
	at := ts("2024-01-15T12:34:00Z")

	month := CalendarWindow(TIMEUNIT_MONTH, "")
	reset, err := month.NextReset(at)
	require.NoError(t, err)
	require.NotNil(t, reset)
	assert.Equal(t, ts("2024-02-01T00:00:00Z"), *reset)

	sliding := SlidingWindow(DurationSpec{Days: 7})
	reset, err = sliding.NextReset(at)
	require.NoError(t, err)
	require.NotNil(t, reset)
	assert.Equal(t, at.Add(7*24*time.Hour), *reset)
}

func TestResolveCalendarWindowZoned(t *testing.T) {
	w := CalendarWindow(TIMEUNIT_DAY, "America/New_York")
	iv, err := w.Resolve(ts("2024-01-15T03:00:00Z")) // Jan 14 in New York
	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-14T05:00:00Z"), iv.Start.UTC())
	assert.Equal(t, ts("2024-01-15T05:00:00Z"), iv.End.UTC())
}

func TestResolveCalendarWindowBadZone(t *testing.T) {
	w := CalendarWindow(TIMEUNIT_DAY, "Mars/Olympus_Mons")
	_, err := w.Resolve(ts("2024-01-15T03:00:00Z"))
	assert.Error(t, err)
}

func TestDescribeWindow(t *testing.T) {
	assert.Equal(t, "each month", CalendarWindow(TIMEUNIT_MONTH, "").Describe())
	assert.Equal(t, "each day (America/New_York)", CalendarWindow(TIMEUNIT_DAY, "America/New_York").Describe())
	assert.Equal(t, "lifetime", LifetimeWindow().Describe())

	// Raw-millisecond durations read as hours.
	assert.Equal(t, "last 5 hours", SlidingWindow(DurationOfMs(5*60*60*1000)).Describe())
}

func TestDurationSpecToDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, DurationOfMs(90*60*1000).ToDuration())
	assert.Equal(t, 26*time.Hour, DurationSpec{Hours: 2, Days: 1}.ToDuration())
	assert.Equal(t, 30*24*time.Hour, DurationSpec{Months: 1}.ToDuration(), "months approximate to 30 days")
}
