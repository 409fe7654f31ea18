package atime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoc(t *testing.T, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestLocalToUTCPlain(t *testing.T) {
	ny := mustLoc(t, "America/New_York")

	// Winter: EST is UTC-5.
	got, err := LocalToUTC(CivilDate{2024, time.January, 15}, "09:00", ny)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-15T14:00:00Z"), got)

	// Summer: EDT is UTC-4.
	got, err = LocalToUTC(CivilDate{2024, time.July, 15}, "09:00", ny)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-07-15T13:00:00Z"), got)

	// UTC default for nil location.
	got, err = LocalToUTC(CivilDate{2024, time.January, 15}, "09:00", nil)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-15T09:00:00Z"), got)
}

func TestLocalToUTCSpringForward(t *testing.T) {
	ny := mustLoc(t, "America/New_York")

	// Before the gap: unambiguous EST.
	got, err := LocalToUTC(CivilDate{2024, time.March, 10}, "01:30", ny)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-03-10T06:30:00Z"), got)

	// 02:30 does not exist; the instant lands after the gap.
	got, err = LocalToUTC(CivilDate{2024, time.March, 10}, "02:30", ny)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-03-10T07:30:00Z"), got)

	// After the gap: unambiguous EDT.
	got, err = LocalToUTC(CivilDate{2024, time.March, 10}, "03:30", ny)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-03-10T07:30:00Z"), got)
}

func TestLocalToUTCFallBack(t *testing.T) {
	ny := mustLoc(t, "America/New_York")

	// 01:30 occurs twice on 2024-11-03; the later offset (EST) wins.
	got, err := LocalToUTC(CivilDate{2024, time.November, 3}, "01:30", ny)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-11-03T06:30:00Z"), got)

	berlin := mustLoc(t, "Europe/Berlin")

	// 02:30 occurs twice on 2024-10-27; the later offset (CET) wins.
	got, err = LocalToUTC(CivilDate{2024, time.October, 27}, "02:30", berlin)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-10-27T01:30:00Z"), got)
}

func TestLocalToUTCEndOfDay(t *testing.T) {
	got, err := LocalToUTC(CivilDate{2024, time.January, 15}, "24:00", nil)
	require.NoError(t, err)
	assert.Equal(t, ts("2024-01-16T00:00:00Z"), got)
}

func TestParseCivilDate(t *testing.T) {
	cd, err := ParseCivilDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, CivilDate{2024, time.February, 29}, cd)
	assert.Equal(t, "2024-02-29", cd.Key())

	_, err = ParseCivilDate("2024-13-01")
	assert.Error(t, err)
}

func TestCivilDateAddDays(t *testing.T) {
	cd := CivilDate{2024, time.December, 31}
	assert.Equal(t, CivilDate{2025, time.January, 1}, cd.AddDays(1))
	assert.Equal(t, CivilDate{2024, time.December, 1}, cd.AddDays(-30))
	assert.Equal(t, time.Wednesday, CivilDate{2025, time.January, 1}.Weekday())
}

func TestDateAndWeekKeys(t *testing.T) {
	assert.Equal(t, "2024-01-15", DateKey(ts("2024-01-15T23:59:59Z")))

	// ISO weeks cross year boundaries: 2024-12-30 is week 1 of 2025.
	assert.Equal(t, "2025-W01", ISOWeekKey(ts("2024-12-30T10:00:00Z")))
	assert.Equal(t, "2024-W52", ISOWeekKey(ts("2024-12-29T10:00:00Z")))
	assert.Equal(t, "2024-W01", ISOWeekKey(ts("2024-01-01T00:00:00Z")))
}
