package atime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeUnitIsValid(t *testing.T) {
	assert.True(t, TIMEUNIT_HOUR.IsValid())
	assert.True(t, TIMEUNIT_YEAR.IsValid())
	assert.False(t, TimeUnit("fortnight").IsValid())
	assert.Equal(t, TIMEUNIT_DAY, TimeUnit("").Default())
	assert.Equal(t, TIMEUNIT_WEEK, TIMEUNIT_WEEK.Default())
}

func TestStartOfUnitUTC(t *testing.T) {
	at := ts("2024-01-17T15:42:11Z") // a Wednesday

	assert.Equal(t, ts("2024-01-17T15:00:00Z"), StartOfUnit(at, TIMEUNIT_HOUR, nil))
	assert.Equal(t, ts("2024-01-17T00:00:00Z"), StartOfUnit(at, TIMEUNIT_DAY, nil))
	assert.Equal(t, ts("2024-01-15T00:00:00Z"), StartOfUnit(at, TIMEUNIT_WEEK, nil), "weeks start Monday")
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), StartOfUnit(at, TIMEUNIT_MONTH, nil))
	assert.Equal(t, ts("2024-01-01T00:00:00Z"), StartOfUnit(at, TIMEUNIT_YEAR, nil))
}

func TestStartOfUnitSundayRollsBack(t *testing.T) {
	sunday := ts("2024-01-21T03:00:00Z")
	assert.Equal(t, ts("2024-01-15T00:00:00Z"), StartOfUnit(sunday, TIMEUNIT_WEEK, nil))
}

func TestEndOfUnit(t *testing.T) {
	at := ts("2024-01-17T15:42:11Z")

	assert.Equal(t, ts("2024-01-18T00:00:00Z"), EndOfUnit(at, TIMEUNIT_DAY, nil))
	assert.Equal(t, ts("2024-01-22T00:00:00Z"), EndOfUnit(at, TIMEUNIT_WEEK, nil))
	assert.Equal(t, ts("2024-02-01T00:00:00Z"), EndOfUnit(at, TIMEUNIT_MONTH, nil))
	assert.Equal(t, ts("2025-01-01T00:00:00Z"), EndOfUnit(at, TIMEUNIT_YEAR, nil))
}

func TestStartOfUnitZoned(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// 2024-01-17T03:00Z is still Jan 16 in New York.
	at := ts("2024-01-17T03:00:00Z")
	start := StartOfUnit(at, TIMEUNIT_DAY, ny)
	assert.Equal(t, ts("2024-01-16T05:00:00Z"), start.UTC())
}

func TestEndOfUnitAcrossDSTDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// The US spring-forward day is 23 hours long in local time.
	at := ts("2024-03-10T12:00:00Z")
	start := StartOfUnit(at, TIMEUNIT_DAY, ny)
	end := EndOfUnit(at, TIMEUNIT_DAY, ny)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}
