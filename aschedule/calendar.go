package aschedule

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rickar/cal/v2"
	cal_us "github.com/rickar/cal/v2/us"
)

// IHolidayCalendar answers whether a civil date is a holiday. Schedule
// expansion only ever reads, so anything satisfying this can back a
// Schedule.HolidayISO code, including a caller-built cal.BusinessCalendar
// carrying company closure days.
type IHolidayCalendar interface {
	IsHoliday(date time.Time) (actual, observed bool, h *cal.Holiday)
}

// builtinHolidays maps the calendar codes this package knows out of the box
// to their country holiday sets.
var builtinHolidays = map[string][]*cal.Holiday{
	"us": cal_us.Holidays,
}

var (
	holidayMu        sync.RWMutex
	holidayCalendars = map[string]IHolidayCalendar{}
)

// GetHolidayCalendar resolves the calendar a HolidayISO code refers to:
// a registered calendar wins, then a built-in country set. An unknown code
// errors, which fails the expansion that asked for it.
func GetHolidayCalendar(iso string) (IHolidayCalendar, error) {
	key := CleanISO(iso)
	if key == "" {
		return nil, fmt.Errorf("holiday calendar code is empty")
	}

	holidayMu.RLock()
	c, ok := holidayCalendars[key]
	holidayMu.RUnlock()
	if ok {
		return c, nil
	}

	days, ok := builtinHolidays[key]
	if !ok {
		return nil, fmt.Errorf("no holiday calendar for code %q", iso)
	}
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(days...)
	return bc, nil
}

// SetHolidayCalendar registers a calendar under a code, shadowing any
// built-in set of the same name. Registration is process-wide; do it during
// setup, before schedules expand.
func SetHolidayCalendar(iso string, c IHolidayCalendar) {
	holidayMu.Lock()
	defer holidayMu.Unlock()

	holidayCalendars[CleanISO(iso)] = c
}

// CleanISO normalizes a calendar code for registry lookup.
func CleanISO(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
