package atime

import (
	"time"

	"github.com/mileusna/timezones"
)

// TimeIn returns the time in a specified timezone.
// If the name is empty, it returns the time in UTC.
// Otherwise, it assumes the name is a location name in the IANA Time Zone database.
func TimeIn(t time.Time, timeZoneId string) (time.Time, error) {
	loc, err := GetLocation(timeZoneId)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

// TimeInNoError is similar to TimeIn but does not return an error.
func TimeInNoError(t time.Time, timeZoneId string) time.Time {
	tt, err := TimeIn(t, timeZoneId)
	if err != nil {
		return t.UTC()
	}
	return tt
}

// GetLocation returns the time.Location for a given timezone ID.
// An empty ID resolves to UTC. The underlying zone-database error is
// surfaced unchanged for unknown IDs.
func GetLocation(timeZoneID string) (*time.Location, error) {
	if timeZoneID == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(timeZoneID)
}

// IsValidZone reports whether the ID resolves against the zone database.
func IsValidZone(timeZoneID string) bool {
	_, err := GetLocation(timeZoneID)
	return err == nil
}

// TimeZoneOffset returns the offset in hours for the specified timezone at
// the given instant. Offsets differ across DST transitions, so the instant
// matters.
func TimeZoneOffset(timeZoneID string, at time.Time) (int, error) {
	loc, err := GetLocation(timeZoneID)
	if err != nil {
		return 0, err
	}

	_, offset := at.In(loc).Zone()
	return offset / 3600, nil // Convert offset from seconds to hours
}

// ZoneIDs retrieves the list of known IANA timezone identifiers.
func ZoneIDs() []string {
	return timezones.List()
}
