package alimit

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jpfluger/acal-slim/atime"
)

const (
	AVAILABILITY_NOW     AvailabilityKind = "now"
	AVAILABILITY_AT      AvailabilityKind = "at"
	AVAILABILITY_NEVER   AvailabilityKind = "never"
	AVAILABILITY_UNKNOWN AvailabilityKind = "unknown"
)

// AvailabilityKind tags the Availability variants.
type AvailabilityKind string

func (k AvailabilityKind) IsEmpty() bool { return string(k) == "" }

func (k AvailabilityKind) String() string { return strings.ToLower(string(k)) }

// Availability answers "when can this action be used again".
// At is set only for the "at" kind.
type Availability struct {
	Kind   AvailabilityKind `json:"kind,omitempty"`
	At     *time.Time       `json:"at,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

// AvailableNow is the available-immediately value.
func AvailableNow() Availability {
	return Availability{Kind: AVAILABILITY_NOW}
}

// NeverAvailable builds a terminal unavailability with a reason.
func NeverAvailable(reason string) Availability {
	return Availability{Kind: AVAILABILITY_NEVER, Reason: reason}
}

// AvailableAt computes when the actor can use the action again, given its
// limit, the usage already counted inside the window, and the window model.
// A nil window means lifetime counting.
func AvailableAt(limit Limit, used int64, window *atime.WindowSpec, at time.Time) Availability {
	if limit.IsUnlimited() || used < limit.Value() {
		return AvailableNow()
	}

	if window == nil || window.Kind == atime.WINDOW_LIFETIME {
		return NeverAvailable("lifetime limit exhausted")
	}
	if window.Kind == atime.WINDOW_FIXED {
		return NeverAvailable("fixed-window limit exhausted")
	}

	reset, err := window.NextReset(at)
	if err != nil || reset == nil {
		return Availability{Kind: AVAILABILITY_UNKNOWN, Reason: "window has no computable reset"}
	}
	return Availability{
		Kind:   AVAILABILITY_AT,
		At:     reset,
		Reason: "limit resets " + humanize.RelTime(*reset, at, "ago", "from now"),
	}
}
