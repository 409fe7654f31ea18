// Package aentitle answers entitlement questions for an actor: can this
// action run, what is left, when does it come back, and what does the whole
// quota picture look like. It is a thin typed layer over the policy engine
// and the limit math; a caller-supplied adapter provides entitlements and
// usage counts.
package aentitle

import (
	"time"

	"github.com/jpfluger/acal-slim/alimit"
	"github.com/jpfluger/acal-slim/atime"
)

// Entitlement grants an action a usage limit counted inside a window.
// An unlimited limit ignores the window. A finite limit with a nil window is
// counted over the actor's lifetime.
type Entitlement struct {
	Limit  alimit.Limit      `json:"limit"`
	Window *atime.WindowSpec `json:"window,omitempty"`
}

// Entitlements maps action name to its grant.
type Entitlements map[string]Entitlement

// CountingInterval resolves the interval usage is counted in at the given
// instant. Lifetime counting spans [epoch, far-future).
func (e Entitlement) CountingInterval(at time.Time) (atime.Interval, error) {
	if e.Window == nil {
		return atime.Interval{Start: atime.Epoch(), End: atime.FarFuture()}, nil
	}
	return e.Window.Resolve(at)
}

// ResetsAt returns the next window rollover, or nil when the window never
// resets (lifetime, fixed, or no window).
func (e Entitlement) ResetsAt(at time.Time) (*time.Time, error) {
	if e.Window == nil {
		return nil, nil
	}
	return e.Window.NextReset(at)
}

// LimitedBy names what constrains the action, for display: "none" for
// unlimited, "lifetime" for windowless finite limits, else the window
// description.
func (e Entitlement) LimitedBy() string {
	if e.Limit.IsUnlimited() {
		return "none"
	}
	if e.Window == nil {
		return "lifetime"
	}
	return e.Window.Describe()
}

// QuotaState is a projected view of one action's quota for dashboards.
type QuotaState struct {
	Name      string            `json:"name,omitempty"`
	Limit     alimit.Limit      `json:"limit"`
	Used      int64             `json:"used"`
	Remaining alimit.Limit      `json:"remaining"`
	Window    *atime.WindowSpec `json:"window,omitempty"`
	ResetsAt  *time.Time        `json:"resetsAt,omitempty"`
	Interval  atime.Interval    `json:"interval,omitempty"`
}

const (
	CAPABILITY_AVAILABLE   CapabilityKind = "available"
	CAPABILITY_EXHAUSTED   CapabilityKind = "exhausted"
	CAPABILITY_UNAVAILABLE CapabilityKind = "unavailable"
)

// CapabilityKind classifies an action for an actor.
type CapabilityKind string

func (k CapabilityKind) String() string { return string(k) }
