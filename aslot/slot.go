package aslot

import (
	"time"

	"github.com/jpfluger/acal-slim/atime"
)

// Slot is a bookable window emitted by the generator. End is always
// Start+Length. The buffer intervals are informational: they show the
// padding the slot was placed with, they are not part of the bookable time.
type Slot struct {
	HostID       string          `json:"hostId,omitempty"`
	Start        time.Time       `json:"start,omitempty"`
	End          time.Time       `json:"end,omitempty"`
	BufferBefore *atime.Interval `json:"bufferBefore,omitempty"`
	BufferAfter  *atime.Interval `json:"bufferAfter,omitempty"`
}

// Interval returns the slot's bookable window.
func (s Slot) Interval() atime.Interval {
	return atime.Interval{Start: s.Start, End: s.End}
}
