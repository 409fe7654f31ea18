package aslot

import (
	"time"
)

// Booking is an existing commitment on a host's timeline. EventTypeID keys
// into the per-event-type buffer table; a booking without one contributes
// zero buffer and never counts against caps.
type Booking struct {
	HostID      string    `json:"hostId,omitempty"`
	ID          string    `json:"id,omitempty"`
	EventTypeID string    `json:"eventTypeId,omitempty"`
	Start       time.Time `json:"start,omitempty"`
	End         time.Time `json:"end,omitempty"`
}

// Block is an opaque busy period on a host's timeline. Blocks are never
// inflated by buffers and are not counted against caps.
type Block struct {
	HostID string    `json:"hostId,omitempty"`
	Start  time.Time `json:"start,omitempty"`
	End    time.Time `json:"end,omitempty"`
}

// BufferSpec is the prep/wrap-up padding attached to an event type.
type BufferSpec struct {
	BufferBefore time.Duration `json:"bufferBefore,omitempty"`
	BufferAfter  time.Duration `json:"bufferAfter,omitempty"`
}

// BufferTable maps event-type id to its buffers. Bookings inflate by their
// own event type's entry; missing entries mean zero.
type BufferTable map[string]BufferSpec
