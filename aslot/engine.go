package aslot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jpfluger/acal-slim/aerr"
	"github.com/jpfluger/acal-slim/atime"
)

var queryValidator = validator.New()

// GetHostsOptions narrows the hosts an adapter returns. An empty HostIDs
// means every host that can serve the event type.
type GetHostsOptions struct {
	HostIDs     []string `json:"hostIds,omitempty"`
	EventTypeID string   `json:"eventTypeId,omitempty"`
}

// GetBookingsOptions selects bookings for hosts inside a range.
type GetBookingsOptions struct {
	HostIDs []string       `json:"hostIds,omitempty"`
	Range   atime.Interval `json:"range,omitempty"`
}

// GetBlocksOptions selects busy blocks for hosts inside a range.
type GetBlocksOptions struct {
	HostIDs []string       `json:"hostIds,omitempty"`
	Range   atime.Interval `json:"range,omitempty"`
}

// IAvailabilityAdapter loads the facts an availability query needs. The
// engine performs no I/O of its own; every method call is a suspension point
// owned by the caller's implementation.
type IAvailabilityAdapter interface {
	GetEventType(ctx context.Context, eventTypeID string) (*EventType, error)
	GetHosts(ctx context.Context, opts GetHostsOptions) ([]HostSchedules, error)
	GetBookings(ctx context.Context, opts GetBookingsOptions) ([]Booking, error)
}

// IBlockProvider is an optional adapter capability for external busy blocks.
type IBlockProvider interface {
	GetBlocks(ctx context.Context, opts GetBlocksOptions) ([]Block, error)
}

// IBufferProvider is an optional adapter capability supplying each event
// type's buffers so existing bookings inflate by their own context.
type IBufferProvider interface {
	GetEventTypeBuffers(ctx context.Context, eventTypeIDs []string) (BufferTable, error)
}

// Engine wraps the slot generator behind an availability adapter.
type Engine struct {
	adapter IAvailabilityAdapter
	logger  zerolog.Logger
	nowFn   func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger attaches a zerolog logger for query-level debug output.
func WithLogger(logger zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithNowFunc replaces the evaluation clock, usually for tests.
func WithNowFunc(fn func() time.Time) EngineOption {
	return func(e *Engine) { e.nowFn = fn }
}

// NewEngine builds an Engine over the adapter.
func NewEngine(adapter IAvailabilityAdapter, opts ...EngineOption) (*Engine, error) {
	if adapter == nil {
		return nil, fmt.Errorf("availability adapter is nil")
	}
	e := &Engine{adapter: adapter, nowFn: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// SlotQuery asks for bookable slots of one event type across hosts.
type SlotQuery struct {
	EventTypeID string         `json:"eventTypeId,omitempty" validate:"required"`
	HostIDs     []string       `json:"hostIds,omitempty"`
	Range       atime.Interval `json:"range,omitempty"`
	Now         time.Time      `json:"now,omitempty"` // zero = engine clock
}

// Validate checks the query shape before any adapter call is made.
func (q *SlotQuery) Validate() error {
	if err := queryValidator.Struct(q); err != nil {
		return aerr.FromValidator(err)
	}
	if q.Range.IsEmpty() {
		return fmt.Errorf("query range is empty")
	}
	return nil
}

// GetAvailableSlots loads facts through the adapter and runs the generator.
//
// Bookings are fetched over the range widened by a day on each side so
// buffers of bookings straddling the range edges still subtract correctly.
// Without a buffer provider, bookings of the queried event type fall back to
// that event type's buffers and all other bookings get zero.
func (e *Engine) GetAvailableSlots(ctx context.Context, query SlotQuery) ([]Slot, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	et, err := e.adapter.GetEventType(ctx, query.EventTypeID)
	if err != nil {
		return nil, err
	}
	if et == nil {
		return nil, fmt.Errorf("event type not found: %q", query.EventTypeID)
	}
	if err = et.Validate(); err != nil {
		return nil, err
	}

	hosts, err := e.adapter.GetHosts(ctx, GetHostsOptions{HostIDs: query.HostIDs, EventTypeID: et.ID})
	if err != nil {
		return nil, err
	}
	hostIDs := make([]string, 0, len(hosts))
	for i := range hosts {
		hostIDs = append(hostIDs, hosts[i].HostID)
	}

	fetchRange := atime.Interval{
		Start: query.Range.Start.Add(-24 * time.Hour),
		End:   query.Range.End.Add(24 * time.Hour),
	}
	bookings, err := e.adapter.GetBookings(ctx, GetBookingsOptions{HostIDs: hostIDs, Range: fetchRange})
	if err != nil {
		return nil, err
	}

	var blocks []Block
	if bp, ok := e.adapter.(IBlockProvider); ok {
		if blocks, err = bp.GetBlocks(ctx, GetBlocksOptions{HostIDs: hostIDs, Range: fetchRange}); err != nil {
			return nil, err
		}
	}

	buffers, err := e.resolveBuffers(ctx, et, bookings)
	if err != nil {
		return nil, err
	}

	now := query.Now
	if now.IsZero() {
		now = e.nowFn()
	}

	slots, err := GetAvailableSlots(SlotInput{
		EventType:  et,
		Hosts:      hosts,
		Bookings:   bookings,
		Blocks:     blocks,
		Range:      query.Range,
		EventTypes: buffers,
	}, now)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("eventTypeId", et.ID).
		Int("hosts", len(hosts)).
		Int("bookings", len(bookings)).
		Int("slots", len(slots)).
		Time("now", now).
		Msg("availability query")

	return slots, nil
}

// resolveBuffers builds the per-event-type buffer table, preferring the
// adapter's buffer provider when it exists.
func (e *Engine) resolveBuffers(ctx context.Context, et *EventType, bookings []Booking) (BufferTable, error) {
	ids := make([]string, 0, 4)
	seen := make(map[string]bool)
	for i := range bookings {
		id := bookings[i].EventTypeID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	if bp, ok := e.adapter.(IBufferProvider); ok {
		return bp.GetEventTypeBuffers(ctx, ids)
	}

	// Fallback: only bookings of the queried event type carry its buffers.
	return BufferTable{et.ID: {BufferBefore: et.BufferBefore, BufferAfter: et.BufferAfter}}, nil
}
