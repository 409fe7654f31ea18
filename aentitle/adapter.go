package aentitle

import (
	"context"

	"github.com/jpfluger/acal-slim/atime"
)

// IEntitlementsAdapter loads entitlement facts. GetUsage receives the exact
// interval the engine wants counted; implementations must not widen it.
// Both methods are suspension points owned by the caller.
type IEntitlementsAdapter interface {
	GetEntitlements(ctx context.Context, actorID string) (Entitlements, error)
	GetUsage(ctx context.Context, actorID, action string, interval atime.Interval) (int64, error)
}
