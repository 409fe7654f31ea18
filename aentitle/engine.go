package aentitle

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jpfluger/acal-slim/alimit"
	"github.com/jpfluger/acal-slim/apolicy"
)

// OBLIGATION_CONSUME is the obligation type asking the caller to record a
// metered consumption. Params: "action" (string) and "amount" (int64).
const OBLIGATION_CONSUME = "consume"

const (
	FACT_ENTITLEMENTS = "entitlements"
	FACT_USAGE        = "usage"
)

// Engine answers entitlement queries over an adapter.
type Engine struct {
	adapter  IEntitlementsAdapter
	defaults Entitlements
	logger   zerolog.Logger
	nowFn    func() time.Time
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

// WithDefaultEntitlements layers fallback grants under whatever the adapter
// returns; adapter entries win on action-name collision.
func WithDefaultEntitlements(defaults Entitlements) EngineOption {
	return func(e *Engine) { e.defaults = defaults }
}

// NewEngine builds an Engine over the adapter.
func NewEngine(adapter IEntitlementsAdapter, opts ...EngineOption) (*Engine, error) {
	if adapter == nil {
		return nil, fmt.Errorf("entitlements adapter is nil")
	}
	e := &Engine{adapter: adapter, nowFn: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// at resolves the evaluation instant: the caller's override or the clock.
func (e *Engine) at(override time.Time) time.Time {
	if override.IsZero() {
		return e.nowFn()
	}
	return override
}

// entitlementsFor loads the actor's grants, layered over the defaults.
func (e *Engine) entitlementsFor(ctx context.Context, actorID string) (Entitlements, error) {
	ents, err := e.adapter.GetEntitlements(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(e.defaults) == 0 {
		return ents, nil
	}
	merged := make(Entitlements, len(ents)+len(e.defaults))
	for action, ent := range e.defaults {
		merged[action] = ent
	}
	for action, ent := range ents {
		merged[action] = ent
	}
	return merged, nil
}

// usageFor counts the actor's usage of an action inside the entitlement's
// window at the given instant.
func (e *Engine) usageFor(ctx context.Context, actorID, action string, ent Entitlement, at time.Time) (int64, error) {
	interval, err := ent.CountingInterval(at)
	if err != nil {
		return 0, err
	}
	return e.adapter.GetUsage(ctx, actorID, action, interval)
}

// ConsumeObligation builds the consume obligation for an allowed metered use.
func ConsumeObligation(action string, amount int64) apolicy.Obligation {
	return apolicy.Obligation{
		Type:   OBLIGATION_CONSUME,
		Params: map[string]any{"action": action, "amount": amount},
	}
}

// Check decides whether the actor may use the action, consuming `consume`
// units (non-positive means 1). The decision is produced by a two-rule
// policy so it carries reasons, obligations and a trace whose fact snapshot
// includes the loaded entitlements map. A zero `at` means the engine clock.
func (e *Engine) Check(ctx context.Context, actorID, action string, consume int64, at time.Time) (*apolicy.Decision[apolicy.Allowed], error) {
	evalAt := e.at(at)

	policy := &apolicy.Policy[apolicy.Allowed]{
		Name: "entitlement-check",
		Facts: []apolicy.FactDef{
			apolicy.Fact(FACT_ENTITLEMENTS, func(ctx context.Context, _ any, _ apolicy.Facts) (any, error) {
				return e.entitlementsFor(ctx, actorID)
			}),
			apolicy.FactWithDeps(FACT_USAGE, []string{FACT_ENTITLEMENTS}, func(ctx context.Context, _ any, facts apolicy.Facts) (any, error) {
				ents := facts[FACT_ENTITLEMENTS].(Entitlements)
				ent, ok := ents[action]
				if !ok || ent.Limit.IsUnlimited() {
					return int64(0), nil
				}
				return e.usageFor(ctx, actorID, action, ent, evalAt)
			}),
		},
		Rules: []apolicy.Rule{
			apolicy.NewRule("entitlement-exists", func(_ context.Context, _ any, facts apolicy.Facts) (apolicy.RuleResult, error) {
				ents := facts[FACT_ENTITLEMENTS].(Entitlements)
				if _, ok := ents[action]; !ok {
					return apolicy.Deny("No entitlement defined"), nil
				}
				return apolicy.Allow(fmt.Sprintf("entitlement defined for %q", action)), nil
			}),
			apolicy.NewRule("within-limit", func(_ context.Context, _ any, facts apolicy.Facts) (apolicy.RuleResult, error) {
				ents := facts[FACT_ENTITLEMENTS].(Entitlements)
				ent, ok := ents[action]
				if !ok {
					return apolicy.Skip("no entitlement to enforce"), nil
				}
				used := facts[FACT_USAGE].(int64)
				check := alimit.CheckLimit(ent.Limit, used, consume)
				if !check.Allowed {
					result := apolicy.Deny(fmt.Sprintf("limit exceeded: %d of %s used", used, ent.Limit))
					result.Metadata = map[string]any{"remaining": check.Remaining}
					return result, nil
				}
				explanation := fmt.Sprintf("within limit: %s remaining", check.Remaining)
				var result apolicy.RuleResult
				if check.Consume > 0 {
					result = apolicy.Allow(explanation, ConsumeObligation(action, check.Consume))
				} else {
					result = apolicy.Allow(explanation)
				}
				result.Metadata = map[string]any{"remaining": check.Remaining}
				return result, nil
			}),
		},
		Resolver: apolicy.AllMustAllow(),
		Logger:   e.logger,
	}

	return apolicy.Evaluate(ctx, policy, actorID)
}

// quotaState projects one action's quota at an instant.
func quotaState(action string, ent Entitlement, used int64, at time.Time) (QuotaState, error) {
	interval, err := ent.CountingInterval(at)
	if err != nil {
		return QuotaState{}, err
	}
	resetsAt, err := ent.ResetsAt(at)
	if err != nil {
		return QuotaState{}, err
	}
	return QuotaState{
		Name:      action,
		Limit:     ent.Limit,
		Used:      used,
		Remaining: alimit.RemainingQuota(ent.Limit, used),
		Window:    ent.Window,
		ResetsAt:  resetsAt,
		Interval:  interval,
	}, nil
}

// ActionCapability classifies one action for an actor.
type ActionCapability struct {
	Action string         `json:"action,omitempty"`
	Kind   CapabilityKind `json:"kind,omitempty"`

	// Available: the quota view (nil for unlimited grants) and the consume
	// obligation for metered grants.
	Quota      *QuotaState         `json:"quota,omitempty"`
	Obligation *apolicy.Obligation `json:"obligation,omitempty"`

	// Exhausted: why, and when the action comes back (nil if it does not).
	Reason      string     `json:"reason,omitempty"`
	AvailableAt *time.Time `json:"availableAt,omitempty"`
}

// CapabilitySet is the per-action classification plus summary lists in the
// query's action order.
type CapabilitySet struct {
	Capabilities map[string]ActionCapability `json:"capabilities,omitempty"`
	Available    []string                    `json:"available,omitempty"`
	Exhausted    []string                    `json:"exhausted,omitempty"`
	Unavailable  []string                    `json:"unavailable,omitempty"`
}

// Capabilities classifies each requested action as available, exhausted or
// unavailable for the actor at the instant.
func (e *Engine) Capabilities(ctx context.Context, actorID string, actions []string, at time.Time) (*CapabilitySet, error) {
	evalAt := e.at(at)
	ents, err := e.entitlementsFor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	set := &CapabilitySet{Capabilities: make(map[string]ActionCapability, len(actions))}
	for _, action := range actions {
		ent, ok := ents[action]
		if !ok {
			set.Capabilities[action] = ActionCapability{Action: action, Kind: CAPABILITY_UNAVAILABLE}
			set.Unavailable = append(set.Unavailable, action)
			continue
		}

		var used int64
		if !ent.Limit.IsUnlimited() {
			if used, err = e.usageFor(ctx, actorID, action, ent, evalAt); err != nil {
				return nil, err
			}
		}

		check := alimit.CheckLimit(ent.Limit, used, 1)
		if check.Allowed {
			capability := ActionCapability{Action: action, Kind: CAPABILITY_AVAILABLE}
			if !ent.Limit.IsUnlimited() {
				qs, err := quotaState(action, ent, used, evalAt)
				if err != nil {
					return nil, err
				}
				capability.Quota = &qs
			}
			if check.Consume > 0 {
				ob := ConsumeObligation(action, check.Consume)
				capability.Obligation = &ob
			}
			set.Capabilities[action] = capability
			set.Available = append(set.Available, action)
			continue
		}

		qs, err := quotaState(action, ent, used, evalAt)
		if err != nil {
			return nil, err
		}
		avail := alimit.AvailableAt(ent.Limit, used, ent.Window, evalAt)
		reason := avail.Reason
		if reason == "" {
			reason = "limit exhausted"
		}
		set.Capabilities[action] = ActionCapability{
			Action:      action,
			Kind:        CAPABILITY_EXHAUSTED,
			Quota:       &qs,
			Reason:      reason,
			AvailableAt: avail.At,
		}
		set.Exhausted = append(set.Exhausted, action)
	}
	return set, nil
}

// AvailableAt answers when the actor can next use the action. An unknown
// action is never available.
func (e *Engine) AvailableAt(ctx context.Context, actorID, action string, at time.Time) (alimit.Availability, error) {
	evalAt := e.at(at)
	ents, err := e.entitlementsFor(ctx, actorID)
	if err != nil {
		return alimit.Availability{}, err
	}
	ent, ok := ents[action]
	if !ok {
		return alimit.NeverAvailable(fmt.Sprintf("no entitlement defined for %q", action)), nil
	}

	var used int64
	if !ent.Limit.IsUnlimited() {
		if used, err = e.usageFor(ctx, actorID, action, ent, evalAt); err != nil {
			return alimit.Availability{}, err
		}
	}
	return alimit.AvailableAt(ent.Limit, used, ent.Window, evalAt), nil
}

// RemainingUses reports how many uses are left and what constrains them.
type RemainingUses struct {
	Uses      alimit.Limit `json:"uses"`
	LimitedBy string       `json:"limitedBy,omitempty"`
}

// RemainingUses counts what is left of the action for the actor.
func (e *Engine) RemainingUses(ctx context.Context, actorID, action string, at time.Time) (RemainingUses, error) {
	evalAt := e.at(at)
	ents, err := e.entitlementsFor(ctx, actorID)
	if err != nil {
		return RemainingUses{}, err
	}
	ent, ok := ents[action]
	if !ok {
		return RemainingUses{Uses: alimit.LimitOf(0), LimitedBy: "no-entitlement"}, nil
	}
	if ent.Limit.IsUnlimited() {
		return RemainingUses{Uses: alimit.Unlimited(), LimitedBy: "none"}, nil
	}

	used, err := e.usageFor(ctx, actorID, action, ent, evalAt)
	if err != nil {
		return RemainingUses{}, err
	}
	return RemainingUses{Uses: alimit.RemainingQuota(ent.Limit, used), LimitedBy: ent.LimitedBy()}, nil
}

// Dashboard projects every entitled action into its quota state.
func (e *Engine) Dashboard(ctx context.Context, actorID string, at time.Time) (map[string]QuotaState, error) {
	evalAt := e.at(at)
	ents, err := e.entitlementsFor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]QuotaState, len(ents))
	for action, ent := range ents {
		used, err := e.usageFor(ctx, actorID, action, ent, evalAt)
		if err != nil {
			return nil, err
		}
		qs, err := quotaState(action, ent, used, evalAt)
		if err != nil {
			return nil, err
		}
		out[action] = qs
	}

	e.logger.Debug().
		Str("actorId", actorID).
		Int("actions", len(out)).
		Time("at", evalAt).
		Msg("entitlement dashboard")

	return out, nil
}
