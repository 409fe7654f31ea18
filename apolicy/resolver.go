package apolicy

// Resolver folds the ordered rule evaluations into the decision outcome.
type Resolver[T any] func(results []RuleEvaluation, input any, facts Facts) T

// Allowed is the outcome type of the boolean built-in resolvers.
type Allowed struct {
	Allowed bool `json:"allowed"`
}

// AllMustAllow allows iff no rule denied; skips do not block.
func AllMustAllow() Resolver[Allowed] {
	return func(results []RuleEvaluation, _ any, _ Facts) Allowed {
		for _, r := range results {
			if r.Result.Outcome == OUTCOME_DENY {
				return Allowed{}
			}
		}
		return Allowed{Allowed: true}
	}
}

// AnyMustAllow allows iff at least one rule allowed.
func AnyMustAllow() Resolver[Allowed] {
	return func(results []RuleEvaluation, _ any, _ Facts) Allowed {
		for _, r := range results {
			if r.Result.Outcome == OUTCOME_ALLOW {
				return Allowed{Allowed: true}
			}
		}
		return Allowed{}
	}
}

// WeightedScore sums the weight of every allowing rule. Weights are supplied
// at construction, keyed by rule id; missing entries weigh zero.
func WeightedScore(weights map[string]int) Resolver[int] {
	return func(results []RuleEvaluation, _ any, _ Facts) int {
		score := 0
		for _, r := range results {
			if r.Result.Outcome == OUTCOME_ALLOW {
				score += weights[r.RuleID]
			}
		}
		return score
	}
}
