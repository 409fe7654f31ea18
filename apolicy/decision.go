package apolicy

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Reason records one rule's verdict, in rule order.
type Reason struct {
	RuleID      string         `json:"ruleId,omitempty"`
	Outcome     Outcome        `json:"outcome,omitempty"`
	Explanation string         `json:"explanation,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// Trace captures how a decision came to be: when, how long, the loaded fact
// snapshot and the topological load order.
type Trace struct {
	EvalID      uuid.UUID     `json:"evalId,omitempty"`
	EvaluatedAt time.Time     `json:"evaluatedAt,omitempty"`
	Duration    time.Duration `json:"durationMs,omitempty"`
	Facts       Facts         `json:"facts,omitempty"`
	Order       []string      `json:"order,omitempty"`
}

// MarshalJSON renders Duration as whole milliseconds under "durationMs".
func (t Trace) MarshalJSON() ([]byte, error) {
	type plain Trace
	return json.Marshal(struct {
		plain
		Duration int64 `json:"durationMs,omitempty"`
	}{plain: plain(t), Duration: t.Duration.Milliseconds()})
}

// Decision is the product of a policy evaluation. Reasons appear in the same
// order as the policy's rules; obligations are the concatenation, in rule
// order, of obligations from allow results.
type Decision[T any] struct {
	Outcome     T            `json:"outcome,omitempty"`
	Reasons     []Reason     `json:"reasons,omitempty"`
	Obligations []Obligation `json:"obligations,omitempty"`
	Trace       *Trace       `json:"trace,omitempty"`
}
