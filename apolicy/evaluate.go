package apolicy

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
)

// Policy is facts + rules + resolver. The zero Logger is silent.
type Policy[T any] struct {
	Name     string
	Facts    []FactDef
	Rules    []Rule
	Resolver Resolver[T]
	Logger   zerolog.Logger
}

// Evaluate loads the fact graph, runs every rule in list order, resolves the
// outcome and returns the decision with reasons, obligations and a trace.
//
// Structural problems in the fact graph fail fast. Errors from loaders or
// rules propagate unchanged: no partial decision, no trace.
func Evaluate[T any](ctx context.Context, p *Policy[T], input any) (*Decision[T], error) {
	if p == nil || p.Resolver == nil {
		return nil, fmt.Errorf("policy is incomplete: resolver is required")
	}
	evaluatedAt := time.Now().UTC()

	facts, order, err := loadFacts(ctx, p.Facts, input)
	if err != nil {
		return nil, err
	}

	results := make([]RuleEvaluation, 0, len(p.Rules))
	reasons := make([]Reason, 0, len(p.Rules))
	var obligations []Obligation
	for _, rule := range p.Rules {
		result, err := rule.Evaluate(ctx, input, facts)
		if err != nil {
			return nil, err
		}
		results = append(results, RuleEvaluation{RuleID: rule.ID, Result: result})
		reasons = append(reasons, Reason{
			RuleID:      rule.ID,
			Outcome:     result.Outcome,
			Explanation: result.Explanation,
			Metadata:    result.Metadata,
		})
		if result.Outcome == OUTCOME_ALLOW {
			obligations = append(obligations, result.Obligations...)
		}
	}

	outcome := p.Resolver(results, input, facts)

	evalID, _ := uuid.NewV7()
	decision := &Decision[T]{
		Outcome:     outcome,
		Reasons:     reasons,
		Obligations: obligations,
		Trace: &Trace{
			EvalID:      evalID,
			EvaluatedAt: evaluatedAt,
			Duration:    time.Since(evaluatedAt),
			Facts:       facts,
			Order:       order,
		},
	}

	p.Logger.Debug().
		Str("policy", p.Name).
		Str("evalId", evalID.String()).
		Int("rules", len(p.Rules)).
		Int("obligations", len(obligations)).
		Msg("policy evaluated")

	return decision, nil
}
