package apolicy

import (
	"context"
)

// Facts is the loaded fact map handed to loaders, rules and resolvers.
type Facts map[string]any

// FactLoader produces a fact value. Loaders may block (fetch, query); by the
// time a loader runs, every declared dependency is present in facts.
type FactLoader func(ctx context.Context, input any, facts Facts) (any, error)

// FactDef declares a named fact, its dependencies and its producer.
type FactDef struct {
	Name      string
	DependsOn []string
	Load      FactLoader
}

// Fact is a convenience constructor for a FactDef without dependencies.
func Fact(name string, load FactLoader) FactDef {
	return FactDef{Name: name, Load: load}
}

// FactWithDeps is a convenience constructor for a dependent FactDef.
func FactWithDeps(name string, deps []string, load FactLoader) FactDef {
	return FactDef{Name: name, DependsOn: deps, Load: load}
}

// loadFacts resolves the graph depth-first in topological order and loads
// each fact sequentially. The returned order lists fact names as loaded.
// Structural problems fail fast: a revisit of an in-progress fact is a
// *CycleError, a reference to an undefined fact is an *UnknownFactError.
// Loader errors propagate unchanged.
func loadFacts(ctx context.Context, defs []FactDef, input any) (Facts, []string, error) {
	byName := make(map[string]*FactDef, len(defs))
	for i := range defs {
		byName[defs[i].Name] = &defs[i]
	}

	const (
		stateUnvisited = 0
		stateVisiting  = 1
		stateDone      = 2
	)
	state := make(map[string]int, len(defs))
	facts := make(Facts, len(defs))
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case stateDone:
			return nil
		case stateVisiting:
			return &CycleError{Fact: name}
		}
		def := byName[name]
		state[name] = stateVisiting
		for _, dep := range def.DependsOn {
			if _, ok := byName[dep]; !ok {
				return &UnknownFactError{Fact: name, Dep: dep}
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		value, err := def.Load(ctx, input, facts)
		if err != nil {
			return err
		}
		facts[name] = value
		order = append(order, name)
		state[name] = stateDone
		return nil
	}

	for i := range defs {
		if err := visit(defs[i].Name); err != nil {
			return nil, nil, err
		}
	}
	return facts, order, nil
}
