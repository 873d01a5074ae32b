package dql

import "github.com/zoobzio/dql/internal/suggest"

// aliasRegistry maps query aliases to entities. Bindings never change once made.
type aliasRegistry struct {
	entities map[string]string
	order    []string
}

func newAliasRegistry() aliasRegistry {
	return aliasRegistry{entities: make(map[string]string)}
}

// check reports whether alias could be bound without binding it.
func (r *aliasRegistry) check(alias, entity string) error {
	if existing, ok := r.entities[alias]; ok {
		return &DuplicateAliasError{Alias: alias, Entity: entity, Existing: existing}
	}
	return nil
}

func (r *aliasRegistry) bind(alias, entity string) error {
	if err := r.check(alias, entity); err != nil {
		return err
	}
	r.entities[alias] = entity
	r.order = append(r.order, alias)
	return nil
}

func (r *aliasRegistry) resolve(alias string) (string, error) {
	entity, ok := r.entities[alias]
	if !ok {
		return "", &UnknownAliasError{Alias: alias, Suggestion: suggest.Closest(r.order, alias)}
	}
	return entity, nil
}

// Aliases returns the bound aliases in bind order.
func (r *aliasRegistry) Aliases() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
