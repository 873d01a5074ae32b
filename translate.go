package dql

import (
	"fmt"
	"strings"

	"github.com/zoobzio/dql/internal/lexer"
	"github.com/zoobzio/dql/internal/suggest"
	"github.com/zoobzio/dql/internal/types"
)

// whereSeparator joins independent WHERE templates.
const whereSeparator = "AND"

// translator rewrites alias.property references in expression arguments
// into [alias.column] identifiers. It tracks how many of the following
// arguments are bound values of the last template.
type translator struct {
	provider Provider
	resolve  func(alias string) (string, error)
	awaited  int
}

// scan rewrites the references of one template and returns how many bound
// values the template consumes.
func (t *translator) scan(template string) (string, int, error) {
	tokens, err := lexer.Tokenize(template)
	if err != nil {
		return "", 0, fmt.Errorf("dql: %w", err)
	}

	var b strings.Builder
	b.Grow(len(template))
	for _, tok := range tokens {
		if tok.Kind != lexer.Reference {
			b.WriteString(tok.Value)
			continue
		}
		alias, name := tok.Reference()
		column, err := t.column(alias, name)
		if err != nil {
			return "", 0, err
		}
		b.WriteString("[")
		b.WriteString(alias)
		b.WriteString(".")
		b.WriteString(column)
		b.WriteString("]")
	}
	return b.String(), lexer.Arity(tokens), nil
}

func (t *translator) column(alias, name string) (string, error) {
	entity, err := t.resolve(alias)
	if err != nil {
		return "", err
	}
	p, ok := t.provider.Property(entity, name)
	if !ok {
		return "", &UnknownPropertyError{
			Entity:     entity,
			Property:   name,
			Suggestion: suggest.Closest(propertyNames(t.provider.Properties(entity)), name),
		}
	}
	if p.Column == "" {
		return "", &UnmappedColumnError{Entity: entity, Property: name, Relationship: p.HasRelation()}
	}
	return p.Column, nil
}

// expression translates an argument found where a template is expected.
func (t *translator) expression(pos int, arg any) (any, error) {
	switch v := arg.(type) {
	case string:
		s, n, err := t.scan(v)
		if err != nil {
			return nil, err
		}
		t.awaited = n
		return s, nil
	case []any:
		return v, nil
	case types.Fragment:
		return []any(v), nil
	}
	return nil, &MalformedExpressionError{Position: pos, Value: arg}
}

// where appends a WHERE argument list to existing and returns the result.
// existing is never modified.
func (t *translator) where(existing types.Fragment, args []any) (types.Fragment, error) {
	t.awaited = 0
	defer func() { t.awaited = 0 }()

	out := make(types.Fragment, len(existing), len(existing)+2*len(args))
	copy(out, existing)
	for i, arg := range args {
		if t.awaited > 0 {
			out = append(out, arg)
			t.awaited--
			continue
		}
		if len(out) > 0 {
			out = append(out, whereSeparator)
		}
		piece, err := t.expression(i, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, piece)
	}
	return out, nil
}

// on translates a custom ON condition argument list.
func (t *translator) on(args []any) (types.Fragment, error) {
	if len(args) == 0 {
		return nil, nil
	}
	t.awaited = 0
	defer func() { t.awaited = 0 }()

	out := make(types.Fragment, 0, len(args))
	for i, arg := range args {
		if t.awaited > 0 {
			out = append(out, arg)
			t.awaited--
			continue
		}
		piece, err := t.expression(i, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, piece)
	}
	return out, nil
}

func propertyNames(props []Property) []string {
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}
