package types

import "fmt"

// Direction represents sort direction.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)

// JoinKind represents the type of SQL join a relationship path produces.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER JOIN"
	LeftJoin  JoinKind = "LEFT JOIN"
)

// Fragment is an argument sequence in the statement builder language.
// The first element is normally a template string; the rest are bound
// values for the placeholders and modifiers found in it. Nested []any
// elements in template position are structured sub-expressions.
type Fragment []any

// Join represents one JOIN clause of a compiled statement.
//
// On always has the shape "%n.%n = %n.%n" with the four identifiers as
// arguments. Extra holds the translated custom ON condition, AND-ed to On.
type Join struct {
	Kind  JoinKind
	Table Table
	On    Fragment
	Extra Fragment
}

// OrderBy represents a domain ORDER BY term on a mapped column.
type OrderBy struct {
	Alias     string
	Column    string
	Direction Direction
}

// Statement is the compiled clause sequence handed to a renderer.
// Clauses render in field order. A Statement is never mutated once
// compiled; queries build a fresh one after every change.
//
//nolint:govet // fieldalignment: clause order is preferred over memory optimization
type Statement struct {
	Select     []Fragment // per-alias projections followed by native SELECT fragments
	From       Table
	FromKey    string // primary key column of From, counted by count statements
	Joins      []Join
	Where      Fragment
	Ordering   []OrderBy
	GroupBy    []Fragment
	Having     []Fragment
	SQLOrderBy []Fragment
	Offset     *int
	Limit      *int
}

// Validate performs basic validation on the statement.
func (s *Statement) Validate() error {
	if s.From.Name == "" {
		return fmt.Errorf("FROM table is required")
	}
	if len(s.Select) == 0 {
		return fmt.Errorf("SELECT list is required")
	}
	for i, j := range s.Joins {
		if j.Kind != InnerJoin && j.Kind != LeftJoin {
			return fmt.Errorf("join %d: unsupported join kind %q", i, j.Kind)
		}
		if len(j.On) == 0 {
			return fmt.Errorf("join %d: %s requires ON clause", i, j.Kind)
		}
	}
	return nil
}
