package dql

import (
	"errors"
	"fmt"
	"strings"
)

// Error classes. Every error returned while building a query matches
// exactly one of them under errors.Is.
var (
	// ErrConfiguration marks misuse of the fluent API.
	ErrConfiguration = errors.New("dql: configuration error")
	// ErrResolution marks references that do not resolve against the entity metadata.
	ErrResolution = errors.New("dql: resolution error")
)

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsResolution reports whether err is a resolution error.
func IsResolution(err error) bool {
	return errors.Is(err, ErrResolution)
}

// DuplicateAliasError is returned when an alias is bound twice.
type DuplicateAliasError struct {
	Alias    string
	Entity   string
	Existing string
}

func (e *DuplicateAliasError) Error() string {
	return fmt.Sprintf("dql: alias '%s' for %s is already bound to %s", e.Alias, e.Entity, e.Existing)
}

func (e *DuplicateAliasError) Is(target error) bool { return target == ErrConfiguration }

// FromAlreadySetError is returned by a second From call.
type FromAlreadySetError struct {
	Entity string
	Alias  string
}

func (e *FromAlreadySetError) Error() string {
	return fmt.Sprintf("dql: clause FROM was already defined (as %s %s)", e.Entity, e.Alias)
}

func (e *FromAlreadySetError) Is(target error) bool { return target == ErrConfiguration }

// IncompleteQueryError is returned when compiling without SELECT or FROM.
type IncompleteQueryError struct {
	Missing []string
}

func (e *IncompleteQueryError) Error() string {
	return fmt.Sprintf("dql: you have to specify SELECT and FROM clauses (missing %s)", strings.Join(e.Missing, ", "))
}

func (e *IncompleteQueryError) Is(target error) bool { return target == ErrConfiguration }

// MalformedSelectListError is returned for a select list that is not a
// comma separated list of aliases.
type MalformedSelectListError struct {
	List string
}

func (e *MalformedSelectListError) Error() string {
	return fmt.Sprintf("dql: malformed select list '%s'", e.List)
}

func (e *MalformedSelectListError) Is(target error) bool { return target == ErrConfiguration }

// RelationshipOrderError is returned when ordering by a relationship property.
type RelationshipOrderError struct {
	Alias    string
	Property string
}

func (e *RelationshipOrderError) Error() string {
	return fmt.Sprintf("dql: it is not possible to order by property '%s.%s' which has a relationship", e.Alias, e.Property)
}

func (e *RelationshipOrderError) Is(target error) bool { return target == ErrConfiguration }

// MalformedExpressionError is returned when an expression argument in
// template position is neither a string nor a nested sequence.
type MalformedExpressionError struct {
	Position int
	Value    any
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("dql: argument %d (%T) is not an expression template", e.Position, e.Value)
}

func (e *MalformedExpressionError) Is(target error) bool { return target == ErrConfiguration }

// UnknownAliasError is returned when an alias is not bound in the query.
type UnknownAliasError struct {
	Alias      string
	Suggestion string
}

func (e *UnknownAliasError) Error() string {
	msg := fmt.Sprintf("dql: alias '%s' is not bound", e.Alias)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean '%s'?", e.Suggestion)
	}
	return msg
}

func (e *UnknownAliasError) Is(target error) bool { return target == ErrResolution }

// UnknownEntityError is returned by providers for entities they do not know.
type UnknownEntityError struct {
	Entity     string
	Suggestion string
}

func (e *UnknownEntityError) Error() string {
	msg := fmt.Sprintf("dql: entity '%s' is not registered", e.Entity)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean '%s'?", e.Suggestion)
	}
	return msg
}

func (e *UnknownEntityError) Is(target error) bool { return target == ErrResolution }

// UnknownPropertyError is returned when an entity has no such property.
type UnknownPropertyError struct {
	Entity     string
	Property   string
	Suggestion string
}

func (e *UnknownPropertyError) Error() string {
	msg := fmt.Sprintf("dql: property '%s' does not exist on %s", e.Property, e.Entity)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean '%s'?", e.Suggestion)
	}
	return msg
}

func (e *UnknownPropertyError) Is(target error) bool { return target == ErrResolution }

// UnmappedColumnError is returned when a property referenced in an
// expression has no column of its own.
type UnmappedColumnError struct {
	Entity       string
	Property     string
	Relationship bool
}

func (e *UnmappedColumnError) Error() string {
	msg := fmt.Sprintf("dql: property '%s' has no column defined in %s", e.Property, e.Entity)
	if e.Relationship {
		msg += ", it has a relationship, use a JOIN clause on the query"
	}
	return msg
}

func (e *UnmappedColumnError) Is(target error) bool { return target == ErrResolution }

// InvalidRelationError is returned for a join path that does not name a
// relationship property.
type InvalidRelationError struct {
	Path   string
	Entity string
	Reason string
}

func (e *InvalidRelationError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("dql: invalid relation path '%s': %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("dql: invalid relation path '%s' on %s: %s", e.Path, e.Entity, e.Reason)
}

func (e *InvalidRelationError) Is(target error) bool { return target == ErrResolution }

// UnknownResultError is returned when asking for the result of an alias
// the query did not hydrate.
type UnknownResultError struct {
	Alias     string
	Available []string
}

func (e *UnknownResultError) Error() string {
	return fmt.Sprintf("dql: no result for alias '%s' (available: %s)", e.Alias, strings.Join(e.Available, ", "))
}

func (e *UnknownResultError) Is(target error) bool { return target == ErrResolution }

// InvalidAliasError is returned for an alias outside the identifier grammar.
type InvalidAliasError struct {
	Alias string
}

func (e *InvalidAliasError) Error() string {
	return fmt.Sprintf("dql: invalid alias '%s'", e.Alias)
}

func (e *InvalidAliasError) Is(target error) bool { return target == ErrConfiguration }

// InvalidPathError is returned for a property path that is not alias.property.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("dql: invalid argument '%s' for dot notation parsing", e.Path)
}

func (e *InvalidPathError) Is(target error) bool { return target == ErrResolution }

// InvalidDirectionError is returned for a sort direction other than ASC or DESC.
type InvalidDirectionError struct {
	Direction Direction
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("dql: invalid sort direction '%s', expected ASC or DESC", e.Direction)
}

func (e *InvalidDirectionError) Is(target error) bool { return target == ErrConfiguration }

// InvalidPaginationError is returned for a negative LIMIT or OFFSET.
type InvalidPaginationError struct {
	Clause string
	Value  int
}

func (e *InvalidPaginationError) Error() string {
	return fmt.Sprintf("dql: %s must not be negative, got %d", e.Clause, e.Value)
}

func (e *InvalidPaginationError) Is(target error) bool { return target == ErrConfiguration }
