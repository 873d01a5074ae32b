package render

import "fmt"

// UnsupportedFeatureError indicates a feature not supported by the dialect.
type UnsupportedFeatureError struct {
	Feature string
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s is not supported: %s", e.Dialect, e.Feature, e.Hint)
	}
	return fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
}

// NewUnsupportedFeatureError creates a new unsupported feature error.
func NewUnsupportedFeatureError(dialect, feature string, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}

// MissingArgumentError indicates a placeholder or modifier with no bound value left.
type MissingArgumentError struct {
	Template string
	Token    string
	Offset   int
}

func (e MissingArgumentError) Error() string {
	return fmt.Sprintf("missing argument for %s at offset %d in %q", e.Token, e.Offset, e.Template)
}

// UnknownModifierError indicates a %modifier the renderer does not implement.
type UnknownModifierError struct {
	Modifier string
	Template string
}

func (e UnknownModifierError) Error() string {
	return fmt.Sprintf("unknown modifier %%%s in %q", e.Modifier, e.Template)
}

// InvalidValueError indicates a bound value a modifier cannot format.
type InvalidValueError struct {
	Modifier string
	Value    any
	Reason   string
}

func (e InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %#v for %%%s: %s", e.Value, e.Modifier, e.Reason)
}

// ConditionalError indicates unbalanced %if, %else and %end keywords.
type ConditionalError struct {
	Keyword string
}

func (e ConditionalError) Error() string {
	if e.Keyword == "" {
		return "unterminated %if"
	}
	return fmt.Sprintf("%%%s without matching %%if", e.Keyword)
}
