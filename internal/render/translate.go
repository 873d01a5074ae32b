package render

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/dql/internal/lexer"
)

// likeEscape is the ESCAPE character used by the %like modifiers.
const likeEscape = "!"

var likeEscaper = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
	"[", likeEscape+"[",
)

// modifiers lists every %modifier that consumes a bound value.
var modifiers = map[string]bool{
	"s": true, "i": true, "f": true, "b": true, "d": true, "t": true,
	"n": true, "sql": true, "in": true, "l": true, "ex": true,
	"like~": true, "~like": true, "~like~": true,
}

type conditional struct {
	outer bool
	take  bool
}

// Translator renders argument sequences for one statement. Bound values
// are collected in order and placeholders are numbered across every
// fragment the translator renders.
type Translator struct {
	dialect Dialect
	params  []any
	conds   []conditional
}

// NewTranslator creates a translator for the dialect.
func NewTranslator(d Dialect) *Translator {
	return &Translator{dialect: d}
}

// Params returns the bound values collected so far.
func (t *Translator) Params() []any {
	return t.params
}

// Translate renders a single argument sequence.
func Translate(d Dialect, args []any) (string, []any, error) {
	tr := NewTranslator(d)
	sql, err := tr.Fragment(args)
	if err != nil {
		return "", nil, err
	}
	return sql, tr.Params(), nil
}

// Fragment renders one argument sequence. Templates are joined by a single
// space; %if blocks must close within the sequence.
func (t *Translator) Fragment(args []any) (string, error) {
	t.conds = t.conds[:0]
	sql, err := t.sequence(args)
	if err != nil {
		return "", err
	}
	if len(t.conds) > 0 {
		return "", ConditionalError{}
	}
	return sql, nil
}

func (t *Translator) active() bool {
	if len(t.conds) == 0 {
		return true
	}
	c := t.conds[len(t.conds)-1]
	return c.outer && c.take
}

func (t *Translator) sequence(args []any) (string, error) {
	parts := make([]string, 0, len(args))
	for i := 0; i < len(args); {
		arg := args[i]
		i++

		var part string
		switch v := arg.(type) {
		case string:
			sql, used, err := t.template(v, args[i:])
			if err != nil {
				return "", err
			}
			i += used
			part = sql
		case []any:
			if !t.active() {
				continue
			}
			nested, err := t.sequence(v)
			if err != nil {
				return "", err
			}
			part = "(" + nested + ")"
		default:
			if !t.active() {
				continue
			}
			part = t.auto(v)
		}

		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " "), nil
}

// template renders one template string, consuming bound values from rest.
// It returns how many values were consumed.
func (t *Translator) template(tmpl string, rest []any) (string, int, error) {
	tokens, err := lexer.Tokenize(tmpl)
	if err != nil {
		return "", 0, err
	}

	var b strings.Builder
	used := 0
	next := func(tok lexer.Token) (any, error) {
		if used >= len(rest) {
			return nil, MissingArgumentError{Template: tmpl, Token: tok.Value, Offset: tok.Offset}
		}
		v := rest[used]
		used++
		return v, nil
	}

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.Placeholder:
			v, err := next(tok)
			if err != nil {
				return "", 0, err
			}
			if t.active() {
				b.WriteString(t.auto(v))
			}

		case lexer.Modifier:
			switch m := tok.Modifier(); m {
			case "if":
				v, err := next(tok)
				if err != nil {
					return "", 0, err
				}
				t.conds = append(t.conds, conditional{outer: t.active(), take: truthy(v)})
			case "else":
				if len(t.conds) == 0 {
					return "", 0, ConditionalError{Keyword: m}
				}
				top := &t.conds[len(t.conds)-1]
				top.take = !top.take
			case "end":
				if len(t.conds) == 0 {
					return "", 0, ConditionalError{Keyword: m}
				}
				t.conds = t.conds[:len(t.conds)-1]
			default:
				if !modifiers[m] {
					return "", 0, UnknownModifierError{Modifier: m, Template: tmpl}
				}
				v, err := next(tok)
				if err != nil {
					return "", 0, err
				}
				if !t.active() {
					continue
				}
				s, err := t.modifier(m, v)
				if err != nil {
					return "", 0, err
				}
				b.WriteString(s)
			}

		case lexer.String:
			if t.active() {
				b.WriteString(normalizeString(tok.Value))
			}

		case lexer.Bracketed:
			if t.active() {
				b.WriteString(t.identifier(tok.Identifier()))
			}

		default:
			if t.active() {
				b.WriteString(tok.Value)
			}
		}
	}
	return b.String(), used, nil
}

func (t *Translator) modifier(m string, v any) (string, error) {
	switch m {
	case "s":
		if v == nil {
			return "NULL", nil
		}
		return t.bind(toString(v)), nil
	case "i":
		if v == nil {
			return "NULL", nil
		}
		n, err := toInt(v)
		if err != nil {
			return "", InvalidValueError{Modifier: m, Value: v, Reason: err.Error()}
		}
		return t.bind(n), nil
	case "f":
		if v == nil {
			return "NULL", nil
		}
		f, err := toFloat(v)
		if err != nil {
			return "", InvalidValueError{Modifier: m, Value: v, Reason: err.Error()}
		}
		return t.bind(f), nil
	case "b":
		if v == nil {
			return "NULL", nil
		}
		return t.bind(truthy(v)), nil
	case "d", "t":
		switch x := v.(type) {
		case nil:
			return "NULL", nil
		case time.Time:
			if m == "d" {
				return t.bind(x.Format(time.DateOnly)), nil
			}
			return t.bind(x), nil
		case string:
			return t.bind(x), nil
		}
		return "", InvalidValueError{Modifier: m, Value: v, Reason: "expected time.Time or string"}
	case "n":
		s, ok := v.(string)
		if !ok || s == "" {
			return "", InvalidValueError{Modifier: m, Value: v, Reason: "expected identifier string"}
		}
		return t.identifier(s), nil
	case "sql":
		return toString(v), nil
	case "in", "l":
		if v == nil {
			return "(NULL)", nil
		}
		rv := reflect.ValueOf(v)
		if !isList(rv) {
			return "", InvalidValueError{Modifier: m, Value: v, Reason: "expected slice"}
		}
		return t.list(rv), nil
	case "like~", "~like", "~like~":
		if v == nil {
			return "NULL", nil
		}
		p := likeEscaper.Replace(toString(v))
		if strings.HasPrefix(m, "~") {
			p = "%" + p
		}
		if strings.HasSuffix(m, "~") {
			p += "%"
		}
		return t.bind(p) + " ESCAPE '" + likeEscape + "'", nil
	case "ex":
		if nested, ok := v.([]any); ok {
			return t.sequence(nested)
		}
		return t.auto(v), nil
	}
	return "", UnknownModifierError{Modifier: m}
}

// auto formats a value bound through ? or a non-template argument.
func (t *Translator) auto(v any) string {
	switch v.(type) {
	case nil:
		return "NULL"
	case string, []byte, bool, time.Time, driver.Valuer:
		return t.bind(v)
	}
	if rv := reflect.ValueOf(v); isList(rv) {
		return t.list(rv)
	}
	return t.bind(v)
}

func (t *Translator) bind(v any) string {
	t.params = append(t.params, v)
	return t.dialect.Placeholder(len(t.params))
}

func (t *Translator) list(rv reflect.Value) string {
	if rv.Len() == 0 {
		return "(NULL)"
	}
	items := make([]string, rv.Len())
	for i := range items {
		items[i] = t.bind(rv.Index(i).Interface())
	}
	return "(" + strings.Join(items, ", ") + ")"
}

// identifier quotes a dotted identifier path; * stays bare.
func (t *Translator) identifier(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		if p != "*" {
			parts[i] = t.dialect.QuoteIdentifier(strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, ".")
}

// QuotePath quotes a dotted identifier path for d.
func QuotePath(d Dialect, path string) string {
	return NewTranslator(d).identifier(path)
}

// normalizeString rewrites a quoted literal to single quotes.
func normalizeString(lit string) string {
	if lit[0] == '\'' {
		return lit
	}
	inner := strings.ReplaceAll(lit[1:len(lit)-1], `""`, `"`)
	return "'" + strings.ReplaceAll(inner, "'", "''") + "'"
}

func isList(rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

func toInt(v any) (int64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil //nolint:gosec // values beyond int64 are not valid %i input
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float()), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		return strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
	}
	return 0, fmt.Errorf("expected integer, got %T", v)
}

func toFloat(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
	}
	return 0, fmt.Errorf("expected number, got %T", v)
}

// truthy reports whether a %if or %b value counts as true.
func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.String:
		s := rv.String()
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
		return s != ""
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
