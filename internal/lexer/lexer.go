// Package lexer tokenizes expression templates written in the statement
// builder language: quoted literals, [bracketed] identifiers, %modifiers,
// ? placeholders and alias.property references embedded in free-form SQL.
package lexer

import (
	"fmt"
	"strings"

	plexer "github.com/alecthomas/participle/v2/lexer"
)

// Identifier is the grammar of aliases, property names and columns.
// Any non-ASCII rune is accepted so identifiers stay 8-bit clean.
const Identifier = `[a-zA-Z0-9_\x{80}-\x{10FFFF}]+`

// Kind classifies a token.
type Kind int

const (
	// Text is any run of characters no other rule matches.
	Text Kind = iota
	// String is a quoted literal, '..' or "..", with doubled quotes inside.
	String
	// Bracketed is an already rewritten identifier such as [b.title].
	Bracketed
	// Modifier is a % directive such as %s, %in or %~like~.
	Modifier
	// Placeholder is a bare ? bound value.
	Placeholder
	// Number is a numeric literal, decimals included.
	Number
	// Reference is an alias.property path.
	Reference
	// Ident is a lone identifier.
	Ident
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case String:
		return "String"
	case Bracketed:
		return "Bracketed"
	case Modifier:
		return "Modifier"
	case Placeholder:
		return "Placeholder"
	case Number:
		return "Number"
	case Reference:
		return "Reference"
	case Ident:
		return "Ident"
	default:
		return "Text"
	}
}

// Rules are tried in order at every position; the first match wins.
var definition = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "String", Pattern: `'(?:''|[^'])*'|"(?:""|[^"])*"`},
	{Name: "Bracketed", Pattern: `\[[^\]\[]+\]`},
	{Name: "Modifier", Pattern: `%[a-zA-Z~][a-zA-Z0-9~]{0,5}`},
	{Name: "Placeholder", Pattern: `\?`},
	{Name: "Number", Pattern: `[0-9]+\.[0-9]+(?:[eE][-+]?[0-9]+)?`},
	{Name: "Reference", Pattern: Identifier + `\.` + Identifier},
	{Name: "Ident", Pattern: Identifier},
	{Name: "Text", Pattern: `[^'"%?\[a-zA-Z0-9_\x{80}-\x{10FFFF}]+`},
	{Name: "Char", Pattern: `.`},
})

var kinds = func() map[plexer.TokenType]Kind {
	byName := map[string]Kind{
		"String":      String,
		"Bracketed":   Bracketed,
		"Modifier":    Modifier,
		"Placeholder": Placeholder,
		"Number":      Number,
		"Reference":   Reference,
		"Ident":       Ident,
		"Text":        Text,
		"Char":        Text,
	}
	out := make(map[plexer.TokenType]Kind, len(byName))
	for name, tt := range definition.Symbols() {
		if k, ok := byName[name]; ok {
			out[tt] = k
		}
	}
	return out
}()

// Token is one lexical unit of a template.
type Token struct {
	Kind   Kind
	Value  string
	Offset int
}

// Arity returns how many bound arguments the token consumes.
// Modifiers consume one, except the control keywords %else and %end.
func (t Token) Arity() int {
	switch t.Kind {
	case Placeholder:
		return 1
	case Modifier:
		switch t.Modifier() {
		case "else", "end":
			return 0
		}
		return 1
	}
	return 0
}

// Modifier returns the modifier name without its leading percent sign.
func (t Token) Modifier() string {
	if t.Kind != Modifier {
		return ""
	}
	return t.Value[1:]
}

// Identifier returns the text between the brackets of a Bracketed token.
func (t Token) Identifier() string {
	if t.Kind != Bracketed {
		return ""
	}
	return t.Value[1 : len(t.Value)-1]
}

// Reference splits a reference token into alias and property.
func (t Token) Reference() (alias, property string) {
	if t.Kind != Reference {
		return "", ""
	}
	alias, property, _ = strings.Cut(t.Value, ".")
	return alias, property
}

// Tokenize splits a template into tokens. Concatenating the token values
// always reproduces the input.
func Tokenize(template string) ([]Token, error) {
	lex, err := definition.LexString("", template)
	if err != nil {
		return nil, fmt.Errorf("tokenize %q: %w", template, err)
	}
	raw, err := plexer.ConsumeAll(lex)
	if err != nil {
		return nil, fmt.Errorf("tokenize %q: %w", template, err)
	}
	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		if tok.EOF() {
			break
		}
		tokens = append(tokens, Token{
			Kind:   kinds[tok.Type],
			Value:  tok.Value,
			Offset: tok.Pos.Offset,
		})
	}
	return tokens, nil
}

// Arity sums the arity of every token.
func Arity(tokens []Token) int {
	n := 0
	for _, t := range tokens {
		n += t.Arity()
	}
	return n
}
