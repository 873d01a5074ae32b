package lexer

import (
	"slices"
	"strings"
	"testing"
)

func kindsOf(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}
	return out
}

func join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}

func mustTokenize(t *testing.T, template string) []Token {
	t.Helper()
	tokens, err := Tokenize(template)
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", template, err)
	}
	return tokens
}

func expectKinds(t *testing.T, tokens []Token, want ...Kind) {
	t.Helper()
	if got := kindsOf(tokens); !slices.Equal(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}
}

func TestTokenize_Classes(t *testing.T) {
	tokens := mustTokenize(t, "a.name = ? AND a.age > %i")

	expectKinds(t, tokens, Reference, Text, Placeholder, Text, Ident, Text, Reference, Text, Modifier)
	if got := join(tokens); got != "a.name = ? AND a.age > %i" {
		t.Errorf("join = %q", got)
	}
	if got := Arity(tokens); got != 2 {
		t.Errorf("Arity() = %d, want 2", got)
	}
}

func TestTokenize_StringLiteralsAreOpaque(t *testing.T) {
	tests := []struct {
		name     string
		template string
		literal  string
	}{
		{"single quoted", `x = 'b.title ?'`, `'b.title ?'`},
		{"double quoted", `x = "a.name %s"`, `"a.name %s"`},
		{"doubled single quote", `x = 'it''s a.b'`, `'it''s a.b'`},
		{"doubled double quote", `x = "say ""a.b"""`, `"say ""a.b"""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := mustTokenize(t, tt.template)
			if len(tokens) == 0 {
				t.Fatal("Expected tokens")
			}

			last := tokens[len(tokens)-1]
			if last.Kind != String || last.Value != tt.literal {
				t.Errorf("last token = %v %q, want String %q", last.Kind, last.Value, tt.literal)
			}
			if got := Arity(tokens); got != 0 {
				t.Errorf("Arity() = %d, want 0", got)
			}
		})
	}
}

func TestTokenize_Modifiers(t *testing.T) {
	tests := []struct {
		template string
		modifier string
		arity    int
	}{
		{"%s", "s", 1},
		{"%in", "in", 1},
		{"%like~", "like~", 1},
		{"%~like~", "~like~", 1},
		{"%else", "else", 0},
		{"%end", "end", 0},
		{"%if", "if", 1},
	}
	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			tokens := mustTokenize(t, tt.template)
			if len(tokens) != 1 {
				t.Fatalf("Expected 1 token, got %d", len(tokens))
			}

			tok := tokens[0]
			if tok.Kind != Modifier {
				t.Errorf("Kind = %v, want Modifier", tok.Kind)
			}
			if got := tok.Modifier(); got != tt.modifier {
				t.Errorf("Modifier() = %q, want %q", got, tt.modifier)
			}
			if got := tok.Arity(); got != tt.arity {
				t.Errorf("Arity() = %d, want %d", got, tt.arity)
			}
		})
	}
}

func TestTokenize_ModifierLengthLimit(t *testing.T) {
	tokens := mustTokenize(t, "%abcdefgh")
	if len(tokens) != 2 {
		t.Fatalf("Expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Value != "%abcdef" {
		t.Errorf("modifier = %q, want %%abcdef", tokens[0].Value)
	}
	if tokens[1].Kind != Ident || tokens[1].Value != "gh" {
		t.Errorf("rest = %v %q, want Ident gh", tokens[1].Kind, tokens[1].Value)
	}
}

func TestTokenize_LonePercentAndQuote(t *testing.T) {
	tokens := mustTokenize(t, "5 % 3 and it's")

	if got := join(tokens); got != "5 % 3 and it's" {
		t.Errorf("join = %q", got)
	}
	if got := Arity(tokens); got != 0 {
		t.Errorf("Arity() = %d, want 0", got)
	}
	for _, tok := range tokens {
		if tok.Kind == Reference {
			t.Errorf("Unexpected reference %q", tok.Value)
		}
	}
}

func TestTokenize_DecimalIsNotReference(t *testing.T) {
	expectKinds(t, mustTokenize(t, "b.price > 12.50"), Reference, Text, Number)
}

func TestTokenize_NonASCIIIdentifiers(t *testing.T) {
	tokens := mustTokenize(t, "č.název = ?")
	if len(tokens) == 0 {
		t.Fatal("Expected tokens")
	}

	alias, property := tokens[0].Reference()
	if alias != "č" || property != "název" {
		t.Errorf("Reference() = %q, %q", alias, property)
	}
}

func TestToken_Reference(t *testing.T) {
	alias, property := Token{Kind: Reference, Value: "book.author_id"}.Reference()
	if alias != "book" || property != "author_id" {
		t.Errorf("Reference() = %q, %q", alias, property)
	}

	alias, property = Token{Kind: Ident, Value: "book"}.Reference()
	if alias != "" || property != "" {
		t.Errorf("Reference() on Ident = %q, %q; want empty", alias, property)
	}
}

func TestTokenize_Offsets(t *testing.T) {
	tokens := mustTokenize(t, "a.x = ?")
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(tokens))
	}
	for i, want := range []int{0, 3, 6} {
		if tokens[i].Offset != want {
			t.Errorf("tokens[%d].Offset = %d, want %d", i, tokens[i].Offset, want)
		}
	}
}

func TestTokenize_Empty(t *testing.T) {
	if tokens := mustTokenize(t, ""); len(tokens) != 0 {
		t.Errorf("Expected no tokens, got %v", tokens)
	}
}

func TestTokenize_BracketedIdentifiers(t *testing.T) {
	tokens := mustTokenize(t, "[a.name] = ? AND b.title <> '[x.y]'")

	expectKinds(t, tokens, Bracketed, Text, Placeholder, Text, Ident, Text, Reference, Text, String)
	if got := tokens[0].Identifier(); got != "a.name" {
		t.Errorf("Identifier() = %q, want a.name", got)
	}
	if got := tokens[2].Identifier(); got != "" {
		t.Errorf("Identifier() on placeholder = %q, want empty", got)
	}
}

func TestTokenize_LoneBracket(t *testing.T) {
	tokens := mustTokenize(t, "a.x [ 1")

	if got := join(tokens); got != "a.x [ 1" {
		t.Errorf("join = %q", got)
	}
	if tokens[0].Kind != Reference {
		t.Errorf("tokens[0].Kind = %v, want Reference", tokens[0].Kind)
	}
}
