package lexer

import (
	"reflect"
	"testing"
)

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

// ---------------------------------------------------------------------------
// Test: empty and blank input produce no tokens
// ---------------------------------------------------------------------------
func TestEmptyInput(t *testing.T) {
	for _, src := range []string{"", "   ", "\t\n\r"} {
		if tokens := Tokenize(src); len(tokens) != 0 {
			t.Errorf("Tokenize(%q) = %v, want no tokens", src, tokens)
		}
	}
}

func TestSingleExpression(t *testing.T) {
	got := Tokenize("(+ 1 2)")
	want := []Token{
		{Type: TokLParen, Value: "("},
		{Type: TokSymbol, Value: "+"},
		{Type: TokInt, Value: "1", Int: 1},
		{Type: TokInt, Value: "2", Int: 2},
		{Type: TokRParen, Value: ")"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParensNeedNoWhitespace(t *testing.T) {
	got := types(Tokenize("((define x(lambda(y)y))x)"))
	want := []TokenType{
		TokLParen, TokLParen, TokSymbol, TokSymbol, TokLParen, TokSymbol,
		TokLParen, TokSymbol, TokRParen, TokSymbol, TokRParen, TokRParen,
		TokSymbol, TokRParen,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIntegerClassification(t *testing.T) {
	tests := []struct {
		word    string
		wantInt bool
		value   int64
	}{
		{"0", true, 0},
		{"42", true, 42},
		{"-7", true, -7},
		{"+5", true, 5},
		{"9223372036854775807", true, 9223372036854775807},
		{"-9223372036854775808", true, -9223372036854775808},
		{"9223372036854775808", false, 0},
		{"-", false, 0},
		{"1x", false, 0},
		{"1_000", false, 0},
		{"0x10", false, 0},
		{"3.14", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			tokens := Tokenize(tt.word)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			tok := tokens[0]
			if tt.wantInt {
				if tok.Type != TokInt {
					t.Fatalf("expected TokInt, got %v", tok.Type)
				}
				if tok.Int != tt.value {
					t.Errorf("got %d, want %d", tok.Int, tt.value)
				}
			} else if tok.Type != TokSymbol {
				t.Errorf("expected TokSymbol, got %v", tok.Type)
			}
			if tok.Value != tt.word {
				t.Errorf("value = %q, want %q", tok.Value, tt.word)
			}
		})
	}
}

func TestSymbolsAreTakenLiterally(t *testing.T) {
	tokens := Tokenize(`"hi" ;comment #t != foo-bar`)
	want := []string{`"hi"`, ";comment", "#t", "!=", "foo-bar"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Type != TokSymbol || tok.Value != want[i] {
			t.Errorf("token %d = %v, want Symbol(%q)", i, tok, want[i])
		}
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: TokLParen, Value: "("}, "("},
		{Token{Type: TokRParen, Value: ")"}, ")"},
		{Token{Type: TokInt, Value: "12", Int: 12}, "Integer(12)"},
		{Token{Type: TokSymbol, Value: "x"}, `Symbol("x")`},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
