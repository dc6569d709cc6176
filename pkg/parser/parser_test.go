package parser_test

import (
	"errors"
	"testing"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/lexer"
	"github.com/thomasrohde/lispir/pkg/object"
	"github.com/thomasrohde/lispir/pkg/parser"
)

func sym(name string) object.Object { return object.NewSymbol(name) }
func num(n int64) object.Object     { return object.NewInteger(n) }
func list(items ...object.Object) object.Object {
	return object.NewList(items)
}

// helper: parse source and fail the test on error
func mustParse(t *testing.T, source string) object.Object {
	t.Helper()
	obj, err := parser.ParseSource(source)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if obj == nil {
		t.Fatal("expected non-nil object")
	}
	return obj
}

// helper: parse source and assert a ParseError with the given code
func mustFail(t *testing.T, source, code string) *parser.ParseError {
	t.Helper()
	_, err := parser.ParseSource(source)
	if err == nil {
		t.Fatalf("expected parse of %q to fail", source)
	}
	var pe *parser.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Code != code {
		t.Errorf("code = %q, want %q (message: %s)", pe.Code, code, pe.Message)
	}
	return pe
}

func TestParseFlat(t *testing.T) {
	got := mustParse(t, "(+ 1 2)")
	want := list(sym("+"), num(1), num(2))
	if !object.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseNested(t *testing.T) {
	got := mustParse(t, "(+ 1 (* 2 3))")
	want := list(sym("+"), num(1), list(sym("*"), num(2), num(3)))
	if !object.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseProgram(t *testing.T) {
	got := mustParse(t, `(
		(define sqr (lambda (x) (* x x)))
		(sqr 2)
	)`)
	want := list(
		list(sym("define"), sym("sqr"), list(sym("lambda"), list(sym("x")), list(sym("*"), sym("x"), sym("x")))),
		list(sym("sqr"), num(2)),
	)
	if !object.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseEmptyList(t *testing.T) {
	got := mustParse(t, "()")
	l, ok := got.(object.List)
	if !ok {
		t.Fatalf("expected List, got %T", got)
	}
	if len(l.Items) != 0 {
		t.Errorf("expected empty list, got %v", l)
	}
}

func TestParseIgnoresTrailingTokens(t *testing.T) {
	got := mustParse(t, "(define x 5) x")
	want := list(sym("define"), sym("x"), num(5))
	if !object.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseCompleteRejectsTrailingTokens(t *testing.T) {
	got, err := parser.ParseComplete("(  + 1 2 )")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(got, list(sym("+"), num(1), num(2))) {
		t.Errorf("got %v", got)
	}

	tests := []struct {
		source string
		code   string
	}{
		{"(define x 1) (define y 2)", diagnostics.EParse},
		{"(+ 1 2) ; note", diagnostics.EParse},
		{"(+ 1 2))", diagnostics.EParse},
		{"(+ 1", diagnostics.EUnexpectedEOF},
	}
	for _, tt := range tests {
		_, err := parser.ParseComplete(tt.source)
		var pe *parser.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("ParseComplete(%q): expected *ParseError, got %v", tt.source, err)
			continue
		}
		if pe.Code != tt.code {
			t.Errorf("ParseComplete(%q): code = %s, want %s", tt.source, pe.Code, tt.code)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   string
	}{
		{"empty", "", diagnostics.EUnexpectedEOF},
		{"blank", "   ", diagnostics.EUnexpectedEOF},
		{"bare atom", "42", diagnostics.EExpectedOpenParen},
		{"bare symbol", "x", diagnostics.EExpectedOpenParen},
		{"leading close", ")", diagnostics.EExpectedOpenParen},
		{"unclosed", "(+ 1 2", diagnostics.EUnexpectedEOF},
		{"unclosed nested", "(+ 1 (* 2 3)", diagnostics.EUnexpectedEOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustFail(t, tt.source, tt.code)
		})
	}
}

func TestExpectedOpenParenMessage(t *testing.T) {
	pe := mustFail(t, "42", diagnostics.EExpectedOpenParen)
	if pe.Message != "expected (, found Integer(42)" {
		t.Errorf("message = %q", pe.Message)
	}
}

func TestIsIncomplete(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"(+ 1", true},
		{"((define x 1)", true},
		{"", false},
		{"x", false},
		{")", false},
	}
	for _, tt := range tests {
		_, err := parser.ParseSource(tt.source)
		if got := parser.IsIncomplete(err); got != tt.want {
			t.Errorf("IsIncomplete(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
	if parser.IsIncomplete(nil) {
		t.Error("IsIncomplete(nil) = true")
	}
}

func TestIncompleteOpenCount(t *testing.T) {
	pe := mustFail(t, "((define x (+ 1", diagnostics.EUnexpectedEOF)
	if pe.Open != 3 {
		t.Errorf("Open = %d, want 3", pe.Open)
	}
}

func TestParseTokensDirectly(t *testing.T) {
	tokens := []lexer.Token{
		{Type: lexer.TokLParen, Value: "("},
		{Type: lexer.TokInt, Value: "7", Int: 7},
		{Type: lexer.TokRParen, Value: ")"},
	}
	got, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(got, list(num(7))) {
		t.Errorf("got %v", got)
	}
}

func TestDiagnostic(t *testing.T) {
	pe := mustFail(t, "(", diagnostics.EUnexpectedEOF)
	d := pe.Diagnostic()
	if d.Code != diagnostics.EUnexpectedEOF || d.Message != "insufficient tokens" {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
}
