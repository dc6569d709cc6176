package object_test

import (
	"testing"

	"github.com/thomasrohde/lispir/pkg/object"
)

func TestNewObjects(t *testing.T) {
	// Ensure all constructors return valid Object implementations
	values := []object.Object{
		object.NewVoid(),
		object.NewBool(true),
		object.NewBool(false),
		object.NewInteger(42),
		object.NewSymbol("x"),
		object.NewList(nil),
		object.NewLambda([]string{"x"}, nil),
	}

	for i, v := range values {
		if v == nil {
			t.Errorf("value %d: got nil", i)
		}
	}
}

func TestNewListNormalizesNil(t *testing.T) {
	l := object.NewList(nil).(object.List)
	if l.Items == nil {
		t.Fatal("expected non-nil items slice")
	}
	if !object.Equal(l, object.NewList([]object.Object{})) {
		t.Error("nil list should equal empty list")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		value object.Object
		want  string
	}{
		{object.NewVoid(), "Void"},
		{object.NewBool(true), "Bool"},
		{object.NewInteger(1), "Integer"},
		{object.NewSymbol("s"), "Symbol"},
		{object.NewList(nil), "List"},
		{object.NewLambda(nil, nil), "Lambda"},
	}
	for _, tt := range tests {
		if got := tt.value.Kind(); got != tt.want {
			t.Errorf("Kind() = %q, want %q", got, tt.want)
		}
	}
}

func TestDebugString(t *testing.T) {
	tests := []struct {
		value object.Object
		want  string
	}{
		{object.NewVoid(), "Void"},
		{object.NewBool(false), "Bool(false)"},
		{object.NewInteger(-3), "Integer(-3)"},
		{object.NewSymbol("sqr"), `Symbol("sqr")`},
		{object.NewList([]object.Object{object.NewInteger(4)}), "List([Integer(4)])"},
		{
			object.NewLambda([]string{"x"}, []object.Object{object.NewSymbol("*"), object.NewSymbol("x"), object.NewSymbol("x")}),
			`Lambda(["x"], [Symbol("*"), Symbol("x"), Symbol("x")])`,
		},
	}
	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	one := object.NewInteger(1)
	list := func(items ...object.Object) object.Object { return object.NewList(items) }

	tests := []struct {
		name string
		a, b object.Object
		want bool
	}{
		{"void", object.NewVoid(), object.NewVoid(), true},
		{"int eq", one, object.NewInteger(1), true},
		{"int ne", one, object.NewInteger(2), false},
		{"int vs bool", one, object.NewBool(true), false},
		{"symbol", object.NewSymbol("a"), object.NewSymbol("a"), true},
		{"nested list", list(one, list(one)), list(one, list(one)), true},
		{"list length", list(one), list(one, one), false},
		{"lambda", object.NewLambda([]string{"x"}, []object.Object{one}), object.NewLambda([]string{"x"}, []object.Object{one}), true},
		{"lambda params", object.NewLambda([]string{"x"}, nil), object.NewLambda([]string{"y"}, nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := object.Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestToJSON(t *testing.T) {
	tests := []struct {
		value object.Object
		want  string
	}{
		{object.NewVoid(), `null`},
		{object.NewBool(true), `true`},
		{object.NewInteger(120), `120`},
		{object.NewSymbol("x"), `"x"`},
		{object.NewList([]object.Object{object.NewInteger(4), object.NewList(nil)}), `[4,[]]`},
		{
			object.NewLambda([]string{"n"}, []object.Object{object.NewSymbol("+"), object.NewSymbol("n"), object.NewInteger(1)}),
			`{"params":["n"],"body":["+","n",1]}`,
		},
		{object.NewLambda(nil, nil), `{"params":[],"body":[]}`},
	}
	for _, tt := range tests {
		got, err := object.ToJSON(tt.value)
		if err != nil {
			t.Fatalf("ToJSON(%v): %v", tt.value, err)
		}
		if string(got) != tt.want {
			t.Errorf("ToJSON(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}
