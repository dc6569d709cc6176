// Package object defines the lispir value model. The same tagged union
// represents parsed syntax and evaluated results.
package object

import (
	"strconv"
	"strings"
)

// Object is the interface for all lispir objects.
// The sealed marker method restricts implementations to this package.
type Object interface {
	object() // sealed marker
	Kind() string
	String() string
}

// Void is the absence of a meaningful result.
type Void struct{}

// Bool is a truth value.
type Bool struct {
	Value bool
}

// Integer is a signed 64-bit whole number.
type Integer struct {
	Value int64
}

// Symbol is a name, compared by value.
type Symbol struct {
	Name string
}

// List is an ordered sequence of objects. It is both the syntax of a call
// and the result of evaluating a sequence.
type List struct {
	Items []Object
}

// Lambda holds parameter names and the unevaluated body.
type Lambda struct {
	Params []string
	Body   []Object
}

func (Void) object()    {}
func (Bool) object()    {}
func (Integer) object() {}
func (Symbol) object()  {}
func (List) object()    {}
func (Lambda) object()  {}

func (Void) Kind() string    { return "Void" }
func (Bool) Kind() string    { return "Bool" }
func (Integer) Kind() string { return "Integer" }
func (Symbol) Kind() string  { return "Symbol" }
func (List) Kind() string    { return "List" }
func (Lambda) Kind() string  { return "Lambda" }

// NewVoid creates a void value.
func NewVoid() Object {
	return Void{}
}

// NewBool creates a boolean value.
func NewBool(b bool) Object {
	return Bool{Value: b}
}

// NewInteger creates an integer value.
func NewInteger(n int64) Object {
	return Integer{Value: n}
}

// NewSymbol creates a symbol.
func NewSymbol(name string) Object {
	return Symbol{Name: name}
}

// NewList creates a list. A nil slice is normalized to an empty one.
func NewList(items []Object) Object {
	if items == nil {
		items = []Object{}
	}
	return List{Items: items}
}

// NewLambda creates a lambda value.
func NewLambda(params []string, body []Object) Object {
	return Lambda{Params: params, Body: body}
}

// IsVoid reports whether o is Void.
func IsVoid(o Object) bool {
	_, ok := o.(Void)
	return ok
}

// String methods give the debug form, e.g. List([Integer(1), Symbol("x")]).

func (Void) String() string      { return "Void" }
func (b Bool) String() string    { return "Bool(" + strconv.FormatBool(b.Value) + ")" }
func (i Integer) String() string { return "Integer(" + strconv.FormatInt(i.Value, 10) + ")" }
func (s Symbol) String() string  { return "Symbol(" + strconv.Quote(s.Name) + ")" }

func (l List) String() string {
	return "List(" + joinDebug(l.Items) + ")"
}

func (l Lambda) String() string {
	params := make([]string, len(l.Params))
	for i, p := range l.Params {
		params[i] = strconv.Quote(p)
	}
	return "Lambda([" + strings.Join(params, ", ") + "], " + joinDebug(l.Body) + ")"
}

func joinDebug(items []Object) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Equal compares two objects structurally.
func Equal(a, b Object) bool {
	switch av := a.(type) {
	case Void:
		_, ok := b.(Void)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Integer:
		bv, ok := b.(Integer)
		return ok && av.Value == bv.Value
	case Symbol:
		bv, ok := b.(Symbol)
		return ok && av.Name == bv.Name
	case List:
		bv, ok := b.(List)
		return ok && equalSlices(av.Items, bv.Items)
	case Lambda:
		bv, ok := b.(Lambda)
		if !ok || len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if av.Params[i] != bv.Params[i] {
				return false
			}
		}
		return equalSlices(av.Body, bv.Body)
	}
	return false
}

func equalSlices(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
