// Package validator checks the shape of lispir special forms without
// evaluating anything.
package validator

import (
	"fmt"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/object"
	"github.com/thomasrohde/lispir/pkg/stdlib"
)

type validator struct {
	diags    []diagnostics.Diagnostic
	registry *stdlib.Registry
}

// Validate reports malformed special forms and operator applications in a
// parsed line, using the default operators.
func Validate(obj object.Object) []diagnostics.Diagnostic {
	return ValidateWith(obj, stdlib.Default())
}

// ValidateWith is Validate with an explicit operator registry.
func ValidateWith(obj object.Object, reg *stdlib.Registry) []diagnostics.Diagnostic {
	v := &validator{registry: reg}
	v.validate(obj)
	return v.diags
}

func (v *validator) addDiag(code, msg, hint string) {
	v.diags = append(v.diags, diagnostics.MakeDiag(code, msg, hint))
}

func (v *validator) validate(obj object.Object) {
	list, ok := obj.(object.List)
	if !ok {
		return
	}
	items := list.Items
	if len(items) == 0 {
		return
	}
	head, ok := items[0].(object.Symbol)
	if !ok {
		v.validateAll(items)
		return
	}

	if v.registry.Get(head.Name) != nil {
		v.checkArity(head.Name, items, 2, fmt.Sprintf("(%s a b)", head.Name))
		v.validateAll(items[1:])
		return
	}

	switch head.Name {
	case "if":
		v.checkArity("if", items, 3, "(if cond then else)")
		v.validateAll(items[1:])
	case "define":
		v.validateDefine(items)
	case "lambda":
		v.validateLambda(items)
	default:
		v.validateAll(items[1:])
	}
}

func (v *validator) validateAll(items []object.Object) {
	for _, item := range items {
		v.validate(item)
	}
}

func (v *validator) checkArity(form string, items []object.Object, want int, hint string) bool {
	if got := len(items) - 1; got != want {
		v.addDiag(diagnostics.EArity, fmt.Sprintf("%s: expected %d arguments, got %d", form, want, got), hint)
		return false
	}
	return true
}

func (v *validator) validateDefine(items []object.Object) {
	if !v.checkArity("define", items, 2, "(define name expr)") {
		v.validateAll(items[1:])
		return
	}
	if _, ok := items[1].(object.Symbol); !ok {
		v.addDiag(diagnostics.EType, fmt.Sprintf("define: expected Symbol as first argument, got %s", items[1].Kind()), "")
	}
	v.validate(items[2])
}

func (v *validator) validateLambda(items []object.Object) {
	if !v.checkArity("lambda", items, 2, "(lambda (params...) (body...))") {
		return
	}

	if params, ok := items[1].(object.List); ok {
		seen := make(map[string]bool, len(params.Items))
		for _, p := range params.Items {
			sym, ok := p.(object.Symbol)
			if !ok {
				v.addDiag(diagnostics.EType, fmt.Sprintf("lambda: invalid parameter %s", p), "parameters must be symbols")
				continue
			}
			if seen[sym.Name] {
				v.addDiag(diagnostics.EType, fmt.Sprintf("lambda: duplicate parameter %s", sym.Name), "")
			}
			seen[sym.Name] = true
		}
	} else {
		v.addDiag(diagnostics.EType, fmt.Sprintf("lambda: parameters must be a List, got %s", items[1].Kind()), "")
	}

	if _, ok := items[2].(object.List); !ok {
		v.addDiag(diagnostics.EType, fmt.Sprintf("lambda: body must be a List, got %s", items[2].Kind()), "")
		return
	}
	v.validate(items[2])
}
