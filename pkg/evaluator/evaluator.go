// Package evaluator implements the lispir tree-walking evaluator.
package evaluator

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/env"
	"github.com/thomasrohde/lispir/pkg/object"
	"github.com/thomasrohde/lispir/pkg/parser"
	"github.com/thomasrohde/lispir/pkg/stdlib"
)

// RuntimeError represents an error during parsing or evaluation of a line.
// Err holds the underlying parser or operator error, if any.
type RuntimeError struct {
	Code    string
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Diagnostic converts the error into a diagnostic record.
func (e *RuntimeError) Diagnostic() diagnostics.Diagnostic {
	return diagnostics.MakeDiag(e.Code, e.Message, hintFor(e.Code))
}

func hintFor(code string) string {
	switch code {
	case diagnostics.EExpectedOpenParen:
		return "wrap the expression in parentheses"
	case diagnostics.EUnexpectedEOF:
		return "check for a missing )"
	case diagnostics.ERecursionDepth:
		return "check that the recursion reaches a base case"
	}
	return ""
}

type evaluator struct {
	opts   Options
	budget BudgetTracker
}

func newEvaluator(opts []Option) *evaluator {
	o := buildOptions(opts)
	return &evaluator{
		opts:   o,
		budget: BudgetTracker{MaxDepth: o.MaxDepth},
	}
}

// Eval tokenizes, parses and evaluates one line of source against e.
// Bindings made by define persist in e across calls.
func Eval(source string, e *env.Env, opts ...Option) (object.Object, error) {
	ev := newEvaluator(opts)
	ev.emit(TraceEvalStart, map[string]string{"source": source})

	syntax, err := parser.ParseSource(source)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			return nil, ev.fail(&RuntimeError{Code: pe.Code, Message: pe.Message, Err: err})
		}
		return nil, ev.fail(&RuntimeError{Code: diagnostics.EParse, Message: err.Error(), Err: err})
	}

	return ev.run(syntax, e)
}

// EvalObject evaluates an already parsed object against e.
func EvalObject(obj object.Object, e *env.Env, opts ...Option) (object.Object, error) {
	ev := newEvaluator(opts)
	ev.emit(TraceEvalStart, nil)
	return ev.run(obj, e)
}

func (ev *evaluator) run(obj object.Object, e *env.Env) (object.Object, error) {
	val, err := ev.eval(obj, e)
	if err != nil {
		return nil, ev.fail(err)
	}
	ev.emit(TraceEvalEnd, map[string]string{
		"kind":  val.Kind(),
		"calls": strconv.FormatInt(ev.budget.Calls, 10),
	})
	return val, nil
}

func (ev *evaluator) fail(err error) error {
	data := map[string]string{"message": err.Error()}
	var rtErr *RuntimeError
	if errors.As(err, &rtErr) {
		data["code"] = rtErr.Code
	}
	ev.emit(TraceError, data)
	ev.opts.Logger.Debug("evaluation failed", slog.String("error", err.Error()))
	return err
}

func (ev *evaluator) eval(obj object.Object, e *env.Env) (object.Object, error) {
	if err := ev.budget.enter(); err != nil {
		return nil, err
	}
	defer ev.budget.leave()

	switch o := obj.(type) {
	case object.Void, object.Bool, object.Integer:
		return obj, nil

	// A lambda is only produced by the lambda form; re-evaluating one yields nothing.
	case object.Lambda:
		return object.NewVoid(), nil

	case object.Symbol:
		return ev.evalSymbol(o.Name, e)

	case object.List:
		return ev.evalList(o.Items, e)

	default:
		return nil, &RuntimeError{
			Code:    diagnostics.EType,
			Message: fmt.Sprintf("unsupported object type: %T", obj),
		}
	}
}

func (ev *evaluator) evalSymbol(name string, e *env.Env) (object.Object, error) {
	if val, ok := e.Get(name); ok {
		return val, nil
	}
	switch name {
	case "true":
		return object.NewBool(true), nil
	case "false":
		return object.NewBool(false), nil
	}
	return nil, undefinedSymbol(name)
}

func undefinedSymbol(name string) error {
	return &RuntimeError{
		Code:    diagnostics.EUndefinedSymbol,
		Message: fmt.Sprintf("undefined symbol: %s", name),
	}
}

func (ev *evaluator) evalList(items []object.Object, e *env.Env) (object.Object, error) {
	if len(items) == 0 {
		return ev.evalSequence(items, e)
	}
	head, ok := items[0].(object.Symbol)
	if !ok {
		return ev.evalSequence(items, e)
	}

	if op := ev.opts.Registry.Get(head.Name); op != nil {
		return ev.evalOperator(op, items, e)
	}

	switch head.Name {
	case "if":
		return ev.evalIf(items, e)
	case "define":
		return ev.evalDefine(items, e)
	case "lambda":
		return evalLambda(items)
	default:
		return ev.evalCall(head.Name, items, e)
	}
}

// evalSequence runs each element in order and collects the non-void
// results. A line holding several top-level forms evaluates this way.
func (ev *evaluator) evalSequence(items []object.Object, e *env.Env) (object.Object, error) {
	results := make([]object.Object, 0, len(items))
	for _, item := range items {
		val, err := ev.eval(item, e)
		if err != nil {
			return nil, err
		}
		if !object.IsVoid(val) {
			results = append(results, val)
		}
	}
	return object.NewList(results), nil
}

func arityError(form string, want, got int) error {
	return &RuntimeError{
		Code:    diagnostics.EArity,
		Message: fmt.Sprintf("%s: expected %d arguments, got %d", form, want, got),
	}
}

func typeError(format string, args ...any) error {
	return &RuntimeError{
		Code:    diagnostics.EType,
		Message: fmt.Sprintf(format, args...),
	}
}

func (ev *evaluator) evalOperator(op *stdlib.Op, items []object.Object, e *env.Env) (object.Object, error) {
	if len(items) != 3 {
		return nil, arityError(op.Name, 2, len(items)-1)
	}
	left, err := ev.eval(items[1], e)
	if err != nil {
		return nil, err
	}
	right, err := ev.eval(items[2], e)
	if err != nil {
		return nil, err
	}

	l, lOk := left.(object.Integer)
	r, rOk := right.(object.Integer)
	if !lOk || !rOk {
		return nil, typeError("%s: expected Integer operands, got %s and %s", op.Name, left.Kind(), right.Kind())
	}

	val, err := op.Apply(l.Value, r.Value)
	if err != nil {
		var opErr *stdlib.OpError
		if errors.As(err, &opErr) {
			return nil, &RuntimeError{Code: opErr.Code, Message: opErr.Message, Err: err}
		}
		return nil, err
	}
	return val, nil
}

func (ev *evaluator) evalIf(items []object.Object, e *env.Env) (object.Object, error) {
	if len(items) != 4 {
		return nil, arityError("if", 3, len(items)-1)
	}

	condVal, err := ev.eval(items[1], e)
	if err != nil {
		return nil, err
	}
	cond, ok := condVal.(object.Bool)
	if !ok {
		return nil, typeError("if: condition must be Bool, got %s", condVal.Kind())
	}

	if cond.Value {
		return ev.eval(items[2], e)
	}
	return ev.eval(items[3], e)
}

func (ev *evaluator) evalDefine(items []object.Object, e *env.Env) (object.Object, error) {
	if len(items) != 3 {
		return nil, arityError("define", 2, len(items)-1)
	}
	target, ok := items[1].(object.Symbol)
	if !ok {
		return nil, typeError("define: expected Symbol as first argument, got %s", items[1].Kind())
	}

	val, err := ev.eval(items[2], e)
	if err != nil {
		return nil, err
	}
	e.Set(target.Name, val)

	ev.opts.Logger.Debug("define", slog.String("name", target.Name), slog.String("kind", val.Kind()))
	ev.emit(TraceDefine, map[string]string{"name": target.Name, "kind": val.Kind()})
	return object.NewVoid(), nil
}

func evalLambda(items []object.Object) (object.Object, error) {
	if len(items) != 3 {
		return nil, arityError("lambda", 2, len(items)-1)
	}

	paramList, ok := items[1].(object.List)
	if !ok {
		return nil, typeError("lambda: parameters must be a List, got %s", items[1].Kind())
	}
	params := make([]string, 0, len(paramList.Items))
	for _, p := range paramList.Items {
		sym, ok := p.(object.Symbol)
		if !ok {
			return nil, typeError("lambda: invalid parameter %s", p)
		}
		params = append(params, sym.Name)
	}

	body, ok := items[2].(object.List)
	if !ok {
		return nil, typeError("lambda: body must be a List, got %s", items[2].Kind())
	}

	return object.NewLambda(params, body.Items), nil
}

// evalCall applies a lambda bound to name. The call scope extends the
// caller's environment, not the one the lambda was defined in, so a lambda
// sees whatever its caller can see.
func (ev *evaluator) evalCall(name string, items []object.Object, e *env.Env) (object.Object, error) {
	fnVal, ok := e.Get(name)
	if !ok {
		return nil, undefinedSymbol(name)
	}
	fn, ok := fnVal.(object.Lambda)
	if !ok {
		return nil, &RuntimeError{
			Code:    diagnostics.ENotAFunction,
			Message: fmt.Sprintf("not a function: %s", name),
		}
	}

	args := items[1:]
	if len(args) != len(fn.Params) {
		return nil, arityError(name, len(fn.Params), len(args))
	}

	vals := make([]object.Object, len(args))
	for i, arg := range args {
		val, err := ev.eval(arg, e)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}

	ev.budget.Calls++
	ev.opts.Logger.Debug("call", slog.String("fn", name), slog.Int("args", len(vals)), slog.Int("depth", ev.budget.Depth))
	ev.emit(TraceCallStart, map[string]string{"fn": name, "args": strconv.Itoa(len(vals))})

	scope := e.Extend()
	defer scope.Release()
	for i, param := range fn.Params {
		scope.Set(param, vals[i])
	}

	result, err := ev.eval(object.NewList(fn.Body), scope)
	if err != nil {
		return nil, err
	}

	ev.emit(TraceCallEnd, map[string]string{"fn": name, "kind": result.Kind()})
	return result, nil
}
