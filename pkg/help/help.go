// Package help holds the reference text printed by `lispir help` and the
// REPL's :help command.
package help

import (
	"fmt"
	"strings"

	"github.com/thomasrohde/lispir/pkg/stdlib"
)

// Version is the language reference version shown in QUICKREF.
const Version = "v0.1"

// QUICKREF is the default help page.
var QUICKREF = `lispir ` + Version + ` quick reference

  (+ 1 2)                          operators take exactly two integers
  (if (< a b) a b)                 condition must be a Bool
  (define x 5)                     binds in the current scope, yields nothing
  (lambda (x y) (+ x y))           parameters are symbols, body is one list
  ((define sq (lambda (x) (* x x))) (sq 4))
                                   a list without an operator head runs
                                   each form and keeps the non-void results

Topics: syntax, forms, operators, errors, repl, config, examples
Run "lispir help <topic>" or ":help <topic>" in the REPL.
`

// TopicList is the ordered list of help topics.
var TopicList = []string{"syntax", "forms", "operators", "errors", "repl", "config", "examples"}

// Topics maps topic names to their text.
var Topics = map[string]string{
	"syntax": `Syntax

A line is one parenthesized list. Words are split on whitespace and parens.
A word that parses as a base-10 64-bit integer is an Integer; every other
word is a Symbol. true and false evaluate to Bools unless redefined.
Anything after the first complete list on a line is ignored.
`,
	"forms": `Special forms

(if cond then else)   evaluates cond, then exactly one branch
(define name expr)    binds name in the current scope; yields Void
(lambda (params) body) builds a function; body is stored unevaluated

A call (f a b) evaluates its arguments in the caller's scope and runs the
body in a new scope that extends the caller's, not the definer's. A lambda
therefore sees whatever its caller can see.
`,
	"operators": `Operators

+ - * / %      Integer results; / and % truncate toward zero
= != < >       Bool results

Each operator takes exactly two Integer operands. Overflow and division by
zero are errors.
`,
	"errors": `Errors

E_EXPECTED_OPEN_PAREN  a line must start with (
E_UNEXPECTED_EOF       the list was not closed
E_UNDEFINED_SYMBOL     a name has no binding in scope
E_NOT_A_FUNCTION       a called name is bound to a non-lambda
E_ARITY                wrong number of operands or arguments
E_TYPE                 an operand has the wrong kind
E_DIVISION_BY_ZERO     / or % with a zero divisor
E_OVERFLOW             the result does not fit in 64 bits
E_RECURSION_DEPTH      evaluation nested deeper than max_depth

An error aborts the current line. The session keeps every binding made
before the error.
`,
	"repl": `REPL commands

:env     list bindings in the session
:reset   drop every binding
:help    show this reference
exit     leave (also :quit or Ctrl-D)

An unclosed list continues on the next line. Ctrl-C discards it.
`,
	"config": `Configuration

.lispir.yaml in the working directory, else ~/.lispir/config.yaml.

prompt: "lispir> "
history_file: ~/.lispir_history
max_depth: 10000
log_level: warn          # debug, info, warn, error
trace_file: trace.jsonl  # optional NDJSON trace of every evaluation
`,
	"examples": `Examples

((define fact (lambda (n) (if (= n 1) 1 (* n (fact (- n 1)))))) (fact 5))
  => List([Integer(120)])

(define max (lambda (a b) (if (> a b) a b)))
(max 3 9)
  => 9
`,
}

// MatchTopic resolves a topic by exact name or unique prefix.
func MatchTopic(query string) (string, string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if content, ok := Topics[q]; ok {
		return q, content, nil
	}

	var matches []string
	for _, name := range TopicList {
		if q != "" && strings.HasPrefix(name, q) {
			matches = append(matches, name)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], Topics[matches[0]], nil
	case 0:
		return "", "", fmt.Errorf("unknown help topic: %s", query)
	default:
		return "", "", fmt.Errorf("ambiguous help topic %q: %s", query, strings.Join(matches, ", "))
	}
}

// OperatorIndex lists the operators registered in reg.
func OperatorIndex(reg *stdlib.Registry) string {
	names := reg.Names()

	var b strings.Builder
	b.WriteString("Operators\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %s\n", name)
	}
	fmt.Fprintf(&b, "Total: %d operators\n", len(names))
	return b.String()
}
