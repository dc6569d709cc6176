// Package formatter renders lispir objects as source text and as the
// display form shown by the REPL.
package formatter

import (
	"strconv"
	"strings"

	"github.com/thomasrohde/lispir/pkg/object"
)

const indent = "  "

// Format renders an object back to canonical source: single spaces
// between items, no space inside parens.
func Format(obj object.Object) string {
	var b strings.Builder
	writeSource(&b, obj)
	return b.String()
}

func writeSource(b *strings.Builder, obj object.Object) {
	switch o := obj.(type) {
	case object.Void:
		b.WriteString("()")
	case object.Bool:
		b.WriteString(strconv.FormatBool(o.Value))
	case object.Integer:
		b.WriteString(strconv.FormatInt(o.Value, 10))
	case object.Symbol:
		b.WriteString(o.Name)
	case object.List:
		writeItems(b, o.Items)
	case object.Lambda:
		b.WriteString("(lambda (")
		b.WriteString(strings.Join(o.Params, " "))
		b.WriteString(") ")
		writeItems(b, o.Body)
		b.WriteByte(')')
	}
}

func writeItems(b *strings.Builder, items []object.Object) {
	b.WriteByte('(')
	for i, item := range items {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeSource(b, item)
	}
	b.WriteByte(')')
}

// IsComment reports whether a source line is a ; comment.
func IsComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), ";")
}

// Display renders a value the way the REPL prints it. Void renders as the
// empty string.
func Display(obj object.Object) string {
	switch o := obj.(type) {
	case object.Void:
		return ""
	case object.Bool:
		return strconv.FormatBool(o.Value)
	case object.Integer:
		return strconv.FormatInt(o.Value, 10)
	case object.Symbol:
		return strconv.Quote(o.Name)
	case object.Lambda:
		var b strings.Builder
		b.WriteString("Lambda(\n")
		for _, p := range o.Params {
			b.WriteString(indent + strconv.Quote(p) + "\n")
		}
		b.WriteString(")")
		for _, expr := range o.Body {
			b.WriteString("\n" + indent + Format(expr))
		}
		return b.String()
	default:
		return obj.String()
	}
}
