// Package diagnostics defines lispir error codes and the diagnostic record
// used to report parse, validation and runtime errors.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Diagnostic code constants.
const (
	EParse             = "E_PARSE"
	EExpectedOpenParen = "E_EXPECTED_OPEN_PAREN"
	EUnexpectedEOF     = "E_UNEXPECTED_EOF"
	EUndefinedSymbol   = "E_UNDEFINED_SYMBOL"
	ENotAFunction      = "E_NOT_A_FUNCTION"
	EArity             = "E_ARITY"
	EType              = "E_TYPE"
	EDivisionByZero    = "E_DIVISION_BY_ZERO"
	EOverflow          = "E_OVERFLOW"
	ERecursionDepth    = "E_RECURSION_DEPTH"
	EIO                = "E_IO"
	EConfig            = "E_CONFIG"
)

// IsParse reports whether code belongs to the parse error family.
func IsParse(code string) bool {
	switch code {
	case EParse, EExpectedOpenParen, EUnexpectedEOF:
		return true
	}
	return false
}

// Diagnostic represents a parse, validation, or runtime diagnostic.
type Diagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

// MakeDiag creates a new Diagnostic.
func MakeDiag(code, message, hint string) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: message,
		Hint:    hint,
	}
}

// FormatDiagnostic formats a single diagnostic for display.
func FormatDiagnostic(d Diagnostic, pretty bool) string {
	if !pretty {
		b, _ := json.Marshal(d)
		return string(b)
	}
	out := fmt.Sprintf("error[%s]: %s", d.Code, d.Message)
	if d.Hint != "" {
		out += fmt.Sprintf("\n  hint: %s", d.Hint)
	}
	return out
}

// FormatDiagnostics formats a slice of diagnostics for display.
func FormatDiagnostics(diags []Diagnostic, pretty bool) string {
	if !pretty {
		if diags == nil {
			diags = []Diagnostic{}
		}
		b, _ := json.Marshal(diags)
		return string(b)
	}
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = FormatDiagnostic(d, true)
	}
	return strings.Join(parts, "\n")
}
