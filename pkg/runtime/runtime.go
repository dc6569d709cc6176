// Package runtime provides the lispir session that the CLI drives: one root
// environment plus the configuration, logger and trace sink every line is
// evaluated with.
package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thomasrohde/lispir/pkg/config"
	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/env"
	"github.com/thomasrohde/lispir/pkg/evaluator"
	"github.com/thomasrohde/lispir/pkg/formatter"
	"github.com/thomasrohde/lispir/pkg/object"
	"github.com/thomasrohde/lispir/pkg/parser"
	"github.com/thomasrohde/lispir/pkg/stdlib"
	"github.com/thomasrohde/lispir/pkg/validator"
)

// Session evaluates lines against a root environment that lives as long
// as the session. It is not safe for concurrent use.
type Session struct {
	root     *env.Env
	cfg      *config.Config
	registry *stdlib.Registry
	logger   *slog.Logger
	runID    string
	trace    func(event evaluator.TraceEvent)
	lines    int
}

// Option is a functional option for configuring the Session.
type Option func(*Session)

// WithConfig sets the configuration.
func WithConfig(c *config.Config) Option {
	return func(s *Session) {
		s.cfg = c
	}
}

// WithRegistry sets the operator registry.
func WithRegistry(r *stdlib.Registry) Option {
	return func(s *Session) {
		s.registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(s *Session) {
		s.runID = id
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event evaluator.TraceEvent)) Option {
	return func(s *Session) {
		s.trace = fn
	}
}

// New creates a Session with a fresh root environment.
// By default it uses config.Default and the built-in operators.
func New(opts ...Option) *Session {
	s := &Session{
		root:     env.New(),
		cfg:      config.Default(),
		registry: stdlib.Default(),
		logger:   slog.Default(),
		runID:    "cli",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Eval evaluates one line. Errors are returned to the caller and leave the
// session usable; bindings made before the error remain.
func (s *Session) Eval(line string) (object.Object, error) {
	s.lines++
	val, err := evaluator.Eval(line, s.root, s.evalOptions()...)
	if err != nil {
		s.logger.Debug("line failed", slog.Int("line", s.lines), slog.String("error", err.Error()))
		return nil, err
	}
	return val, nil
}

// Check parses and validates a line without evaluating it. Tokens after
// the first list are reported, since evaluation would ignore them.
func (s *Session) Check(line string) []diagnostics.Diagnostic {
	obj, err := parser.ParseComplete(line)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			return []diagnostics.Diagnostic{pe.Diagnostic()}
		}
		return []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EParse, err.Error(), "")}
	}
	return validator.ValidateWith(obj, s.registry)
}

// Format parses a line and returns its canonical form. Tokens after the
// first list are an error, since the canonical form would drop them.
func (s *Session) Format(line string) (string, error) {
	obj, err := parser.ParseComplete(line)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			return "", &DiagnosticError{Diagnostics: []diagnostics.Diagnostic{pe.Diagnostic()}}
		}
		return "", err
	}
	return formatter.Format(obj), nil
}

// Env returns the session's root environment.
func (s *Session) Env() *env.Env {
	return s.root
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Reset discards every binding made in the session.
func (s *Session) Reset() {
	s.root.Reset()
	s.lines = 0
	s.logger.Debug("session reset")
}

func (s *Session) evalOptions() []evaluator.Option {
	return []evaluator.Option{
		evaluator.WithMaxDepth(s.cfg.MaxDepth),
		evaluator.WithRegistry(s.registry),
		evaluator.WithLogger(s.logger),
		evaluator.WithRunID(fmt.Sprintf("%s#%d", s.runID, s.lines)),
		evaluator.WithTrace(s.trace),
	}
}

// DiagnosticError wraps diagnostics as an error.
type DiagnosticError struct {
	Diagnostics []diagnostics.Diagnostic
}

func (e *DiagnosticError) Error() string {
	msgs := make([]string, len(e.Diagnostics))
	for i, d := range e.Diagnostics {
		msgs[i] = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return strings.Join(msgs, "; ")
}

// ErrorDiagnostic converts any error from Eval into a diagnostic.
func ErrorDiagnostic(err error) diagnostics.Diagnostic {
	var rtErr *evaluator.RuntimeError
	if errors.As(err, &rtErr) {
		return rtErr.Diagnostic()
	}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe.Diagnostic()
	}
	var de *DiagnosticError
	if errors.As(err, &de) && len(de.Diagnostics) > 0 {
		return de.Diagnostics[0]
	}
	return diagnostics.MakeDiag(diagnostics.EIO, err.Error(), "")
}
