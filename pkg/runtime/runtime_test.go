package runtime_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/thomasrohde/lispir/pkg/config"
	"github.com/thomasrohde/lispir/pkg/diagnostics"
	"github.com/thomasrohde/lispir/pkg/evaluator"
	"github.com/thomasrohde/lispir/pkg/object"
	"github.com/thomasrohde/lispir/pkg/runtime"
)

func quietSession(opts ...runtime.Option) *runtime.Session {
	opts = append([]runtime.Option{runtime.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return runtime.New(opts...)
}

func TestSessionPersistsDefinitions(t *testing.T) {
	s := quietSession()
	if _, err := s.Eval("(define sqr (lambda (x) (* x x)))"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, err := s.Eval("(sqr 9)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !object.Equal(val, object.NewInteger(81)) {
		t.Errorf("got %v, want Integer(81)", val)
	}
}

func TestSessionSurvivesErrors(t *testing.T) {
	s := quietSession()
	if _, err := s.Eval("(define x 1)"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Eval("(/ x 0)"); err == nil {
		t.Fatal("expected division error")
	}
	val, err := s.Eval("(+ x 1)")
	if err != nil {
		t.Fatalf("session unusable after error: %v", err)
	}
	if !object.Equal(val, object.NewInteger(2)) {
		t.Errorf("got %v", val)
	}
}

func TestSessionReset(t *testing.T) {
	s := quietSession()
	if _, err := s.Eval("(define x 1)"); err != nil {
		t.Fatal(err)
	}
	s.Reset()
	if s.Env().Has("x") {
		t.Error("Reset should clear bindings")
	}
}

func TestSessionUsesConfigDepth(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDepth = 50
	s := quietSession(runtime.WithConfig(cfg))

	_, err := s.Eval("((define down (lambda (n) (if (= n 0) 0 (down (- n 1))))) (down 100))")
	d := runtime.ErrorDiagnostic(err)
	if d.Code != diagnostics.ERecursionDepth {
		t.Errorf("code = %s, want %s", d.Code, diagnostics.ERecursionDepth)
	}
}

func TestSessionTraceRunIDs(t *testing.T) {
	var ids []string
	s := quietSession(
		runtime.WithRunID("t"),
		runtime.WithTrace(func(ev evaluator.TraceEvent) {
			if ev.Event == evaluator.TraceEvalStart {
				ids = append(ids, ev.RunID)
			}
		}),
	)
	_, _ = s.Eval("(+ 1 1)")
	_, _ = s.Eval("(+ 2 2)")
	if strings.Join(ids, ",") != "t#1,t#2" {
		t.Errorf("run ids = %v", ids)
	}
}

func TestSessionLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	s := runtime.New(runtime.WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	_, _ = s.Eval("(nope)")
	if !strings.Contains(buf.String(), "line failed") {
		t.Errorf("expected failure log, got: %s", buf.String())
	}
}

func TestCheck(t *testing.T) {
	s := quietSession()
	if diags := s.Check("((define sqr (lambda (x) (* x x))) (sqr 2))"); len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	diags := s.Check("(+ 1")
	if len(diags) != 1 || diags[0].Code != diagnostics.EUnexpectedEOF {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	diags = s.Check("(if true 1)")
	if len(diags) != 1 || diags[0].Code != diagnostics.EArity {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	diags = s.Check("(+ 1 2) (+ 3 4)")
	if len(diags) != 1 || diags[0].Code != diagnostics.EParse {
		t.Errorf("trailing form not reported: %v", diags)
	}
	if s.Env().Has("sqr") {
		t.Error("Check must not evaluate")
	}
}

func TestFormat(t *testing.T) {
	s := quietSession()
	got, err := s.Format("(  + 1   (* 2 3))")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "(+ 1 (* 2 3))" {
		t.Errorf("Format() = %q", got)
	}

	_, err = s.Format(")")
	var diagErr *runtime.DiagnosticError
	if !errors.As(err, &diagErr) {
		t.Fatalf("expected *DiagnosticError, got %T", err)
	}
	if !strings.Contains(diagErr.Error(), diagnostics.EExpectedOpenParen) {
		t.Errorf("Error() = %q", diagErr.Error())
	}
}

func TestErrorDiagnosticFallback(t *testing.T) {
	d := runtime.ErrorDiagnostic(errors.New("boom"))
	if d.Code != diagnostics.EIO || d.Message != "boom" {
		t.Errorf("unexpected diagnostic: %+v", d)
	}
}
