package evaluator

import (
	"context"
	"log/slog"
	"time"

	"github.com/thomasrohde/lispir/pkg/stdlib"
)

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceEvalStart TraceEventType = "eval_start"
	TraceEvalEnd   TraceEventType = "eval_end"
	TraceCallStart TraceEventType = "call_start"
	TraceCallEnd   TraceEventType = "call_end"
	TraceDefine    TraceEventType = "define"
	TraceError     TraceEventType = "error"
)

// TraceEvent represents a single trace event emitted during evaluation.
type TraceEvent struct {
	Timestamp string            `json:"ts"`
	RunID     string            `json:"runId"`
	Event     TraceEventType    `json:"event"`
	Data      map[string]string `json:"data,omitempty"`
}

// Options configures evaluation.
type Options struct {
	MaxDepth int
	Registry *stdlib.Registry
	Logger   *slog.Logger
	Trace    func(event TraceEvent)
	RunID    string
}

// Option is a functional option for configuring evaluation.
type Option func(*Options)

// WithMaxDepth sets the recursion depth limit. Zero or less disables it.
func WithMaxDepth(n int) Option {
	return func(o *Options) {
		o.MaxDepth = n
	}
}

// WithRegistry sets the operator registry.
func WithRegistry(r *stdlib.Registry) Option {
	return func(o *Options) {
		o.Registry = r
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithTrace sets the trace callback.
func WithTrace(fn func(event TraceEvent)) Option {
	return func(o *Options) {
		o.Trace = fn
	}
}

// WithRunID sets the run ID for trace events.
func WithRunID(id string) Option {
	return func(o *Options) {
		o.RunID = id
	}
}

var defaultRegistry = stdlib.Default()

func buildOptions(opts []Option) Options {
	o := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Registry == nil {
		o.Registry = defaultRegistry
	}
	if o.Logger == nil {
		o.Logger = slog.New(discardHandler{})
	}
	return o
}

func (ev *evaluator) emit(event TraceEventType, data map[string]string) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
			RunID:     ev.opts.RunID,
			Event:     event,
			Data:      data,
		})
	}
}

// discardHandler drops every record; used when no logger is configured.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
