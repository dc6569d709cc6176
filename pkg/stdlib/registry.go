// Package stdlib provides the lispir operator registry.
package stdlib

import (
	"sort"

	"github.com/thomasrohde/lispir/pkg/object"
)

// Op is a binary operator over integers.
type Op struct {
	Name  string
	Apply func(a, b int64) (object.Object, error)
}

// OpError is returned by an operator that cannot produce a result.
type OpError struct {
	Code    string
	Message string
}

func (e *OpError) Error() string {
	return e.Message
}

// Registry holds registered operators.
type Registry struct {
	ops map[string]*Op
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ops: make(map[string]*Op),
	}
}

// Register adds an operator to the registry.
func (r *Registry) Register(op Op) {
	r.ops[op.Name] = &op
}

// Get retrieves an operator by name.
func (r *Registry) Get(name string) *Op {
	return r.ops[name]
}

// All returns all registered operators.
func (r *Registry) All() map[string]*Op {
	return r.ops
}

// Names returns the registered operator names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry with the built-in operators registered.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// RegisterDefaults registers + - * / % = != < >.
func RegisterDefaults(r *Registry) {
	r.Register(Op{Name: "+", Apply: opAdd})
	r.Register(Op{Name: "-", Apply: opSub})
	r.Register(Op{Name: "*", Apply: opMul})
	r.Register(Op{Name: "/", Apply: opDiv})
	r.Register(Op{Name: "%", Apply: opMod})
	r.Register(Op{Name: "=", Apply: compare(func(a, b int64) bool { return a == b })})
	r.Register(Op{Name: "!=", Apply: compare(func(a, b int64) bool { return a != b })})
	r.Register(Op{Name: "<", Apply: compare(func(a, b int64) bool { return a < b })})
	r.Register(Op{Name: ">", Apply: compare(func(a, b int64) bool { return a > b })})
}
