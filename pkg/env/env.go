// Package env implements lispir scopes as an arena of binding records.
// A record's parent is an index into the same arena, so scopes form a
// chain without shared ownership between them.
package env

import (
	"fmt"
	"sort"

	"github.com/thomasrohde/lispir/pkg/object"
)

const noParent = -1

type record struct {
	bindings map[string]object.Object
	parent   int
	// gen identifies the scope that owns this slot; a slot reused after
	// Release gets a new gen.
	gen uint64
}

type arena struct {
	records []record
	nextGen uint64
}

func (a *arena) push(parent int) int {
	a.nextGen++
	a.records = append(a.records, record{
		bindings: make(map[string]object.Object),
		parent:   parent,
		gen:      a.nextGen,
	})
	return len(a.records) - 1
}

// Env is a handle to one scope in an arena. A handle whose scope has been
// released is stale: Get finds nothing and Set or Extend panic.
// It is not safe for concurrent use.
type Env struct {
	arena *arena
	id    int
	gen   uint64
}

// New creates a root environment in a fresh arena.
func New() *Env {
	a := &arena{}
	id := a.push(noParent)
	return &Env{arena: a, id: id, gen: a.records[id].gen}
}

// live reports whether the handle still refers to its own scope.
func (e *Env) live() bool {
	recs := e.arena.records
	return e.id < len(recs) && recs[e.id].gen == e.gen && recs[e.id].bindings != nil
}

func (e *Env) mustBeLive(op string) {
	if !e.live() {
		panic(fmt.Sprintf("env: %s on released scope %d", op, e.id))
	}
}

// Extend creates a child scope whose parent is this environment.
func (e *Env) Extend() *Env {
	e.mustBeLive("Extend")
	a := e.arena
	id := a.push(e.id)
	return &Env{arena: a, id: id, gen: a.records[id].gen}
}

// Get looks up a binding by name, walking the parent chain.
func (e *Env) Get(name string) (object.Object, bool) {
	if !e.live() {
		return nil, false
	}
	for id := e.id; id != noParent; {
		rec := &e.arena.records[id]
		if val, ok := rec.bindings[name]; ok {
			return val, true
		}
		id = rec.parent
	}
	return nil, false
}

// Set binds name in this scope only. Bindings of the same name in parent
// scopes are shadowed, never modified.
func (e *Env) Set(name string, val object.Object) {
	e.mustBeLive("Set")
	e.arena.records[e.id].bindings[name] = val
}

// Has checks whether name is bound in this scope or any parent.
func (e *Env) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Depth returns the number of scopes in the chain, 1 for a root.
func (e *Env) Depth() int {
	if !e.live() {
		return 0
	}
	n := 0
	for id := e.id; id != noParent; id = e.arena.records[id].parent {
		n++
	}
	return n
}

// Names returns the names bound locally in this scope, sorted.
func (e *Env) Names() []string {
	if !e.live() {
		return nil
	}
	bindings := e.arena.records[e.id].bindings
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Release discards a call scope once evaluation no longer needs it.
// Scopes are released in reverse creation order; releasing the newest
// record shrinks the arena, releasing an older one only drops its bindings.
// The root is never released, and releasing a stale handle does nothing.
func (e *Env) Release() {
	if e.id == 0 || !e.live() {
		return
	}
	a := e.arena
	a.records[e.id].bindings = nil
	for n := len(a.records); n > 1 && a.records[n-1].bindings == nil; n-- {
		a.records = a.records[:n-1]
	}
}

// Reset drops every binding and scope, leaving an empty root. Handles to
// the old scopes become stale; e becomes the new root.
func (e *Env) Reset() {
	a := e.arena
	a.records = a.records[:0]
	id := a.push(noParent)
	e.id, e.gen = id, a.records[id].gen
}

// Size returns the number of live records in the arena.
func (e *Env) Size() int {
	return len(e.arena.records)
}
