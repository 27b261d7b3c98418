package interp

import (
	"sort"

	"github.com/you-not-fish/gizmo/internal/value"
)

// scope is one record in the environment arena.
type scope struct {
	parent int // index of the enclosing scope, -1 for the global scope
	vars   map[string]value.Value

	// isolated scopes keep assignments to outer names local: the first
	// write shadows the outer binding instead of changing it.
	isolated bool
}

// Env is an arena of scopes addressed by index. Scope 0 is the global
// scope and lives as long as the Env. Other scopes are pushed and popped
// in stack order.
type Env struct {
	scopes []scope
}

const globalScope = 0

func newEnv() *Env {
	return &Env{scopes: []scope{{parent: -1, vars: make(map[string]value.Value)}}}
}

// push adds a scope whose parent is parent and returns its index.
func (e *Env) push(parent int, isolated bool) int {
	e.scopes = append(e.scopes, scope{
		parent:   parent,
		vars:     make(map[string]value.Value),
		isolated: isolated,
	})
	return len(e.scopes) - 1
}

// pop discards scope id and everything pushed after it.
func (e *Env) pop(id int) {
	for i := id; i < len(e.scopes); i++ {
		e.scopes[i].vars = nil
	}
	e.scopes = e.scopes[:id]
}

// reset removes every binding of scope id.
func (e *Env) reset(id int) {
	clear(e.scopes[id].vars)
}

// define binds name in scope id, shadowing outer bindings.
func (e *Env) define(id int, name string, v value.Value) {
	e.scopes[id].vars[name] = v
}

// lookup finds name starting at scope id and walking outward. It returns
// the value and the index of the scope that holds it.
func (e *Env) lookup(id int, name string) (value.Value, int, bool) {
	for s := id; s >= 0; s = e.scopes[s].parent {
		if v, ok := e.scopes[s].vars[name]; ok {
			return v, s, true
		}
	}
	return nil, -1, false
}

// assign rebinds an existing name, walking outward from scope id. When
// the binding lives outside an isolated scope on the way, the value is
// defined in that isolated scope instead. It reports whether the name was
// bound.
func (e *Env) assign(id int, name string, v value.Value) bool {
	iso := -1
	for s := id; s >= 0; s = e.scopes[s].parent {
		if _, ok := e.scopes[s].vars[name]; ok {
			if iso >= 0 {
				s = iso
			}
			e.scopes[s].vars[name] = v
			return true
		}
		if e.scopes[s].isolated && iso < 0 {
			iso = s
		}
	}
	return false
}

// names returns every name visible from scope id, sorted.
func (e *Env) names(id int) []string {
	seen := make(map[string]bool)
	var list []string
	for s := id; s >= 0; s = e.scopes[s].parent {
		for name := range e.scopes[s].vars {
			if !seen[name] {
				seen[name] = true
				list = append(list, name)
			}
		}
	}
	sort.Strings(list)
	return list
}

// depth returns the number of live scopes.
func (e *Env) depth() int {
	return len(e.scopes)
}
