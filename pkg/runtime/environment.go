package runtime

import (
	"fmt"
	"sort"

	"github.com/xuorig/klox/pkg/token"
)

// ScopeID addresses a scope record inside an Environment.
type ScopeID int

// NoScope is the parent of the global scope.
const NoScope ScopeID = -1

type scope struct {
	values map[string]Value
	parent ScopeID
	live   bool
}

// Environment provides lexical scoping as an arena of scope records. A child
// scope stores the index of its parent; the parent link is lookup-only. Slots
// are recycled once the block that pushed them has finished.
type Environment struct {
	scopes []scope
	free   []ScopeID
	global ScopeID
}

// NewEnvironment creates an arena holding only the global scope.
func NewEnvironment() *Environment {
	e := &Environment{}
	e.global = e.Push(NoScope)
	return e
}

// Global returns the top-level scope, which lives as long as the arena.
func (e *Environment) Global() ScopeID {
	return e.global
}

// Push allocates a scope nested under parent.
func (e *Environment) Push(parent ScopeID) ScopeID {
	if n := len(e.free); n > 0 {
		id := e.free[n-1]
		e.free = e.free[:n-1]
		e.scopes[id] = scope{values: e.scopes[id].values, parent: parent, live: true}
		return id
	}
	e.scopes = append(e.scopes, scope{values: make(map[string]Value), parent: parent, live: true})
	return ScopeID(len(e.scopes) - 1)
}

// Pop releases id. Its bindings become unreachable and the slot is reused by
// a later Push. The global scope is never released.
func (e *Environment) Pop(id ScopeID) {
	if id == e.global || !e.valid(id) {
		return
	}
	rec := &e.scopes[id]
	clear(rec.values)
	rec.live = false
	rec.parent = NoScope
	e.free = append(e.free, id)
}

// Parent exposes the enclosing scope (NoScope for the global scope).
func (e *Environment) Parent(id ScopeID) ScopeID {
	if !e.valid(id) {
		return NoScope
	}
	return e.scopes[id].parent
}

// Depth counts the scopes between id and the global scope.
func (e *Environment) Depth(id ScopeID) int {
	depth := 0
	for cur := e.Parent(id); cur != NoScope; cur = e.Parent(cur) {
		depth++
	}
	return depth
}

// Live reports how many scopes are currently allocated, global included.
func (e *Environment) Live() int {
	return len(e.scopes) - len(e.free)
}

// Define inserts or overwrites a binding in id only. Redefining a name in the
// same scope replaces the earlier binding.
func (e *Environment) Define(id ScopeID, name string, value Value) {
	if !e.valid(id) {
		panic(fmt.Sprintf("runtime: define in released scope %d", id))
	}
	e.scopes[id].values[name] = value
}

// Get resolves name by walking outward from id.
func (e *Environment) Get(id ScopeID, name token.Token) (Value, error) {
	for cur := id; cur != NoScope; cur = e.scopes[cur].parent {
		if v, ok := e.scopes[cur].values[name.Lexeme]; ok {
			return v, nil
		}
	}
	return nil, undefinedVariable(name)
}

// Assign updates an existing binding in the nearest scope that declares it.
// Assigning an undeclared name is an error, never an implicit definition.
func (e *Environment) Assign(id ScopeID, name token.Token, value Value) error {
	for cur := id; cur != NoScope; cur = e.scopes[cur].parent {
		if _, ok := e.scopes[cur].values[name.Lexeme]; ok {
			e.scopes[cur].values[name.Lexeme] = value
			return nil
		}
	}
	return undefinedVariable(name)
}

// Keys returns the names bound directly in id, sorted.
func (e *Environment) Keys(id ScopeID) []string {
	if !e.valid(id) {
		return nil
	}
	keys := make([]string, 0, len(e.scopes[id].values))
	for k := range e.scopes[id].values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Environment) valid(id ScopeID) bool {
	return id >= 0 && int(id) < len(e.scopes) && e.scopes[id].live
}

func undefinedVariable(name token.Token) *RuntimeError {
	return NewRuntimeError(name, fmt.Sprintf("Undefined variable '%s'.", name.Lexeme))
}
