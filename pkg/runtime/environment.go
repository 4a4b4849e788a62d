package runtime

import (
	"fmt"
	"sort"
)

// Environment holds the bindings of one scope. Function calls get a fresh
// environment whose parent is the defining module's globals.
type Environment struct {
	values map[string]Value
	parent *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define binds name in this scope, shadowing outer bindings.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, fmt.Errorf("name '%s' is not defined", name)
}

// Lookup is Get without the error.
func (e *Environment) Lookup(name string) (Value, bool) {
	v, err := e.Get(name)
	return v, err == nil
}

// Keys returns the bindings of this scope in sorted order.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extend creates a child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
