// Package hostlib describes the host types that translated programs can reach
// through using directives. The translator consults a Catalog to resolve names
// and to classify field types; the interpreter supplies the implementations.
package hostlib

import (
	"sort"
	"strings"
	"sync"
)

// TypeInfo describes one host type. ValueType marks types whose C#
// counterpart is a struct and therefore has no null default.
type TypeInfo struct {
	Namespace string
	Name      string
	ValueType bool
}

// FullName joins the namespace and the type name with a dot.
func (t TypeInfo) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// Catalog answers the translator's questions about host types.
type Catalog interface {
	// HasNamespace reports whether ns (or a namespace nested below it) holds host types.
	HasNamespace(ns string) bool
	// Lookup resolves a type by namespace and simple name.
	Lookup(ns, name string) (TypeInfo, bool)
}

// Registry is a Catalog that is safe for concurrent readers.
type Registry struct {
	mu    sync.RWMutex
	types map[string]TypeInfo
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]TypeInfo)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry of built-in System types.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, info := range builtinTypes {
			defaultRegistry.Register(info)
		}
	})
	return defaultRegistry
}

var builtinTypes = []TypeInfo{
	{Namespace: "System", Name: "Object"},
	{Namespace: "System", Name: "String"},
	{Namespace: "System", Name: "Random"},
	{Namespace: "System", Name: "Math"},
	{Namespace: "System", Name: "Console"},
	{Namespace: "System", Name: "DateTime", ValueType: true},
	{Namespace: "System", Name: "Guid", ValueType: true},
	{Namespace: "System", Name: "TimeSpan", ValueType: true},
	{Namespace: "System.Text", Name: "StringBuilder"},
}

// Register adds info, replacing any type with the same full name.
func (r *Registry) Register(info TypeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[info.FullName()] = info
}

// Lookup implements Catalog.
func (r *Registry) Lookup(ns, name string) (TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := name
	if ns != "" {
		key = ns + "." + name
	}
	info, ok := r.types[key]
	return info, ok
}

// HasNamespace implements Catalog.
func (r *Registry) HasNamespace(ns string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, info := range r.types {
		if info.Namespace == ns || strings.HasPrefix(info.Namespace, ns+".") {
			return true
		}
	}
	return false
}

// Resolve looks up a dotted name such as "System.Random".
func (r *Registry) Resolve(fullName string) (TypeInfo, bool) {
	idx := strings.LastIndex(fullName, ".")
	if idx < 0 {
		return r.Lookup("", fullName)
	}
	return r.Lookup(fullName[:idx], fullName[idx+1:])
}

// Types lists every registered type sorted by full name.
func (r *Registry) Types() []TypeInfo {
	r.mu.RLock()
	out := make([]TypeInfo, 0, len(r.types))
	for _, info := range r.types {
		out = append(out, info)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out
}

// Namespaces lists every namespace that directly holds a type.
func (r *Registry) Namespaces() []string {
	seen := make(map[string]struct{})
	for _, info := range r.Types() {
		seen[info.Namespace] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Root returns the first segment of a dotted namespace.
func Root(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[:idx]
	}
	return ns
}
