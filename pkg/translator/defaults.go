package translator

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

// DefaultPolicy maps value-like type names onto the literal a field of that
// type starts with when it has no initializer. Values are nil, bool, int64,
// float64 or string.
type DefaultPolicy struct {
	mu      sync.RWMutex
	entries map[string]any
}

var builtinDefaults = map[string]any{
	"sbyte":   int64(0),
	"byte":    int64(0),
	"short":   int64(0),
	"ushort":  int64(0),
	"int":     int64(0),
	"uint":    int64(0),
	"long":    int64(0),
	"ulong":   int64(0),
	"nint":    int64(0),
	"nuint":   int64(0),
	"float":   float64(0),
	"double":  float64(0),
	"decimal": float64(0),
	"bool":    false,
	"char":    "\x00",
}

// valueKeywords are the C# built-in struct types. Without a policy entry they
// have no default.
var valueKeywords = map[string]struct{}{
	"sbyte": {}, "byte": {}, "short": {}, "ushort": {}, "int": {}, "uint": {},
	"long": {}, "ulong": {}, "nint": {}, "nuint": {}, "float": {}, "double": {},
	"decimal": {}, "bool": {}, "char": {},
}

var referenceKeywords = map[string]struct{}{
	"object": {}, "string": {}, "dynamic": {},
}

var typeAliases = map[string]string{
	"System.SByte":   "sbyte",
	"System.Byte":    "byte",
	"System.Int16":   "short",
	"System.UInt16":  "ushort",
	"System.Int32":   "int",
	"System.UInt32":  "uint",
	"System.Int64":   "long",
	"System.UInt64":  "ulong",
	"System.IntPtr":  "nint",
	"System.UIntPtr": "nuint",
	"System.Single":  "float",
	"System.Double":  "double",
	"System.Decimal": "decimal",
	"System.Boolean": "bool",
	"System.Char":    "char",
	"System.Object":  "object",
	"System.String":  "string",
}

// NewDefaultPolicy returns the built-in table: zero for numbers, False for
// bool and NUL for char.
func NewDefaultPolicy() *DefaultPolicy {
	p := &DefaultPolicy{entries: make(map[string]any, len(builtinDefaults))}
	for name, value := range builtinDefaults {
		p.entries[name] = value
	}
	return p
}

// StrictDefaultPolicy returns an empty table, so every value-like field
// without an initializer is rejected.
func StrictDefaultPolicy() *DefaultPolicy {
	return &DefaultPolicy{entries: make(map[string]any)}
}

// Set adds or replaces the default for a type name. Aliases such as
// System.Int32 are stored under their keyword.
func (p *DefaultPolicy) Set(typeName string, value any) error {
	normalized, err := normalizeDefault(value)
	if err != nil {
		return fmt.Errorf("translator: default for %s: %w", typeName, err)
	}
	name := normalizeTypeName(typeName)
	if name == "" {
		return fmt.Errorf("translator: default policy entry without a type name")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[name] = normalized
	return nil
}

// Lookup returns the default for a type name, resolving aliases first.
func (p *DefaultPolicy) Lookup(typeName string) (any, bool) {
	if p == nil {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.entries[normalizeTypeName(typeName)]
	return value, ok
}

// Types lists the configured type names in sorted order.
func (p *DefaultPolicy) Types() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, 0, len(p.entries))
	for name := range p.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func normalizeDefault(value any) (any, error) {
	switch v := value.(type) {
	case nil, bool, int64, float64, string:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case float32:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("unsupported default literal %T", value)
	}
}

func normalizeTypeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "global::")
	if alias, ok := typeAliases[name]; ok {
		return alias
	}
	return name
}

// defaultFor classifies the declared type of a field or backing slot and
// returns the literal it starts with.
func (s *scope) defaultFor(node *syntax.Node, typeName string) (*syntax.Node, error) {
	name := normalizeTypeName(typeName)
	switch {
	case name == "" || name == "var":
		return nil, missingDefault(node, s.path, "no declared type to derive a default from")
	case strings.Contains(name, "<"):
		return nil, unsupported(node, s.path, "generic type %s is not supported", name)
	case strings.HasSuffix(name, "?"), strings.HasSuffix(name, "]"):
		return syntax.Null(), nil
	}
	if value, ok := s.t.policy.Lookup(name); ok {
		return literalNode(value), nil
	}
	if _, ok := referenceKeywords[name]; ok {
		return syntax.Null(), nil
	}
	if _, ok := valueKeywords[name]; ok {
		return nil, missingDefault(node, s.path, "no default policy entry for value type %s", name)
	}
	if cls := s.findUnitClass(name); cls != nil {
		return syntax.Null(), nil
	}
	if info, ok := s.findHostType(name); ok {
		if !info.ValueType {
			return syntax.Null(), nil
		}
		if value, ok := s.t.policy.Lookup(info.FullName()); ok {
			return literalNode(value), nil
		}
		return nil, missingDefault(node, s.path, "no default policy entry for host value type %s", info.FullName())
	}
	return nil, missingDefault(node, s.path, "unrecognized type %s", name)
}

func literalNode(value any) *syntax.Node {
	switch v := value.(type) {
	case bool:
		return syntax.Bool(v)
	case int64:
		return syntax.Int(v)
	case float64:
		return syntax.Real(v)
	case string:
		return syntax.Str(v)
	default:
		return syntax.Null()
	}
}
