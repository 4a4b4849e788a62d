// Package construct holds the language-neutral description of what a C#
// declaration becomes in the target object model.
package construct

import (
	"fmt"
	"strings"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindInstanceMethod
	KindStaticMethod
	KindInstanceField
	KindStaticField
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "Module"
	case KindClass:
		return "Class"
	case KindInstanceMethod:
		return "InstanceMethod"
	case KindStaticMethod:
		return "StaticMethod"
	case KindInstanceField:
		return "InstanceField"
	case KindStaticField:
		return "StaticField"
	case KindProperty:
		return "Property"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsStatic reports whether members of this kind live on the class rather than
// on instances.
func (k Kind) IsStatic() bool {
	return k == KindStaticMethod || k == KindStaticField
}

// IsMember reports whether the kind is a class member.
func (k Kind) IsMember() bool {
	switch k {
	case KindInstanceMethod, KindStaticMethod, KindInstanceField, KindStaticField, KindProperty:
		return true
	default:
		return false
	}
}

type Param struct {
	Name string
	Type string
}

// Accessor is one half of a property. Synthesized accessors belong to
// auto-properties and read or write the backing slot.
type Accessor struct {
	Body        *syntax.Node
	Synthesized bool
}

// Construct is one node of the translated program: a module, a class or a
// class member. Constructs are built during a single translation and are not
// mutated once emitted.
type Construct struct {
	Kind      Kind
	Name      string
	Enclosing *Construct
	Members   []*Construct
	TypeName  string
	Params    []Param
	Body      *syntax.Node
	// Default is the expression a field or backing slot starts with. Literals
	// produced by the default policy rather than source text are marked
	// DefaultSynthesized.
	Default            *syntax.Node
	DefaultSynthesized bool
	Getter             *Accessor
	Setter             *Accessor
	Backing            string
	Imports            []string
	Source             *syntax.Node
	Span               syntax.Span

	index map[string]*Construct
}

func NewModule(name string) *Construct {
	return &Construct{Kind: KindModule, Name: name}
}

// IsRoot reports whether c is the implicit top-level module.
func (c *Construct) IsRoot() bool {
	return c != nil && c.Kind == KindModule && c.Enclosing == nil && c.Name == ""
}

// Path returns the dotted path of c. The implicit top-level module does not
// contribute a segment.
func (c *Construct) Path() string {
	if c == nil {
		return ""
	}
	var parts []string
	for cur := c; cur != nil; cur = cur.Enclosing {
		if cur.IsRoot() {
			break
		}
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Lookup finds a direct member by name.
func (c *Construct) Lookup(name string) (*Construct, bool) {
	if c == nil || c.index == nil {
		return nil, false
	}
	member, ok := c.index[name]
	return member, ok
}

// Add appends member to c. When the name is already taken the existing
// construct is returned and nothing is added.
func (c *Construct) Add(member *Construct) (*Construct, bool) {
	if c.index == nil {
		c.index = make(map[string]*Construct)
	}
	if existing, ok := c.index[member.Name]; ok {
		return existing, false
	}
	member.Enclosing = c
	c.index[member.Name] = member
	c.Members = append(c.Members, member)
	return member, true
}

// Reserve claims a name in c's namespace without adding a visible member.
// Reserved names make later Add calls with the same name fail.
func (c *Construct) Reserve(name string, owner *Construct) (*Construct, bool) {
	if c.index == nil {
		c.index = make(map[string]*Construct)
	}
	if existing, ok := c.index[name]; ok {
		return existing, false
	}
	c.index[name] = owner
	return owner, true
}

// ChildModule returns the nested module called name, creating it when needed.
// Repeated namespace declarations therefore merge. The second result is false
// when name is taken by something other than a module.
func (c *Construct) ChildModule(name string) (*Construct, bool) {
	if existing, ok := c.Lookup(name); ok {
		return existing, existing.Kind == KindModule
	}
	mod := NewModule(name)
	c.Add(mod)
	return mod, true
}

// AddImport records a using directive on a module, ignoring duplicates.
func (c *Construct) AddImport(ns string) {
	for _, existing := range c.Imports {
		if existing == ns {
			return
		}
	}
	c.Imports = append(c.Imports, ns)
}

// Walk visits c and every nested construct in declaration order.
func (c *Construct) Walk(visit func(*Construct) bool) {
	if c == nil || !visit(c) {
		return
	}
	for _, member := range c.Members {
		member.Walk(visit)
	}
}

// Classes returns every class below c, depth-first in declaration order.
func (c *Construct) Classes() []*Construct {
	var out []*Construct
	c.Walk(func(node *Construct) bool {
		if node.Kind == KindClass {
			out = append(out, node)
			return false
		}
		return true
	})
	return out
}

// EnclosingClass returns the nearest class containing c, or c itself.
func (c *Construct) EnclosingClass() *Construct {
	for cur := c; cur != nil; cur = cur.Enclosing {
		if cur.Kind == KindClass {
			return cur
		}
	}
	return nil
}

// EnclosingModule returns the nearest module containing c, or c itself.
func (c *Construct) EnclosingModule() *Construct {
	for cur := c; cur != nil; cur = cur.Enclosing {
		if cur.Kind == KindModule {
			return cur
		}
	}
	return nil
}

// Fields returns the class's fields of the given kind in declaration order.
func (c *Construct) Fields(kind Kind) []*Construct {
	var out []*Construct
	for _, member := range c.Members {
		if member.Kind == kind {
			out = append(out, member)
		}
	}
	return out
}

func (c *Construct) String() string {
	if c == nil {
		return "<nil>"
	}
	path := c.Path()
	if path == "" {
		return c.Kind.String()
	}
	return c.Kind.String() + " " + path
}
