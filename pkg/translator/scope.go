package translator

import (
	"fmt"
	"strings"

	"github.com/sdi1982/CSharpToPython/pkg/construct"
	"github.com/sdi1982/CSharpToPython/pkg/hostlib"
	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

// scope tracks what a member body can see: its locals, its class and the
// modules around it.
type scope struct {
	t      *translator
	class  *construct.Construct
	module *construct.Construct
	static bool
	path   string
	blocks []map[string]string
	// used holds every Python name given to a local of this body, mapped to
	// its declared C# type.
	used map[string]string
}

func (t *translator) newScope(cls *construct.Construct, static bool, path string) *scope {
	return &scope{
		t:      t,
		class:  cls,
		module: cls.EnclosingModule(),
		static: static,
		path:   path,
		blocks: []map[string]string{{}},
		used:   map[string]string{},
	}
}

func (s *scope) push() {
	s.blocks = append(s.blocks, map[string]string{})
}

func (s *scope) pop() {
	s.blocks = s.blocks[:len(s.blocks)-1]
}

// declare introduces a local or parameter and returns its Python name. A name
// that is already taken in the emitted function gets a suffix.
func (s *scope) declare(name, typeName string) string {
	py := pyName(name)
	candidate := py
	for n := 1; s.taken(candidate); n++ {
		if n == 1 {
			candidate = py + "_"
		} else {
			candidate = fmt.Sprintf("%s_%d", py, n)
		}
	}
	s.used[candidate] = typeName
	s.blocks[len(s.blocks)-1][name] = candidate
	return candidate
}

// taken reports whether a local called py would shadow the receiver, another
// local, or the first segment of a qualified path the body may emit: a
// top-level class or namespace of the unit, an imported namespace, or a host
// namespace.
func (s *scope) taken(py string) bool {
	if py == "self" {
		return true
	}
	if _, ok := s.used[py]; ok {
		return true
	}
	if _, ok := s.t.root.Lookup(py); ok {
		return true
	}
	for _, ns := range s.t.imports {
		if splitDotted(ns)[0] == py {
			return true
		}
	}
	return s.t.catalog.HasNamespace(py)
}

func (s *scope) local(name string) (string, bool) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if py, ok := s.blocks[i][name]; ok {
			return py, true
		}
	}
	return "", false
}

func (s *scope) classMember(name string) (*construct.Construct, bool) {
	member, ok := s.class.Lookup(name)
	if !ok || member.Enclosing != s.class || member.Name != name || !member.Kind.IsMember() {
		return nil, false
	}
	return member, true
}

// usings lists the namespaces imported by the current module and every
// module around it, innermost first.
func (s *scope) usings() []string {
	var out []string
	for mod := s.module; mod != nil; mod = mod.Enclosing {
		out = append(out, mod.Imports...)
	}
	return out
}

// lookupUnitType finds a class or namespace of this unit by simple name,
// searching the enclosing modules outward and then the namespaces brought in
// by using directives.
func (s *scope) lookupUnitType(name string) (*construct.Construct, bool) {
	for mod := s.module; mod != nil; mod = mod.Enclosing {
		if found, ok := mod.Lookup(name); ok && (found.Kind == construct.KindClass || found.Kind == construct.KindModule) {
			return found, true
		}
	}
	for _, ns := range s.usings() {
		mod := s.t.findModule(ns)
		if mod == nil {
			continue
		}
		if found, ok := mod.Lookup(name); ok && found.Kind == construct.KindClass {
			return found, true
		}
	}
	return nil, false
}

func (s *scope) lookupHostType(name string) (hostlib.TypeInfo, bool) {
	for _, ns := range s.usings() {
		if info, ok := s.t.catalog.Lookup(ns, name); ok {
			return info, true
		}
	}
	return hostlib.TypeInfo{}, false
}

// findUnitClass resolves a possibly dotted type name to a class of this unit.
func (s *scope) findUnitClass(typeName string) *construct.Construct {
	parts := splitDotted(typeName)
	cur, ok := s.lookupUnitType(parts[0])
	if !ok {
		return nil
	}
	for _, part := range parts[1:] {
		next, found := cur.Lookup(part)
		if !found {
			return nil
		}
		cur = next
	}
	if cur.Kind != construct.KindClass {
		return nil
	}
	return cur
}

// findHostType resolves a simple name through using directives, or a dotted
// name as a fully qualified host type.
func (s *scope) findHostType(typeName string) (hostlib.TypeInfo, bool) {
	idx := strings.LastIndex(typeName, ".")
	if idx < 0 {
		return s.lookupHostType(typeName)
	}
	return s.t.catalog.Lookup(typeName[:idx], typeName[idx+1:])
}

func pathExpr(c *construct.Construct) pyast.Expr {
	return pyast.Dotted(strings.Split(c.Path(), ".")...)
}

func (s *scope) hostExpr(info hostlib.TypeInfo) pyast.Expr {
	s.t.useHost(info.Namespace)
	return pyast.Dotted(append(strings.Split(info.Namespace, "."), info.Name)...)
}

func (s *scope) memberRef(node *syntax.Node, member *construct.Construct) (pyast.Expr, error) {
	if member.Kind.IsStatic() {
		return pyast.NewAttribute(pathExpr(s.class), member.Name), nil
	}
	if s.static {
		return nil, unsupported(node, s.path, "instance member %s referenced from a static context", member.Name)
	}
	return pyast.NewAttribute(pyast.NewName("self"), member.Name), nil
}

// resolveIdentifier applies the lookup order for a bare name: locals and
// parameters, members of the enclosing class, classes and namespaces of the
// unit, host types imported by using directives, then host namespace roots.
func (s *scope) resolveIdentifier(node *syntax.Node) (pyast.Expr, error) {
	name := node.Name
	if py, ok := s.local(name); ok {
		return pyast.NewName(py), nil
	}
	py := pyName(name)
	if member, ok := s.classMember(py); ok {
		return s.memberRef(node, member)
	}
	if target, ok := s.lookupUnitType(py); ok {
		return pathExpr(target), nil
	}
	if info, ok := s.lookupHostType(name); ok {
		return s.hostExpr(info), nil
	}
	if s.t.catalog.HasNamespace(name) {
		s.t.useHost(name)
		return pyast.NewName(name), nil
	}
	return nil, unsupported(node, s.path, "unresolved identifier %s", name)
}

// resolveType maps the type named in an object creation onto the expression
// that constructs it.
func (s *scope) resolveType(node *syntax.Node, typeName string) (pyast.Expr, error) {
	name := normalizeTypeName(typeName)
	if strings.Contains(name, "<") {
		return nil, unsupported(node, s.path, "generic type %s is not supported", name)
	}
	if name == "object" {
		name = "System.Object"
	}
	if cls := s.findUnitClass(name); cls != nil {
		return pathExpr(cls), nil
	}
	if info, ok := s.findHostType(name); ok {
		return s.hostExpr(info), nil
	}
	return nil, unsupported(node, s.path, "unresolved type %s", name)
}

var integralKeywords = map[string]struct{}{
	"sbyte": {}, "byte": {}, "short": {}, "ushort": {}, "int": {}, "uint": {},
	"long": {}, "ulong": {}, "nint": {}, "nuint": {},
}

func isIntegralType(typeName string) bool {
	_, ok := integralKeywords[normalizeTypeName(typeName)]
	return ok
}

// integral reports whether node is known to produce an integer, in which case
// C# "/" divides without a fraction.
func (s *scope) integral(node *syntax.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind {
	case syntax.KindIntegerLiteral:
		return true
	case syntax.KindParenthesized:
		return s.integral(node.Child(0))
	case syntax.KindUnaryExpression:
		return (node.Operator == "-" || node.Operator == "+") && s.integral(node.Child(0))
	case syntax.KindBinaryExpression:
		switch node.Operator {
		case "+", "-", "*", "/", "%":
			return s.integral(node.Child(0)) && s.integral(node.Child(1))
		}
	case syntax.KindIdentifier:
		if py, ok := s.local(node.Name); ok {
			return isIntegralType(s.used[py])
		}
		return s.integralMember(node.Name, false)
	case syntax.KindMemberAccess:
		if object := node.Child(0); object != nil && object.Kind == syntax.KindThis {
			return s.integralMember(node.Name, false)
		}
	case syntax.KindInvocation:
		callee := node.Child(0)
		if callee == nil || callee.Kind != syntax.KindIdentifier {
			return false
		}
		if _, ok := s.local(callee.Name); ok {
			return false
		}
		return s.integralMember(callee.Name, true)
	}
	return false
}

func (s *scope) integralMember(name string, method bool) bool {
	member, ok := s.classMember(pyName(name))
	if !ok {
		return false
	}
	isMethod := member.Kind == construct.KindInstanceMethod || member.Kind == construct.KindStaticMethod
	return isMethod == method && isIntegralType(member.TypeName)
}
