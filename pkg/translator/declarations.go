package translator

import (
	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/construct"
	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

// classHeaderKinds are parser node kinds that may decorate a class
// declaration; all of them put the class outside the supported subset.
var classHeaderKinds = map[string]string{
	"type_parameter_list":               "generic classes are not supported",
	"type_parameter_constraints_clause": "generic classes are not supported",
	"base_list":                         "base lists are not supported",
	"parameter_list":                    "primary constructors are not supported",
}

var unsupportedParamModifiers = map[string]struct{}{
	"ref": {}, "out": {}, "in": {}, "params": {}, "this": {}, "scoped": {},
}

// collect is the first phase for modules: it records using directives and
// registers namespace modules and class shells in declaration order.
func (t *translator) collect(node *syntax.Node, mod *construct.Construct) error {
	for _, child := range node.Children {
		if child == nil {
			continue
		}
		switch child.Kind {
		case syntax.KindUsingDirective:
			if err := t.declareUsing(child, mod); err != nil {
				return err
			}
		case syntax.KindNamespace:
			inner, err := t.declareNamespace(child, mod)
			if err != nil {
				return err
			}
			if err := t.collect(child, inner); err != nil {
				return err
			}
		case syntax.KindClassDecl:
			if err := t.declareClass(child, mod); err != nil {
				return err
			}
		default:
			return unsupported(child, mod.Path(), "%s declarations are not supported", child.KindName())
		}
	}
	return nil
}

func (t *translator) declareUsing(node *syntax.Node, mod *construct.Construct) error {
	if node.HasModifier("static") {
		return unsupported(node, mod.Path(), "using static directives are not supported")
	}
	if node.Value != "" {
		return unsupported(node, mod.Path(), "using aliases are not supported")
	}
	ns := normalizeTypeName(node.Name)
	if ns == "" {
		return unsupported(node, mod.Path(), "using directive without a namespace")
	}
	mod.AddImport(ns)
	t.addImport(ns)
	return nil
}

func (t *translator) declareNamespace(node *syntax.Node, mod *construct.Construct) (*construct.Construct, error) {
	name := normalizeTypeName(node.Name)
	if name == "" {
		return nil, unsupported(node, mod.Path(), "namespace without a name")
	}
	cur := mod
	for _, part := range splitDotted(name) {
		next, ok := cur.ChildModule(part)
		if !ok {
			return nil, conflict(node, cur.Path(), "namespace %s collides with %s", part, next)
		}
		if next.Source == nil {
			next.Source = node
			next.Span = node.Span
		}
		cur = next
	}
	return cur, nil
}

func (t *translator) declareClass(node *syntax.Node, mod *construct.Construct) error {
	if node.HasModifier("partial") {
		return unsupported(node, mod.Path(), "partial classes are not supported")
	}
	for _, child := range node.Children {
		if child.Kind != syntax.KindUnknown {
			continue
		}
		if detail, ok := classHeaderKinds[child.Raw]; ok {
			return unsupported(node, mod.Path(), "%s", detail)
		}
	}
	cls := &construct.Construct{
		Kind:   construct.KindClass,
		Name:   pyName(node.Name),
		Source: node,
		Span:   node.Span,
	}
	if existing, ok := mod.Add(cls); !ok {
		return conflict(node, mod.Path(), "%s is already declared as %s", cls.Name, existing)
	}
	cls.Reserve(initName, cls)
	t.classes = append(t.classes, cls)
	t.log.Debug("declared class", zap.String("path", cls.Path()))
	return nil
}

// declareMembers registers the member constructs of one class. Bodies are
// left untouched until every class in the unit has its members.
func (t *translator) declareMembers(cls *construct.Construct) error {
	staticClass := cls.Source.HasModifier("static")
	for _, node := range cls.Source.Children {
		var (
			member *construct.Construct
			err    error
		)
		switch node.Kind {
		case syntax.KindFieldDecl:
			member = t.declareField(node)
		case syntax.KindPropertyDecl:
			member, err = t.declareProperty(cls, node)
		case syntax.KindMethodDecl:
			member, err = t.declareMethod(cls, node)
		case syntax.KindClassDecl:
			err = unsupported(node, cls.Path(), "nested classes are not supported")
		case syntax.KindUnknown:
			if _, header := classHeaderKinds[node.Raw]; header {
				continue
			}
			err = unsupported(node, cls.Path(), "%s members are not supported", node.KindName())
		default:
			err = unsupported(node, cls.Path(), "%s is not a class member", node.KindName())
		}
		if err != nil {
			return err
		}
		if staticClass && !member.Kind.IsStatic() {
			return unsupported(node, cls.Path(), "instance member %s in static class", member.Name)
		}
		if err := t.addMember(cls, node, member); err != nil {
			return err
		}
	}
	t.log.Debug("declared members",
		zap.String("class", cls.Path()),
		zap.Int("members", len(cls.Members)))
	return nil
}

func (t *translator) addMember(cls *construct.Construct, node *syntax.Node, member *construct.Construct) error {
	if existing, ok := cls.Add(member); !ok {
		return conflict(node, cls.Path(), "%s already declares %s as %s", cls.Path(), member.Name, existing.Kind)
	}
	var synthesized []string
	if member.Kind == construct.KindProperty {
		if member.Getter != nil {
			synthesized = append(synthesized, getterName(member.Name))
		}
		if member.Setter != nil {
			synthesized = append(synthesized, setterName(member.Name))
		}
	}
	if member.Backing != "" {
		synthesized = append(synthesized, member.Backing)
	}
	for _, name := range synthesized {
		if existing, ok := cls.Reserve(name, member); !ok {
			return conflict(node, cls.Path(), "synthesized name %s for %s collides with %s", name, member.Name, existing)
		}
	}
	return nil
}

func (t *translator) declareField(node *syntax.Node) *construct.Construct {
	kind := construct.KindInstanceField
	if node.HasModifier("static") || node.HasModifier("const") {
		kind = construct.KindStaticField
	}
	field := &construct.Construct{
		Kind:     kind,
		Name:     pyName(node.Name),
		TypeName: node.Type,
		Source:   node,
		Span:     node.Span,
	}
	if init := node.First(syntax.KindInitializer); init != nil {
		field.Default = init.Child(0)
	}
	return field
}

func (t *translator) declareProperty(cls *construct.Construct, node *syntax.Node) (*construct.Construct, error) {
	if node.HasModifier("static") {
		return nil, unsupported(node, cls.Path(), "static properties are not supported")
	}
	prop := &construct.Construct{
		Kind:     construct.KindProperty,
		Name:     pyName(node.Name),
		TypeName: node.Type,
		Source:   node,
		Span:     node.Span,
	}
	var (
		accessors []*syntax.Node
		arrow     *syntax.Node
		init      *syntax.Node
	)
	for _, child := range node.Children {
		switch child.Kind {
		case syntax.KindAccessor:
			accessors = append(accessors, child)
		case syntax.KindExpressionBody:
			arrow = child
		case syntax.KindInitializer:
			init = child
		default:
			return nil, unsupported(child, cls.Path(), "%s in property %s is not supported", child.KindName(), node.Name)
		}
	}

	if arrow != nil {
		if len(accessors) > 0 || init != nil {
			return nil, unsupported(node, cls.Path(), "expression-bodied property with accessors or initializer")
		}
		prop.Getter = &construct.Accessor{Body: arrow}
		return prop, nil
	}
	if len(accessors) == 0 {
		return nil, unsupported(node, cls.Path(), "property without accessors")
	}

	auto, explicit := 0, 0
	for _, acc := range accessors {
		body := acc.Child(0)
		accessor := &construct.Accessor{Body: body, Synthesized: body == nil}
		switch acc.Name {
		case "get":
			if prop.Getter != nil {
				return nil, unsupported(acc, cls.Path(), "duplicate get accessor")
			}
			prop.Getter = accessor
		case "set":
			if prop.Setter != nil {
				return nil, unsupported(acc, cls.Path(), "duplicate set accessor")
			}
			prop.Setter = accessor
		case "init":
			return nil, unsupported(acc, cls.Path(), "init accessors are not supported")
		default:
			return nil, unsupported(acc, cls.Path(), "unknown accessor %q", acc.Name)
		}
		if body == nil {
			auto++
		} else {
			explicit++
		}
	}
	switch {
	case auto > 0 && explicit > 0:
		return nil, unsupported(node, cls.Path(), "mixing auto-implemented and explicit accessors is not supported")
	case auto > 0:
		if prop.Getter == nil {
			return nil, unsupported(node, cls.Path(), "auto-implemented property without a getter")
		}
		prop.Backing = backingName(prop.Name)
		if init != nil {
			prop.Default = init.Child(0)
		}
	case init != nil:
		return nil, unsupported(node, cls.Path(), "only auto-implemented properties can have initializers")
	}
	return prop, nil
}

func (t *translator) declareMethod(cls *construct.Construct, node *syntax.Node) (*construct.Construct, error) {
	if node.HasModifier("async") {
		return nil, unsupported(node, cls.Path(), "async methods are not supported")
	}
	kind := construct.KindInstanceMethod
	if node.HasModifier("static") {
		kind = construct.KindStaticMethod
	}
	method := &construct.Construct{
		Kind:     kind,
		Name:     pyName(node.Name),
		TypeName: node.Type,
		Source:   node,
		Span:     node.Span,
	}
	for _, child := range node.Children {
		switch child.Kind {
		case syntax.KindParameter:
			for _, mod := range child.Modifiers {
				if _, bad := unsupportedParamModifiers[mod]; bad {
					return nil, unsupported(child, cls.Path()+"."+method.Name, "%s parameters are not supported", mod)
				}
			}
			if child.First(syntax.KindInitializer) != nil {
				return nil, unsupported(child, cls.Path()+"."+method.Name, "optional parameters are not supported")
			}
			method.Params = append(method.Params, construct.Param{Name: child.Name, Type: child.Type})
		case syntax.KindBlock, syntax.KindExpressionBody:
			method.Body = child
		case syntax.KindUnknown:
			if child.Raw == "type_parameter_list" || child.Raw == "type_parameter_constraints_clause" {
				return nil, unsupported(node, cls.Path(), "generic methods are not supported")
			}
			return nil, unsupported(child, cls.Path()+"."+method.Name, "%s in method signature is not supported", child.KindName())
		default:
			return nil, unsupported(child, cls.Path()+"."+method.Name, "%s in method declaration", child.KindName())
		}
	}
	if method.Body == nil {
		return nil, unsupported(node, cls.Path(), "methods without a body are not supported")
	}
	return method, nil
}
