package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

func (c *converter) compilationUnit(root *sitter.Node) *syntax.Node {
	unit := annotate(syntax.Unit(), root)
	// Declarations following a file-scoped namespace belong to it.
	target := unit
	for _, child := range namedChildren(root) {
		if child.Kind() == "file_scoped_namespace_declaration" {
			ns := c.namespace(child)
			unit.Children = append(unit.Children, ns)
			target = ns
			continue
		}
		target.Children = append(target.Children, c.topLevel(child)...)
	}
	return unit
}

func (c *converter) topLevel(node *sitter.Node) []*syntax.Node {
	switch node.Kind() {
	case "using_directive":
		return []*syntax.Node{c.using(node)}
	case "namespace_declaration", "file_scoped_namespace_declaration":
		return []*syntax.Node{c.namespace(node)}
	case "class_declaration":
		return []*syntax.Node{c.class(node)}
	default:
		return []*syntax.Node{c.unknown(node)}
	}
}

func (c *converter) using(node *sitter.Node) *syntax.Node {
	var (
		alias string
		named = namedChildren(node)
	)
	using := syntax.Using("")
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch child.Kind() {
		case "static", "global", "unsafe":
			using.Modifiers = append(using.Modifiers, child.Kind())
		}
	}
	if n := node.ChildByFieldName("name"); n != nil && len(named) > 1 {
		alias = c.text(n)
	}
	for _, child := range named {
		if child.Kind() == "name_equals" {
			alias = strings.TrimSpace(strings.TrimSuffix(c.text(child), "="))
		}
	}
	if len(named) > 0 {
		using.Name = c.text(named[len(named)-1])
	}
	using.Value = alias
	return annotate(using, node)
}

func (c *converter) namespace(node *sitter.Node) *syntax.Node {
	nameNode := node.ChildByFieldName("name")
	ns := annotate(syntax.Namespace(c.text(nameNode)), node)
	members := namedChildren(node)
	if body := node.ChildByFieldName("body"); body != nil {
		members = namedChildren(body)
	}
	for _, child := range members {
		if sameNode(child, nameNode) {
			continue
		}
		ns.Children = append(ns.Children, c.topLevel(child)...)
	}
	return ns
}

func (c *converter) class(node *sitter.Node) *syntax.Node {
	cls := annotate(syntax.Class(c.text(node.ChildByFieldName("name")), c.modifiers(node)), node)
	body := node.ChildByFieldName("body")
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "modifier", "identifier", "declaration_list":
		case "type_parameter_list", "type_parameter_constraints_clause", "base_list", "parameter_list", "attribute_list":
			cls.Children = append(cls.Children, c.unknown(child))
		}
	}
	for _, member := range namedChildren(body) {
		cls.Children = append(cls.Children, c.member(member)...)
	}
	return cls
}

func (c *converter) member(node *sitter.Node) []*syntax.Node {
	switch node.Kind() {
	case "field_declaration":
		return c.field(node)
	case "property_declaration":
		return []*syntax.Node{c.property(node)}
	case "method_declaration":
		return []*syntax.Node{c.method(node)}
	case "class_declaration":
		return []*syntax.Node{c.class(node)}
	default:
		return []*syntax.Node{c.unknown(node)}
	}
}

// field splits "int a = 1, b;" into one FieldDecl per declarator.
func (c *converter) field(node *sitter.Node) []*syntax.Node {
	mods := c.modifiers(node)
	var decl *sitter.Node
	for _, child := range namedChildren(node) {
		if child.Kind() == "variable_declaration" {
			decl = child
		}
	}
	if decl == nil {
		return []*syntax.Node{c.unknown(node)}
	}
	typeName := c.text(decl.ChildByFieldName("type"))
	var out []*syntax.Node
	for _, declarator := range namedChildren(decl) {
		if declarator.Kind() != "variable_declarator" {
			continue
		}
		name, init, extra := c.declarator(declarator)
		field := annotate(syntax.Field(mods, typeName, name, init), declarator)
		field.Children = append(field.Children, extra...)
		out = append(out, field)
	}
	return out
}

// declarator returns the name and initializer of a variable declarator.
// Anything else it carries (array sizes, tuple patterns) is returned as
// unknown nodes.
func (c *converter) declarator(node *sitter.Node) (string, *syntax.Node, []*syntax.Node) {
	nameNode := node.ChildByFieldName("name")
	var (
		init  *syntax.Node
		extra []*syntax.Node
	)
	for _, child := range namedChildren(node) {
		switch {
		case sameNode(child, nameNode):
		case child.Kind() == "equals_value_clause":
			if values := namedChildren(child); len(values) > 0 {
				init = c.expression(values[0])
			}
		case child.Kind() == "bracketed_argument_list":
			extra = append(extra, c.unknown(child))
		default:
			init = c.expression(child)
		}
	}
	return c.text(nameNode), init, extra
}

func (c *converter) property(node *sitter.Node) *syntax.Node {
	prop := annotate(syntax.Prop(c.modifiers(node), c.text(node.ChildByFieldName("type")), c.text(node.ChildByFieldName("name"))), node)
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "explicit_interface_specifier", "attribute_list":
			prop.Children = append(prop.Children, c.unknown(child))
		}
	}
	if accessors := node.ChildByFieldName("accessors"); accessors != nil {
		for _, acc := range namedChildren(accessors) {
			if acc.Kind() != "accessor_declaration" {
				prop.Children = append(prop.Children, c.unknown(acc))
				continue
			}
			prop.Children = append(prop.Children, c.accessor(acc))
		}
	}
	if value := node.ChildByFieldName("value"); value != nil {
		if value.Kind() == "arrow_expression_clause" {
			prop.Children = append(prop.Children, c.arrow(value))
		} else {
			prop.Children = append(prop.Children, annotate(syntax.Init(c.expression(value)), value))
		}
	}
	return prop
}

func (c *converter) accessor(node *sitter.Node) *syntax.Node {
	name := ""
	if n := node.ChildByFieldName("name"); n != nil {
		name = c.text(n)
	} else {
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil || child.IsNamed() {
				continue
			}
			switch child.Kind() {
			case "get", "set", "init", "add", "remove":
				name = child.Kind()
			}
		}
	}
	var body *syntax.Node
	if b := node.ChildByFieldName("body"); b != nil {
		body = c.body(b)
	}
	var acc *syntax.Node
	if name == "set" {
		acc = syntax.Set(body)
	} else {
		acc = syntax.Get(body)
		acc.Name = name
	}
	acc.Modifiers = c.modifiers(node)
	return annotate(acc, node)
}

func (c *converter) method(node *sitter.Node) *syntax.Node {
	returns := node.ChildByFieldName("returns")
	if returns == nil {
		returns = node.ChildByFieldName("type")
	}
	var params []*syntax.Node
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "type_parameter_list", "type_parameter_constraints_clause", "explicit_interface_specifier", "attribute_list":
			params = append(params, c.unknown(child))
		case "parameter_list":
			params = append(params, c.parameters(child)...)
		}
	}
	var body *syntax.Node
	if b := node.ChildByFieldName("body"); b != nil {
		body = c.body(b)
	}
	return annotate(syntax.Method(c.modifiers(node), c.text(returns), c.text(node.ChildByFieldName("name")), params, body), node)
}

var parameterModifiers = map[string]struct{}{
	"ref": {}, "out": {}, "in": {}, "params": {}, "this": {}, "scoped": {}, "readonly": {},
}

func (c *converter) parameters(node *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range namedChildren(node) {
		if child.Kind() != "parameter" {
			out = append(out, c.unknown(child))
			continue
		}
		nameNode := child.ChildByFieldName("name")
		typeNode := child.ChildByFieldName("type")
		param := annotate(syntax.Param(c.text(typeNode), c.text(nameNode)), child)
		for i := uint(0); i < child.ChildCount(); i++ {
			part := child.Child(i)
			if part == nil || part.IsNamed() {
				continue
			}
			if _, ok := parameterModifiers[part.Kind()]; ok {
				param.Modifiers = append(param.Modifiers, part.Kind())
			}
		}
		for _, part := range namedChildren(child) {
			switch {
			case sameNode(part, nameNode), sameNode(part, typeNode):
			case part.Kind() == "modifier" || part.Kind() == "parameter_modifier":
				param.Modifiers = append(param.Modifiers, c.text(part))
			case part.Kind() == "attribute_list":
			case part.Kind() == "equals_value_clause":
				if values := namedChildren(part); len(values) > 0 {
					param.Children = append(param.Children, syntax.Init(c.expression(values[0])))
				}
			default:
				param.Children = append(param.Children, syntax.Init(c.expression(part)))
			}
		}
		out = append(out, param)
	}
	return out
}

// body converts a function body: a block, an arrow clause or a bare ";".
func (c *converter) body(node *sitter.Node) *syntax.Node {
	switch node.Kind() {
	case "block":
		return c.block(node)
	case "arrow_expression_clause":
		return c.arrow(node)
	default:
		return nil
	}
}

func (c *converter) arrow(node *sitter.Node) *syntax.Node {
	values := namedChildren(node)
	if len(values) == 0 {
		return c.unknown(node)
	}
	return annotate(syntax.Arrow(c.expression(values[0])), node)
}
