package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

func (c *converter) block(node *sitter.Node) *syntax.Node {
	block := annotate(syntax.Block(), node)
	for _, child := range namedChildren(node) {
		block.Children = append(block.Children, c.statement(child)...)
	}
	return block
}

// statement converts one statement. Local declarations with several
// declarators expand to several nodes.
func (c *converter) statement(node *sitter.Node) []*syntax.Node {
	switch node.Kind() {
	case "block":
		return []*syntax.Node{c.block(node)}
	case "empty_statement":
		return []*syntax.Node{annotate(syntax.Block(), node)}
	case "return_statement":
		var value *syntax.Node
		if values := namedChildren(node); len(values) > 0 {
			value = c.expression(values[0])
		}
		return []*syntax.Node{annotate(syntax.Ret(value), node)}
	case "expression_statement":
		values := namedChildren(node)
		if len(values) == 0 {
			return []*syntax.Node{c.unknown(node)}
		}
		return []*syntax.Node{annotate(syntax.ExprStmt(c.expression(values[0])), node)}
	case "local_declaration_statement":
		return c.localDeclaration(node)
	case "if_statement":
		cond := c.expression(node.ChildByFieldName("condition"))
		then := c.single(node.ChildByFieldName("consequence"))
		var otherwise *syntax.Node
		if alt := node.ChildByFieldName("alternative"); alt != nil {
			if alt.Kind() == "else_clause" {
				if inner := namedChildren(alt); len(inner) > 0 {
					alt = inner[0]
				}
			}
			otherwise = c.single(alt)
		}
		return []*syntax.Node{annotate(syntax.If(cond, then, otherwise), node)}
	case "while_statement":
		cond := c.expression(node.ChildByFieldName("condition"))
		return []*syntax.Node{annotate(syntax.While(cond, c.single(node.ChildByFieldName("body"))), node)}
	default:
		return []*syntax.Node{c.unknown(node)}
	}
}

// single converts an embedded statement, wrapping expansions in a block.
func (c *converter) single(node *sitter.Node) *syntax.Node {
	if node == nil {
		return syntax.Block()
	}
	stmts := c.statement(node)
	if len(stmts) == 1 {
		return stmts[0]
	}
	return annotate(syntax.Block(stmts...), node)
}

func (c *converter) localDeclaration(node *sitter.Node) []*syntax.Node {
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
		if len(extra) > 0 {
			out = append(out, extra...)
			continue
		}
		out = append(out, annotate(syntax.Local(typeName, name, init), declarator))
	}
	return out
}
