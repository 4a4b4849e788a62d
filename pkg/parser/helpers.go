package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

type converter struct {
	source []byte
}

func sliceContent(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := int(node.StartByte())
	end := int(node.EndByte())
	if start < 0 || end < start || end > len(source) {
		return ""
	}
	return string(source[start:end])
}

func (c *converter) text(node *sitter.Node) string {
	return strings.TrimSpace(sliceContent(node, c.source))
}

func spanFromNode(node *sitter.Node) syntax.Span {
	if node == nil {
		return syntax.Span{}
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return syntax.Span{
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndColumn: int(end.Column) + 1,
	}
}

func annotate(n *syntax.Node, tsNode *sitter.Node) *syntax.Node {
	if n != nil && n.Span.IsZero() {
		n.Span = spanFromNode(tsNode)
	}
	return n
}

func isIgnorableNode(node *sitter.Node) bool {
	if node == nil {
		return true
	}
	switch node.Kind() {
	case "comment", "preproc_region", "preproc_endregion", "preproc_pragma":
		return true
	}
	return false
}

// namedChildren returns the named children of node, skipping comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || isIgnorableNode(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// modifiers collects the modifier keywords attached to a declaration.
func (c *converter) modifiers(node *sitter.Node) []string {
	var out []string
	for _, child := range namedChildren(node) {
		if child.Kind() == "modifier" {
			out = append(out, c.text(child))
		}
	}
	return out
}

// operator returns the operator token of a unary, binary or assignment
// expression.
func (c *converter) operator(node *sitter.Node) string {
	if op := node.ChildByFieldName("operator"); op != nil {
		return c.text(op)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch kind := child.Kind(); kind {
		case "(", ")":
			continue
		default:
			return kind
		}
	}
	return ""
}

// unknown keeps an unsupported grammar node so the translator can reject it
// with its location.
func (c *converter) unknown(node *sitter.Node) *syntax.Node {
	name := ""
	if n := node.ChildByFieldName("name"); n != nil {
		name = c.text(n)
	}
	return annotate(syntax.Unsupported(node.Kind(), name), node)
}
