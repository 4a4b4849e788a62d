// Package syntax is the read-only view of a parsed C# compilation unit that
// the translator consumes. Trees are produced by pkg/parser or built by hand
// with the constructor helpers in builders.go.
//
// Shape conventions:
//   - CompilationUnit and Namespace hold UsingDirective, Namespace and ClassDecl children.
//   - FieldDecl carries one declarator; an optional Initializer child wraps the value.
//   - PropertyDecl holds Accessor children, or a single ExpressionBody, plus an optional Initializer.
//   - Accessor is named "get", "set" or "init"; a Block or ExpressionBody child is its body,
//     no child means an auto-implemented accessor.
//   - MethodDecl holds Parameter children followed by an optional Block or ExpressionBody.
//   - MemberAccess keeps the member name in Name and the receiver as its only child.
//   - Invocation holds the callee followed by the arguments.
//   - ObjectCreation keeps the created type in Type and the arguments as children.
package syntax

import (
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindCompilationUnit
	KindNamespace
	KindUsingDirective
	KindClassDecl
	KindFieldDecl
	KindPropertyDecl
	KindMethodDecl
	KindAccessor
	KindParameter
	KindInitializer
	KindExpressionBody
	KindBlock
	KindReturnStatement
	KindExpressionStatement
	KindLocalDeclaration
	KindIfStatement
	KindWhileStatement
	KindAssignment
	KindBinaryExpression
	KindUnaryExpression
	KindMemberAccess
	KindInvocation
	KindObjectCreation
	KindIdentifier
	KindThis
	KindIntegerLiteral
	KindRealLiteral
	KindStringLiteral
	KindCharLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindParenthesized
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindCompilationUnit:
		return "CompilationUnit"
	case KindNamespace:
		return "Namespace"
	case KindUsingDirective:
		return "UsingDirective"
	case KindClassDecl:
		return "ClassDecl"
	case KindFieldDecl:
		return "FieldDecl"
	case KindPropertyDecl:
		return "PropertyDecl"
	case KindMethodDecl:
		return "MethodDecl"
	case KindAccessor:
		return "Accessor"
	case KindParameter:
		return "Parameter"
	case KindInitializer:
		return "Initializer"
	case KindExpressionBody:
		return "ExpressionBody"
	case KindBlock:
		return "Block"
	case KindReturnStatement:
		return "ReturnStatement"
	case KindExpressionStatement:
		return "ExpressionStatement"
	case KindLocalDeclaration:
		return "LocalDeclaration"
	case KindIfStatement:
		return "IfStatement"
	case KindWhileStatement:
		return "WhileStatement"
	case KindAssignment:
		return "Assignment"
	case KindBinaryExpression:
		return "BinaryExpression"
	case KindUnaryExpression:
		return "UnaryExpression"
	case KindMemberAccess:
		return "MemberAccess"
	case KindInvocation:
		return "Invocation"
	case KindObjectCreation:
		return "ObjectCreation"
	case KindIdentifier:
		return "Identifier"
	case KindThis:
		return "This"
	case KindIntegerLiteral:
		return "IntegerLiteral"
	case KindRealLiteral:
		return "RealLiteral"
	case KindStringLiteral:
		return "StringLiteral"
	case KindCharLiteral:
		return "CharLiteral"
	case KindBooleanLiteral:
		return "BooleanLiteral"
	case KindNullLiteral:
		return "NullLiteral"
	case KindParenthesized:
		return "Parenthesized"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// IsExpression reports whether nodes of this kind may appear where a value is expected.
func (k Kind) IsExpression() bool {
	switch k {
	case KindAssignment, KindBinaryExpression, KindUnaryExpression, KindMemberAccess,
		KindInvocation, KindObjectCreation, KindIdentifier, KindThis, KindIntegerLiteral,
		KindRealLiteral, KindStringLiteral, KindCharLiteral, KindBooleanLiteral,
		KindNullLiteral, KindParenthesized:
		return true
	default:
		return false
	}
}

// Span is a 1-based source range. The zero value means "no location".
type Span struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	if s.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Node is one element of the syntax tree. Nodes are treated as immutable once
// handed to the translator.
type Node struct {
	Kind Kind
	// Raw is the parser's own node kind; it names the construct in diagnostics
	// when Kind is KindUnknown.
	Raw       string
	Name      string
	Value     string
	Type      string
	Operator  string
	Modifiers []string
	Children  []*Node
	Span      Span
}

func (n *Node) HasModifier(modifier string) bool {
	if n == nil {
		return false
	}
	for _, m := range n.Modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}

// Child returns the i-th child or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// First returns the first child of the given kind.
func (n *Node) First(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child != nil && child.Kind == kind {
			return child
		}
	}
	return nil
}

// All returns every direct child of the given kind in order.
func (n *Node) All(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, child := range n.Children {
		if child != nil && child.Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// KindName is the kind as reported in diagnostics: the parser's raw kind for
// unknown nodes, the syntax kind otherwise.
func (n *Node) KindName() string {
	if n == nil {
		return "<nil>"
	}
	if n.Kind == KindUnknown && n.Raw != "" {
		return n.Raw
	}
	return n.Kind.String()
}

// Describe renders a short human label such as "ClassDecl SomeClass".
func (n *Node) Describe() string {
	if n == nil {
		return "<nil>"
	}
	if n.Name == "" {
		return n.KindName()
	}
	return n.KindName() + " " + n.Name
}

// Walk visits n and its descendants depth-first; returning false from visit
// skips the node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, visit)
	}
}

// Dump renders the tree in an indented debugging form.
func Dump(n *Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.KindName())
	if n.Name != "" {
		fmt.Fprintf(b, " name=%s", n.Name)
	}
	if n.Type != "" {
		fmt.Fprintf(b, " type=%s", n.Type)
	}
	if n.Value != "" {
		fmt.Fprintf(b, " value=%q", n.Value)
	}
	if n.Operator != "" {
		fmt.Fprintf(b, " op=%s", n.Operator)
	}
	if len(n.Modifiers) > 0 {
		fmt.Fprintf(b, " mods=%s", strings.Join(n.Modifiers, ","))
	}
	b.WriteByte('\n')
	for _, child := range n.Children {
		dump(b, child, depth+1)
	}
}
