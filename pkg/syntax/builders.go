package syntax

import (
	"strconv"
)

func Unit(children ...*Node) *Node {
	return &Node{Kind: KindCompilationUnit, Children: children}
}

func Namespace(name string, children ...*Node) *Node {
	return &Node{Kind: KindNamespace, Name: name, Children: children}
}

func Using(name string) *Node {
	return &Node{Kind: KindUsingDirective, Name: name}
}

func Mods(modifiers ...string) []string {
	return modifiers
}

func Class(name string, modifiers []string, members ...*Node) *Node {
	return &Node{Kind: KindClassDecl, Name: name, Modifiers: modifiers, Children: members}
}

// Field builds a single-declarator field; init may be nil.
func Field(modifiers []string, typeName, name string, init *Node) *Node {
	node := &Node{Kind: KindFieldDecl, Name: name, Type: typeName, Modifiers: modifiers}
	if init != nil {
		node.Children = append(node.Children, Init(init))
	}
	return node
}

// Prop builds a property; children are accessors, an ExpressionBody and/or an Initializer.
func Prop(modifiers []string, typeName, name string, children ...*Node) *Node {
	return &Node{Kind: KindPropertyDecl, Name: name, Type: typeName, Modifiers: modifiers, Children: children}
}

// Get builds a get accessor; a nil body means auto-implemented.
func Get(body *Node) *Node {
	return accessor("get", body)
}

// Set builds a set accessor; a nil body means auto-implemented.
func Set(body *Node) *Node {
	return accessor("set", body)
}

func accessor(name string, body *Node) *Node {
	node := &Node{Kind: KindAccessor, Name: name}
	if body != nil {
		node.Children = []*Node{body}
	}
	return node
}

func Arrow(expr *Node) *Node {
	return &Node{Kind: KindExpressionBody, Children: []*Node{expr}}
}

func Init(expr *Node) *Node {
	return &Node{Kind: KindInitializer, Children: []*Node{expr}}
}

// Method builds a method declaration; body is a Block, an ExpressionBody or nil.
func Method(modifiers []string, returnType, name string, params []*Node, body *Node) *Node {
	node := &Node{Kind: KindMethodDecl, Name: name, Type: returnType, Modifiers: modifiers}
	node.Children = append(node.Children, params...)
	if body != nil {
		node.Children = append(node.Children, body)
	}
	return node
}

func Param(typeName, name string) *Node {
	return &Node{Kind: KindParameter, Name: name, Type: typeName}
}

func Block(statements ...*Node) *Node {
	return &Node{Kind: KindBlock, Children: statements}
}

func Ret(expr *Node) *Node {
	node := &Node{Kind: KindReturnStatement}
	if expr != nil {
		node.Children = []*Node{expr}
	}
	return node
}

func ExprStmt(expr *Node) *Node {
	return &Node{Kind: KindExpressionStatement, Children: []*Node{expr}}
}

func Local(typeName, name string, init *Node) *Node {
	node := &Node{Kind: KindLocalDeclaration, Name: name, Type: typeName}
	if init != nil {
		node.Children = []*Node{Init(init)}
	}
	return node
}

func If(cond, then, otherwise *Node) *Node {
	node := &Node{Kind: KindIfStatement, Children: []*Node{cond, then}}
	if otherwise != nil {
		node.Children = append(node.Children, otherwise)
	}
	return node
}

func While(cond, body *Node) *Node {
	return &Node{Kind: KindWhileStatement, Children: []*Node{cond, body}}
}

func Assign(operator string, left, right *Node) *Node {
	return &Node{Kind: KindAssignment, Operator: operator, Children: []*Node{left, right}}
}

func Bin(operator string, left, right *Node) *Node {
	return &Node{Kind: KindBinaryExpression, Operator: operator, Children: []*Node{left, right}}
}

func Unary(operator string, operand *Node) *Node {
	return &Node{Kind: KindUnaryExpression, Operator: operator, Children: []*Node{operand}}
}

func Member(object *Node, name string) *Node {
	return &Node{Kind: KindMemberAccess, Name: name, Children: []*Node{object}}
}

func Call(callee *Node, args ...*Node) *Node {
	return &Node{Kind: KindInvocation, Children: append([]*Node{callee}, args...)}
}

func New(typeName string, args ...*Node) *Node {
	return &Node{Kind: KindObjectCreation, Type: typeName, Children: args}
}

func ID(name string) *Node {
	return &Node{Kind: KindIdentifier, Name: name}
}

func This() *Node {
	return &Node{Kind: KindThis}
}

func Int(v int64) *Node {
	return &Node{Kind: KindIntegerLiteral, Value: strconv.FormatInt(v, 10)}
}

func Real(v float64) *Node {
	return &Node{Kind: KindRealLiteral, Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func Str(s string) *Node {
	return &Node{Kind: KindStringLiteral, Value: s}
}

func Char(r rune) *Node {
	return &Node{Kind: KindCharLiteral, Value: string(r)}
}

func Bool(b bool) *Node {
	return &Node{Kind: KindBooleanLiteral, Value: strconv.FormatBool(b)}
}

func Null() *Node {
	return &Node{Kind: KindNullLiteral}
}

func Paren(expr *Node) *Node {
	return &Node{Kind: KindParenthesized, Children: []*Node{expr}}
}

// Unsupported stands in for a parser node the syntax view has no kind for.
func Unsupported(raw, name string, children ...*Node) *Node {
	return &Node{Kind: KindUnknown, Raw: raw, Name: name, Children: children}
}
