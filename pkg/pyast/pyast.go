// Package pyast models the Python-shaped target program. The same tree is
// rendered as Python text by Render and executed by pkg/interpreter.
package pyast

type NodeType string

const (
	NodeModule    NodeType = "Module"
	NodeImport    NodeType = "Import"
	NodeNamespace NodeType = "Namespace"
	NodeClassDef  NodeType = "ClassDef"
	NodeFunction  NodeType = "FunctionDef"
	NodeAssign    NodeType = "Assign"
	NodeAugAssign NodeType = "AugAssign"
	NodeReturn    NodeType = "Return"
	NodeExprStmt  NodeType = "ExprStmt"
	NodeIf        NodeType = "If"
	NodeWhile     NodeType = "While"
	NodePass      NodeType = "Pass"
	NodeName      NodeType = "Name"
	NodeAttribute NodeType = "Attribute"
	NodeCall      NodeType = "Call"
	NodeConstant  NodeType = "Constant"
	NodeBinOp     NodeType = "BinOp"
	NodeUnaryOp   NodeType = "UnaryOp"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

type Stmt interface {
	Node
	stmtNode()
}

type stmtMarker struct{}

func (stmtMarker) stmtNode() {}

type Expr interface {
	Node
	exprNode()
}

type exprMarker struct{}

func (exprMarker) exprNode() {}

type Module struct {
	nodeImpl

	Body []Stmt
}

func NewModule(body []Stmt) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}

// Import brings a dotted host namespace into scope, e.g. "System.Text".
type Import struct {
	nodeImpl
	stmtMarker

	Name string
}

func NewImport(name string) *Import {
	return &Import{nodeImpl: newNodeImpl(NodeImport), Name: name}
}

// Namespace is a module container. It renders as a nested class body and
// evaluates to a module object bound to Name.
type Namespace struct {
	nodeImpl
	stmtMarker

	Name string
	Body []Stmt
}

func NewNamespace(name string, body []Stmt) *Namespace {
	return &Namespace{nodeImpl: newNodeImpl(NodeNamespace), Name: name, Body: body}
}

type ClassDef struct {
	nodeImpl
	stmtMarker

	Name string
	Body []Stmt
}

func NewClassDef(name string, body []Stmt) *ClassDef {
	return &ClassDef{nodeImpl: newNodeImpl(NodeClassDef), Name: name, Body: body}
}

type FunctionDef struct {
	nodeImpl
	stmtMarker

	Name       string
	Params     []string
	Body       []Stmt
	Decorators []Expr
}

func NewFunctionDef(name string, params []string, body []Stmt, decorators ...Expr) *FunctionDef {
	return &FunctionDef{nodeImpl: newNodeImpl(NodeFunction), Name: name, Params: params, Body: body, Decorators: decorators}
}

type Assign struct {
	nodeImpl
	stmtMarker

	Target Expr
	Value  Expr
}

func NewAssign(target, value Expr) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign), Target: target, Value: value}
}

// AugAssign is an in-place update; Op is the binary operator without "=".
type AugAssign struct {
	nodeImpl
	stmtMarker

	Target Expr
	Op     string
	Value  Expr
}

func NewAugAssign(target Expr, op string, value Expr) *AugAssign {
	return &AugAssign{nodeImpl: newNodeImpl(NodeAugAssign), Target: target, Op: op, Value: value}
}

type Return struct {
	nodeImpl
	stmtMarker

	Value Expr
}

func NewReturn(value Expr) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn), Value: value}
}

type ExprStmt struct {
	nodeImpl
	stmtMarker

	Value Expr
}

func NewExprStmt(value Expr) *ExprStmt {
	return &ExprStmt{nodeImpl: newNodeImpl(NodeExprStmt), Value: value}
}

type If struct {
	nodeImpl
	stmtMarker

	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func NewIf(test Expr, body, orelse []Stmt) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf), Test: test, Body: body, Orelse: orelse}
}

type While struct {
	nodeImpl
	stmtMarker

	Test Expr
	Body []Stmt
}

func NewWhile(test Expr, body []Stmt) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile), Test: test, Body: body}
}

type Pass struct {
	nodeImpl
	stmtMarker
}

func NewPass() *Pass {
	return &Pass{nodeImpl: newNodeImpl(NodePass)}
}

type Name struct {
	nodeImpl
	exprMarker

	ID string
}

func NewName(id string) *Name {
	return &Name{nodeImpl: newNodeImpl(NodeName), ID: id}
}

type Attribute struct {
	nodeImpl
	exprMarker

	Value Expr
	Attr  string
}

func NewAttribute(value Expr, attr string) *Attribute {
	return &Attribute{nodeImpl: newNodeImpl(NodeAttribute), Value: value, Attr: attr}
}

// Dotted builds a Name/Attribute chain from a dotted path such as "A.B.C".
func Dotted(path ...string) Expr {
	if len(path) == 0 {
		return nil
	}
	var expr Expr = NewName(path[0])
	for _, part := range path[1:] {
		expr = NewAttribute(expr, part)
	}
	return expr
}

type Call struct {
	nodeImpl
	exprMarker

	Func Expr
	Args []Expr
}

func NewCall(fn Expr, args ...Expr) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall), Func: fn, Args: args}
}

// Constant holds nil, bool, int64, float64 or string.
type Constant struct {
	nodeImpl
	exprMarker

	Value any
}

func NewConstant(value any) *Constant {
	return &Constant{nodeImpl: newNodeImpl(NodeConstant), Value: value}
}

func None() *Constant { return NewConstant(nil) }

// BinOp covers arithmetic, comparison and the boolean "and"/"or" operators.
type BinOp struct {
	nodeImpl
	exprMarker

	Op    string
	Left  Expr
	Right Expr
}

func NewBinOp(op string, left, right Expr) *BinOp {
	return &BinOp{nodeImpl: newNodeImpl(NodeBinOp), Op: op, Left: left, Right: right}
}

type UnaryOp struct {
	nodeImpl
	exprMarker

	Op      string
	Operand Expr
}

func NewUnaryOp(op string, operand Expr) *UnaryOp {
	return &UnaryOp{nodeImpl: newNodeImpl(NodeUnaryOp), Op: op, Operand: operand}
}
