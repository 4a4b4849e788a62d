package translator

import (
	"strconv"
	"strings"

	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

var binaryOperators = map[string]string{
	"+": "+", "-": "-", "*": "*", "/": "/", "%": "%",
	"==": "==", "!=": "!=", "<": "<", "<=": "<=", ">": ">", ">=": ">=",
	"&&": "and", "||": "or",
}

var compoundOperators = map[string]string{
	"+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
}

// body translates a method or accessor body. Expression bodies of void
// members become statements; all others return their value.
func (s *scope) body(node *syntax.Node, void bool) ([]pyast.Stmt, error) {
	switch node.Kind {
	case syntax.KindBlock:
		return s.statements(node.Children)
	case syntax.KindExpressionBody:
		expr := node.Child(0)
		if void {
			stmt, err := s.expressionStatement(expr)
			if err != nil {
				return nil, err
			}
			return []pyast.Stmt{stmt}, nil
		}
		value, err := s.expr(expr)
		if err != nil {
			return nil, err
		}
		return []pyast.Stmt{pyast.NewReturn(value)}, nil
	default:
		return nil, unsupported(node, s.path, "%s is not a body", node.KindName())
	}
}

func (s *scope) statements(nodes []*syntax.Node) ([]pyast.Stmt, error) {
	var out []pyast.Stmt
	for _, node := range nodes {
		stmts, err := s.statement(node)
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

// nested translates the body of an if or while. Python has no block scope,
// so nested blocks are flattened into the enclosing suite.
func (s *scope) nested(node *syntax.Node) ([]pyast.Stmt, error) {
	s.push()
	defer s.pop()
	if node.Kind == syntax.KindBlock {
		return s.statements(node.Children)
	}
	return s.statement(node)
}

func (s *scope) statement(node *syntax.Node) ([]pyast.Stmt, error) {
	switch node.Kind {
	case syntax.KindBlock:
		return s.nested(node)
	case syntax.KindReturnStatement:
		if node.Child(0) == nil {
			return []pyast.Stmt{pyast.NewReturn(nil)}, nil
		}
		value, err := s.expr(node.Child(0))
		if err != nil {
			return nil, err
		}
		return []pyast.Stmt{pyast.NewReturn(value)}, nil
	case syntax.KindExpressionStatement:
		stmt, err := s.expressionStatement(node.Child(0))
		if err != nil {
			return nil, err
		}
		return []pyast.Stmt{stmt}, nil
	case syntax.KindLocalDeclaration:
		var value pyast.Expr = pyast.None()
		init := node.First(syntax.KindInitializer)
		if init != nil {
			translated, err := s.expr(init.Child(0))
			if err != nil {
				return nil, err
			}
			value = translated
		}
		typeName := node.Type
		if typeName == "var" && init != nil && s.integral(init.Child(0)) {
			typeName = "long"
		}
		name := s.declare(node.Name, typeName)
		return []pyast.Stmt{pyast.NewAssign(pyast.NewName(name), value)}, nil
	case syntax.KindIfStatement:
		test, err := s.expr(node.Child(0))
		if err != nil {
			return nil, err
		}
		then, err := s.nested(node.Child(1))
		if err != nil {
			return nil, err
		}
		var orelse []pyast.Stmt
		if otherwise := node.Child(2); otherwise != nil {
			orelse, err = s.nested(otherwise)
			if err != nil {
				return nil, err
			}
		}
		return []pyast.Stmt{pyast.NewIf(test, then, orelse)}, nil
	case syntax.KindWhileStatement:
		test, err := s.expr(node.Child(0))
		if err != nil {
			return nil, err
		}
		loop, err := s.nested(node.Child(1))
		if err != nil {
			return nil, err
		}
		return []pyast.Stmt{pyast.NewWhile(test, loop)}, nil
	default:
		return nil, unsupported(node, s.path, "%s statements are not supported", node.KindName())
	}
}

// expressionStatement translates an expression used for its effect.
// Assignments and increments only appear here.
func (s *scope) expressionStatement(node *syntax.Node) (pyast.Stmt, error) {
	if node == nil {
		return nil, unsupported(nil, s.path, "empty expression statement")
	}
	switch node.Kind {
	case syntax.KindAssignment:
		return s.assignment(node)
	case syntax.KindUnaryExpression:
		if node.Operator == "++" || node.Operator == "--" {
			target, err := s.assignTarget(node.Child(0))
			if err != nil {
				return nil, err
			}
			op := "+"
			if node.Operator == "--" {
				op = "-"
			}
			return pyast.NewAugAssign(target, op, pyast.NewConstant(int64(1))), nil
		}
	case syntax.KindParenthesized:
		return s.expressionStatement(node.Child(0))
	}
	value, err := s.expr(node)
	if err != nil {
		return nil, err
	}
	return pyast.NewExprStmt(value), nil
}

func (s *scope) assignment(node *syntax.Node) (pyast.Stmt, error) {
	target, err := s.assignTarget(node.Child(0))
	if err != nil {
		return nil, err
	}
	value, err := s.expr(node.Child(1))
	if err != nil {
		return nil, err
	}
	if node.Operator == "=" || node.Operator == "" {
		return pyast.NewAssign(target, value), nil
	}
	op, ok := compoundOperators[node.Operator]
	if !ok {
		return nil, unsupported(node, s.path, "assignment operator %s is not supported", node.Operator)
	}
	if op == "/" && s.integral(node.Child(0)) && s.integral(node.Child(1)) {
		op = "//"
	}
	return pyast.NewAugAssign(target, op, value), nil
}

func (s *scope) assignTarget(node *syntax.Node) (pyast.Expr, error) {
	if node == nil {
		return nil, unsupported(nil, s.path, "assignment without a target")
	}
	switch node.Kind {
	case syntax.KindIdentifier, syntax.KindMemberAccess:
		target, err := s.expr(node)
		if err != nil {
			return nil, err
		}
		switch t := target.(type) {
		case *pyast.Name:
			return t, nil
		case *pyast.Attribute:
			return t, nil
		}
		return nil, unsupported(node, s.path, "cannot assign to %s", node.Describe())
	case syntax.KindParenthesized:
		return s.assignTarget(node.Child(0))
	default:
		return nil, unsupported(node, s.path, "cannot assign to %s", node.KindName())
	}
}

func (s *scope) expr(node *syntax.Node) (pyast.Expr, error) {
	if node == nil {
		return nil, unsupported(nil, s.path, "missing expression")
	}
	switch node.Kind {
	case syntax.KindIntegerLiteral:
		v, err := parseIntegerLiteral(node.Value)
		if err != nil {
			return nil, unsupported(node, s.path, "integer literal %s: %v", node.Value, err)
		}
		return pyast.NewConstant(v), nil
	case syntax.KindRealLiteral:
		v, err := parseRealLiteral(node.Value)
		if err != nil {
			return nil, unsupported(node, s.path, "real literal %s: %v", node.Value, err)
		}
		return pyast.NewConstant(v), nil
	case syntax.KindStringLiteral, syntax.KindCharLiteral:
		return pyast.NewConstant(node.Value), nil
	case syntax.KindBooleanLiteral:
		return pyast.NewConstant(node.Value == "true"), nil
	case syntax.KindNullLiteral:
		return pyast.None(), nil
	case syntax.KindThis:
		if s.static {
			return nil, unsupported(node, s.path, "this is not available in a static context")
		}
		return pyast.NewName("self"), nil
	case syntax.KindIdentifier:
		return s.resolveIdentifier(node)
	case syntax.KindParenthesized:
		return s.expr(node.Child(0))
	case syntax.KindMemberAccess:
		object, err := s.expr(node.Child(0))
		if err != nil {
			return nil, err
		}
		return pyast.NewAttribute(object, pyName(node.Name)), nil
	case syntax.KindInvocation:
		callee, err := s.expr(node.Child(0))
		if err != nil {
			return nil, err
		}
		args, err := s.exprs(node.Children[1:])
		if err != nil {
			return nil, err
		}
		return pyast.NewCall(callee, args...), nil
	case syntax.KindObjectCreation:
		for _, child := range node.Children {
			if child.Kind == syntax.KindUnknown {
				return nil, unsupported(child, s.path, "%s in object creation is not supported", child.KindName())
			}
		}
		typ, err := s.resolveType(node, node.Type)
		if err != nil {
			return nil, err
		}
		args, err := s.exprs(node.Children)
		if err != nil {
			return nil, err
		}
		return pyast.NewCall(typ, args...), nil
	case syntax.KindUnaryExpression:
		return s.unary(node)
	case syntax.KindBinaryExpression:
		op, ok := binaryOperators[node.Operator]
		if !ok {
			return nil, unsupported(node, s.path, "operator %s is not supported", node.Operator)
		}
		left, err := s.expr(node.Child(0))
		if err != nil {
			return nil, err
		}
		right, err := s.expr(node.Child(1))
		if err != nil {
			return nil, err
		}
		if op == "/" && s.integral(node.Child(0)) && s.integral(node.Child(1)) {
			op = "//"
		}
		return pyast.NewBinOp(op, left, right), nil
	case syntax.KindAssignment:
		return nil, unsupported(node, s.path, "assignments can only be used as statements")
	default:
		return nil, unsupported(node, s.path, "%s expressions are not supported", node.KindName())
	}
}

func (s *scope) unary(node *syntax.Node) (pyast.Expr, error) {
	var op string
	switch node.Operator {
	case "!":
		op = "not"
	case "-", "+":
		op = node.Operator
	case "++", "--":
		return nil, unsupported(node, s.path, "%s can only be used as a statement", node.Operator)
	default:
		return nil, unsupported(node, s.path, "operator %s is not supported", node.Operator)
	}
	operand, err := s.expr(node.Child(0))
	if err != nil {
		return nil, err
	}
	if c, ok := operand.(*pyast.Constant); ok && op == "-" {
		switch v := c.Value.(type) {
		case int64:
			return pyast.NewConstant(-v), nil
		case float64:
			return pyast.NewConstant(-v), nil
		}
	}
	return pyast.NewUnaryOp(op, operand), nil
}

func (s *scope) exprs(nodes []*syntax.Node) ([]pyast.Expr, error) {
	out := make([]pyast.Expr, 0, len(nodes))
	for _, node := range nodes {
		value, err := s.expr(node)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}

func parseIntegerLiteral(text string) (int64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	clean = strings.TrimRight(clean, "uUlL")
	lower := strings.ToLower(clean)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") {
		return strconv.ParseInt(clean, 0, 64)
	}
	return strconv.ParseInt(clean, 10, 64)
}

func parseRealLiteral(text string) (float64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	clean = strings.TrimRight(clean, "fFdDmM")
	return strconv.ParseFloat(clean, 64)
}
