package interpreter

import (
	"fmt"
	"math"

	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(node pyast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *pyast.Constant:
		return constantValue(n.Value)
	case *pyast.Name:
		value, err := env.Get(n.ID)
		if err != nil {
			return nil, fmt.Errorf("interpreter: %w", err)
		}
		return value, nil
	case *pyast.Attribute:
		obj, err := i.evaluateExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
		return i.GetAttr(obj, n.Attr)
	case *pyast.Call:
		callee, err := i.evaluateExpression(n.Func, env)
		if err != nil {
			return nil, err
		}
		args := make([]runtime.Value, 0, len(n.Args))
		for _, arg := range n.Args {
			value, err := i.evaluateExpression(arg, env)
			if err != nil {
				return nil, err
			}
			args = append(args, value)
		}
		return i.Call(callee, args)
	case *pyast.BinOp:
		return i.evaluateBinOp(n, env)
	case *pyast.UnaryOp:
		operand, err := i.evaluateExpression(n.Operand, env)
		if err != nil {
			return nil, err
		}
		return unaryOp(n.Op, operand)
	default:
		return nil, fmt.Errorf("interpreter: unsupported expression %T", node)
	}
}

func constantValue(value any) (runtime.Value, error) {
	switch v := value.(type) {
	case nil:
		return runtime.None, nil
	case bool:
		return runtime.BoolValue{Val: v}, nil
	case int64:
		return runtime.IntegerValue{Val: v}, nil
	case int:
		return runtime.IntegerValue{Val: int64(v)}, nil
	case float64:
		return runtime.FloatValue{Val: v}, nil
	case string:
		return runtime.StringValue{Val: v}, nil
	default:
		return nil, fmt.Errorf("interpreter: unsupported constant %T", value)
	}
}

// evaluateBinOp short-circuits "and" and "or", which yield one of their
// operands rather than a bool.
func (i *Interpreter) evaluateBinOp(n *pyast.BinOp, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(n.Left, env)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "and":
		if !runtime.Truthy(left) {
			return left, nil
		}
		return i.evaluateExpression(n.Right, env)
	case "or":
		if runtime.Truthy(left) {
			return left, nil
		}
		return i.evaluateExpression(n.Right, env)
	}
	right, err := i.evaluateExpression(n.Right, env)
	if err != nil {
		return nil, err
	}
	return binaryOp(n.Op, left, right)
}

func unaryOp(op string, operand runtime.Value) (runtime.Value, error) {
	switch op {
	case "not":
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	case "-":
		switch v := operand.(type) {
		case runtime.IntegerValue:
			return runtime.IntegerValue{Val: -v.Val}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
	case "+":
		switch operand.(type) {
		case runtime.IntegerValue, runtime.FloatValue:
			return operand, nil
		}
	}
	return nil, operandError(op, operand, nil)
}

func binaryOp(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "==":
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case "<", "<=", ">", ">=":
		return compare(op, left, right)
	}

	if ls, ok := left.(runtime.StringValue); ok && op == "+" {
		if rs, ok := right.(runtime.StringValue); ok {
			return runtime.StringValue{Val: ls.Val + rs.Val}, nil
		}
		return nil, operandError(op, left, right)
	}

	li, lInt := left.(runtime.IntegerValue)
	ri, rInt := right.(runtime.IntegerValue)
	if lInt && rInt && op != "/" {
		return integerOp(op, li.Val, ri.Val)
	}
	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, operandError(op, left, right)
	}
	switch op {
	case "+":
		return runtime.FloatValue{Val: lf + rf}, nil
	case "-":
		return runtime.FloatValue{Val: lf - rf}, nil
	case "*":
		return runtime.FloatValue{Val: lf * rf}, nil
	case "/":
		if rf == 0 {
			return nil, &RuntimeError{Op: "/", Err: ErrZeroDivision}
		}
		return runtime.FloatValue{Val: lf / rf}, nil
	case "//":
		if rf == 0 {
			return nil, &RuntimeError{Op: "//", Err: ErrZeroDivision}
		}
		return runtime.FloatValue{Val: math.Floor(lf / rf)}, nil
	case "%":
		if rf == 0 {
			return nil, &RuntimeError{Op: "%", Err: ErrZeroDivision}
		}
		mod := math.Mod(lf, rf)
		if mod != 0 && (mod < 0) != (rf < 0) {
			mod += rf
		}
		return runtime.FloatValue{Val: mod}, nil
	}
	return nil, operandError(op, left, right)
}

func integerOp(op string, a, b int64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.IntegerValue{Val: a + b}, nil
	case "-":
		return runtime.IntegerValue{Val: a - b}, nil
	case "*":
		return runtime.IntegerValue{Val: a * b}, nil
	case "//":
		if b == 0 {
			return nil, &RuntimeError{Op: "//", Err: ErrZeroDivision}
		}
		q := a / b
		if a%b != 0 && (a < 0) != (b < 0) {
			q--
		}
		return runtime.IntegerValue{Val: q}, nil
	case "%":
		if b == 0 {
			return nil, &RuntimeError{Op: "%", Err: ErrZeroDivision}
		}
		mod := a % b
		if mod != 0 && (mod < 0) != (b < 0) {
			mod += b
		}
		return runtime.IntegerValue{Val: mod}, nil
	}
	return nil, &RuntimeError{Op: op, Err: ErrUnsupportedType}
}

func compare(op string, left, right runtime.Value) (runtime.Value, error) {
	var cmp int
	if ls, ok := left.(runtime.StringValue); ok {
		rs, ok := right.(runtime.StringValue)
		if !ok {
			return nil, operandError(op, left, right)
		}
		switch {
		case ls.Val < rs.Val:
			cmp = -1
		case ls.Val > rs.Val:
			cmp = 1
		}
	} else {
		lf, lok := toFloat(left)
		rf, rok := toFloat(right)
		if !lok || !rok {
			return nil, operandError(op, left, right)
		}
		switch {
		case lf < rf:
			cmp = -1
		case lf > rf:
			cmp = 1
		}
	}
	var result bool
	switch op {
	case "<":
		result = cmp < 0
	case "<=":
		result = cmp <= 0
	case ">":
		result = cmp > 0
	case ">=":
		result = cmp >= 0
	}
	return runtime.BoolValue{Val: result}, nil
}

func toFloat(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.IntegerValue:
		return float64(n.Val), true
	case runtime.FloatValue:
		return n.Val, true
	case runtime.BoolValue:
		if n.Val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func operandError(op string, left, right runtime.Value) error {
	detail := runtime.TypeName(left)
	if right != nil {
		detail += " and " + runtime.TypeName(right)
	}
	return &RuntimeError{Op: op, Err: fmt.Errorf("%w: %s", ErrUnsupportedType, detail)}
}
