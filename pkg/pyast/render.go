package pyast

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const indentUnit = "    "

// Render returns the Python source text of m.
func Render(m *Module) string {
	if m == nil {
		return ""
	}
	var buf bytes.Buffer
	for i, stmt := range m.Body {
		if i > 0 && isBlockStmt(stmt) {
			buf.WriteByte('\n')
		}
		renderStmt(&buf, stmt, 0)
	}
	return buf.String()
}

// RenderExpr returns the Python text of a single expression.
func RenderExpr(expr Expr) string {
	return exprString(expr)
}

func isBlockStmt(stmt Stmt) bool {
	switch stmt.(type) {
	case *ClassDef, *Namespace, *FunctionDef:
		return true
	default:
		return false
	}
}

func renderBody(buf *bytes.Buffer, body []Stmt, depth int) {
	if len(body) == 0 {
		writeLine(buf, depth, "pass")
		return
	}
	for _, stmt := range body {
		renderStmt(buf, stmt, depth)
	}
}

func writeLine(buf *bytes.Buffer, depth int, text string) {
	buf.WriteString(strings.Repeat(indentUnit, depth))
	buf.WriteString(text)
	buf.WriteByte('\n')
}

func renderStmt(buf *bytes.Buffer, stmt Stmt, depth int) {
	switch s := stmt.(type) {
	case *Import:
		writeLine(buf, depth, "import "+s.Name)
	case *Namespace:
		writeLine(buf, depth, "class "+s.Name+":")
		renderBody(buf, s.Body, depth+1)
	case *ClassDef:
		writeLine(buf, depth, "class "+s.Name+":")
		renderBody(buf, s.Body, depth+1)
	case *FunctionDef:
		for _, dec := range s.Decorators {
			writeLine(buf, depth, "@"+exprString(dec))
		}
		writeLine(buf, depth, fmt.Sprintf("def %s(%s):", s.Name, strings.Join(s.Params, ", ")))
		renderBody(buf, s.Body, depth+1)
	case *Assign:
		writeLine(buf, depth, exprString(s.Target)+" = "+exprString(s.Value))
	case *AugAssign:
		writeLine(buf, depth, fmt.Sprintf("%s %s= %s", exprString(s.Target), s.Op, exprString(s.Value)))
	case *Return:
		if s.Value == nil {
			writeLine(buf, depth, "return")
			return
		}
		writeLine(buf, depth, "return "+exprString(s.Value))
	case *ExprStmt:
		writeLine(buf, depth, exprString(s.Value))
	case *If:
		renderIf(buf, s, depth, "if")
	case *While:
		writeLine(buf, depth, "while "+exprString(s.Test)+":")
		renderBody(buf, s.Body, depth+1)
	case *Pass:
		writeLine(buf, depth, "pass")
	default:
		writeLine(buf, depth, fmt.Sprintf("# unsupported statement %T", stmt))
	}
}

func renderIf(buf *bytes.Buffer, s *If, depth int, keyword string) {
	writeLine(buf, depth, keyword+" "+exprString(s.Test)+":")
	renderBody(buf, s.Body, depth+1)
	if len(s.Orelse) == 0 {
		return
	}
	if len(s.Orelse) == 1 {
		if nested, ok := s.Orelse[0].(*If); ok {
			renderIf(buf, nested, depth, "elif")
			return
		}
	}
	writeLine(buf, depth, "else:")
	renderBody(buf, s.Orelse, depth+1)
}

func exprString(expr Expr) string {
	switch e := expr.(type) {
	case nil:
		return "None"
	case *Name:
		return e.ID
	case *Attribute:
		return operandString(e.Value) + "." + e.Attr
	case *Call:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = exprString(arg)
		}
		return operandString(e.Func) + "(" + strings.Join(args, ", ") + ")"
	case *Constant:
		return constantString(e.Value)
	case *BinOp:
		return operandString(e.Left) + " " + e.Op + " " + operandString(e.Right)
	case *UnaryOp:
		if e.Op == "not" {
			return "not " + operandString(e.Operand)
		}
		return e.Op + operandString(e.Operand)
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

// operandString parenthesizes compound operands so the rendered text keeps the
// tree's grouping without a precedence table.
func operandString(expr Expr) string {
	switch expr.(type) {
	case *BinOp, *UnaryOp:
		return "(" + exprString(expr) + ")"
	default:
		return exprString(expr)
	}
}

func constantString(value any) string {
	switch v := value.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return floatString(v)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func floatString(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "float('inf')"
	case math.IsInf(v, -1):
		return "float('-inf')"
	case math.IsNaN(v):
		return "float('nan')"
	}
	text := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	return text
}
