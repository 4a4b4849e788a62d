package parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

func (c *converter) expression(node *sitter.Node) *syntax.Node {
	if node == nil {
		return syntax.Unsupported("missing_expression", "")
	}
	return annotate(c.convertExpression(node), node)
}

func (c *converter) convertExpression(node *sitter.Node) *syntax.Node {
	switch node.Kind() {
	case "identifier":
		return syntax.ID(c.text(node))
	case "this_expression", "this":
		return syntax.This()
	case "integer_literal":
		return &syntax.Node{Kind: syntax.KindIntegerLiteral, Value: c.text(node)}
	case "real_literal":
		return &syntax.Node{Kind: syntax.KindRealLiteral, Value: c.text(node)}
	case "boolean_literal":
		return &syntax.Node{Kind: syntax.KindBooleanLiteral, Value: c.text(node)}
	case "null_literal":
		return syntax.Null()
	case "string_literal":
		value, ok := decodeQuoted(c.text(node), '"')
		if !ok {
			return c.unknown(node)
		}
		return syntax.Str(value)
	case "verbatim_string_literal":
		text := c.text(node)
		if len(text) < 3 {
			return c.unknown(node)
		}
		return syntax.Str(strings.ReplaceAll(text[2:len(text)-1], `""`, `"`))
	case "character_literal":
		value, ok := decodeQuoted(c.text(node), '\'')
		if !ok || utf8.RuneCountInString(value) != 1 {
			return c.unknown(node)
		}
		return &syntax.Node{Kind: syntax.KindCharLiteral, Value: value}
	case "parenthesized_expression":
		inner := namedChildren(node)
		if len(inner) != 1 {
			return c.unknown(node)
		}
		return syntax.Paren(c.expression(inner[0]))
	case "member_access_expression":
		name := node.ChildByFieldName("name")
		receiver := node.ChildByFieldName("expression")
		if name == nil || name.Kind() != "identifier" || receiver == nil || receiver.Kind() == "predefined_type" {
			return c.unknown(node)
		}
		return syntax.Member(c.expression(receiver), c.text(name))
	case "invocation_expression":
		call := syntax.Call(c.expression(node.ChildByFieldName("function")))
		call.Children = append(call.Children, c.arguments(node.ChildByFieldName("arguments"))...)
		return call
	case "object_creation_expression":
		args := c.arguments(node.ChildByFieldName("arguments"))
		if init := node.ChildByFieldName("initializer"); init != nil {
			args = append(args, c.unknown(init))
		}
		return syntax.New(c.text(node.ChildByFieldName("type")), args...)
	case "binary_expression":
		return syntax.Bin(c.operator(node), c.expression(node.ChildByFieldName("left")), c.expression(node.ChildByFieldName("right")))
	case "assignment_expression":
		return syntax.Assign(c.operator(node), c.expression(node.ChildByFieldName("left")), c.expression(node.ChildByFieldName("right")))
	case "prefix_unary_expression", "postfix_unary_expression":
		operands := namedChildren(node)
		op := c.operator(node)
		if len(operands) != 1 || op == "!" && node.Kind() == "postfix_unary_expression" {
			return c.unknown(node)
		}
		return syntax.Unary(op, c.expression(operands[0]))
	default:
		return c.unknown(node)
	}
}

// arguments converts an argument list. Named and ref/out arguments are kept
// as unknown nodes.
func (c *converter) arguments(node *sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, arg := range namedChildren(node) {
		if arg.Kind() != "argument" {
			out = append(out, c.unknown(arg))
			continue
		}
		parts := namedChildren(arg)
		if len(parts) != 1 || arg.ChildByFieldName("name") != nil {
			out = append(out, c.unknown(arg))
			continue
		}
		out = append(out, c.expression(parts[0]))
	}
	return out
}

// decodeQuoted strips the quotes of a regular C# string or character
// literal and resolves its escape sequences.
func decodeQuoted(text string, quote byte) (string, bool) {
	if len(text) < 2 || text[0] != quote || text[len(text)-1] != quote {
		return "", false
	}
	body := text[1 : len(text)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			b.WriteByte(ch)
			continue
		}
		if i+1 >= len(body) {
			return "", false
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		case 'u', 'x':
			n := 4
			if body[i] == 'x' {
				n = 0
				for n < 4 && i+1+n < len(body) && isHex(body[i+1+n]) {
					n++
				}
			}
			if n == 0 || i+n >= len(body) {
				return "", false
			}
			code, err := strconv.ParseUint(body[i+1:i+1+n], 16, 32)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(code))
			i += n
		default:
			return "", false
		}
	}
	return b.String(), true
}

func isHex(ch byte) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
