// Package parser adapts the tree-sitter C# grammar to the syntax tree the
// translator consumes. Constructs outside the supported subset are kept as
// syntax.KindUnknown nodes carrying the grammar's node type, so the
// translator can report them with a source location.
package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

// SourceLocation is a 1-based position in a source file.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (l SourceLocation) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParseError reports the first syntax error of a source file.
type ParseError struct {
	Location SourceLocation
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parser: %s: %s", e.Location, e.Message)
}

// Parser wraps a tree-sitter parser loaded with the C# grammar. A Parser is
// not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

func New() (*Parser, error) {
	lang := sitter.NewLanguage(tree_sitter_csharp.Language())
	if lang == nil {
		return nil, fmt.Errorf("parser: c# language not available")
	}
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, fmt.Errorf("parser: %w", err)
	}
	return &Parser{parser: p}, nil
}

// Close releases parser resources.
func (p *Parser) Close() {
	if p == nil || p.parser == nil {
		return
	}
	p.parser.Close()
	p.parser = nil
}

// Parse converts C# source into a CompilationUnit node.
func (p *Parser) Parse(source []byte) (*syntax.Node, error) {
	return p.ParseFile("", source)
}

// ParseFile is Parse with a file name recorded in parse errors.
func (p *Parser) ParseFile(name string, source []byte) (*syntax.Node, error) {
	if p == nil || p.parser == nil {
		return nil, fmt.Errorf("parser: nil parser")
	}
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser: parse of %q produced no tree", name)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil || root.Kind() != "compilation_unit" {
		return nil, fmt.Errorf("parser: unexpected root node")
	}
	if root.HasError() {
		return nil, syntaxError(name, root, source)
	}
	c := &converter{source: source}
	return c.compilationUnit(root), nil
}

// Parse is a convenience wrapper that parses one source with a fresh Parser.
func Parse(source []byte) (*syntax.Node, error) {
	p, err := New()
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse(source)
}

func syntaxError(file string, root *sitter.Node, source []byte) error {
	bad := firstError(root)
	if bad == nil {
		bad = root
	}
	pos := bad.StartPosition()
	loc := SourceLocation{File: file, Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
	if bad.IsMissing() {
		return &ParseError{Location: loc, Message: fmt.Sprintf("missing %s", bad.Kind())}
	}
	text := sliceContent(bad, source)
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return &ParseError{Location: loc, Message: fmt.Sprintf("unexpected %q", text)}
}

func firstError(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := firstError(node.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
