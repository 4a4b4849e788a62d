package translator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

// Error codes. Every *Error wraps exactly one of them, so callers can test
// with errors.Is.
var (
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrNameConflict         = errors.New("name conflict")
	ErrMissingDefaultPolicy = errors.New("missing default policy")
)

// Error is a translation diagnostic. A translation that produces one is
// abandoned as a whole.
type Error struct {
	Code     error
	NodeKind string
	Name     string
	Path     string
	Span     syntax.Span
	Detail   string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("translator: ")
	b.WriteString(e.Code.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.NodeKind != "" {
		fmt.Fprintf(&b, " (%s", e.NodeKind)
		if e.Name != "" {
			b.WriteString(" " + e.Name)
		}
		b.WriteString(")")
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " in %s", e.Path)
	}
	if !e.Span.IsZero() {
		fmt.Fprintf(&b, " at %s", e.Span)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Code
}

func newError(code error, node *syntax.Node, path, detail string) *Error {
	err := &Error{Code: code, Path: path, Detail: detail}
	if node != nil {
		err.NodeKind = node.KindName()
		err.Name = node.Name
		err.Span = node.Span
	}
	return err
}

func unsupported(node *syntax.Node, path, format string, args ...any) *Error {
	return newError(ErrUnsupportedConstruct, node, path, fmt.Sprintf(format, args...))
}

func conflict(node *syntax.Node, path, format string, args ...any) *Error {
	return newError(ErrNameConflict, node, path, fmt.Sprintf(format, args...))
}

func missingDefault(node *syntax.Node, path, format string, args ...any) *Error {
	return newError(ErrMissingDefaultPolicy, node, path, fmt.Sprintf(format, args...))
}
