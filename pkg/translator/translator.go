// Package translator turns a C# syntax tree into the construct tree and the
// Python-shaped target program.
//
// Translation runs in two phases. The first registers every module, class and
// member name so that bodies can refer to declarations that appear later in
// the source. The second computes field defaults, emits member bodies and
// assembles the module.
package translator

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/construct"
	"github.com/sdi1982/CSharpToPython/pkg/hostlib"
	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/syntax"
)

// Options configures Translate. The zero value logs nothing and uses the
// built-in default policy and host catalog.
type Options struct {
	Logger *zap.Logger
	// Defaults classifies field types without initializers. Nil selects
	// NewDefaultPolicy.
	Defaults *DefaultPolicy
	// Catalog lists the host types reachable through using directives. Nil
	// selects hostlib.Default.
	Catalog hostlib.Catalog
}

// Unit is the result of one translation.
type Unit struct {
	Root   *construct.Construct
	Module *pyast.Module
	// Imports lists every namespace named by a using directive, in source order.
	Imports []string
	// Classes lists the dotted path of every class, depth-first in declaration order.
	Classes []string
}

// Class returns the class construct at the dotted path.
func (u *Unit) Class(path string) (*construct.Construct, bool) {
	for _, cls := range u.Root.Classes() {
		if cls.Path() == path {
			return cls, true
		}
	}
	return nil, false
}

type translator struct {
	log     *zap.Logger
	policy  *DefaultPolicy
	catalog hostlib.Catalog

	root    *construct.Construct
	classes []*construct.Construct

	imports     []string
	hostImports []string
	trailer     []pyast.Stmt
}

// Translate converts a compilation unit. Any diagnostic aborts the whole unit;
// the returned error is a *Error.
func Translate(root *syntax.Node, opts Options) (*Unit, error) {
	if root == nil {
		return nil, fmt.Errorf("translator: nil compilation unit")
	}
	if root.Kind != syntax.KindCompilationUnit {
		return nil, unsupported(root, "", "expected a compilation unit")
	}
	t := newTranslator(opts)
	if err := t.collect(root, t.root); err != nil {
		return nil, err
	}
	for _, cls := range t.classes {
		if err := t.declareMembers(cls); err != nil {
			return nil, err
		}
	}
	unit, err := t.assemble()
	if err != nil {
		return nil, err
	}
	t.log.Debug("translated compilation unit",
		zap.Int("classes", len(unit.Classes)),
		zap.Strings("imports", unit.Imports))
	return unit, nil
}

func newTranslator(opts Options) *translator {
	t := &translator{
		log:     opts.Logger,
		policy:  opts.Defaults,
		catalog: opts.Catalog,
		root:    construct.NewModule(""),
	}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	if t.policy == nil {
		t.policy = NewDefaultPolicy()
	}
	if t.catalog == nil {
		t.catalog = hostlib.Default()
	}
	return t
}

func (t *translator) addImport(ns string) {
	for _, existing := range t.imports {
		if existing == ns {
			return
		}
	}
	t.imports = append(t.imports, ns)
}

// useHost records a host namespace the emitted program must import.
func (t *translator) useHost(ns string) {
	for _, existing := range t.hostImports {
		if existing == ns {
			return
		}
	}
	t.hostImports = append(t.hostImports, ns)
}

// findModule resolves a dotted namespace against the unit's module tree.
func (t *translator) findModule(dotted string) *construct.Construct {
	cur := t.root
	for _, part := range splitDotted(dotted) {
		next, ok := cur.Lookup(part)
		if !ok || next.Kind != construct.KindModule {
			return nil
		}
		cur = next
	}
	return cur
}
