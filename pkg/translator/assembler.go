package translator

import (
	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/construct"
	"github.com/sdi1982/CSharpToPython/pkg/pyast"
)

// assemble is the second phase: every class already has its members, so
// bodies may refer to any declaration in the unit regardless of order.
func (t *translator) assemble() (*Unit, error) {
	body, err := t.emitModule(t.root)
	if err != nil {
		return nil, err
	}

	var imports []string
	for _, ns := range t.imports {
		switch {
		case t.catalog.HasNamespace(ns):
			imports = append(imports, ns)
		case t.findModule(ns) != nil:
		default:
			t.log.Debug("using directive names an unknown namespace", zap.String("namespace", ns))
		}
	}
	for _, ns := range t.hostImports {
		if !contains(imports, ns) {
			imports = append(imports, ns)
		}
	}

	stmts := make([]pyast.Stmt, 0, len(imports)+len(body)+len(t.trailer))
	for _, ns := range imports {
		stmts = append(stmts, pyast.NewImport(ns))
	}
	stmts = append(stmts, body...)
	stmts = append(stmts, t.trailer...)

	unit := &Unit{
		Root:    t.root,
		Module:  pyast.NewModule(stmts),
		Imports: append([]string(nil), t.imports...),
	}
	for _, cls := range t.root.Classes() {
		unit.Classes = append(unit.Classes, cls.Path())
	}
	return unit, nil
}

func (t *translator) emitModule(mod *construct.Construct) ([]pyast.Stmt, error) {
	var body []pyast.Stmt
	for _, member := range mod.Members {
		switch member.Kind {
		case construct.KindModule:
			inner, err := t.emitModule(member)
			if err != nil {
				return nil, err
			}
			body = append(body, pyast.NewNamespace(member.Name, inner))
		case construct.KindClass:
			cls, err := t.emitClass(member)
			if err != nil {
				return nil, err
			}
			body = append(body, cls)
		default:
			return nil, unsupported(member.Source, mod.Path(), "%s cannot be emitted inside a module", member.Kind)
		}
	}
	return body, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
