package translator

import (
	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/construct"
	"github.com/sdi1982/CSharpToPython/pkg/pyast"
)

// resolveDefaults fills in the starting value of every field and backing
// slot that has no initializer.
func (t *translator) resolveDefaults(cls *construct.Construct) error {
	for _, member := range cls.Members {
		switch member.Kind {
		case construct.KindInstanceField, construct.KindStaticField:
		case construct.KindProperty:
			if member.Backing == "" {
				continue
			}
		default:
			continue
		}
		if member.Default != nil {
			continue
		}
		s := t.newScope(cls, true, member.Path())
		value, err := s.defaultFor(member.Source, member.TypeName)
		if err != nil {
			return err
		}
		member.Default = value
		member.DefaultSynthesized = true
	}
	return nil
}

func (t *translator) emitClass(cls *construct.Construct) (*pyast.ClassDef, error) {
	if err := t.resolveDefaults(cls); err != nil {
		return nil, err
	}
	var body []pyast.Stmt
	deferred := false
	for _, field := range cls.Fields(construct.KindStaticField) {
		stmt, err := t.emitStaticField(cls, field, &deferred)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	init, err := t.emitInit(cls)
	if err != nil {
		return nil, err
	}
	if init != nil {
		body = append(body, init)
	}
	for _, member := range cls.Members {
		switch member.Kind {
		case construct.KindInstanceMethod, construct.KindStaticMethod:
			fn, err := t.emitMethod(cls, member)
			if err != nil {
				return nil, err
			}
			body = append(body, fn)
		case construct.KindProperty:
			stmts, err := t.emitProperty(cls, member)
			if err != nil {
				return nil, err
			}
			body = append(body, stmts...)
		case construct.KindInstanceField, construct.KindStaticField:
		default:
			return nil, unsupported(member.Source, cls.Path(), "%s cannot be emitted inside a class", member.Kind)
		}
	}
	t.log.Debug("emitted class",
		zap.String("path", cls.Path()),
		zap.Int("statements", len(body)))
	return pyast.NewClassDef(cls.Name, body), nil
}

// emitStaticField places literal initializers in the class body. Other
// initializers may refer to classes that are not defined yet, so they are
// assigned once the whole module is defined. From the first such initializer
// on, every later initializer of the class is assigned there too, keeping
// declaration order; until then the field holds its type's default.
func (t *translator) emitStaticField(cls *construct.Construct, field *construct.Construct, deferred *bool) (pyast.Stmt, error) {
	s := t.newScope(cls, true, field.Path())
	value, err := s.expr(field.Default)
	if err != nil {
		return nil, err
	}
	if field.DefaultSynthesized || (!*deferred && isLiteral(value)) {
		return pyast.NewAssign(pyast.NewName(field.Name), value), nil
	}
	*deferred = true
	t.trailer = append(t.trailer, pyast.NewAssign(pyast.NewAttribute(pathExpr(cls), field.Name), value))

	var initial pyast.Expr = pyast.None()
	if zero, err := s.defaultFor(field.Source, field.TypeName); err == nil {
		if initial, err = s.expr(zero); err != nil {
			return nil, err
		}
	}
	return pyast.NewAssign(pyast.NewName(field.Name), initial), nil
}

func isLiteral(expr pyast.Expr) bool {
	switch e := expr.(type) {
	case *pyast.Constant:
		return true
	case *pyast.UnaryOp:
		return isLiteral(e.Operand)
	case *pyast.BinOp:
		return isLiteral(e.Left) && isLiteral(e.Right)
	default:
		return false
	}
}

// emitInit builds __init__ from instance fields and backing slots in
// declaration order. Initializers cannot see the instance.
func (t *translator) emitInit(cls *construct.Construct) (*pyast.FunctionDef, error) {
	self := pyast.NewName("self")
	var body []pyast.Stmt
	for _, member := range cls.Members {
		var slot string
		switch {
		case member.Kind == construct.KindInstanceField:
			slot = member.Name
		case member.Kind == construct.KindProperty && member.Backing != "":
			slot = member.Backing
		default:
			continue
		}
		s := t.newScope(cls, true, member.Path())
		value, err := s.expr(member.Default)
		if err != nil {
			return nil, err
		}
		body = append(body, pyast.NewAssign(pyast.NewAttribute(self, slot), value))
	}
	if len(body) == 0 {
		return nil, nil
	}
	return pyast.NewFunctionDef(initName, []string{"self"}, body), nil
}

func (t *translator) emitMethod(cls *construct.Construct, method *construct.Construct) (*pyast.FunctionDef, error) {
	static := method.Kind == construct.KindStaticMethod
	s := t.newScope(cls, static, method.Path())
	var params []string
	var decorators []pyast.Expr
	if static {
		decorators = append(decorators, pyast.NewName("staticmethod"))
	} else {
		params = append(params, "self")
	}
	for _, p := range method.Params {
		params = append(params, s.declare(p.Name, p.Type))
	}
	body, err := s.body(method.Body, method.TypeName == "void")
	if err != nil {
		return nil, err
	}
	return pyast.NewFunctionDef(method.Name, params, body, decorators...), nil
}

// emitProperty renders accessor functions followed by the property
// descriptor binding.
func (t *translator) emitProperty(cls *construct.Construct, prop *construct.Construct) ([]pyast.Stmt, error) {
	self := pyast.NewName("self")
	var (
		out  []pyast.Stmt
		args []pyast.Expr
	)
	if prop.Getter != nil {
		var body []pyast.Stmt
		if prop.Getter.Synthesized {
			body = []pyast.Stmt{pyast.NewReturn(pyast.NewAttribute(self, prop.Backing))}
		} else {
			s := t.newScope(cls, false, prop.Path())
			stmts, err := s.body(prop.Getter.Body, false)
			if err != nil {
				return nil, err
			}
			body = stmts
		}
		name := getterName(prop.Name)
		out = append(out, pyast.NewFunctionDef(name, []string{"self"}, body))
		args = append(args, pyast.NewName(name))
	} else {
		args = append(args, pyast.None())
	}
	if prop.Setter != nil {
		var body []pyast.Stmt
		param := "value"
		if prop.Setter.Synthesized {
			body = []pyast.Stmt{pyast.NewAssign(pyast.NewAttribute(self, prop.Backing), pyast.NewName("value"))}
		} else {
			s := t.newScope(cls, false, prop.Path())
			param = s.declare("value", prop.TypeName)
			stmts, err := s.body(prop.Setter.Body, true)
			if err != nil {
				return nil, err
			}
			body = stmts
		}
		name := setterName(prop.Name)
		out = append(out, pyast.NewFunctionDef(name, []string{"self", param}, body))
		args = append(args, pyast.NewName(name))
	}
	out = append(out, pyast.NewAssign(pyast.NewName(prop.Name), pyast.NewCall(pyast.NewName("property"), args...)))
	return out, nil
}
