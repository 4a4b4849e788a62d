package interpreter

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/runtime"
)

func (i *Interpreter) executeBlock(body []pyast.Stmt, f *frame) error {
	for _, stmt := range body {
		if err := i.evaluateStatement(stmt, f); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateStatement(node pyast.Stmt, f *frame) error {
	switch n := node.(type) {
	case *pyast.Import:
		return i.evaluateImport(n, f)
	case *pyast.Namespace:
		return i.evaluateNamespace(n, f)
	case *pyast.ClassDef:
		return i.evaluateClassDef(n, f)
	case *pyast.FunctionDef:
		return i.evaluateFunctionDef(n, f)
	case *pyast.Assign:
		value, err := i.evaluateExpression(n.Value, f.env)
		if err != nil {
			return err
		}
		return i.assignTo(n.Target, value, f)
	case *pyast.AugAssign:
		return i.evaluateAugAssign(n, f)
	case *pyast.Return:
		var result runtime.Value = runtime.None
		if n.Value != nil {
			value, err := i.evaluateExpression(n.Value, f.env)
			if err != nil {
				return err
			}
			result = value
		}
		return returnSignal{value: result}
	case *pyast.ExprStmt:
		_, err := i.evaluateExpression(n.Value, f.env)
		return err
	case *pyast.If:
		test, err := i.evaluateExpression(n.Test, f.env)
		if err != nil {
			return err
		}
		if runtime.Truthy(test) {
			return i.executeBlock(n.Body, f)
		}
		return i.executeBlock(n.Orelse, f)
	case *pyast.While:
		for {
			test, err := i.evaluateExpression(n.Test, f.env)
			if err != nil {
				return err
			}
			if !runtime.Truthy(test) {
				return nil
			}
			if err := i.executeBlock(n.Body, f); err != nil {
				return err
			}
		}
	case *pyast.Pass:
		return nil
	default:
		return fmt.Errorf("interpreter: unsupported statement %T", node)
	}
}

func (i *Interpreter) evaluateImport(n *pyast.Import, f *frame) error {
	root, err := i.hostModule(n.Name)
	if err != nil {
		return err
	}
	f.bind(root.Name, root)
	return nil
}

func (i *Interpreter) evaluateNamespace(n *pyast.Namespace, f *frame) error {
	path := f.qualify(n.Name)
	var module *runtime.ModuleValue
	if existing, ok := f.env.Lookup(n.Name); ok {
		if mod, isModule := existing.(*runtime.ModuleValue); isModule && mod.Path == path {
			module = mod
		}
	}
	if module == nil {
		module = runtime.NewModule(n.Name, path)
	}
	// Bind first so fully qualified references inside the body resolve
	// while the namespace is still being populated.
	f.bind(n.Name, module)
	inner := &frame{env: i.global.Extend(), owner: module, path: path}
	return i.executeBlock(n.Body, inner)
}

func (i *Interpreter) evaluateClassDef(n *pyast.ClassDef, f *frame) error {
	path := f.qualify(n.Name)
	class := runtime.NewClass(n.Name, path)
	body := &frame{env: i.global.Extend(), owner: class, path: path}
	if err := i.executeBlock(n.Body, body); err != nil {
		return err
	}
	f.bind(n.Name, class)
	i.log.Debug("defined class",
		zap.String("path", path),
		zap.Strings("attributes", class.Order))
	return nil
}

func (i *Interpreter) evaluateFunctionDef(n *pyast.FunctionDef, f *frame) error {
	var value runtime.Value = &runtime.FunctionValue{Declaration: n, Closure: i.global}
	for idx := len(n.Decorators) - 1; idx >= 0; idx-- {
		decorator, err := i.evaluateExpression(n.Decorators[idx], f.env)
		if err != nil {
			return err
		}
		value, err = i.Call(decorator, []runtime.Value{value})
		if err != nil {
			return err
		}
	}
	f.bind(n.Name, value)
	return nil
}

func (i *Interpreter) assignTo(target pyast.Expr, value runtime.Value, f *frame) error {
	switch t := target.(type) {
	case *pyast.Name:
		f.bind(t.ID, value)
		return nil
	case *pyast.Attribute:
		obj, err := i.evaluateExpression(t.Value, f.env)
		if err != nil {
			return err
		}
		return i.SetAttr(obj, t.Attr, value)
	default:
		return fmt.Errorf("interpreter: cannot assign to %T", target)
	}
}

func (i *Interpreter) evaluateAugAssign(n *pyast.AugAssign, f *frame) error {
	operand, err := i.evaluateExpression(n.Value, f.env)
	if err != nil {
		return err
	}
	switch t := n.Target.(type) {
	case *pyast.Name:
		current, err := f.env.Get(t.ID)
		if err != nil {
			return fmt.Errorf("interpreter: %w", err)
		}
		result, err := binaryOp(n.Op, current, operand)
		if err != nil {
			return err
		}
		f.bind(t.ID, result)
		return nil
	case *pyast.Attribute:
		obj, err := i.evaluateExpression(t.Value, f.env)
		if err != nil {
			return err
		}
		current, err := i.GetAttr(obj, t.Attr)
		if err != nil {
			return err
		}
		result, err := binaryOp(n.Op, current, operand)
		if err != nil {
			return err
		}
		return i.SetAttr(obj, t.Attr, result)
	default:
		return fmt.Errorf("interpreter: cannot assign to %T", n.Target)
	}
}
