package interpreter

import (
	"fmt"

	"github.com/sdi1982/CSharpToPython/pkg/runtime"
)

// GetAttr reads an attribute. On instances, properties of the class take
// precedence over instance attributes; functions found on the class are
// bound to the instance and static methods are unwrapped.
func (i *Interpreter) GetAttr(obj runtime.Value, name string) (runtime.Value, error) {
	switch o := obj.(type) {
	case *runtime.InstanceValue:
		classAttr, onClass := o.Class.Lookup(name)
		if prop, ok := classAttr.(*runtime.PropertyValue); onClass && ok {
			if prop.Getter == nil {
				return nil, &RuntimeError{Op: "getattr", Attr: name, Class: o.Class.Path, Err: runtime.ErrNoGetterDefined}
			}
			return i.Call(prop.Getter, []runtime.Value{o})
		}
		if value, ok := o.Attrs[name]; ok {
			return value, nil
		}
		if onClass {
			return bindToInstance(o, classAttr), nil
		}
		return nil, &RuntimeError{Op: "getattr", Attr: name, Class: o.Class.Path, Err: runtime.ErrAttributeNotFound}
	case *runtime.ClassValue:
		value, ok := o.Lookup(name)
		if !ok {
			return nil, &RuntimeError{Op: "getattr", Attr: name, Class: o.Path, Err: runtime.ErrAttributeNotFound}
		}
		if static, ok := value.(*runtime.StaticMethodValue); ok {
			return static.Func, nil
		}
		return value, nil
	case *runtime.ModuleValue:
		value, ok := o.Attrs[name]
		if !ok {
			return nil, &RuntimeError{Op: "getattr", Attr: name, Class: o.Path, Err: runtime.ErrAttributeNotFound}
		}
		return value, nil
	default:
		return nil, &RuntimeError{Op: "getattr", Attr: name, Class: runtime.TypeName(obj), Err: runtime.ErrAttributeNotFound}
	}
}

func bindToInstance(inst *runtime.InstanceValue, attr runtime.Value) runtime.Value {
	switch a := attr.(type) {
	case *runtime.FunctionValue, *runtime.NativeFunctionValue:
		return &runtime.BoundMethodValue{Receiver: inst, Method: a}
	case *runtime.StaticMethodValue:
		return a.Func
	default:
		return attr
	}
}

// SetAttr writes an attribute. Writing a property without a setter fails
// with runtime.ErrNoSetterDefined.
func (i *Interpreter) SetAttr(obj runtime.Value, name string, value runtime.Value) error {
	switch o := obj.(type) {
	case *runtime.InstanceValue:
		if classAttr, ok := o.Class.Lookup(name); ok {
			if prop, isProp := classAttr.(*runtime.PropertyValue); isProp {
				if prop.Setter == nil {
					return &RuntimeError{Op: "setattr", Attr: name, Class: o.Class.Path, Err: runtime.ErrNoSetterDefined}
				}
				_, err := i.Call(prop.Setter, []runtime.Value{o, value})
				return err
			}
		}
		o.Attrs[name] = value
		return nil
	case *runtime.ClassValue:
		o.Set(name, value)
		return nil
	case *runtime.ModuleValue:
		o.Attrs[name] = value
		return nil
	default:
		return &RuntimeError{Op: "setattr", Attr: name, Class: runtime.TypeName(obj), Err: fmt.Errorf("%w: attributes are read-only", ErrUnsupportedType)}
	}
}

// Call invokes any callable runtime value. Calling a class instantiates it.
func (i *Interpreter) Call(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch f := fn.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(f, args)
	case *runtime.NativeFunctionValue:
		if f.Arity >= 0 && len(args) != f.Arity {
			return nil, &RuntimeError{Op: "call", Attr: f.Name, Err: fmt.Errorf("%w: expected %d, got %d", ErrArity, f.Arity, len(args))}
		}
		return f.Impl(&runtime.NativeCallContext{Env: i.global}, args)
	case *runtime.BoundMethodValue:
		return i.Call(f.Method, append([]runtime.Value{f.Receiver}, args...))
	case *runtime.StaticMethodValue:
		return i.Call(f.Func, args)
	case *runtime.ClassValue:
		return i.Instantiate(f, args)
	default:
		return nil, &RuntimeError{Op: "call", Class: runtime.TypeName(fn), Err: ErrNotCallable}
	}
}

func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	decl := fn.Declaration
	if len(args) != len(decl.Params) {
		return nil, &RuntimeError{Op: "call", Attr: decl.Name, Err: fmt.Errorf("%w: expected %d, got %d", ErrArity, len(decl.Params), len(args))}
	}
	env := fn.Closure.Extend()
	for idx, param := range decl.Params {
		env.Define(param, args[idx])
	}
	err := i.executeBlock(decl.Body, &frame{env: env})
	if err == nil {
		return runtime.None, nil
	}
	if sig, ok := err.(returnSignal); ok {
		return sig.value, nil
	}
	return nil, err
}

// Instantiate creates an instance of class and runs its initializer.
func (i *Interpreter) Instantiate(class *runtime.ClassValue, args []runtime.Value) (*runtime.InstanceValue, error) {
	inst := runtime.NewInstance(class)
	if class.Init != nil {
		if err := class.Init(inst, args); err != nil {
			return nil, err
		}
		return inst, nil
	}
	init, ok := class.Lookup("__init__")
	if !ok {
		if len(args) > 0 {
			return nil, &RuntimeError{Op: "call", Class: class.Path, Err: fmt.Errorf("%w: %s takes no arguments", ErrArity, class.Name)}
		}
		return inst, nil
	}
	if _, err := i.Call(bindToInstance(inst, init), args); err != nil {
		return nil, err
	}
	return inst, nil
}
