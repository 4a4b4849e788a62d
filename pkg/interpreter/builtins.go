package interpreter

import (
	"fmt"
	"strings"

	"github.com/sdi1982/CSharpToPython/pkg/runtime"
)

func (i *Interpreter) installBuiltins() {
	i.builtins.Define("property", &runtime.NativeFunctionValue{
		Name:  "property",
		Arity: -1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 || len(args) > 2 {
				return nil, &RuntimeError{Op: "call", Attr: "property", Err: fmt.Errorf("%w: expected 1 or 2, got %d", ErrArity, len(args))}
			}
			prop := &runtime.PropertyValue{Getter: accessorOrNil(args[0])}
			if len(args) == 2 {
				prop.Setter = accessorOrNil(args[1])
			}
			return prop, nil
		},
	})
	i.builtins.Define("staticmethod", &runtime.NativeFunctionValue{
		Name:  "staticmethod",
		Arity: 1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return &runtime.StaticMethodValue{Func: args[0]}, nil
		},
	})
	i.builtins.Define("str", &runtime.NativeFunctionValue{
		Name:  "str",
		Arity: 1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.StringValue{Val: runtime.Str(args[0])}, nil
		},
	})
	i.builtins.Define("print", &runtime.NativeFunctionValue{
		Name:  "print",
		Arity: -1,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			parts := make([]string, len(args))
			for idx, arg := range args {
				parts[idx] = runtime.Str(arg)
			}
			if _, err := fmt.Fprintln(i.stdout, strings.Join(parts, " ")); err != nil {
				return nil, fmt.Errorf("interpreter: print: %w", err)
			}
			return runtime.None, nil
		},
	})
}

func accessorOrNil(v runtime.Value) runtime.Value {
	if v == nil || v.Kind() == runtime.KindNone {
		return nil
	}
	return v
}
