// Package interpreter executes translated programs on the Python-shaped
// object model of pkg/runtime.
package interpreter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/pyast"
	"github.com/sdi1982/CSharpToPython/pkg/runtime"
)

// Options configures an Interpreter and Run.
type Options struct {
	Logger *zap.Logger
	// Stdout receives System.Console output. Nil selects os.Stdout.
	Stdout io.Writer
	// Entry is the dotted path of the class Run instantiates. Empty selects
	// the first class declared.
	Entry string
}

// Interpreter evaluates one translated program. It is not safe for
// concurrent use; create one per run.
type Interpreter struct {
	builtins *runtime.Environment
	global   *runtime.Environment
	log      *zap.Logger
	stdout   io.Writer
	hosts    map[string]*runtime.ModuleValue
}

// frame is the evaluation context of a statement list. Definitions made in a
// class or namespace body are mirrored onto owner.
type frame struct {
	env   *runtime.Environment
	owner runtime.Value
	path  string
}

func (f *frame) bind(name string, value runtime.Value) {
	f.env.Define(name, value)
	switch owner := f.owner.(type) {
	case *runtime.ClassValue:
		owner.Set(name, value)
	case *runtime.ModuleValue:
		owner.Attrs[name] = value
	}
}

func (f *frame) qualify(name string) string {
	if f.path == "" {
		return name
	}
	return f.path + "." + name
}

// New returns an interpreter with the builtins installed and an empty global
// environment. Host modules are built on first import.
func New(opts Options) *Interpreter {
	i := &Interpreter{
		builtins: runtime.NewEnvironment(nil),
		log:      opts.Logger,
		stdout:   opts.Stdout,
		hosts:    make(map[string]*runtime.ModuleValue),
	}
	if i.log == nil {
		i.log = zap.NewNop()
	}
	if i.stdout == nil {
		i.stdout = os.Stdout
	}
	i.global = i.builtins.Extend()
	i.installBuiltins()
	return i
}

// GlobalEnvironment returns the module-level bindings of the program.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// EvaluateModule executes every top-level statement of m.
func (i *Interpreter) EvaluateModule(m *pyast.Module) error {
	if m == nil {
		return fmt.Errorf("interpreter: nil module")
	}
	top := &frame{env: i.global}
	if err := i.executeBlock(m.Body, top); err != nil {
		if _, ok := err.(returnSignal); ok {
			return fmt.Errorf("interpreter: return outside function")
		}
		return err
	}
	return nil
}

// Lookup resolves a dotted path such as "Outer.SomeClass" from the globals.
func (i *Interpreter) Lookup(path string) (runtime.Value, error) {
	parts := strings.Split(path, ".")
	value, err := i.global.Get(parts[0])
	if err != nil {
		return nil, fmt.Errorf("interpreter: %w", err)
	}
	for _, part := range parts[1:] {
		value, err = i.GetAttr(value, part)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// CallMethod looks up name on obj and calls it with args.
func (i *Interpreter) CallMethod(obj runtime.Value, name string, args ...runtime.Value) (runtime.Value, error) {
	fn, err := i.GetAttr(obj, name)
	if err != nil {
		return nil, err
	}
	return i.Call(fn, args)
}

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}
