package interpreter

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/runtime"
	"github.com/sdi1982/CSharpToPython/pkg/translator"
)

var ErrNoEntryClass = errors.New("no entry class")

// Result is the outcome of running a translated unit.
type Result struct {
	// Root is the instance of the entry class.
	Root        *runtime.InstanceValue
	Class       *runtime.ClassValue
	Interpreter *Interpreter
}

// Run executes the unit's module and instantiates its entry class with no
// arguments. The entry class is opts.Entry when set, else the first class
// the unit declares.
func Run(unit *translator.Unit, opts Options) (*Result, error) {
	if unit == nil || unit.Module == nil {
		return nil, fmt.Errorf("interpreter: nil unit")
	}
	entry := opts.Entry
	if entry == "" {
		if len(unit.Classes) == 0 {
			return nil, fmt.Errorf("interpreter: %w: unit declares no classes", ErrNoEntryClass)
		}
		entry = unit.Classes[0]
	}

	i := New(opts)
	if err := i.EvaluateModule(unit.Module); err != nil {
		return nil, err
	}
	value, err := i.Lookup(entry)
	if err != nil {
		return nil, fmt.Errorf("interpreter: %w: %s: %v", ErrNoEntryClass, entry, err)
	}
	class, ok := value.(*runtime.ClassValue)
	if !ok {
		return nil, fmt.Errorf("interpreter: %w: %s is a %s", ErrNoEntryClass, entry, runtime.TypeName(value))
	}
	root, err := i.Instantiate(class, nil)
	if err != nil {
		return nil, err
	}
	i.log.Debug("instantiated entry class", zap.String("class", class.Path))
	return &Result{Root: root, Class: class, Interpreter: i}, nil
}

// Get reads an attribute of the root object.
func (r *Result) Get(name string) (runtime.Value, error) {
	return r.Interpreter.GetAttr(r.Root, name)
}

// Set writes an attribute of the root object, going through property setters.
func (r *Result) Set(name string, value runtime.Value) error {
	return r.Interpreter.SetAttr(r.Root, name, value)
}

// Call invokes a method of the root object.
func (r *Result) Call(name string, args ...runtime.Value) (runtime.Value, error) {
	return r.Interpreter.CallMethod(r.Root, name, args...)
}
