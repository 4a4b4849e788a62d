package runtime

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sdi1982/CSharpToPython/pkg/pyast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindFunction
	KindNativeFunction
	KindBoundMethod
	KindStaticMethod
	KindProperty
	KindClass
	KindInstance
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInteger:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "builtin_function"
	case KindBoundMethod:
		return "method"
	case KindStaticMethod:
		return "staticmethod"
	case KindProperty:
		return "property"
	case KindClass:
		return "type"
	case KindInstance:
		return "instance"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

var (
	// ErrNoSetterDefined is raised when a property without a setter is
	// assigned.
	ErrNoSetterDefined = errors.New("no setter defined")
	// ErrNoGetterDefined is raised when a property without a getter is read.
	ErrNoGetterDefined = errors.New("unreadable attribute")
	ErrAttributeNotFound = errors.New("attribute not found")
)

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NoneValue struct{}

func (NoneValue) Kind() Kind { return KindNone }

// None is the single None value.
var None Value = NoneValue{}

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Functions & descriptors
//-----------------------------------------------------------------------------

type FunctionValue struct {
	Declaration *pyast.FunctionDef
	Closure     *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCallContext gives host functions access to the calling environment.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeFunctionValue is a host-implemented callable. Arity -1 accepts any
// number of arguments.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v *NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// BoundMethodValue captures the receiver of an instance method.
type BoundMethodValue struct {
	Receiver Value
	Method   Value
}

func (v *BoundMethodValue) Kind() Kind { return KindBoundMethod }

// StaticMethodValue wraps a function so attribute access never binds it.
type StaticMethodValue struct {
	Func Value
}

func (v *StaticMethodValue) Kind() Kind { return KindStaticMethod }

// PropertyValue is a data descriptor. Either accessor may be nil.
type PropertyValue struct {
	Getter Value
	Setter Value
}

func (v *PropertyValue) Kind() Kind { return KindProperty }

//-----------------------------------------------------------------------------
// Classes, instances, modules
//-----------------------------------------------------------------------------

// NativeInit constructs the host state of a new instance of a host class.
type NativeInit func(*InstanceValue, []Value) error

type ClassValue struct {
	Name  string
	Path  string
	Attrs map[string]Value
	// Order records attribute names in definition order.
	Order []string
	// Init is set for host classes.
	Init NativeInit
}

func NewClass(name, path string) *ClassValue {
	return &ClassValue{Name: name, Path: path, Attrs: make(map[string]Value)}
}

func (v *ClassValue) Kind() Kind { return KindClass }

// Set defines or replaces a class attribute.
func (v *ClassValue) Set(name string, value Value) {
	if _, exists := v.Attrs[name]; !exists {
		v.Order = append(v.Order, name)
	}
	v.Attrs[name] = value
}

func (v *ClassValue) Lookup(name string) (Value, bool) {
	value, ok := v.Attrs[name]
	return value, ok
}

type InstanceValue struct {
	Class *ClassValue
	Attrs map[string]Value
	// Host carries the native state of host-class instances.
	Host any
}

func NewInstance(class *ClassValue) *InstanceValue {
	return &InstanceValue{Class: class, Attrs: make(map[string]Value)}
}

func (v *InstanceValue) Kind() Kind { return KindInstance }

// AttrNames returns the instance attribute names in sorted order.
func (v *InstanceValue) AttrNames() []string {
	names := make([]string, 0, len(v.Attrs))
	for name := range v.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type ModuleValue struct {
	Name  string
	Path  string
	Attrs map[string]Value
}

func NewModule(name, path string) *ModuleValue {
	return &ModuleValue{Name: name, Path: path, Attrs: make(map[string]Value)}
}

func (v *ModuleValue) Kind() Kind { return KindModule }

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

// Truthy follows Python truthiness for the supported value kinds.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, NoneValue:
		return false
	case BoolValue:
		return val.Val
	case IntegerValue:
		return val.Val != 0
	case FloatValue:
		return val.Val != 0
	case StringValue:
		return val.Val != ""
	default:
		return true
	}
}

// Equal implements == for the supported kinds. Numbers compare across int
// and float; everything else compares by identity.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil, NoneValue:
		return b == nil || b.Kind() == KindNone
	case BoolValue:
		y, ok := b.(BoolValue)
		return ok && x.Val == y.Val
	case IntegerValue:
		switch y := b.(type) {
		case IntegerValue:
			return x.Val == y.Val
		case FloatValue:
			return float64(x.Val) == y.Val
		}
		return false
	case FloatValue:
		switch y := b.(type) {
		case IntegerValue:
			return x.Val == float64(y.Val)
		case FloatValue:
			return x.Val == y.Val
		}
		return false
	case StringValue:
		y, ok := b.(StringValue)
		return ok && x.Val == y.Val
	default:
		return a == b
	}
}

// TypeName returns the Python-style type name of v.
func TypeName(v Value) string {
	switch val := v.(type) {
	case nil:
		return "NoneType"
	case *InstanceValue:
		return val.Class.Name
	default:
		return v.Kind().String()
	}
}
