package interpreter

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/runtime"
)

// hostClass builds the runtime class of one host type. Namespaces and names
// match the entries of hostlib.Default.
type hostClass struct {
	namespace string
	name      string
	build     func(i *Interpreter, class *runtime.ClassValue)
}

var hostClasses = []hostClass{
	{namespace: "System", name: "Object", build: func(*Interpreter, *runtime.ClassValue) {}},
	{namespace: "System", name: "String", build: buildString},
	{namespace: "System", name: "Random", build: buildRandom},
	{namespace: "System", name: "Math", build: buildMath},
	{namespace: "System", name: "Console", build: buildConsole},
	{namespace: "System", name: "DateTime", build: buildDateTime},
	{namespace: "System", name: "Guid", build: buildGuid},
	{namespace: "System", name: "TimeSpan", build: buildTimeSpan},
	{namespace: "System.Text", name: "StringBuilder", build: buildStringBuilder},
}

// HostTypes lists the full names of the host classes the interpreter implements.
func HostTypes() []string {
	names := make([]string, 0, len(hostClasses))
	for _, hc := range hostClasses {
		names = append(names, hc.namespace+"."+hc.name)
	}
	sort.Strings(names)
	return names
}

// hostModule materializes the modules along ns and returns the root one,
// which is what "import System.Text" binds.
func (i *Interpreter) hostModule(ns string) (*runtime.ModuleValue, error) {
	known := false
	for _, hc := range hostClasses {
		if hc.namespace == ns || strings.HasPrefix(hc.namespace, ns+".") {
			known = true
			break
		}
	}
	if !known {
		return nil, &RuntimeError{Op: "import", Class: ns, Err: ErrModuleNotFound}
	}

	var root, parent *runtime.ModuleValue
	path := ""
	for _, part := range strings.Split(ns, ".") {
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
		mod, ok := i.hosts[path]
		if !ok {
			mod = runtime.NewModule(part, path)
			i.hosts[path] = mod
			i.populateHostModule(mod)
		}
		if parent != nil {
			parent.Attrs[part] = mod
		}
		if root == nil {
			root = mod
		}
		parent = mod
	}
	return root, nil
}

func (i *Interpreter) populateHostModule(mod *runtime.ModuleValue) {
	for _, hc := range hostClasses {
		if hc.namespace != mod.Path {
			continue
		}
		class := runtime.NewClass(hc.name, mod.Path+"."+hc.name)
		hc.build(i, class)
		mod.Attrs[hc.name] = class
	}
	i.log.Debug("loaded host module", zap.String("path", mod.Path))
}

//-----------------------------------------------------------------------------
// Helpers
//-----------------------------------------------------------------------------

func native(name string, arity int, impl func(args []runtime.Value) (runtime.Value, error)) *runtime.NativeFunctionValue {
	return &runtime.NativeFunctionValue{
		Name:  name,
		Arity: arity,
		Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return impl(args)
		},
	}
}

func static(name string, arity int, impl func(args []runtime.Value) (runtime.Value, error)) *runtime.StaticMethodValue {
	return &runtime.StaticMethodValue{Func: native(name, arity, impl)}
}

func getter(name string, impl func(self *runtime.InstanceValue) (runtime.Value, error)) *runtime.PropertyValue {
	return &runtime.PropertyValue{Getter: native(name, 1, func(args []runtime.Value) (runtime.Value, error) {
		self, ok := args[0].(*runtime.InstanceValue)
		if !ok {
			return nil, operandError(name, args[0], nil)
		}
		return impl(self)
	})}
}

func intArg(op string, v runtime.Value) (int64, error) {
	n, ok := v.(runtime.IntegerValue)
	if !ok {
		return 0, &RuntimeError{Op: op, Err: fmt.Errorf("%w: expected int, got %s", ErrUnsupportedType, runtime.TypeName(v))}
	}
	return n.Val, nil
}

func floatArg(op string, v runtime.Value) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, &RuntimeError{Op: op, Err: fmt.Errorf("%w: expected number, got %s", ErrUnsupportedType, runtime.TypeName(v))}
	}
	return f, nil
}

func arityError(class *runtime.ClassValue, method string, got int) error {
	return &RuntimeError{Op: "call", Attr: method, Class: class.Path, Err: fmt.Errorf("%w: got %d", ErrArity, got)}
}

func hostState[T any](class *runtime.ClassValue, method string, v runtime.Value) (T, error) {
	var zero T
	inst, ok := v.(*runtime.InstanceValue)
	if !ok {
		return zero, &RuntimeError{Op: "call", Attr: method, Class: class.Path, Err: fmt.Errorf("%w: receiver is %s", ErrUnsupportedType, runtime.TypeName(v))}
	}
	state, ok := inst.Host.(T)
	if !ok {
		return zero, &RuntimeError{Op: "call", Attr: method, Class: class.Path, Err: fmt.Errorf("%w: receiver is %s", ErrUnsupportedType, inst.Class.Path)}
	}
	return state, nil
}

//-----------------------------------------------------------------------------
// System
//-----------------------------------------------------------------------------

func buildString(_ *Interpreter, class *runtime.ClassValue) {
	class.Set("Empty", runtime.StringValue{Val: ""})
	class.Set("IsNullOrEmpty", static("IsNullOrEmpty", 1, func(args []runtime.Value) (runtime.Value, error) {
		switch v := args[0].(type) {
		case runtime.NoneValue:
			return runtime.BoolValue{Val: true}, nil
		case runtime.StringValue:
			return runtime.BoolValue{Val: v.Val == ""}, nil
		default:
			return nil, operandError("IsNullOrEmpty", v, nil)
		}
	}))
}

func buildRandom(_ *Interpreter, class *runtime.ClassValue) {
	class.Init = func(inst *runtime.InstanceValue, args []runtime.Value) error {
		switch len(args) {
		case 0:
			inst.Host = rand.New(rand.NewSource(time.Now().UnixNano()))
		case 1:
			seed, err := intArg("Random", args[0])
			if err != nil {
				return err
			}
			inst.Host = rand.New(rand.NewSource(seed))
		default:
			return arityError(class, "__init__", len(args))
		}
		return nil
	}
	class.Set("Next", native("Next", -1, func(args []runtime.Value) (runtime.Value, error) {
		if len(args) == 0 {
			return nil, arityError(class, "Next", 0)
		}
		rng, err := hostState[*rand.Rand](class, "Next", args[0])
		if err != nil {
			return nil, err
		}
		bounds := make([]int64, 0, 2)
		for _, arg := range args[1:] {
			n, err := intArg("Next", arg)
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, n)
		}
		var lo, hi int64
		switch len(bounds) {
		case 0:
			lo, hi = 0, math.MaxInt32
		case 1:
			lo, hi = 0, bounds[0]
		case 2:
			lo, hi = bounds[0], bounds[1]
		default:
			return nil, arityError(class, "Next", len(bounds))
		}
		if hi < lo || (len(bounds) == 1 && hi < 0) {
			return nil, &RuntimeError{Op: "call", Attr: "Next", Class: class.Path, Err: fmt.Errorf("%w: empty range [%d, %d)", ErrUnsupportedType, lo, hi)}
		}
		if hi == lo {
			return runtime.IntegerValue{Val: lo}, nil
		}
		return runtime.IntegerValue{Val: lo + rng.Int63n(hi-lo)}, nil
	}))
	class.Set("NextDouble", native("NextDouble", 1, func(args []runtime.Value) (runtime.Value, error) {
		rng, err := hostState[*rand.Rand](class, "NextDouble", args[0])
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: rng.Float64()}, nil
	}))
}

func buildMath(_ *Interpreter, class *runtime.ClassValue) {
	class.Set("PI", runtime.FloatValue{Val: math.Pi})
	pick := func(name string, wantLeft func(a, b float64) bool) *runtime.StaticMethodValue {
		return static(name, 2, func(args []runtime.Value) (runtime.Value, error) {
			a, err := floatArg(name, args[0])
			if err != nil {
				return nil, err
			}
			b, err := floatArg(name, args[1])
			if err != nil {
				return nil, err
			}
			_, aInt := args[0].(runtime.IntegerValue)
			_, bInt := args[1].(runtime.IntegerValue)
			result := b
			if wantLeft(a, b) {
				result = a
			}
			if aInt && bInt {
				return runtime.IntegerValue{Val: int64(result)}, nil
			}
			return runtime.FloatValue{Val: result}, nil
		})
	}
	class.Set("Max", pick("Max", func(a, b float64) bool { return a >= b }))
	class.Set("Min", pick("Min", func(a, b float64) bool { return a <= b }))
	class.Set("Abs", static("Abs", 1, func(args []runtime.Value) (runtime.Value, error) {
		switch v := args[0].(type) {
		case runtime.IntegerValue:
			if v.Val < 0 {
				return runtime.IntegerValue{Val: -v.Val}, nil
			}
			return v, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: math.Abs(v.Val)}, nil
		default:
			return nil, operandError("Abs", v, nil)
		}
	}))
}

func buildConsole(i *Interpreter, class *runtime.ClassValue) {
	write := func(name, suffix string) *runtime.StaticMethodValue {
		return static(name, -1, func(args []runtime.Value) (runtime.Value, error) {
			if len(args) > 1 {
				return nil, arityError(class, name, len(args))
			}
			text := suffix
			if len(args) == 1 {
				text = runtime.Str(args[0]) + suffix
			}
			if _, err := fmt.Fprint(i.stdout, text); err != nil {
				return nil, fmt.Errorf("interpreter: %s.%s: %w", class.Path, name, err)
			}
			return runtime.None, nil
		})
	}
	class.Set("WriteLine", write("WriteLine", "\n"))
	class.Set("Write", write("Write", ""))
}

// dateTime formats like the invariant culture of .NET.
type dateTime struct {
	time.Time
}

func (d dateTime) String() string {
	return d.Format("1/2/2006 3:04:05 PM")
}

func buildDateTime(_ *Interpreter, class *runtime.ClassValue) {
	class.Init = func(inst *runtime.InstanceValue, args []runtime.Value) error {
		switch len(args) {
		case 0:
			inst.Host = dateTime{time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)}
		case 3:
			parts := make([]int64, 3)
			for idx, arg := range args {
				n, err := intArg("DateTime", arg)
				if err != nil {
					return err
				}
				parts[idx] = n
			}
			t := time.Date(int(parts[0]), time.Month(parts[1]), int(parts[2]), 0, 0, 0, 0, time.UTC)
			if t.Year() != int(parts[0]) || int64(t.Month()) != parts[1] || int64(t.Day()) != parts[2] {
				return &RuntimeError{Op: "call", Attr: "__init__", Class: class.Path, Err: fmt.Errorf("%w: invalid date %d-%d-%d", ErrUnsupportedType, parts[0], parts[1], parts[2])}
			}
			inst.Host = dateTime{t}
		default:
			return arityError(class, "__init__", len(args))
		}
		return nil
	}
	field := func(name string, read func(time.Time) int) *runtime.PropertyValue {
		return getter(name, func(self *runtime.InstanceValue) (runtime.Value, error) {
			d, err := hostState[dateTime](class, name, self)
			if err != nil {
				return nil, err
			}
			return runtime.IntegerValue{Val: int64(read(d.Time))}, nil
		})
	}
	class.Set("Year", field("Year", time.Time.Year))
	class.Set("Month", field("Month", func(t time.Time) int { return int(t.Month()) }))
	class.Set("Day", field("Day", time.Time.Day))
	class.Set("AddDays", native("AddDays", 2, func(args []runtime.Value) (runtime.Value, error) {
		d, err := hostState[dateTime](class, "AddDays", args[0])
		if err != nil {
			return nil, err
		}
		days, err := floatArg("AddDays", args[1])
		if err != nil {
			return nil, err
		}
		next := runtime.NewInstance(class)
		next.Host = dateTime{d.Add(time.Duration(days * float64(24*time.Hour)))}
		return next, nil
	}))
	class.Set("ToString", native("ToString", 1, func(args []runtime.Value) (runtime.Value, error) {
		d, err := hostState[dateTime](class, "ToString", args[0])
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: d.String()}, nil
	}))
}

func buildGuid(_ *Interpreter, class *runtime.ClassValue) {
	wrap := func(id uuid.UUID) *runtime.InstanceValue {
		inst := runtime.NewInstance(class)
		inst.Host = id
		return inst
	}
	class.Init = func(inst *runtime.InstanceValue, args []runtime.Value) error {
		switch len(args) {
		case 0:
			inst.Host = uuid.Nil
		case 1:
			s, ok := args[0].(runtime.StringValue)
			if !ok {
				return operandError("Guid", args[0], nil)
			}
			id, err := uuid.Parse(s.Val)
			if err != nil {
				return &RuntimeError{Op: "call", Attr: "__init__", Class: class.Path, Err: err}
			}
			inst.Host = id
		default:
			return arityError(class, "__init__", len(args))
		}
		return nil
	}
	class.Set("Empty", wrap(uuid.Nil))
	class.Set("NewGuid", static("NewGuid", 0, func([]runtime.Value) (runtime.Value, error) {
		return wrap(uuid.New()), nil
	}))
	class.Set("ToString", native("ToString", 1, func(args []runtime.Value) (runtime.Value, error) {
		id, err := hostState[uuid.UUID](class, "ToString", args[0])
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: id.String()}, nil
	}))
}

// timeSpan formats like TimeSpan.ToString ("c" format).
type timeSpan struct {
	time.Duration
}

func (t timeSpan) String() string {
	d := t.Duration
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	clock := fmt.Sprintf("%02d:%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second))
	if days > 0 {
		return fmt.Sprintf("%s%d.%s", sign, days, clock)
	}
	return sign + clock
}

func buildTimeSpan(_ *Interpreter, class *runtime.ClassValue) {
	class.Init = func(inst *runtime.InstanceValue, args []runtime.Value) error {
		if len(args) != 0 {
			return arityError(class, "__init__", len(args))
		}
		inst.Host = timeSpan{}
		return nil
	}
	class.Set("FromSeconds", static("FromSeconds", 1, func(args []runtime.Value) (runtime.Value, error) {
		seconds, err := floatArg("FromSeconds", args[0])
		if err != nil {
			return nil, err
		}
		inst := runtime.NewInstance(class)
		inst.Host = timeSpan{time.Duration(seconds * float64(time.Second))}
		return inst, nil
	}))
	class.Set("TotalSeconds", getter("TotalSeconds", func(self *runtime.InstanceValue) (runtime.Value, error) {
		span, err := hostState[timeSpan](class, "TotalSeconds", self)
		if err != nil {
			return nil, err
		}
		return runtime.FloatValue{Val: span.Seconds()}, nil
	}))
}

//-----------------------------------------------------------------------------
// System.Text
//-----------------------------------------------------------------------------

func buildStringBuilder(_ *Interpreter, class *runtime.ClassValue) {
	class.Init = func(inst *runtime.InstanceValue, args []runtime.Value) error {
		sb := &strings.Builder{}
		switch len(args) {
		case 0:
		case 1:
			s, ok := args[0].(runtime.StringValue)
			if !ok {
				return operandError("StringBuilder", args[0], nil)
			}
			sb.WriteString(s.Val)
		default:
			return arityError(class, "__init__", len(args))
		}
		inst.Host = sb
		return nil
	}
	class.Set("Append", native("Append", 2, func(args []runtime.Value) (runtime.Value, error) {
		sb, err := hostState[*strings.Builder](class, "Append", args[0])
		if err != nil {
			return nil, err
		}
		sb.WriteString(runtime.Str(args[1]))
		return args[0], nil
	}))
	class.Set("ToString", native("ToString", 1, func(args []runtime.Value) (runtime.Value, error) {
		sb, err := hostState[*strings.Builder](class, "ToString", args[0])
		if err != nil {
			return nil, err
		}
		return runtime.StringValue{Val: sb.String()}, nil
	}))
	class.Set("Length", getter("Length", func(self *runtime.InstanceValue) (runtime.Value, error) {
		sb, err := hostState[*strings.Builder](class, "Length", self)
		if err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: int64(sb.Len())}, nil
	}))
}
