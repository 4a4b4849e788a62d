package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Str renders v the way Python's str() would.
func Str(v Value) string {
	switch val := v.(type) {
	case nil, NoneValue:
		return "None"
	case BoolValue:
		if val.Val {
			return "True"
		}
		return "False"
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		return formatFloat(val.Val)
	case StringValue:
		return val.Val
	case *FunctionValue:
		return fmt.Sprintf("<function %s>", val.Declaration.Name)
	case *NativeFunctionValue:
		return fmt.Sprintf("<built-in function %s>", val.Name)
	case *BoundMethodValue:
		return fmt.Sprintf("<bound method of %s>", Repr(val.Receiver))
	case *StaticMethodValue:
		return "<staticmethod>"
	case *PropertyValue:
		return "<property>"
	case *ClassValue:
		return fmt.Sprintf("<class '%s'>", val.Path)
	case *InstanceValue:
		if stringer, ok := val.Host.(fmt.Stringer); ok {
			return stringer.String()
		}
		return fmt.Sprintf("<%s object>", val.Class.Path)
	case *ModuleValue:
		return fmt.Sprintf("<module '%s'>", val.Path)
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

// Repr renders v the way Python's repr() would; only strings differ from Str.
func Repr(v Value) string {
	if s, ok := v.(StringValue); ok {
		return "'" + strings.ReplaceAll(s.Val, "'", "\\'") + "'"
	}
	return Str(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(text, ".e") {
		text += ".0"
	}
	return text
}
