package interpreter

import (
	"errors"
	"fmt"
)

var (
	ErrNotCallable     = errors.New("object is not callable")
	ErrArity           = errors.New("wrong number of arguments")
	ErrUnsupportedType = errors.New("unsupported operand type")
	ErrZeroDivision    = errors.New("division by zero")
	ErrModuleNotFound  = errors.New("no host module")
)

// RuntimeError reports a failed operation on a runtime value. Err is one of
// the sentinels above or of pkg/runtime.
type RuntimeError struct {
	Op    string
	Attr  string
	Class string
	Err   error
}

func (e *RuntimeError) Error() string {
	target := e.Class
	if e.Attr != "" {
		if target != "" {
			target += "."
		}
		target += e.Attr
	}
	if target == "" {
		return fmt.Sprintf("interpreter: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("interpreter: %s %s: %v", e.Op, target, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
