package evaluator

import (
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/typesystem"
)

func newError(code diagnostics.ErrorCode, args ...interface{}) *Error {
	d := diagnostics.DiagnosticError{Code: code, Args: args}
	return &Error{Code: code, Message: d.Message()}
}

// PushCall adds a call frame to the stack
func (e *Evaluator) PushCall(name string, line, column int) {
	e.CallStack = append(e.CallStack, CallFrame{Name: name, File: e.CurrentFile, Line: line, Column: column})
}

// PopCall removes the top call frame
func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

// newErrorWithStack creates an error with the current stack trace
func (e *Evaluator) newErrorWithStack(code diagnostics.ErrorCode, args ...interface{}) *Error {
	err := newError(code, args...)
	if len(e.CallStack) > 0 {
		err.StackTrace = e.stackTrace()
	}
	return err
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func unwrapReturnValue(obj Object) Object {
	if returnValue, ok := obj.(*ReturnValue); ok {
		return returnValue.Value
	}
	return obj
}

// coerceTo applies the only implicit conversion, i32 to f32.
func coerceTo(obj Object, t typesystem.Type) Object {
	if t == nil {
		return obj
	}
	if i, ok := obj.(*Integer); ok && t.Equal(typesystem.Float) {
		return &Float{Value: float32(i.Value)}
	}
	return obj
}

// coerceLike widens obj when the slot it replaces currently holds an f32.
func coerceLike(obj, current Object) Object {
	if current == nil {
		return obj
	}
	return coerceTo(obj, current.RuntimeType())
}

// typeMatches reports whether obj is a value of type t.
func typeMatches(obj Object, t typesystem.Type) bool {
	if t == nil || typesystem.IsUnknown(t) {
		return true
	}
	if _, ok := t.(typesystem.TAny); ok {
		return obj.Type() != NIL_OBJ
	}
	return obj.RuntimeType().Equal(t)
}

func objectsEqual(a, b Object) bool {
	switch av := a.(type) {
	case *Integer:
		switch bv := b.(type) {
		case *Integer:
			return av.Value == bv.Value
		case *Float:
			return float32(av.Value) == bv.Value
		}
	case *Float:
		switch bv := b.(type) {
		case *Float:
			return av.Value == bv.Value
		case *Integer:
			return av.Value == float32(bv.Value)
		}
	case *Boolean:
		if bv, ok := b.(*Boolean); ok {
			return av.Value == bv.Value
		}
	case *String:
		if bv, ok := b.(*String); ok {
			return av.Value == bv.Value
		}
	case *Nil:
		_, ok := b.(*Nil)
		return ok
	case *StructInstance:
		if bv, ok := b.(*StructInstance); ok {
			return av.Equal(bv)
		}
	}
	return false
}

// numericValue returns the value of an Integer or Float as float64.
func numericValue(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case *Integer:
		return float64(v.Value), true
	case *Float:
		return float64(v.Value), true
	}
	return 0, false
}

// resolveType maps an annotation name to a runtime type.
func (e *Evaluator) resolveType(name string) typesystem.Type {
	if t, ok := typesystem.Primitive(name); ok {
		return t
	}
	if def, ok := e.structs[name]; ok {
		return def.Type()
	}
	return typesystem.Unknown
}
