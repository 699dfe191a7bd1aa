package evaluator

import (
	"fmt"
	"strings"

	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/typesystem"
)

// Error is a runtime failure. It travels through evaluation as a value and
// aborts the current entry-point call.
type Error struct {
	Code       diagnostics.ErrorCode
	Message    string
	Line       int
	Column     int
	StackTrace []StackFrame
}

// StackFrame for error stack traces
type StackFrame struct {
	Name   string
	File   string
	Line   int
	Column int
}

func (e *Error) Type() ObjectType             { return ERROR_OBJ }
func (e *Error) RuntimeType() typesystem.Type { return typesystem.Unknown }

func (e *Error) Inspect() string {
	var result string
	if e.Line > 0 {
		result = fmt.Sprintf("ERROR[%s] at %d:%d: %s", e.Code, e.Line, e.Column, e.Message)
	} else {
		result = fmt.Sprintf("ERROR[%s]: %s", e.Code, e.Message)
	}
	if len(e.StackTrace) > 0 {
		var sb strings.Builder
		sb.WriteString(result)
		sb.WriteString("\nStack trace:")
		for i := len(e.StackTrace) - 1; i >= 0; i-- {
			frame := e.StackTrace[i]
			fmt.Fprintf(&sb, "\n  at %s:%d (called %s)", frame.File, frame.Line, frame.Name)
		}
		result = sb.String()
	}
	return result
}

func (e *Error) Error() string {
	return e.Inspect()
}

// ReturnValue wraps a value that is being returned prematurely
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType             { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string              { return rv.Value.Inspect() }
func (rv *ReturnValue) RuntimeType() typesystem.Type { return rv.Value.RuntimeType() }

// BreakSignal is an internal object used to signal a break from a loop.
type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType             { return BREAK_SIGNAL_OBJ }
func (bs *BreakSignal) Inspect() string              { return "break" }
func (bs *BreakSignal) RuntimeType() typesystem.Type { return typesystem.Void }

type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType             { return CONTINUE_SIGNAL_OBJ }
func (cs *ContinueSignal) Inspect() string              { return "continue" }
func (cs *ContinueSignal) RuntimeType() typesystem.Type { return typesystem.Void }
