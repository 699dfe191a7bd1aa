package evaluator

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/typesystem"
)

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	if node.Function == nil {
		return newError(diagnostics.ErrR409, "cannot evaluate incomplete code")
	}
	callee := e.evalIdentifier(node.Function, env)
	if isError(callee) {
		return callee
	}

	args := make([]Object, 0, len(node.Arguments))
	for _, a := range node.Arguments {
		val := e.Eval(a, env)
		if isError(val) {
			return val
		}
		args = append(args, val)
	}

	return e.ApplyFunction(callee, args, node.Token.Line, node.Token.Column)
}

// ApplyFunction calls a script function or builtin with evaluated arguments.
func (e *Evaluator) ApplyFunction(callee Object, args []Object, line, column int) Object {
	switch fn := callee.(type) {
	case *Builtin:
		coerced := make([]Object, len(args))
		for i, a := range args {
			coerced[i] = a
			if i < len(fn.TypeInfo.Params) {
				coerced[i] = coerceTo(a, fn.TypeInfo.Params[i])
			}
		}
		return fn.Fn(e, coerced...)

	case *Function:
		if len(args) != len(fn.ParamTypes) {
			return newError(diagnostics.ErrR410, fn.Name, len(fn.ParamTypes), len(args))
		}
		if len(e.CallStack) >= e.MaxCallDepth {
			return e.newErrorWithStack(diagnostics.ErrR408)
		}
		e.PushCall(fn.Name, line, column)
		defer e.PopCall()

		callEnv := NewEnclosedEnvironment(fn.Env)
		for i, p := range fn.Parameters {
			if p == nil || p.Name == nil {
				continue
			}
			callEnv.Set(p.Name.Value, coerceTo(args[i], fn.ParamTypes[i]))
		}

		result := e.evalBlockStatement(fn.Body, callEnv)
		if errObj, ok := result.(*Error); ok {
			if errObj.StackTrace == nil {
				errObj.StackTrace = e.stackTrace()
			}
			return errObj
		}
		if fn.ReturnType == nil || fn.ReturnType.Equal(typesystem.Void) {
			return NIL
		}
		return coerceTo(unwrapReturnValue(result), fn.ReturnType)
	}
	return newError(diagnostics.ErrR407, "not a function: "+callee.Inspect())
}

func (e *Evaluator) stackTrace() []StackFrame {
	frames := make([]StackFrame, len(e.CallStack))
	for i, frame := range e.CallStack {
		frames[i] = StackFrame(frame)
	}
	return frames
}
