package evaluator

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/symbols"
)

var builtinFuncs = map[string]BuiltinFunction{
	config.PrintFuncName:          builtinPrint,
	config.EmitSignalFuncName:     builtinEmitSignal,
	config.SqrtFuncName:           builtinSqrt,
	config.AbsFuncName:            floatFunc(config.AbsFuncName, math.Abs),
	config.FloorFuncName:          floatFunc(config.FloorFuncName, math.Floor),
	config.MinFuncName:            builtinMin,
	config.MaxFuncName:            builtinMax,
	config.ClampFuncName:          builtinClamp,
	config.LerpFuncName:           builtinLerp,
	config.ToIntFuncName:          builtinToInt,
	config.ToFloatFuncName:        builtinToFloat,
	config.ToStringFuncName:       builtinToString,
	config.LenFuncName:            builtinLen,
	config.Vec2LengthFuncName:     builtinVec2Length,
	config.Vec2NormalizedFuncName: builtinVec2Normalized,
	config.RectHasPointFuncName:   builtinRectHasPoint,
	config.TransformPointFuncName: builtinTransformPoint,
}

// RegisterBuiltins binds every builtin function into env.
func RegisterBuiltins(env *Environment) {
	for name, fn := range builtinFuncs {
		sig, _ := symbols.BuiltinSignature(name)
		env.Set(name, &Builtin{Fn: fn, Name: name, TypeInfo: sig})
	}
}

func argError(name string, format string, args ...interface{}) *Error {
	return newError(diagnostics.ErrR409, name+": "+fmt.Sprintf(format, args...))
}

func floatArgs(name string, want int, args []Object) ([]float32, *Error) {
	if len(args) != want {
		return nil, argError(name, "expected %d argument(s), got %d", want, len(args))
	}
	out := make([]float32, want)
	for i, a := range args {
		f, ok := a.(*Float)
		if !ok {
			return nil, argError(name, "argument %d must be f32, got %s", i+1, a.RuntimeType())
		}
		out[i] = f.Value
	}
	return out, nil
}

func floatFunc(name string, fn func(float64) float64) BuiltinFunction {
	return func(e *Evaluator, args ...Object) Object {
		v, err := floatArgs(name, 1, args)
		if err != nil {
			return err
		}
		return &Float{Value: float32(fn(float64(v[0])))}
	}
}

func builtinPrint(e *Evaluator, args ...Object) Object {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	fmt.Fprintln(e.Out, strings.Join(parts, " "))
	return NIL
}

func builtinSqrt(e *Evaluator, args ...Object) Object {
	v, err := floatArgs(config.SqrtFuncName, 1, args)
	if err != nil {
		return err
	}
	if v[0] < 0 {
		return argError(config.SqrtFuncName, "negative argument %s", prettyFloat(v[0]))
	}
	return &Float{Value: float32(math.Sqrt(float64(v[0])))}
}

func builtinMin(e *Evaluator, args ...Object) Object {
	v, err := floatArgs(config.MinFuncName, 2, args)
	if err != nil {
		return err
	}
	if v[1] < v[0] {
		return &Float{Value: v[1]}
	}
	return &Float{Value: v[0]}
}

func builtinMax(e *Evaluator, args ...Object) Object {
	v, err := floatArgs(config.MaxFuncName, 2, args)
	if err != nil {
		return err
	}
	if v[1] > v[0] {
		return &Float{Value: v[1]}
	}
	return &Float{Value: v[0]}
}

func builtinClamp(e *Evaluator, args ...Object) Object {
	v, err := floatArgs(config.ClampFuncName, 3, args)
	if err != nil {
		return err
	}
	return &Float{Value: min(max(v[0], v[1]), v[2])}
}

func builtinLerp(e *Evaluator, args ...Object) Object {
	v, err := floatArgs(config.LerpFuncName, 3, args)
	if err != nil {
		return err
	}
	return &Float{Value: v[0] + (v[1]-v[0])*v[2]}
}

// builtinToInt truncates toward zero.
func builtinToInt(e *Evaluator, args ...Object) Object {
	v, err := floatArgs(config.ToIntFuncName, 1, args)
	if err != nil {
		return err
	}
	x := math.Trunc(float64(v[0]))
	if math.IsNaN(x) || x < math.MinInt32 || x > math.MaxInt32 {
		return argError(config.ToIntFuncName, "%s does not fit in i32", prettyFloat(v[0]))
	}
	return &Integer{Value: int32(x)}
}

func builtinToFloat(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return argError(config.ToFloatFuncName, "expected 1 argument, got %d", len(args))
	}
	switch v := args[0].(type) {
	case *Integer:
		return &Float{Value: float32(v.Value)}
	case *Float:
		return v
	}
	return argError(config.ToFloatFuncName, "argument must be i32, got %s", args[0].RuntimeType())
}

func builtinToString(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return argError(config.ToStringFuncName, "expected 1 argument, got %d", len(args))
	}
	return &String{Value: args[0].Inspect()}
}

// builtinLen counts runes, not bytes.
func builtinLen(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return argError(config.LenFuncName, "expected 1 argument, got %d", len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return argError(config.LenFuncName, "argument must be String, got %s", args[0].RuntimeType())
	}
	return &Integer{Value: int32(utf8.RuneCountInString(s.Value))}
}

// builtinEmitSignal forwards to the registered emitter. Arguments are
// widened to the declared parameter types first.
func builtinEmitSignal(e *Evaluator, args ...Object) Object {
	if len(args) == 0 {
		return argError(config.EmitSignalFuncName, "missing signal name")
	}
	nameObj, ok := args[0].(*String)
	if !ok {
		return argError(config.EmitSignalFuncName, "signal name must be a String")
	}
	name := nameObj.Value
	sig, ok := e.signals[name]
	if !ok {
		return newError(diagnostics.ErrS302, name)
	}
	payload := args[1:]
	if len(payload) != len(sig.Params) {
		return newError(diagnostics.ErrS304, name, len(sig.Params), len(payload))
	}
	coerced := make([]Object, len(payload))
	for i, a := range payload {
		coerced[i] = coerceTo(a, e.resolveType(sig.Params[i].Type))
	}

	e.Logger.Debug("signal emitted", "signal", name, "args", len(coerced))
	if e.Emitter == nil {
		return NIL
	}
	if err := e.Emitter(name, coerced); err != nil {
		return newError(diagnostics.ErrR403, name, err.Error())
	}
	return NIL
}

func prettyFloat(f float32) string {
	return (&Float{Value: f}).Inspect()
}
