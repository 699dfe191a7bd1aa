package evaluator

import (
	"context"
	"fmt"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/lexer"
	"github.com/funvibe/glint/internal/parser"
	"github.com/funvibe/glint/internal/pipeline"
	"github.com/funvibe/glint/internal/typesystem"
)

type State int

const (
	Idle State = iota
	Initializing
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Unit is what an instance loads: a checked program with the metadata the
// analyzer extracted from it.
type Unit struct {
	Program    *ast.Program
	Properties []ast.PropertyMetadata
	Signals    []ast.SignalInfo
}

// Instance is one running copy of a program. It is not safe for concurrent
// use; run independent instances on separate goroutines instead.
type Instance struct {
	eval  *Evaluator
	state State
}

// NewInstance wraps a configured evaluator. Call Initialize before use.
func NewInstance(e *Evaluator) *Instance {
	return &Instance{eval: e, state: Idle}
}

func (in *Instance) Evaluator() *Evaluator { return in.eval }
func (in *Instance) State() State          { return in.state }

// settle returns to Idle unless the instance was closed meanwhile.
func (in *Instance) settle(from State) {
	if in.state == from {
		in.state = Idle
	}
}

func (in *Instance) stateError(op string) *Error {
	return newError(diagnostics.ErrR411, fmt.Sprintf("cannot %s: instance is %s", op, in.state))
}

// Initialize binds functions and structs, seeds exported properties from
// their canonical defaults and runs the remaining global initializers.
func (in *Instance) Initialize(unit Unit) *Error {
	if in.state != Idle {
		return in.stateError("initialize")
	}
	in.state = Initializing
	defer in.settle(Initializing)

	if _, err := in.load(unit, nil); err != nil {
		return err
	}
	in.eval.Logger.Info("instance initialized",
		"properties", len(unit.Properties), "signals", len(unit.Signals))
	return nil
}

// Reload swaps in a new version of the program. Values of properties that
// survive keep their current value; an i32 value migrates to f32, any other
// type change resets the property to its new default with a W452 warning.
// On failure the previous program stays loaded.
func (in *Instance) Reload(unit Unit) *Error {
	if in.state != Idle {
		return in.stateError("reload")
	}
	in.state = Initializing
	defer in.settle(Initializing)

	e := in.eval
	saved := *e
	previous := e.Properties
	warnings, err := in.load(unit, previous)
	if err != nil {
		*e = saved
		return err
	}

	kept, added := 0, 0
	for _, name := range e.Properties.Names() {
		if _, ok := previous.Get(name); ok {
			kept++
		} else {
			added++
		}
	}
	e.Logger.Info("instance reloaded",
		"kept", kept-len(warnings), "added", added, "reset", len(warnings),
		"dropped", previous.Len()-kept)
	for _, w := range warnings {
		e.emitWarning(w)
	}
	return nil
}

// load rebuilds the evaluator state for unit. When previous is non-nil its
// values are carried over by name.
func (in *Instance) load(unit Unit, previous *PropertyStore) ([]Warning, *Error) {
	e := in.eval
	e.Globals = NewEnvironment()
	RegisterBuiltins(e.Globals)
	e.structs = make(map[string]*typesystem.StructDef)
	for _, def := range typesystem.BuiltinStructs {
		e.structs[def.Name] = def
	}
	e.CallStack = nil
	if unit.Program != nil {
		e.CurrentFile = unit.Program.File
	}

	prog := unit.Program
	if prog == nil {
		prog = &ast.Program{}
	}
	e.DefineStructs(prog.Structs())
	e.DefineFunctions(prog.Functions())
	e.DefineSignals(unit.Signals)

	var warnings []Warning
	e.Properties = NewPropertyStore(unit.Properties)
	for _, meta := range unit.Properties {
		if previous != nil {
			if old, ok := previous.Get(meta.Name); ok {
				t := e.Properties.types[meta.Name]
				migrated := coerceTo(old, t)
				if typeMatches(migrated, t) {
					e.Properties.seed(meta.Name, migrated)
					continue
				}
				d := diagnostics.DiagnosticError{Code: diagnostics.WarnW452, Args: []interface{}{
					meta.Name, old.RuntimeType().String(), t.String(),
				}}
				warnings = append(warnings, Warning{Code: diagnostics.WarnW452, Property: meta.Name, Message: d.Message()})
			}
		}
		val, err := in.decodeDefault(meta)
		if err != nil {
			return nil, err
		}
		e.Properties.seed(meta.Name, val)
	}

	for _, ls := range prog.Globals() {
		if ls.Export != nil {
			continue
		}
		if res := e.Eval(ls, e.Globals); isError(res) {
			return nil, res.(*Error)
		}
	}
	return warnings, nil
}

// decodeDefault turns a canonical default string back into a value by
// parsing it as an expression.
func (in *Instance) decodeDefault(meta ast.PropertyMetadata) (Object, *Error) {
	ctx := pipeline.NewPipelineContext(meta.Default)
	p := parser.New(lexer.NewTokenStream(lexer.New(meta.Default)), ctx)
	expr := p.ParseExpression()
	if expr == nil || len(ctx.Errors) > 0 {
		return nil, newError(diagnostics.ErrR407, fmt.Sprintf("invalid default %q for property '%s'", meta.Default, meta.Name))
	}
	val := in.eval.Eval(expr, in.eval.Globals)
	if errObj, ok := val.(*Error); ok {
		return nil, errObj
	}
	return val, nil
}

// Execute calls an entry point by name. A runtime error aborts only this
// call; the instance stays usable.
func (in *Instance) Execute(ctx context.Context, name string, args []Object) (Object, *Error) {
	if in.state != Idle {
		return nil, in.stateError("execute '" + name + "'")
	}
	e := in.eval

	obj, ok := e.Globals.Get(name)
	fn, isFn := obj.(*Function)
	if !ok || !isFn {
		return nil, newError(diagnostics.ErrR405, name)
	}
	if len(args) != len(fn.ParamTypes) {
		return nil, newError(diagnostics.ErrR410, name, len(fn.ParamTypes), len(args))
	}
	coerced := make([]Object, len(args))
	for i, a := range args {
		if a == nil {
			a = NIL
		}
		coerced[i] = coerceTo(a, fn.ParamTypes[i])
		if !typeMatches(coerced[i], fn.ParamTypes[i]) {
			return nil, newError(diagnostics.ErrR407, fmt.Sprintf("argument %d of '%s': expected %s, got %s",
				i+1, name, fn.ParamTypes[i], a.RuntimeType()))
		}
	}

	in.state = Running
	e.Context = ctx
	e.CallStack = nil
	defer func() {
		in.settle(Running)
		e.Context = nil
		e.CallStack = nil
	}()

	result := e.ApplyFunction(fn, coerced, fn.Line, fn.Column)
	if errObj, ok := result.(*Error); ok {
		e.Logger.Warn("runtime error", "entry", name, "code", errObj.Code.String(), "error", errObj.Message)
		return nil, errObj
	}
	return result, nil
}

func (in *Instance) GetProperty(name string) (Object, *Error) {
	if in.state == Terminated {
		return nil, in.stateError("read property '" + name + "'")
	}
	return in.eval.GetProperty(name)
}

// SetProperty is the host write path. It is rejected while an entry point
// is running.
func (in *Instance) SetProperty(name string, value Object, fromEditor bool) (Object, *Error) {
	if in.state != Idle {
		return nil, in.stateError("set property '" + name + "'")
	}
	if value == nil {
		value = NIL
	}
	return in.eval.SetProperty(name, value, fromEditor)
}

// Close terminates the instance. Closing twice is a no-op.
func (in *Instance) Close() {
	if in.state == Terminated {
		return
	}
	in.state = Terminated
	in.eval.Globals = NewEnvironment()
	in.eval.Emitter = nil
	in.eval.Logger.Info("instance closed")
}
