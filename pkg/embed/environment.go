package glint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/funvibe/glint/internal/evaluator"
)

// State is the lifecycle state of an Environment.
type State = evaluator.State

const (
	StateIdle         = evaluator.Idle
	StateInitializing = evaluator.Initializing
	StateRunning      = evaluator.Running
	StateTerminated   = evaluator.Terminated
)

// RuntimeError is returned by Environment methods when script execution or
// a host request fails. Code is the "E4xx" diagnostic code.
type RuntimeError struct {
	Code    string
	Message string
	Line    int
	Column  int
	Trace   []Frame
}

// Frame is one script call on the stack when a RuntimeError was raised.
type Frame struct {
	Function string
	File     string
	Line     int
	Column   int
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: runtime error[%s]: %s", e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("runtime error[%s]: %s", e.Code, e.Message)
}

func runtimeError(err *evaluator.Error) error {
	if err == nil {
		return nil
	}
	re := &RuntimeError{
		Code:    err.Code.String(),
		Message: err.Message,
		Line:    err.Line,
		Column:  err.Column,
	}
	for _, f := range err.StackTrace {
		re.Trace = append(re.Trace, Frame{Function: f.Name, File: f.File, Line: f.Line, Column: f.Column})
	}
	return re
}

// Warning is a non-fatal runtime diagnostic, such as a script assigning an
// out-of-range value to a range-hinted property.
type Warning struct {
	Code     string
	Property string
	Message  string
}

// SignalHandler receives signals emitted by the script. Returning an error
// fails the script call that emitted the signal.
type SignalHandler func(name string, args []Value) error

type envSettings struct {
	logger *slog.Logger
	out    io.Writer
}

// EnvOption configures NewEnvironment.
type EnvOption func(*envSettings)

// WithLogger sets the structured logger. Log records carry the
// environment id.
func WithLogger(l *slog.Logger) EnvOption {
	return func(s *envSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOutput redirects print output.
func WithOutput(w io.Writer) EnvOption {
	return func(s *envSettings) {
		if w != nil {
			s.out = w
		}
	}
}

// Environment is one running instance of a Program. It is not safe for
// concurrent use.
type Environment struct {
	id      uuid.UUID
	program *Program
	inst    *evaluator.Instance
	logger  *slog.Logger
}

// NewEnvironment creates an instance of program, seeds its exported
// properties with their defaults and runs its global initializers.
func NewEnvironment(program *Program, opts ...EnvOption) (*Environment, error) {
	if program == nil {
		return nil, fmt.Errorf("glint: nil program")
	}
	s := envSettings{logger: slog.Default(), out: os.Stdout}
	for _, o := range opts {
		o(&s)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("glint: environment id: %w", err)
	}
	logger := s.logger.With("env", id.String())
	if program.file != "" {
		logger = logger.With("file", program.file)
	}

	ev := evaluator.New()
	ev.Out = s.out
	ev.Logger = logger
	if program.options != nil && program.options.MaxCallDepth > 0 {
		ev.MaxCallDepth = program.options.MaxCallDepth
	}

	env := &Environment{id: id, program: program, inst: evaluator.NewInstance(ev), logger: logger}
	if rerr := env.inst.Initialize(program.unit()); rerr != nil {
		return nil, runtimeError(rerr)
	}
	return env, nil
}

func (p *Program) unit() evaluator.Unit {
	return evaluator.Unit{Program: p.ast, Properties: p.properties, Signals: p.signals}
}

func (e *Environment) ID() uuid.UUID     { return e.id }
func (e *Environment) Program() *Program { return e.program }
func (e *Environment) State() State      { return e.inst.State() }

// Execute calls the entry point name with args and returns its result. A
// void function returns Nil.
func (e *Environment) Execute(name string, args ...Value) (Value, error) {
	return e.ExecuteContext(context.Background(), name, args...)
}

// ExecuteContext is Execute with cancellation. Loops and calls check ctx
// between steps.
func (e *Environment) ExecuteContext(ctx context.Context, name string, args ...Value) (Value, error) {
	objs := make([]evaluator.Object, len(args))
	for i, a := range args {
		obj, err := e.toObject(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d of '%s': %w", i+1, name, err)
		}
		objs[i] = obj
	}
	res, rerr := e.inst.Execute(ctx, name, objs)
	if rerr != nil {
		return nil, runtimeError(rerr)
	}
	return fromObject(res)
}

// GetExportedProperty returns the current value of an exported property.
func (e *Environment) GetExportedProperty(name string) (Value, error) {
	obj, rerr := e.inst.GetProperty(name)
	if rerr != nil {
		return nil, runtimeError(rerr)
	}
	return fromObject(obj)
}

// SetExportedProperty writes an exported property from the host. Editor
// writes are clamped to a range hint; other writes outside the range are
// stored and reported through the warning handler. The stored value is
// returned.
func (e *Environment) SetExportedProperty(name string, value Value, fromExternalEditor bool) (Value, error) {
	obj, err := e.toObject(value)
	if err != nil {
		return nil, fmt.Errorf("property '%s': %w", name, err)
	}
	stored, rerr := e.inst.SetProperty(name, obj, fromExternalEditor)
	if rerr != nil {
		return nil, runtimeError(rerr)
	}
	return fromObject(stored)
}

// RegisterSignalEmitter installs the handler called for every emit_signal.
// Passing nil removes it; signals are then dropped.
func (e *Environment) RegisterSignalEmitter(h SignalHandler) {
	ev := e.inst.Evaluator()
	if h == nil {
		ev.Emitter = nil
		return
	}
	ev.Emitter = func(name string, args []evaluator.Object) error {
		vals := make([]Value, len(args))
		for i, a := range args {
			v, err := fromObject(a)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		return h(name, vals)
	}
}

// SetWarningHandler installs the callback for runtime warnings. Warnings
// are logged either way.
func (e *Environment) SetWarningHandler(h func(Warning)) {
	ev := e.inst.Evaluator()
	if h == nil {
		ev.OnWarning = nil
		return
	}
	ev.OnWarning = func(w evaluator.Warning) {
		h(Warning{Code: w.Code.String(), Property: w.Property, Message: w.Message})
	}
}

// Reload replaces the running program. Exported properties present in both
// versions keep their values; see the package documentation for the type
// change rules. If the new program fails to initialize the old one keeps
// running.
func (e *Environment) Reload(program *Program) error {
	if program == nil {
		return fmt.Errorf("glint: nil program")
	}
	if rerr := e.inst.Reload(program.unit()); rerr != nil {
		return runtimeError(rerr)
	}
	if program.options != nil && program.options.MaxCallDepth > 0 {
		e.inst.Evaluator().MaxCallDepth = program.options.MaxCallDepth
	}
	e.program = program
	return nil
}

// Close releases the instance. Later calls fail with E411.
func (e *Environment) Close() error {
	e.inst.Close()
	return nil
}

func (e *Environment) toObject(v Value) (evaluator.Object, error) {
	return toObject(v, e.inst.Evaluator().Struct)
}
