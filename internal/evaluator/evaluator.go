package evaluator

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/typesystem"
)

// CallFrame represents a single frame in the call stack
type CallFrame struct {
	Name   string // Function name
	File   string // Source file
	Line   int    // Line number
	Column int    // Column number
}

// SignalEmitter receives every emitted signal synchronously. A non-nil
// error fails the emitting call.
type SignalEmitter func(name string, args []Object) error

type Evaluator struct {
	// Context for cancellation
	Context context.Context

	// Out receives print output.
	Out    io.Writer
	Logger *slog.Logger

	// CallStack for stack traces on errors
	CallStack    []CallFrame
	MaxCallDepth int
	// CurrentFile being evaluated
	CurrentFile string

	Emitter   SignalEmitter
	OnWarning WarningHandler

	Globals    *Environment
	Properties *PropertyStore

	structs map[string]*typesystem.StructDef
	signals map[string]ast.SignalInfo
}

func New() *Evaluator {
	e := &Evaluator{
		Out:          os.Stdout,
		Logger:       slog.Default(),
		MaxCallDepth: config.DefaultMaxCallDepth,
		Globals:      NewEnvironment(),
		Properties:   NewPropertyStore(nil),
		structs:      make(map[string]*typesystem.StructDef),
		signals:      make(map[string]ast.SignalInfo),
	}
	for _, def := range typesystem.BuiltinStructs {
		e.structs[def.Name] = def
	}
	RegisterBuiltins(e.Globals)
	return e
}

func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	if e.Context != nil {
		select {
		case <-e.Context.Done():
			return newError(diagnostics.ErrR411, "execution cancelled: "+e.Context.Err().Error())
		default:
		}
	}

	obj := e.evalCore(node, env)
	if err, ok := obj.(*Error); ok {
		if err.Line == 0 && node != nil {
			if provider, ok := node.(ast.TokenProvider); ok {
				tok := provider.GetToken()
				err.Line = tok.Line
				err.Column = tok.Column
			}
		}
	}
	return obj
}

func (e *Evaluator) evalCore(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.BlockStatement:
		return e.evalBlockStatement(node, env)
	case *ast.ExpressionStatement:
		if node.Expression == nil {
			return NIL
		}
		return e.Eval(node.Expression, env)
	case *ast.LetStatement:
		return e.evalLetStatement(node, env)
	case *ast.AssignStatement:
		return e.evalAssignStatement(node, env)
	case *ast.IfStatement:
		return e.evalIfStatement(node, env)
	case *ast.WhileStatement:
		return e.evalWhileStatement(node, env)
	case *ast.ReturnStatement:
		return e.evalReturnStatement(node, env)
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}

	// Expressions
	case *ast.IntegerLiteral:
		return &Integer{Value: int32(node.Value)}
	case *ast.FloatLiteral:
		return &Float{Value: float32(node.Value)}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBool(node.Value)
	case *ast.Identifier:
		return e.evalIdentifier(node, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(node, env)
	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	case *ast.FieldAccessExpression:
		return e.evalFieldAccess(node, env)
	case *ast.StructLiteral:
		return e.evalStructLiteral(node, env)
	}
	return newError(diagnostics.ErrR409, "cannot evaluate incomplete code")
}

// DefineStructs registers user struct declarations. Every name is known
// before field types resolve, so declaration order does not matter.
func (e *Evaluator) DefineStructs(decls []*ast.StructDeclaration) {
	for _, sd := range decls {
		if sd == nil || sd.Name == nil {
			continue
		}
		e.structs[sd.Name.Value] = &typesystem.StructDef{Name: sd.Name.Value}
	}
	for _, sd := range decls {
		if sd == nil || sd.Name == nil {
			continue
		}
		def := e.structs[sd.Name.Value]
		def.Fields = def.Fields[:0]
		for _, f := range sd.Fields {
			if f == nil || f.Name == nil || f.Type == nil {
				continue
			}
			def.Fields = append(def.Fields, typesystem.Field{Name: f.Name.Value, Type: e.resolveType(f.Type.Name)})
		}
	}
}

// DefineFunctions binds every function declaration in the global scope.
func (e *Evaluator) DefineFunctions(decls []*ast.FunctionDeclaration) {
	for _, fd := range decls {
		if fd == nil || fd.Name == nil || fd.Body == nil {
			continue
		}
		fn := &Function{
			Name:       fd.Name.Value,
			Parameters: fd.Parameters,
			ReturnType: typesystem.Void,
			Body:       fd.Body,
			Env:        e.Globals,
			Line:       fd.Token.Line,
			Column:     fd.Token.Column,
		}
		for _, p := range fd.Parameters {
			var t typesystem.Type = typesystem.Unknown
			if p != nil && p.Type != nil {
				t = e.resolveType(p.Type.Name)
			}
			fn.ParamTypes = append(fn.ParamTypes, t)
		}
		if fd.ReturnType != nil {
			fn.ReturnType = e.resolveType(fd.ReturnType.Name)
		}
		e.Globals.Set(fn.Name, fn)
	}
}

// DefineSignals records the declared signals emit_signal may use.
func (e *Evaluator) DefineSignals(signals []ast.SignalInfo) {
	e.signals = make(map[string]ast.SignalInfo, len(signals))
	for _, s := range signals {
		e.signals[s.Name] = s
	}
}

// Struct returns a struct definition by name.
func (e *Evaluator) Struct(name string) (*typesystem.StructDef, bool) {
	def, ok := e.structs[name]
	return def, ok
}
