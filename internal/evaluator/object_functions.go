package evaluator

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/typesystem"
)

// Function is a script function. Every function closes over the global
// environment only.
type Function struct {
	Name       string
	Parameters []*ast.Parameter
	ParamTypes []typesystem.Type
	ReturnType typesystem.Type
	Body       *ast.BlockStatement
	Env        *Environment
	Line       int
	Column     int
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "fn " + f.Name }
func (f *Function) RuntimeType() typesystem.Type {
	return typesystem.TFunc{Params: f.ParamTypes, ReturnType: f.ReturnType}
}

// Builtin Function
type BuiltinFunction func(e *Evaluator, args ...Object) Object

type Builtin struct {
	Fn       BuiltinFunction
	Name     string          // Name of the builtin
	TypeInfo typesystem.TFunc // Declared signature, used for argument coercion
}

func (b *Builtin) Type() ObjectType             { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string              { return "builtin " + b.Name }
func (b *Builtin) RuntimeType() typesystem.Type { return b.TypeInfo }
