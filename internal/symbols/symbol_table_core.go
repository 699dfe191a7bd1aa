package symbols

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/typesystem"
)

type SymbolKind int

type ScopeType int

const (
	ScopePrelude ScopeType = iota // Built-in symbols (types, functions)
	ScopeGlobal                   // User code top-level
	ScopeFunction
	ScopeBlock
)

const (
	VariableSymbol SymbolKind = iota
	ParameterSymbol
	FunctionSymbol
	BuiltinSymbol
	TypeSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case VariableSymbol:
		return "variable"
	case ParameterSymbol:
		return "parameter"
	case FunctionSymbol:
		return "function"
	case BuiltinSymbol:
		return "builtin"
	case TypeSymbol:
		return "type"
	}
	return "symbol"
}

type Symbol struct {
	Name           string
	Type           typesystem.Type
	Kind           SymbolKind
	Mutable        bool
	Exported       bool
	DefinitionNode ast.Node // The AST node where this symbol was defined
}

// IsCallable reports whether the symbol names a function or builtin.
func (s Symbol) IsCallable() bool {
	return s.Kind == FunctionSymbol || s.Kind == BuiltinSymbol
}

// Signal is a declared signal with its ordered parameters.
type Signal struct {
	Name   string
	Params []typesystem.Field
	Node   *ast.SignalDeclaration
}
