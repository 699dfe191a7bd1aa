package symbols

import (
	"sort"

	"github.com/funvibe/glint/internal/typesystem"
)

// SymbolTable is one lexical scope. Lookups fall through to outer scopes;
// the outermost table is the shared prelude.
type SymbolTable struct {
	store     map[string]Symbol
	structs   map[string]*typesystem.StructDef
	signals   map[string]*Signal
	outer     *SymbolTable
	scopeType ScopeType
}

func NewEmptySymbolTable() *SymbolTable {
	return &SymbolTable{
		store:     make(map[string]Symbol),
		structs:   make(map[string]*typesystem.StructDef),
		signals:   make(map[string]*Signal),
		scopeType: ScopeGlobal,
	}
}

// NewSymbolTable creates a global scope that inherits from the prelude.
func NewSymbolTable() *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = GetPrelude()
	return st
}

func NewEnclosedSymbolTable(outer *SymbolTable, scopeType ScopeType) *SymbolTable {
	st := NewEmptySymbolTable()
	st.outer = outer
	st.scopeType = scopeType
	return st
}

// Outer returns the outer scope symbol table
func (s *SymbolTable) Outer() *SymbolTable {
	return s.outer
}

func (s *SymbolTable) ScopeType() ScopeType {
	return s.scopeType
}

func (s *SymbolTable) Define(sym Symbol) {
	s.store[sym.Name] = sym
}

func (s *SymbolTable) DefineVariable(name string, t typesystem.Type, mutable bool) {
	s.store[name] = Symbol{Name: name, Type: t, Kind: VariableSymbol, Mutable: mutable}
}

func (s *SymbolTable) FindWithScope(name string) (Symbol, *SymbolTable, bool) {
	if sym, ok := s.store[name]; ok {
		return sym, s, true
	}
	if s.outer != nil {
		return s.outer.FindWithScope(name)
	}
	return Symbol{}, nil, false
}

func (s *SymbolTable) Find(name string) (Symbol, bool) {
	sym, _, ok := s.FindWithScope(name)
	return sym, ok
}

func (s *SymbolTable) IsDefinedLocally(name string) bool {
	_, ok := s.store[name]
	return ok
}

// Names returns the names defined in this scope, sorted.
func (s *SymbolTable) Names() []string {
	names := make([]string, 0, len(s.store))
	for name := range s.store {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *SymbolTable) DefineStruct(def *typesystem.StructDef) {
	s.structs[def.Name] = def
	s.store[def.Name] = Symbol{Name: def.Name, Type: def.Type(), Kind: TypeSymbol}
}

func (s *SymbolTable) LookupStruct(name string) (*typesystem.StructDef, bool) {
	if def, ok := s.structs[name]; ok {
		return def, true
	}
	if s.outer != nil {
		return s.outer.LookupStruct(name)
	}
	return nil, false
}

// ResolveType maps a type name from an annotation to a type.
func (s *SymbolTable) ResolveType(name string) (typesystem.Type, bool) {
	if t, ok := typesystem.Primitive(name); ok {
		return t, true
	}
	if def, ok := s.LookupStruct(name); ok {
		return def.Type(), true
	}
	return nil, false
}

func (s *SymbolTable) DefineSignal(sig *Signal) {
	s.signals[sig.Name] = sig
}

func (s *SymbolTable) LookupSignal(name string) (*Signal, bool) {
	if sig, ok := s.signals[name]; ok {
		return sig, true
	}
	if s.outer != nil {
		return s.outer.LookupSignal(name)
	}
	return nil, false
}
