package symbols

import (
	"sync"

	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/typesystem"
)

// Singleton prelude table containing all built-in symbols
var (
	preludeTable *SymbolTable
	preludeOnce  sync.Once
)

// GetPrelude returns the singleton prelude SymbolTable containing all built-in symbols.
// This table is shared across all compilation units and never modified after init.
func GetPrelude() *SymbolTable {
	preludeOnce.Do(func() {
		preludeTable = NewEmptySymbolTable()
		preludeTable.scopeType = ScopePrelude
		preludeTable.InitBuiltins()
	})
	return preludeTable
}

func fn(ret typesystem.Type, params ...typesystem.Type) typesystem.TFunc {
	return typesystem.TFunc{Params: params, ReturnType: ret}
}

var (
	f32 = typesystem.Float
	i32 = typesystem.Int
)

// builtinSignatures is shared by the type checker and the evaluator.
var builtinSignatures = map[string]typesystem.TFunc{
	config.PrintFuncName: {Params: []typesystem.Type{typesystem.Any}, ReturnType: typesystem.Void, Variadic: true},
	// The first argument must be a string literal naming a declared signal;
	// the rest are checked against the signal declaration.
	config.EmitSignalFuncName: {Params: []typesystem.Type{typesystem.String, typesystem.Any}, ReturnType: typesystem.Void, Variadic: true},

	config.SqrtFuncName:           fn(f32, f32),
	config.AbsFuncName:            fn(f32, f32),
	config.FloorFuncName:          fn(f32, f32),
	config.MinFuncName:            fn(f32, f32, f32),
	config.MaxFuncName:            fn(f32, f32, f32),
	config.ClampFuncName:          fn(f32, f32, f32, f32),
	config.LerpFuncName:           fn(f32, f32, f32, f32),
	config.ToIntFuncName:          fn(i32, f32),
	config.ToFloatFuncName:        fn(f32, i32),
	config.ToStringFuncName:       fn(typesystem.String, typesystem.Any),
	config.LenFuncName:            fn(i32, typesystem.String),
	config.Vec2LengthFuncName:     fn(f32, typesystem.Vector2),
	config.Vec2NormalizedFuncName: fn(typesystem.Vector2, typesystem.Vector2),
	config.RectHasPointFuncName:   fn(typesystem.Bool, typesystem.Rect2, typesystem.Vector2),
	config.TransformPointFuncName: fn(typesystem.Vector2, typesystem.Transform2D, typesystem.Vector2),
}

// BuiltinSignature returns the declared signature of a builtin function.
func BuiltinSignature(name string) (typesystem.TFunc, bool) {
	sig, ok := builtinSignatures[name]
	return sig, ok
}

// BuiltinNames lists every builtin function.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtinSignatures))
	for name := range builtinSignatures {
		names = append(names, name)
	}
	return names
}

func (st *SymbolTable) InitBuiltins() {
	for _, name := range []string{
		config.IntTypeName, config.FloatTypeName, config.BoolTypeName, config.StringTypeName, config.VoidTypeName,
	} {
		t, _ := typesystem.Primitive(name)
		st.Define(Symbol{Name: name, Type: t, Kind: TypeSymbol})
	}
	for _, def := range typesystem.BuiltinStructs {
		st.DefineStruct(def)
	}
	for name, sig := range builtinSignatures {
		st.Define(Symbol{Name: name, Type: sig, Kind: BuiltinSymbol})
	}
}
