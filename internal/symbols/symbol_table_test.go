package symbols

import (
	"testing"

	"github.com/funvibe/glint/internal/typesystem"
)

func TestScopesShadowAndFallThrough(t *testing.T) {
	global := NewSymbolTable()
	global.DefineVariable("speed", typesystem.Float, true)

	fnScope := NewEnclosedSymbolTable(global, ScopeFunction)
	fnScope.Define(Symbol{Name: "delta", Type: typesystem.Float, Kind: ParameterSymbol})
	block := NewEnclosedSymbolTable(fnScope, ScopeBlock)
	block.DefineVariable("speed", typesystem.Int, false)

	sym, scope, ok := block.FindWithScope("speed")
	if !ok || scope != block || !sym.Type.Equal(typesystem.Int) || sym.Mutable {
		t.Fatalf("inner speed not found first: %+v", sym)
	}
	if sym, ok := fnScope.Find("speed"); !ok || !sym.Type.Equal(typesystem.Float) || !sym.Mutable {
		t.Fatalf("outer speed wrong: %+v", sym)
	}
	if _, ok := block.Find("delta"); !ok {
		t.Error("parameter not visible in nested block")
	}
	if block.IsDefinedLocally("delta") {
		t.Error("delta is not local to the block")
	}
	if _, ok := global.Find("delta"); ok {
		t.Error("parameter leaked into global scope")
	}
}

func TestPreludeBuiltins(t *testing.T) {
	st := NewSymbolTable()
	sym, ok := st.Find("clamp")
	if !ok || sym.Kind != BuiltinSymbol || !sym.IsCallable() {
		t.Fatalf("clamp missing: %+v", sym)
	}
	sig := sym.Type.(typesystem.TFunc)
	if len(sig.Params) != 3 || !sig.ReturnType.Equal(typesystem.Float) {
		t.Errorf("clamp signature %s", sig)
	}
	if _, ok := BuiltinSignature("transform_point"); !ok {
		t.Error("transform_point has no signature")
	}
	if len(BuiltinNames()) != 17 {
		t.Errorf("expected 17 builtins, got %d", len(BuiltinNames()))
	}
}

func TestResolveType(t *testing.T) {
	st := NewSymbolTable()
	st.DefineStruct(&typesystem.StructDef{Name: "Enemy", Fields: []typesystem.Field{{Name: "hp", Type: typesystem.Int}}})

	for _, name := range []string{"i32", "f32", "bool", "String", "void", "Vector2", "Transform2D", "Enemy"} {
		if _, ok := st.ResolveType(name); !ok {
			t.Errorf("%s not resolved", name)
		}
	}
	if _, ok := st.ResolveType("int"); ok {
		t.Error("int is not a type")
	}
	if def, ok := NewEnclosedSymbolTable(st, ScopeBlock).LookupStruct("Vector2"); !ok || !def.Builtin {
		t.Error("geometry struct not visible from nested scope")
	}
}

func TestSignals(t *testing.T) {
	st := NewSymbolTable()
	st.DefineSignal(&Signal{Name: "hit", Params: []typesystem.Field{{Name: "amount", Type: typesystem.Int}}})
	inner := NewEnclosedSymbolTable(st, ScopeFunction)
	sig, ok := inner.LookupSignal("hit")
	if !ok || len(sig.Params) != 1 {
		t.Fatalf("signal lookup failed")
	}
	if _, ok := inner.LookupSignal("died"); ok {
		t.Error("unexpected signal")
	}
}
