package analyzer

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/symbols"
	"github.com/funvibe/glint/internal/typesystem"
)

// declareStructs registers every struct name first so fields may refer to
// structs declared later in the file, then resolves field types.
func (w *walker) declareStructs(program *ast.Program) {
	var declared []*typesystem.StructDef
	var nodes []*ast.StructDeclaration
	for _, sd := range program.Structs() {
		if sd.Name == nil {
			continue
		}
		name := sd.Name.Value
		if w.nameTaken(name) {
			w.addError(diagnostics.ErrA211, sd.Name.Token, name)
			continue
		}
		def := &typesystem.StructDef{Name: name}
		w.globals.DefineStruct(def)
		declared = append(declared, def)
		nodes = append(nodes, sd)
	}

	for i, def := range declared {
		seen := make(map[string]bool)
		for _, f := range nodes[i].Fields {
			if f == nil || f.Name == nil {
				continue
			}
			if seen[f.Name.Value] {
				w.addError(diagnostics.ErrA211, f.Name.Token, f.Name.Value)
				continue
			}
			seen[f.Name.Value] = true
			ft := w.resolveValueType(f.Type)
			if ft.Equal(def.Type()) {
				// A struct cannot contain itself by value.
				w.addError(diagnostics.ErrA200, f.Type.Token, "a value type", def.Name)
				ft = typesystem.Unknown
			}
			def.Fields = append(def.Fields, typesystem.Field{Name: f.Name.Value, Type: ft})
		}
	}
}

func (w *walker) declareSignals(program *ast.Program) {
	for _, sd := range program.Signals() {
		if sd.Name == nil {
			continue
		}
		name := sd.Name.Value
		if _, exists := w.globals.LookupSignal(name); exists {
			w.addError(diagnostics.ErrS301, sd.Name.Token, name)
			continue
		}
		sig := &symbols.Signal{Name: name, Node: sd}
		info := ast.SignalInfo{Name: name, Params: []ast.SignalParam{}}
		seen := make(map[string]bool)
		for _, p := range sd.Parameters {
			if p == nil || p.Name == nil {
				continue
			}
			if seen[p.Name.Value] {
				w.addError(diagnostics.ErrA211, p.Name.Token, p.Name.Value)
				continue
			}
			seen[p.Name.Value] = true
			pt := w.resolveValueType(p.Type)
			sig.Params = append(sig.Params, typesystem.Field{Name: p.Name.Value, Type: pt})
			info.Params = append(info.Params, ast.SignalParam{Name: p.Name.Value, Type: pt.String()})
		}
		w.globals.DefineSignal(sig)
		w.signalInfos = append(w.signalInfos, info)
	}
}

func (w *walker) declareFunctions(program *ast.Program) {
	for _, fd := range program.Functions() {
		if fd.Name == nil {
			continue
		}
		name := fd.Name.Value
		if w.nameTaken(name) {
			w.addError(diagnostics.ErrA211, fd.Name.Token, name)
			continue
		}
		sig := typesystem.TFunc{ReturnType: typesystem.Void}
		for _, p := range fd.Parameters {
			if p == nil {
				sig.Params = append(sig.Params, typesystem.Unknown)
				continue
			}
			sig.Params = append(sig.Params, w.resolveValueType(p.Type))
		}
		if fd.ReturnType != nil {
			sig.ReturnType = w.resolveType(fd.ReturnType)
		}
		w.globals.Define(symbols.Symbol{Name: name, Type: sig, Kind: symbols.FunctionSymbol, DefinitionNode: fd})
	}
}

// nameTaken reports whether a global-level name is already bound, either
// by this program or by the prelude.
func (w *walker) nameTaken(name string) bool {
	_, ok := w.globals.Find(name)
	return ok
}

// analyzeGlobal checks one top-level let. Globals are visible to the
// initializers that follow them and to every function body.
func (w *walker) analyzeGlobal(ls *ast.LetStatement) {
	if ls == nil || ls.Name == nil {
		return
	}
	name := ls.Name.Value

	if ls.Export != nil && w.exported[name] {
		w.addError(diagnostics.ErrE801, ls.Name.Token, name)
		return
	}
	if w.nameTaken(name) {
		w.addError(diagnostics.ErrA211, ls.Name.Token, name)
		return
	}

	declType, ok := w.checkLetTypes(ls)
	w.globals.Define(symbols.Symbol{
		Name:           name,
		Type:           declType,
		Kind:           symbols.VariableSymbol,
		Mutable:        ls.Mutable,
		Exported:       ls.Export != nil,
		DefinitionNode: ls,
	})

	if ls.Export != nil {
		w.exported[name] = true
		if ok {
			w.validateExport(ls, declType)
		}
	}
}

// checkLetTypes resolves the annotation, infers the initializer and checks
// that they agree. It returns the binding's type and whether no type error
// was reported for this declaration.
func (w *walker) checkLetTypes(ls *ast.LetStatement) (typesystem.Type, bool) {
	before := len(w.errors)

	var annotated typesystem.Type
	if ls.TypeAnnotation != nil {
		annotated = w.resolveValueType(ls.TypeAnnotation)
	}
	valueType := typesystem.Unknown
	if ls.Value != nil {
		valueType = w.inferExpression(ls.Value)
	}
	if valueType.Equal(typesystem.Void) {
		w.addError(diagnostics.ErrA200, ls.Value.GetToken(), "a value", "void")
		valueType = typesystem.Unknown
	}

	declType := valueType
	if annotated != nil {
		declType = annotated
		if !typesystem.AssignableTo(valueType, annotated) {
			w.addError(diagnostics.ErrA200, ls.Value.GetToken(), annotated, valueType)
		}
	}
	return declType, len(w.errors) == before && !typesystem.IsUnknown(declType)
}
