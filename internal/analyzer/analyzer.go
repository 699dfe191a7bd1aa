package analyzer

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/prettyprinter"
	"github.com/funvibe/glint/internal/symbols"
	"github.com/funvibe/glint/internal/token"
	"github.com/funvibe/glint/internal/typesystem"
)

// Analyzer performs semantic analysis on the AST.
type Analyzer struct {
	options     *config.Options
	symbolTable *symbols.SymbolTable
}

// Metadata is what the analyzer extracts for the embedding boundary.
type Metadata struct {
	Properties []ast.PropertyMetadata
	Signals    []ast.SignalInfo
}

// New creates an Analyzer. A nil options value means defaults.
func New(options *config.Options) *Analyzer {
	if options == nil {
		options = config.Default()
	}
	return &Analyzer{options: options}
}

// SymbolTable returns the global scope built by the last run.
func (a *Analyzer) SymbolTable() *symbols.SymbolTable {
	return a.symbolTable
}

// Analyze type-checks the program without extracting metadata.
func (a *Analyzer) Analyze(program *ast.Program) []*diagnostics.DiagnosticError {
	w := a.run(program, false)
	return w.finish()
}

// AnalyzeWithMetadata type-checks the program and builds PropertyMetadata
// for every exported global that passes validation, in declaration order.
func (a *Analyzer) AnalyzeWithMetadata(program *ast.Program) (*Metadata, []*diagnostics.DiagnosticError) {
	w := a.run(program, true)
	meta := &Metadata{Properties: w.properties, Signals: w.signalInfos}
	if meta.Properties == nil {
		meta.Properties = []ast.PropertyMetadata{}
	}
	if meta.Signals == nil {
		meta.Signals = []ast.SignalInfo{}
	}
	return meta, w.finish()
}

func (a *Analyzer) run(program *ast.Program, extract bool) *walker {
	w := newWalker(a.options, extract)
	a.symbolTable = w.globals
	if program == nil {
		return w
	}
	w.currentFile = program.File

	w.declareStructs(program)
	w.declareSignals(program)
	w.declareFunctions(program)
	for _, stmt := range program.Globals() {
		w.analyzeGlobal(stmt)
	}
	for _, fn := range program.Functions() {
		w.analyzeFunctionBody(fn)
	}
	return w
}

type fnContext struct {
	name       string
	returnType typesystem.Type
}

type walker struct {
	globals     *symbols.SymbolTable
	symbolTable *symbols.SymbolTable // current scope
	options     *config.Options
	errors      []*diagnostics.DiagnosticError
	currentFile string

	loopDepth int
	currentFn *fnContext

	extract     bool
	exported    map[string]bool
	properties  []ast.PropertyMetadata
	signalInfos []ast.SignalInfo
}

func newWalker(options *config.Options, extract bool) *walker {
	globals := symbols.NewSymbolTable()
	return &walker{
		globals:     globals,
		symbolTable: globals,
		options:     options,
		extract:     extract,
		exported:    make(map[string]bool),
	}
}

func (w *walker) addError(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	err := diagnostics.NewError(code, tok, args...)
	err.File = w.currentFile
	w.errors = append(w.errors, err)
}

func (w *walker) addWarning(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	err := diagnostics.NewWarning(code, tok, args...)
	err.File = w.currentFile
	w.errors = append(w.errors, err)
}

// finish applies WarningsAsErrors and returns the collected diagnostics.
func (w *walker) finish() []*diagnostics.DiagnosticError {
	if w.options.WarningsAsErrors {
		for _, e := range w.errors {
			e.Severity = diagnostics.SeverityError
		}
	}
	return w.errors
}

func (w *walker) pushScope(scopeType symbols.ScopeType) {
	w.symbolTable = symbols.NewEnclosedSymbolTable(w.symbolTable, scopeType)
}

func (w *walker) popScope() {
	w.symbolTable = w.symbolTable.Outer()
}

// resolveType maps an annotation to a type, reporting unknown names.
// Unknown names resolve to typesystem.Unknown.
func (w *walker) resolveType(ref *ast.TypeRef) typesystem.Type {
	if ref == nil {
		return typesystem.Unknown
	}
	t, ok := w.globals.ResolveType(ref.Name)
	if !ok {
		w.addError(diagnostics.ErrA205, ref.Token, ref.Name)
		return typesystem.Unknown
	}
	return t
}

// resolveValueType is resolveType for slots that hold a value, which
// excludes void.
func (w *walker) resolveValueType(ref *ast.TypeRef) typesystem.Type {
	t := w.resolveType(ref)
	if t.Equal(typesystem.Void) {
		w.addError(diagnostics.ErrA200, ref.Token, "a value type", "void")
		return typesystem.Unknown
	}
	return t
}

// fieldLookup adapts struct definitions for canonical default formatting.
func (w *walker) fieldLookup(name string) ([]prettyprinter.Field, bool) {
	def, ok := w.globals.LookupStruct(name)
	if !ok {
		return nil, false
	}
	fields := make([]prettyprinter.Field, len(def.Fields))
	for i, f := range def.Fields {
		fields[i] = prettyprinter.Field{Name: f.Name, Type: f.Type.String()}
	}
	return fields, true
}
