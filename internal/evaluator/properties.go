package evaluator

import (
	"math"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/typesystem"
)

// Warning is a non-fatal runtime condition, such as a script storing a value
// outside its declared range.
type Warning struct {
	Code     diagnostics.ErrorCode
	Property string
	Message  string
}

type WarningHandler func(Warning)

// PropertyStore holds the values of exported globals. Metadata is shared
// with the compiled program and never modified here.
type PropertyStore struct {
	order  []string
	meta   map[string]ast.PropertyMetadata
	types  map[string]typesystem.Type
	values map[string]Object
}

func NewPropertyStore(props []ast.PropertyMetadata) *PropertyStore {
	s := &PropertyStore{
		meta:   make(map[string]ast.PropertyMetadata, len(props)),
		types:  make(map[string]typesystem.Type, len(props)),
		values: make(map[string]Object, len(props)),
	}
	for _, p := range props {
		s.order = append(s.order, p.Name)
		s.meta[p.Name] = p
		s.types[p.Name] = exportType(p.Type)
	}
	return s
}

func exportType(name string) typesystem.Type {
	if t, ok := typesystem.Primitive(name); ok {
		return t
	}
	if def, ok := typesystem.LookupBuiltinStruct(name); ok {
		return def.Type()
	}
	return typesystem.Unknown
}

func (s *PropertyStore) Get(name string) (Object, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *PropertyStore) Metadata(name string) (ast.PropertyMetadata, bool) {
	m, ok := s.meta[name]
	return m, ok
}

// Names lists the properties in declaration order.
func (s *PropertyStore) Names() []string {
	return append([]string(nil), s.order...)
}

func (s *PropertyStore) Len() int { return len(s.order) }

// seed stores an initial value without hint processing.
func (s *PropertyStore) seed(name string, value Object) {
	s.values[name] = coerceTo(value, s.types[name])
}

// Set validates and stores a value. Editor writes are clamped to a range
// hint; script writes are stored as given and report a warning when out of
// range. A rejected write leaves the stored value unchanged.
func (s *PropertyStore) Set(name string, value Object, fromEditor bool) (Object, *Warning, *Error) {
	meta, ok := s.meta[name]
	if !ok {
		return nil, nil, newError(diagnostics.ErrR406, name)
	}
	if meta.ReadOnly() {
		return nil, nil, newError(diagnostics.ErrR407, "property '"+name+"' is read-only")
	}
	t := s.types[name]
	value = coerceTo(value, t)
	if !typeMatches(value, t) {
		return nil, nil, newError(diagnostics.ErrR407,
			"property '"+name+"' expects "+t.String()+", got "+value.RuntimeType().String())
	}

	var warn *Warning
	if meta.Hint.Kind == ast.HintRange {
		if f, ok := value.(*Float); ok && !isFinite(f.Value) {
			return nil, nil, newError(diagnostics.ErrR404, name, f.Inspect())
		}
		if fromEditor {
			value = clampToHint(value, meta.Hint)
		} else if !inHint(value, meta.Hint) {
			d := diagnostics.DiagnosticError{Code: diagnostics.WarnW451, Args: []interface{}{
				value.Inspect(), name, ast.FormatNumber(meta.Hint.Min), ast.FormatNumber(meta.Hint.Max),
			}}
			warn = &Warning{Code: diagnostics.WarnW451, Property: name, Message: d.Message()}
		}
	}

	s.values[name] = value
	return value, warn, nil
}

func isFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// inHint compares f32 values against the bounds rounded to f32, so a bound
// that is not exactly representable still contains itself.
func inHint(value Object, h ast.PropertyHint) bool {
	switch v := value.(type) {
	case *Integer:
		return h.Contains(float64(v.Value))
	case *Float:
		return v.Value >= float32(h.Min) && v.Value <= float32(h.Max)
	}
	return true
}

func clampToHint(value Object, h ast.PropertyHint) Object {
	switch v := value.(type) {
	case *Integer:
		return &Integer{Value: int32(h.Clamp(float64(v.Value)))}
	case *Float:
		return &Float{Value: min(max(v.Value, float32(h.Min)), float32(h.Max))}
	}
	return value
}

// GetProperty reads an exported property.
func (e *Evaluator) GetProperty(name string) (Object, *Error) {
	if v, ok := e.Properties.Get(name); ok {
		return v, nil
	}
	return nil, newError(diagnostics.ErrR406, name)
}

// SetProperty writes an exported property and reports any warning.
func (e *Evaluator) SetProperty(name string, value Object, fromEditor bool) (Object, *Error) {
	stored, warn, err := e.Properties.Set(name, value, fromEditor)
	if err != nil {
		return nil, err
	}
	if warn != nil {
		e.emitWarning(*warn)
	}
	return stored, nil
}

func (e *Evaluator) emitWarning(w Warning) {
	e.Logger.Warn(w.Message, "code", w.Code.String(), "property", w.Property)
	if e.OnWarning != nil {
		e.OnWarning(w)
	}
}
