package typesystem

import (
	"strings"

	"github.com/funvibe/glint/internal/config"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
	Equal(other Type) bool
}

// TCon represents a named type: a primitive or a struct.
type TCon struct {
	Name string
}

func (t TCon) String() string { return t.Name }

func (t TCon) Equal(other Type) bool {
	o, ok := other.(TCon)
	return ok && o.Name == t.Name
}

// TFunc is the type of a function or builtin.
type TFunc struct {
	Params     []Type
	ReturnType Type
	// Variadic functions accept any number of arguments of the last
	// parameter type.
	Variadic bool
}

func (t TFunc) String() string {
	var sb strings.Builder
	sb.WriteString("fn(")
	for i, p := range t.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	if t.Variadic {
		sb.WriteString("...")
	}
	sb.WriteString(") -> ")
	sb.WriteString(t.ReturnType.String())
	return sb.String()
}

func (t TFunc) Equal(other Type) bool {
	o, ok := other.(TFunc)
	if !ok || len(o.Params) != len(t.Params) || o.Variadic != t.Variadic {
		return false
	}
	for i := range t.Params {
		if !t.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return t.ReturnType.Equal(o.ReturnType)
}

// TAny accepts a value of every type. Only builtin parameters use it.
type TAny struct{}

func (TAny) String() string { return "any" }
func (TAny) Equal(other Type) bool {
	_, ok := other.(TAny)
	return ok
}

// TUnknown is the type of an expression that failed to check. It is
// compatible with everything so one mistake is reported once.
type TUnknown struct{}

func (TUnknown) String() string { return "<unknown>" }
func (TUnknown) Equal(other Type) bool {
	_, ok := other.(TUnknown)
	return ok
}

var (
	Int         = TCon{Name: config.IntTypeName}
	Float       = TCon{Name: config.FloatTypeName}
	Bool        = TCon{Name: config.BoolTypeName}
	String      = TCon{Name: config.StringTypeName}
	Void        = TCon{Name: config.VoidTypeName}
	Vector2     = TCon{Name: config.Vector2TypeName}
	Color       = TCon{Name: config.ColorTypeName}
	Rect2       = TCon{Name: config.Rect2TypeName}
	Transform2D = TCon{Name: config.Transform2DTypeName}

	Any     Type = TAny{}
	Unknown Type = TUnknown{}
)

var primitives = map[string]Type{
	config.IntTypeName:    Int,
	config.FloatTypeName:  Float,
	config.BoolTypeName:   Bool,
	config.StringTypeName: String,
	config.VoidTypeName:   Void,
}

// Primitive returns the primitive type called name.
func Primitive(name string) (Type, bool) {
	t, ok := primitives[name]
	return t, ok
}

func IsUnknown(t Type) bool {
	_, ok := t.(TUnknown)
	return ok || t == nil
}

func IsNumeric(t Type) bool {
	return t.Equal(Int) || t.Equal(Float)
}

// AssignableTo reports whether a value of type from may be stored where to
// is expected. The only implicit conversion is i32 to f32.
func AssignableTo(from, to Type) bool {
	if IsUnknown(from) || IsUnknown(to) {
		return true
	}
	if _, ok := to.(TAny); ok {
		return !from.Equal(Void)
	}
	if from.Equal(to) {
		return true
	}
	return from.Equal(Int) && to.Equal(Float)
}

// NumericResult is the type of an arithmetic operation on a and b: i32 when
// both are i32, f32 when either is f32.
func NumericResult(a, b Type) (Type, bool) {
	if IsUnknown(a) || IsUnknown(b) {
		return Unknown, true
	}
	if !IsNumeric(a) || !IsNumeric(b) {
		return nil, false
	}
	if a.Equal(Int) && b.Equal(Int) {
		return Int, true
	}
	return Float, true
}

// IsExportable reports whether t may be the type of an exported property.
func IsExportable(t Type) bool {
	for _, name := range config.ExportableTypes {
		if t.String() == name {
			return true
		}
	}
	return false
}
