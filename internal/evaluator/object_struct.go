package evaluator

import (
	"strings"

	"github.com/funvibe/glint/internal/prettyprinter"
	"github.com/funvibe/glint/internal/typesystem"
)

// StructInstance is a value of a user struct or a geometry type. Fields
// are stored in declaration order.
type StructInstance struct {
	Def    *typesystem.StructDef
	Fields []Object
}

func (s *StructInstance) Type() ObjectType             { return STRUCT_OBJ }
func (s *StructInstance) RuntimeType() typesystem.Type { return s.Def.Type() }

func (s *StructInstance) Inspect() string {
	var sb strings.Builder
	sb.WriteString(s.Def.Name)
	sb.WriteString(" { ")
	for i, f := range s.Def.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(inspectNested(s.Fields[i]))
	}
	sb.WriteString(" }")
	return sb.String()
}

// inspectNested quotes strings so nested output reads as Glint source.
func inspectNested(obj Object) string {
	if s, ok := obj.(*String); ok {
		return prettyprinter.Quote(s.Value)
	}
	return obj.Inspect()
}

func (s *StructInstance) Get(name string) (Object, bool) {
	_, i, ok := s.Def.Field(name)
	if !ok {
		return nil, false
	}
	return s.Fields[i], true
}

// With returns a copy of s with one field replaced. Integers stored into
// f32 fields are widened.
func (s *StructInstance) With(name string, value Object) (*StructInstance, bool) {
	f, i, ok := s.Def.Field(name)
	if !ok {
		return nil, false
	}
	fields := make([]Object, len(s.Fields))
	copy(fields, s.Fields)
	fields[i] = coerceTo(value, f.Type)
	return &StructInstance{Def: s.Def, Fields: fields}, true
}

func (s *StructInstance) Equal(other *StructInstance) bool {
	if s.Def.Name != other.Def.Name || len(s.Fields) != len(other.Fields) {
		return false
	}
	for i := range s.Fields {
		if !objectsEqual(s.Fields[i], other.Fields[i]) {
			return false
		}
	}
	return true
}

func lookupGeometry(name string) *typesystem.StructDef {
	def, _ := typesystem.LookupBuiltinStruct(name)
	return def
}

func NewVector2(x, y float32) *StructInstance {
	return &StructInstance{Def: lookupGeometry("Vector2"), Fields: []Object{&Float{Value: x}, &Float{Value: y}}}
}

func NewColor(r, g, b, a float32) *StructInstance {
	return &StructInstance{Def: lookupGeometry("Color"), Fields: []Object{
		&Float{Value: r}, &Float{Value: g}, &Float{Value: b}, &Float{Value: a},
	}}
}

func NewRect2(position, size *StructInstance) *StructInstance {
	return &StructInstance{Def: lookupGeometry("Rect2"), Fields: []Object{position, size}}
}

func NewTransform2D(position *StructInstance, rotation float32, scale *StructInstance) *StructInstance {
	return &StructInstance{Def: lookupGeometry("Transform2D"), Fields: []Object{position, &Float{Value: rotation}, scale}}
}

// FloatField reads an f32 field. It returns false for any other shape.
func (s *StructInstance) FloatField(name string) (float32, bool) {
	v, ok := s.Get(name)
	if !ok {
		return 0, false
	}
	f, ok := v.(*Float)
	if !ok {
		return 0, false
	}
	return f.Value, true
}

// StructField reads a nested struct field.
func (s *StructInstance) StructField(name string) (*StructInstance, bool) {
	v, ok := s.Get(name)
	if !ok {
		return nil, false
	}
	inner, ok := v.(*StructInstance)
	return inner, ok
}

// Vector2Components unpacks a Vector2.
func Vector2Components(obj Object) (x, y float32, ok bool) {
	s, isStruct := obj.(*StructInstance)
	if !isStruct || s.Def.Name != "Vector2" {
		return 0, 0, false
	}
	x, okX := s.FloatField("x")
	y, okY := s.FloatField("y")
	return x, y, okX && okY
}
