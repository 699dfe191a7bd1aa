package typesystem

import "github.com/funvibe/glint/internal/config"

type Field struct {
	Name string
	Type Type
}

// StructDef describes a struct type. Field order is declaration order.
type StructDef struct {
	Name    string
	Fields  []Field
	Builtin bool
}

func (d *StructDef) Type() Type {
	return TCon{Name: d.Name}
}

// Field returns the named field and its index.
func (d *StructDef) Field(name string) (Field, int, bool) {
	for i, f := range d.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return Field{}, -1, false
}

// BuiltinStructs are the geometry types every program can use.
var BuiltinStructs = []*StructDef{
	{
		Name:    config.Vector2TypeName,
		Fields:  []Field{{"x", Float}, {"y", Float}},
		Builtin: true,
	},
	{
		Name:    config.ColorTypeName,
		Fields:  []Field{{"r", Float}, {"g", Float}, {"b", Float}, {"a", Float}},
		Builtin: true,
	},
	{
		Name:    config.Rect2TypeName,
		Fields:  []Field{{"position", Vector2}, {"size", Vector2}},
		Builtin: true,
	},
	{
		Name:    config.Transform2DTypeName,
		Fields:  []Field{{"position", Vector2}, {"rotation", Float}, {"scale", Vector2}},
		Builtin: true,
	},
}

// LookupBuiltinStruct finds a geometry type by name.
func LookupBuiltinStruct(name string) (*StructDef, bool) {
	for _, d := range BuiltinStructs {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}
