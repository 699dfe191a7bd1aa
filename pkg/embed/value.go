package glint

import (
	"strconv"
	"strings"

	"github.com/funvibe/glint/internal/prettyprinter"
)

// Kind names the variant of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindVector2
	KindColor
	KindRect2
	KindTransform2D
	KindStruct
)

var kindNames = [...]string{"nil", "i32", "f32", "bool", "String", "Vector2", "Color", "Rect2", "Transform2D", "struct"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a script value crossing the embedding boundary. The set of
// implementations is closed.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

type (
	Int    int32
	Float  float32
	Bool   bool
	String string
	Nil    struct{}
)

type Vector2 struct {
	X, Y float32
}

type Color struct {
	R, G, B, A float32
}

type Rect2 struct {
	Position, Size Vector2
}

type Transform2D struct {
	Position Vector2
	Rotation float32
	Scale    Vector2
}

// Struct is an instance of a user-declared struct. Fields are in
// declaration order.
type Struct struct {
	Name   string
	Fields []Field
}

type Field struct {
	Name  string
	Value Value
}

func (Int) Kind() Kind         { return KindInt }
func (Float) Kind() Kind       { return KindFloat }
func (Bool) Kind() Kind        { return KindBool }
func (String) Kind() Kind      { return KindString }
func (Nil) Kind() Kind         { return KindNil }
func (Vector2) Kind() Kind     { return KindVector2 }
func (Color) Kind() Kind       { return KindColor }
func (Rect2) Kind() Kind       { return KindRect2 }
func (Transform2D) Kind() Kind { return KindTransform2D }
func (Struct) Kind() Kind      { return KindStruct }

func (Int) isValue()         {}
func (Float) isValue()       {}
func (Bool) isValue()        {}
func (String) isValue()      {}
func (Nil) isValue()         {}
func (Vector2) isValue()     {}
func (Color) isValue()       {}
func (Rect2) isValue()       {}
func (Transform2D) isValue() {}
func (Struct) isValue()      {}

func (v Int) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string  { return prettyprinter.FormatFloat(float64(v)) }
func (v Bool) String() string   { return strconv.FormatBool(bool(v)) }
func (v String) String() string { return string(v) }
func (Nil) String() string      { return "nil" }

func ff(f float32) string { return prettyprinter.FormatFloat(float64(f)) }

func (v Vector2) String() string {
	return "Vector2 { x: " + ff(v.X) + ", y: " + ff(v.Y) + " }"
}

func (v Color) String() string {
	return "Color { r: " + ff(v.R) + ", g: " + ff(v.G) + ", b: " + ff(v.B) + ", a: " + ff(v.A) + " }"
}

func (v Rect2) String() string {
	return "Rect2 { position: " + v.Position.String() + ", size: " + v.Size.String() + " }"
}

func (v Transform2D) String() string {
	return "Transform2D { position: " + v.Position.String() + ", rotation: " + ff(v.Rotation) +
		", scale: " + v.Scale.String() + " }"
}

func (v Struct) String() string {
	var sb strings.Builder
	sb.WriteString(v.Name)
	sb.WriteString(" { ")
	for i, f := range v.Fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		if s, ok := f.Value.(String); ok {
			sb.WriteString(prettyprinter.Quote(string(s)))
		} else {
			sb.WriteString(f.Value.String())
		}
	}
	sb.WriteString(" }")
	return sb.String()
}

// Field returns the value of a named field.
func (v Struct) Field(name string) (Value, bool) {
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}
