package glint

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/evaluator"
	"github.com/funvibe/glint/internal/typesystem"
)

// Marshaller converts between Go values and Values.
//
// ToValue accepts Go integers (range-checked against i32), float32 and
// float64, bool, string, nil and any Value. FromValue returns the natural
// Go representation: int32, float32, bool, string, nil, or the Value itself
// for geometry types and structs. FromValue followed by ToValue gives back
// the original Value.
type Marshaller struct{}

func NewMarshaller() *Marshaller {
	return &Marshaller{}
}

// ToValue converts a Go value to a Value.
func (m *Marshaller) ToValue(val interface{}) (Value, error) {
	if val == nil {
		return Nil{}, nil
	}
	if v, ok := val.(Value); ok {
		return v, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := v.Int()
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("integer %d does not fit in i32", n)
		}
		return Int(n), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := v.Uint()
		if n > math.MaxInt32 {
			return nil, fmt.Errorf("integer %d does not fit in i32", n)
		}
		return Int(n), nil
	case reflect.Float32, reflect.Float64:
		return Float(v.Float()), nil
	case reflect.Bool:
		return Bool(v.Bool()), nil
	case reflect.String:
		return String(v.String()), nil
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return Nil{}, nil
		}
		return m.ToValue(v.Elem().Interface())
	}
	return nil, fmt.Errorf("unsupported Go type %s", v.Type())
}

// FromValue converts a Value to its Go representation.
func (m *Marshaller) FromValue(val Value) interface{} {
	switch v := val.(type) {
	case nil, Nil:
		return nil
	case Int:
		return int32(v)
	case Float:
		return float32(v)
	case Bool:
		return bool(v)
	case String:
		return string(v)
	}
	return val
}

// Decode stores val into the variable pointed to by target, converting
// between numeric kinds where no information is lost.
func (m *Marshaller) Decode(val Value, target interface{}) error {
	ptr := reflect.ValueOf(target)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", target)
	}
	out := ptr.Elem()

	if reflect.TypeOf(val) == out.Type() {
		out.Set(reflect.ValueOf(val))
		return nil
	}

	switch out.Kind() {
	case reflect.Int, reflect.Int32, reflect.Int64:
		if n, ok := val.(Int); ok {
			out.SetInt(int64(n))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch n := val.(type) {
		case Float:
			out.SetFloat(float64(n))
			return nil
		case Int:
			out.SetFloat(float64(n))
			return nil
		}
	case reflect.Bool:
		if b, ok := val.(Bool); ok {
			out.SetBool(bool(b))
			return nil
		}
	case reflect.String:
		if s, ok := val.(String); ok {
			out.SetString(string(s))
			return nil
		}
	case reflect.Interface:
		goVal := m.FromValue(val)
		if goVal == nil {
			out.Set(reflect.Zero(out.Type()))
			return nil
		}
		rv := reflect.ValueOf(goVal)
		if rv.Type().AssignableTo(out.Type()) {
			out.Set(rv)
			return nil
		}
	}
	return fmt.Errorf("cannot decode %s into %s", kindOf(val), out.Type())
}

func kindOf(val Value) string {
	if val == nil {
		return KindNil.String()
	}
	return val.Kind().String()
}

// toObject converts a Value into the runtime representation. structs
// resolves user struct definitions by name.
func toObject(val Value, structs func(string) (*typesystem.StructDef, bool)) (evaluator.Object, error) {
	switch v := val.(type) {
	case nil, Nil:
		return evaluator.NIL, nil
	case Int:
		return &evaluator.Integer{Value: int32(v)}, nil
	case Float:
		return &evaluator.Float{Value: float32(v)}, nil
	case Bool:
		return &evaluator.Boolean{Value: bool(v)}, nil
	case String:
		return &evaluator.String{Value: string(v)}, nil
	case Vector2:
		return evaluator.NewVector2(v.X, v.Y), nil
	case Color:
		return evaluator.NewColor(v.R, v.G, v.B, v.A), nil
	case Rect2:
		return evaluator.NewRect2(evaluator.NewVector2(v.Position.X, v.Position.Y), evaluator.NewVector2(v.Size.X, v.Size.Y)), nil
	case Transform2D:
		return evaluator.NewTransform2D(
			evaluator.NewVector2(v.Position.X, v.Position.Y), v.Rotation, evaluator.NewVector2(v.Scale.X, v.Scale.Y),
		), nil
	case Struct:
		def, ok := structs(v.Name)
		if !ok {
			return nil, fmt.Errorf("unknown struct type %s", v.Name)
		}
		if len(v.Fields) != len(def.Fields) {
			return nil, fmt.Errorf("struct %s has %d fields, got %d", v.Name, len(def.Fields), len(v.Fields))
		}
		fields := make([]evaluator.Object, len(def.Fields))
		for i, f := range def.Fields {
			fv, ok := v.Field(f.Name)
			if !ok {
				return nil, fmt.Errorf("struct %s: missing field %s", v.Name, f.Name)
			}
			obj, err := toObject(fv, structs)
			if err != nil {
				return nil, err
			}
			fields[i] = obj
		}
		return &evaluator.StructInstance{Def: def, Fields: fields}, nil
	}
	return nil, fmt.Errorf("unsupported value %T", val)
}

// fromObject converts a runtime value into a Value.
func fromObject(obj evaluator.Object) (Value, error) {
	switch o := obj.(type) {
	case nil, *evaluator.Nil:
		return Nil{}, nil
	case *evaluator.Integer:
		return Int(o.Value), nil
	case *evaluator.Float:
		return Float(o.Value), nil
	case *evaluator.Boolean:
		return Bool(o.Value), nil
	case *evaluator.String:
		return String(o.Value), nil
	case *evaluator.StructInstance:
		return fromStruct(o)
	}
	return nil, fmt.Errorf("value of type %s cannot leave the runtime", obj.RuntimeType())
}

func fromStruct(s *evaluator.StructInstance) (Value, error) {
	fields := make([]Field, len(s.Fields))
	for i, f := range s.Def.Fields {
		v, err := fromObject(s.Fields[i])
		if err != nil {
			return nil, err
		}
		fields[i] = Field{Name: f.Name, Value: v}
	}
	if !s.Def.Builtin {
		return Struct{Name: s.Def.Name, Fields: fields}, nil
	}

	st := Struct{Fields: fields}
	float := func(name string) float32 {
		v, _ := st.Field(name)
		f, _ := v.(Float)
		return float32(f)
	}
	vector := func(name string) Vector2 {
		v, _ := st.Field(name)
		vec, _ := v.(Vector2)
		return vec
	}
	switch s.Def.Name {
	case config.Vector2TypeName:
		return Vector2{X: float("x"), Y: float("y")}, nil
	case config.ColorTypeName:
		return Color{R: float("r"), G: float("g"), B: float("b"), A: float("a")}, nil
	case config.Rect2TypeName:
		return Rect2{Position: vector("position"), Size: vector("size")}, nil
	case config.Transform2DTypeName:
		return Transform2D{Position: vector("position"), Rotation: float("rotation"), Scale: vector("scale")}, nil
	}
	return Struct{Name: s.Def.Name, Fields: fields}, nil
}
