package config

const SourceFileExt = ".glint"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".glint", ".gl"}

// Built-in function names
const (
	PrintFuncName          = "print"
	EmitSignalFuncName     = "emit_signal"
	SqrtFuncName           = "sqrt"
	AbsFuncName            = "abs"
	FloorFuncName          = "floor"
	MinFuncName            = "min"
	MaxFuncName            = "max"
	ClampFuncName          = "clamp"
	LerpFuncName           = "lerp"
	ToIntFuncName          = "to_int"
	ToFloatFuncName        = "to_float"
	ToStringFuncName       = "to_string"
	LenFuncName            = "len"
	Vec2LengthFuncName     = "vec2_length"
	Vec2NormalizedFuncName = "vec2_normalized"
	RectHasPointFuncName   = "rect_has_point"
	TransformPointFuncName = "transform_point"
)

// Built-in type names
const (
	IntTypeName         = "i32"
	FloatTypeName       = "f32"
	BoolTypeName        = "bool"
	StringTypeName      = "String"
	VoidTypeName        = "void"
	Vector2TypeName     = "Vector2"
	ColorTypeName       = "Color"
	Rect2TypeName       = "Rect2"
	Transform2DTypeName = "Transform2D"
)

// Export hint names, recognized only inside @export(...)
const (
	RangeHintName = "range"
	FileHintName  = "file"
	EnumHintName  = "enum"
)

// ExportableTypes is the allow-list of types an exported property may have.
var ExportableTypes = []string{
	IntTypeName, FloatTypeName, BoolTypeName, StringTypeName,
	Vector2TypeName, ColorTypeName, Rect2TypeName, Transform2DTypeName,
}

// Limits
const (
	DefaultMaxParseDepth  = 256
	DefaultMaxCallDepth   = 512
	DefaultIntRangeStep   = 1.0
	DefaultFloatRangeStep = 0.01
)
