package evaluator

import (
	"github.com/funvibe/glint/internal/typesystem"
)

type ObjectType string

const (
	INTEGER_OBJ         = "INTEGER"
	FLOAT_OBJ           = "FLOAT"
	BOOLEAN_OBJ         = "BOOLEAN"
	STRING_OBJ          = "STRING"
	NIL_OBJ             = "NIL"
	STRUCT_OBJ          = "STRUCT"
	FUNCTION_OBJ        = "FUNCTION"
	BUILTIN_OBJ         = "BUILTIN"
	ERROR_OBJ           = "ERROR"
	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
)

// Object is a runtime value. Values are immutable: updating a struct field
// produces a new StructInstance, which gives structs value semantics.
type Object interface {
	Type() ObjectType
	Inspect() string
	RuntimeType() typesystem.Type // Returns the type system representation
}
