package evaluator

import (
	"strconv"

	"github.com/funvibe/glint/internal/prettyprinter"
	"github.com/funvibe/glint/internal/typesystem"
)

// Integer is an i32.
type Integer struct {
	Value int32
}

func (i *Integer) Type() ObjectType             { return INTEGER_OBJ }
func (i *Integer) Inspect() string              { return strconv.FormatInt(int64(i.Value), 10) }
func (i *Integer) RuntimeType() typesystem.Type { return typesystem.Int }

// Float is an f32.
type Float struct {
	Value float32
}

func (f *Float) Type() ObjectType             { return FLOAT_OBJ }
func (f *Float) Inspect() string              { return prettyprinter.FormatFloat(float64(f.Value)) }
func (f *Float) RuntimeType() typesystem.Type { return typesystem.Float }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType             { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string              { return strconv.FormatBool(b.Value) }
func (b *Boolean) RuntimeType() typesystem.Type { return typesystem.Bool }

type String struct {
	Value string
}

func (s *String) Type() ObjectType             { return STRING_OBJ }
func (s *String) Inspect() string              { return s.Value }
func (s *String) RuntimeType() typesystem.Type { return typesystem.String }

// Nil is the result of statements and void calls.
type Nil struct{}

func (n *Nil) Type() ObjectType             { return NIL_OBJ }
func (n *Nil) Inspect() string              { return "nil" }
func (n *Nil) RuntimeType() typesystem.Type { return typesystem.Void }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NIL   = &Nil{}
)

func nativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}
