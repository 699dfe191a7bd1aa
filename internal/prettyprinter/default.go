package prettyprinter

import (
	"strconv"
	"strings"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
)

// Field is one declared struct field.
type Field struct {
	Name string
	Type string
}

// FieldLookup returns the declared fields of a struct type in order.
type FieldLookup func(typeName string) ([]Field, bool)

// FormatDefault serializes a constant default expression of type declType.
// The output is itself a Glint expression: integers in decimal, floats with a
// fractional part, strings NFC-quoted, struct literals with fields in
// declaration order. Negations of literals are folded.
func FormatDefault(expr ast.Expression, declType string, fields FieldLookup) string {
	var sb strings.Builder
	writeDefault(&sb, expr, declType, fields)
	return sb.String()
}

func writeDefault(sb *strings.Builder, expr ast.Expression, declType string, fields FieldLookup) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral, *ast.FloatLiteral, *ast.PrefixExpression:
		if s, ok := foldScalar(e, declType); ok {
			sb.WriteString(s)
			return
		}
	case *ast.BooleanLiteral:
		sb.WriteString(strconv.FormatBool(e.Value))
		return
	case *ast.StringLiteral:
		sb.WriteString(Quote(e.Value))
		return
	case *ast.StructLiteral:
		writeStructDefault(sb, e, fields)
		return
	}
	if expr != nil {
		sb.WriteString(Print(expr))
	}
}

func writeStructDefault(sb *strings.Builder, lit *ast.StructLiteral, fields FieldLookup) {
	name := lit.TypeName.Value
	var declared []Field
	ok := false
	if fields != nil {
		declared, ok = fields(name)
	}
	if !ok {
		for _, f := range lit.Fields {
			declared = append(declared, Field{Name: f.Name.Value})
		}
	}

	sb.WriteString(name)
	written := 0
	for _, f := range declared {
		value := lit.Field(f.Name)
		if value == nil {
			continue
		}
		if written == 0 {
			sb.WriteString(" { ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name + ": ")
		writeDefault(sb, value, f.Type, fields)
		written++
	}
	if written == 0 {
		sb.WriteString(" {}")
		return
	}
	sb.WriteString(" }")
}

// foldScalar evaluates a numeric or boolean literal with any number of
// prefix operators applied.
func foldScalar(expr ast.Expression, declType string) (string, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		if declType == config.FloatTypeName {
			return FormatFloat(float64(e.Value)), true
		}
		return strconv.FormatInt(e.Value, 10), true
	case *ast.FloatLiteral:
		return FormatFloat(e.Value), true
	case *ast.BooleanLiteral:
		return strconv.FormatBool(e.Value), true
	case *ast.PrefixExpression:
		inner, ok := foldScalar(e.Right, declType)
		if !ok {
			return "", false
		}
		switch {
		case e.Operator == "!" && (inner == "true" || inner == "false"):
			return strconv.FormatBool(inner == "false"), true
		case e.Operator == "-" && inner != "true" && inner != "false":
			if strings.HasPrefix(inner, "-") {
				return inner[1:], true
			}
			if inner == "0" {
				return inner, true
			}
			return "-" + inner, true
		}
	}
	return "", false
}
