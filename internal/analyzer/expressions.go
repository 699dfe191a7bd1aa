package analyzer

import (
	"fmt"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/symbols"
	"github.com/funvibe/glint/internal/typesystem"
)

// inferExpression returns the static type of expr, reporting problems as it
// goes. Expressions that fail to check have type Unknown so a mistake is
// reported once and not again by every enclosing expression.
func (w *walker) inferExpression(expr ast.Expression) typesystem.Type {
	switch e := expr.(type) {
	case nil:
		return typesystem.Unknown
	case *ast.IntegerLiteral:
		return typesystem.Int
	case *ast.FloatLiteral:
		return typesystem.Float
	case *ast.StringLiteral:
		return typesystem.String
	case *ast.BooleanLiteral:
		return typesystem.Bool
	case *ast.Identifier:
		return w.inferIdentifier(e)
	case *ast.PrefixExpression:
		return w.inferPrefix(e)
	case *ast.InfixExpression:
		return w.inferInfix(e)
	case *ast.CallExpression:
		return w.inferCall(e)
	case *ast.FieldAccessExpression:
		return w.inferFieldAccess(e)
	case *ast.StructLiteral:
		return w.inferStructLiteral(e)
	}
	return typesystem.Unknown
}

func (w *walker) inferIdentifier(id *ast.Identifier) typesystem.Type {
	if id == nil {
		return typesystem.Unknown
	}
	sym, ok := w.symbolTable.Find(id.Value)
	if !ok || (sym.Kind != symbols.VariableSymbol && sym.Kind != symbols.ParameterSymbol) {
		w.addError(diagnostics.ErrA201, id.Token, id.Value)
		return typesystem.Unknown
	}
	return sym.Type
}

func (w *walker) inferPrefix(e *ast.PrefixExpression) typesystem.Type {
	right := w.inferExpression(e.Right)
	if typesystem.IsUnknown(right) {
		return typesystem.Unknown
	}
	switch e.Operator {
	case "-":
		if typesystem.IsNumeric(right) {
			return right
		}
	case "!":
		if right.Equal(typesystem.Bool) {
			return typesystem.Bool
		}
	}
	w.addError(diagnostics.ErrA207, e.Token, fmt.Sprintf("operator '%s' cannot be applied to %s", e.Operator, right))
	return typesystem.Unknown
}

func (w *walker) inferInfix(e *ast.InfixExpression) typesystem.Type {
	left := w.inferExpression(e.Left)
	right := w.inferExpression(e.Right)
	result, ok := w.binaryResult(e.Operator, left, right)
	if !ok {
		w.addError(diagnostics.ErrA207, e.Token,
			fmt.Sprintf("operator '%s' cannot be applied to %s and %s", e.Operator, left, right))
		return typesystem.Unknown
	}
	return result
}

// binaryResult is the type of `left op right`, shared with compound
// assignment.
func (w *walker) binaryResult(op string, left, right typesystem.Type) (typesystem.Type, bool) {
	unknown := typesystem.IsUnknown(left) || typesystem.IsUnknown(right)
	switch op {
	case "+":
		if left.Equal(typesystem.String) && right.Equal(typesystem.String) {
			return typesystem.String, true
		}
		return typesystem.NumericResult(left, right)
	case "-", "*", "/", "%":
		return typesystem.NumericResult(left, right)
	case "<", ">", "<=", ">=":
		if _, ok := typesystem.NumericResult(left, right); ok {
			return typesystem.Bool, true
		}
		if left.Equal(typesystem.String) && right.Equal(typesystem.String) {
			return typesystem.Bool, true
		}
		return nil, false
	case "==", "!=":
		if unknown || left.Equal(right) {
			return typesystem.Bool, true
		}
		if typesystem.IsNumeric(left) && typesystem.IsNumeric(right) {
			return typesystem.Bool, true
		}
		return nil, false
	case "&&", "||":
		if unknown || (left.Equal(typesystem.Bool) && right.Equal(typesystem.Bool)) {
			return typesystem.Bool, true
		}
		return nil, false
	}
	return nil, false
}

func (w *walker) inferCall(call *ast.CallExpression) typesystem.Type {
	if call.Function == nil {
		w.inferArguments(call.Arguments)
		return typesystem.Unknown
	}
	name := call.Function.Value
	if name == config.EmitSignalFuncName {
		w.checkEmitSignal(call)
		return typesystem.Void
	}

	sym, ok := w.symbolTable.Find(name)
	if !ok || !sym.IsCallable() {
		w.inferArguments(call.Arguments)
		w.addError(diagnostics.ErrA202, call.Function.Token, name)
		return typesystem.Unknown
	}
	sig, ok := sym.Type.(typesystem.TFunc)
	if !ok {
		w.inferArguments(call.Arguments)
		return typesystem.Unknown
	}

	args := w.inferArguments(call.Arguments)
	if !arityMatches(sig, len(args)) {
		w.addError(diagnostics.ErrA203, call.Function.Token, name, len(sig.Params), len(args))
		return sig.ReturnType
	}
	for i, got := range args {
		want := paramType(sig, i)
		if !typesystem.AssignableTo(got, want) {
			w.addError(diagnostics.ErrA204, call.Arguments[i].GetToken(), i+1, name, want, got)
		}
	}
	return sig.ReturnType
}

func (w *walker) inferArguments(args []ast.Expression) []typesystem.Type {
	types := make([]typesystem.Type, len(args))
	for i, a := range args {
		types[i] = w.inferExpression(a)
	}
	return types
}

func arityMatches(sig typesystem.TFunc, n int) bool {
	if sig.Variadic {
		return n >= len(sig.Params)-1
	}
	return n == len(sig.Params)
}

func paramType(sig typesystem.TFunc, i int) typesystem.Type {
	if i < len(sig.Params) {
		return sig.Params[i]
	}
	return sig.Params[len(sig.Params)-1]
}

func (w *walker) inferFieldAccess(fa *ast.FieldAccessExpression) typesystem.Type {
	objType := w.inferExpression(fa.Object)
	if fa.Field == nil || typesystem.IsUnknown(objType) {
		return typesystem.Unknown
	}
	def, ok := w.globals.LookupStruct(objType.String())
	if !ok {
		w.addError(diagnostics.ErrA215, fa.Field.Token, fa.Field.Value, objType)
		return typesystem.Unknown
	}
	field, _, ok := def.Field(fa.Field.Value)
	if !ok {
		w.addError(diagnostics.ErrA210, fa.Field.Token, def.Name, fa.Field.Value)
		return typesystem.Unknown
	}
	return field.Type
}

func (w *walker) inferStructLiteral(lit *ast.StructLiteral) typesystem.Type {
	if lit.TypeName == nil {
		return typesystem.Unknown
	}
	def, ok := w.globals.LookupStruct(lit.TypeName.Value)
	if !ok {
		for _, f := range lit.Fields {
			if f != nil {
				w.inferExpression(f.Value)
			}
		}
		w.addError(diagnostics.ErrA205, lit.TypeName.Token, lit.TypeName.Value)
		return typesystem.Unknown
	}

	set := make(map[string]bool, len(lit.Fields))
	for _, f := range lit.Fields {
		if f == nil || f.Name == nil {
			continue
		}
		got := w.inferExpression(f.Value)
		if set[f.Name.Value] {
			w.addError(diagnostics.ErrA213, f.Name.Token, f.Name.Value)
			continue
		}
		set[f.Name.Value] = true
		field, _, ok := def.Field(f.Name.Value)
		if !ok {
			w.addError(diagnostics.ErrA210, f.Name.Token, def.Name, f.Name.Value)
			continue
		}
		if !typesystem.AssignableTo(got, field.Type) {
			w.addError(diagnostics.ErrA200, f.Value.GetToken(), field.Type, got)
		}
	}
	for _, field := range def.Fields {
		if !set[field.Name] {
			w.addError(diagnostics.ErrA212, lit.Token, field.Name, def.Name)
		}
	}
	return def.Type()
}
