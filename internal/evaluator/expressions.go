package evaluator

import (
	"math"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
)

// evalIdentifier looks through the scope chain first and then the exported
// properties, which live outside the environment.
func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if val, ok := e.Properties.Get(node.Value); ok {
		return val
	}
	return newError(diagnostics.ErrR401, node.Value)
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	switch node.Operator {
	case "-":
		switch v := right.(type) {
		case *Integer:
			return &Integer{Value: -v.Value}
		case *Float:
			return &Float{Value: -v.Value}
		}
	case "!":
		if b, ok := right.(*Boolean); ok {
			return nativeBool(!b.Value)
		}
	}
	return newError(diagnostics.ErrR407, "unknown operator: "+node.Operator+right.RuntimeType().String())
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	left := e.Eval(node.Left, env)
	if isError(left) {
		return left
	}

	switch node.Operator {
	case "&&":
		if !isTruthy(left) {
			return FALSE
		}
		return e.evalLogicalRight(node.Right, env)
	case "||":
		if isTruthy(left) {
			return TRUE
		}
		return e.evalLogicalRight(node.Right, env)
	}

	right := e.Eval(node.Right, env)
	if isError(right) {
		return right
	}
	return e.applyOperator(node.Operator, left, right)
}

func (e *Evaluator) evalLogicalRight(expr ast.Expression, env *Environment) Object {
	right := e.Eval(expr, env)
	if isError(right) {
		return right
	}
	return nativeBool(isTruthy(right))
}

// applyOperator evaluates a binary operator on two values. It is shared by
// infix expressions and compound assignment.
func (e *Evaluator) applyOperator(op string, left, right Object) Object {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return evalIntegerInfix(op, left.(*Integer).Value, right.(*Integer).Value)
	case isNumber(left) && isNumber(right):
		l, _ := numericValue(left)
		r, _ := numericValue(right)
		return evalFloatInfix(op, float32(l), float32(r))
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return evalStringInfix(op, left.(*String).Value, right.(*String).Value)
	}

	switch op {
	case "==":
		return nativeBool(objectsEqual(left, right))
	case "!=":
		return nativeBool(!objectsEqual(left, right))
	}
	return newError(diagnostics.ErrR407, "unknown operator: "+
		left.RuntimeType().String()+" "+op+" "+right.RuntimeType().String())
}

func isNumber(obj Object) bool {
	t := obj.Type()
	return t == INTEGER_OBJ || t == FLOAT_OBJ
}

// evalIntegerInfix wraps on overflow like int32 arithmetic.
func evalIntegerInfix(op string, l, r int32) Object {
	switch op {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newError(diagnostics.ErrR402)
		}
		if l == math.MinInt32 && r == -1 {
			return &Integer{Value: l}
		}
		return &Integer{Value: l / r}
	case "%":
		if r == 0 {
			return newError(diagnostics.ErrR402)
		}
		if r == -1 {
			return &Integer{Value: 0}
		}
		return &Integer{Value: l % r}
	case "<":
		return nativeBool(l < r)
	case ">":
		return nativeBool(l > r)
	case "<=":
		return nativeBool(l <= r)
	case ">=":
		return nativeBool(l >= r)
	case "==":
		return nativeBool(l == r)
	case "!=":
		return nativeBool(l != r)
	}
	return newError(diagnostics.ErrR407, "unknown operator: i32 "+op+" i32")
}

func evalFloatInfix(op string, l, r float32) Object {
	switch op {
	case "+":
		return &Float{Value: l + r}
	case "-":
		return &Float{Value: l - r}
	case "*":
		return &Float{Value: l * r}
	case "/":
		if r == 0 {
			return newError(diagnostics.ErrR402)
		}
		return &Float{Value: l / r}
	case "%":
		if r == 0 {
			return newError(diagnostics.ErrR402)
		}
		return &Float{Value: float32(math.Mod(float64(l), float64(r)))}
	case "<":
		return nativeBool(l < r)
	case ">":
		return nativeBool(l > r)
	case "<=":
		return nativeBool(l <= r)
	case ">=":
		return nativeBool(l >= r)
	case "==":
		return nativeBool(l == r)
	case "!=":
		return nativeBool(l != r)
	}
	return newError(diagnostics.ErrR407, "unknown operator: f32 "+op+" f32")
}

func evalStringInfix(op string, l, r string) Object {
	switch op {
	case "+":
		return &String{Value: l + r}
	case "<":
		return nativeBool(l < r)
	case ">":
		return nativeBool(l > r)
	case "<=":
		return nativeBool(l <= r)
	case ">=":
		return nativeBool(l >= r)
	case "==":
		return nativeBool(l == r)
	case "!=":
		return nativeBool(l != r)
	}
	return newError(diagnostics.ErrR407, "unknown operator: String "+op+" String")
}

func (e *Evaluator) evalFieldAccess(node *ast.FieldAccessExpression, env *Environment) Object {
	obj := e.Eval(node.Object, env)
	if isError(obj) {
		return obj
	}
	if node.Field == nil {
		return newError(diagnostics.ErrR409, "cannot evaluate incomplete code")
	}
	s, ok := obj.(*StructInstance)
	if !ok {
		return newError(diagnostics.ErrR407, "type "+obj.RuntimeType().String()+" has no fields")
	}
	val, ok := s.Get(node.Field.Value)
	if !ok {
		return newError(diagnostics.ErrR407, "type "+s.Def.Name+" has no field '"+node.Field.Value+"'")
	}
	return val
}

// evalStructLiteral builds a value in declaration order. Fields are
// evaluated in source order so side effects happen as written.
func (e *Evaluator) evalStructLiteral(node *ast.StructLiteral, env *Environment) Object {
	if node.TypeName == nil {
		return newError(diagnostics.ErrR409, "cannot evaluate incomplete code")
	}
	def, ok := e.structs[node.TypeName.Value]
	if !ok {
		return newError(diagnostics.ErrR407, "unknown type "+node.TypeName.Value)
	}

	values := make(map[string]Object, len(node.Fields))
	for _, f := range node.Fields {
		if f == nil || f.Name == nil {
			continue
		}
		val := e.Eval(f.Value, env)
		if isError(val) {
			return val
		}
		values[f.Name.Value] = val
	}

	fields := make([]Object, len(def.Fields))
	for i, fd := range def.Fields {
		val, ok := values[fd.Name]
		if !ok {
			return newError(diagnostics.ErrR407, "missing field '"+fd.Name+"' in "+def.Name)
		}
		fields[i] = coerceTo(val, fd.Type)
	}
	return &StructInstance{Def: def, Fields: fields}
}
