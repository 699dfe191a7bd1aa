package evaluator

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
)

func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = NIL
	if block == nil {
		return result
	}
	blockEnv := NewEnclosedEnvironment(env)

	for _, stmt := range block.Statements {
		result = e.Eval(stmt, blockEnv)
		if result != nil {
			switch result.Type() {
			case ERROR_OBJ, RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ:
				return result
			}
		}
	}
	return result
}

func (e *Evaluator) evalLetStatement(node *ast.LetStatement, env *Environment) Object {
	if node.Name == nil || node.Value == nil {
		return newError(diagnostics.ErrR409, "cannot evaluate incomplete declaration")
	}
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	if node.TypeAnnotation != nil {
		val = coerceTo(val, e.resolveType(node.TypeAnnotation.Name))
	}
	env.Set(node.Name.Value, val)
	return NIL
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	cond := e.Eval(node.Condition, env)
	if isError(cond) {
		return cond
	}
	if isTruthy(cond) {
		return e.Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		return e.Eval(node.Alternative, env)
	}
	return NIL
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isError(cond) {
			return cond
		}
		if !isTruthy(cond) {
			return NIL
		}
		result := e.evalBlockStatement(node.Body, env)
		switch result.Type() {
		case ERROR_OBJ, RETURN_VALUE_OBJ:
			return result
		case BREAK_SIGNAL_OBJ:
			return NIL
		}
	}
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.Value == nil {
		return &ReturnValue{Value: NIL}
	}
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func isTruthy(obj Object) bool {
	b, ok := obj.(*Boolean)
	return ok && b.Value
}

// evalAssignStatement handles `x = v`, `x += v` and field targets such as
// `a.b.c = v`. Struct values are immutable, so a field write rebuilds the
// path from the root and stores the new root.
func (e *Evaluator) evalAssignStatement(node *ast.AssignStatement, env *Environment) Object {
	root := ast.RootIdentifier(node.Target)
	if root == nil {
		return newError(diagnostics.ErrR409, "invalid assignment target")
	}

	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}
	if op := node.BinaryOperator(); op != "" {
		current := e.Eval(node.Target, env)
		if isError(current) {
			return current
		}
		val = e.applyOperator(op, current, val)
		if isError(val) {
			return val
		}
	}

	path := fieldPath(node.Target)
	if len(path) > 0 {
		rootVal := e.evalIdentifier(root, env)
		if isError(rootVal) {
			return rootVal
		}
		updated, errObj := setFieldPath(rootVal, path, val)
		if errObj != nil {
			return errObj
		}
		val = updated
	}
	return e.assignName(root, val, env)
}

// fieldPath lists the field names of a target from the root outwards.
func fieldPath(target ast.Expression) []string {
	var path []string
	for {
		fa, ok := target.(*ast.FieldAccessExpression)
		if !ok || fa.Field == nil {
			break
		}
		path = append([]string{fa.Field.Value}, path...)
		target = fa.Object
	}
	return path
}

func setFieldPath(obj Object, path []string, val Object) (Object, *Error) {
	s, ok := obj.(*StructInstance)
	if !ok {
		return nil, newError(diagnostics.ErrR407, "cannot set field '"+path[0]+"' on "+obj.RuntimeType().String())
	}
	if len(path) > 1 {
		inner, ok := s.Get(path[0])
		if !ok {
			return nil, newError(diagnostics.ErrR407, "type "+s.Def.Name+" has no field '"+path[0]+"'")
		}
		updated, err := setFieldPath(inner, path[1:], val)
		if err != nil {
			return nil, err
		}
		val = updated
	}
	next, ok := s.With(path[0], val)
	if !ok {
		return nil, newError(diagnostics.ErrR407, "type "+s.Def.Name+" has no field '"+path[0]+"'")
	}
	return next, nil
}

// assignName stores into the nearest binding, falling back to exported
// properties, which take the script write path.
func (e *Evaluator) assignName(id *ast.Identifier, val Object, env *Environment) Object {
	if current, ok := env.Get(id.Value); ok {
		env.Update(id.Value, coerceLike(val, current))
		return NIL
	}
	if _, ok := e.Properties.Metadata(id.Value); ok {
		if _, err := e.SetProperty(id.Value, val, false); err != nil {
			return err
		}
		return NIL
	}
	return newError(diagnostics.ErrR401, id.Value)
}
