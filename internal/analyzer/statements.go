package analyzer

import (
	"fmt"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/symbols"
	"github.com/funvibe/glint/internal/typesystem"
)

func (w *walker) analyzeFunctionBody(fd *ast.FunctionDeclaration) {
	if fd == nil || fd.Name == nil || fd.Body == nil {
		return
	}
	sym, ok := w.globals.Find(fd.Name.Value)
	if !ok || sym.DefinitionNode != fd {
		// Duplicate declaration, already reported.
		return
	}
	sig := sym.Type.(typesystem.TFunc)

	w.currentFn = &fnContext{name: fd.Name.Value, returnType: sig.ReturnType}
	w.pushScope(symbols.ScopeFunction)
	defer func() {
		w.popScope()
		w.currentFn = nil
	}()

	for i, p := range fd.Parameters {
		if p == nil || p.Name == nil {
			continue
		}
		if w.symbolTable.IsDefinedLocally(p.Name.Value) {
			w.addError(diagnostics.ErrA211, p.Name.Token, p.Name.Value)
			continue
		}
		w.symbolTable.Define(symbols.Symbol{Name: p.Name.Value, Type: sig.Params[i], Kind: symbols.ParameterSymbol, DefinitionNode: p.Name})
	}

	w.analyzeStatements(fd.Body.Statements)

	if !sig.ReturnType.Equal(typesystem.Void) && !typesystem.IsUnknown(sig.ReturnType) && !alwaysReturns(fd.Body) {
		w.addError(diagnostics.ErrA209, fd.Name.Token,
			fmt.Sprintf("function '%s' must return a value of type %s on every path", fd.Name.Value, sig.ReturnType))
	}
}

func (w *walker) analyzeBlock(block *ast.BlockStatement) {
	if block == nil {
		return
	}
	w.pushScope(symbols.ScopeBlock)
	w.analyzeStatements(block.Statements)
	w.popScope()
}

func (w *walker) analyzeStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		w.analyzeStatement(s)
	}
}

func (w *walker) analyzeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		w.analyzeLocal(s)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			w.inferExpression(s.Expression)
		}
	case *ast.AssignStatement:
		w.analyzeAssign(s)
	case *ast.BlockStatement:
		w.analyzeBlock(s)
	case *ast.IfStatement:
		w.checkCondition(s.Condition)
		w.analyzeBlock(s.Consequence)
		if s.Alternative != nil {
			w.analyzeStatement(s.Alternative)
		}
	case *ast.WhileStatement:
		w.checkCondition(s.Condition)
		w.loopDepth++
		w.analyzeBlock(s.Body)
		w.loopDepth--
	case *ast.ReturnStatement:
		w.analyzeReturn(s)
	case *ast.BreakStatement:
		if w.loopDepth == 0 {
			w.addError(diagnostics.ErrA214, s.Token, "break")
		}
	case *ast.ContinueStatement:
		if w.loopDepth == 0 {
			w.addError(diagnostics.ErrA214, s.Token, "continue")
		}
	}
}

func (w *walker) analyzeLocal(ls *ast.LetStatement) {
	if ls.Name == nil {
		return
	}
	declType, _ := w.checkLetTypes(ls)
	if w.symbolTable.IsDefinedLocally(ls.Name.Value) {
		w.addError(diagnostics.ErrA211, ls.Name.Token, ls.Name.Value)
		return
	}
	w.symbolTable.Define(symbols.Symbol{
		Name:           ls.Name.Value,
		Type:           declType,
		Kind:           symbols.VariableSymbol,
		Mutable:        ls.Mutable,
		DefinitionNode: ls,
	})
}

func (w *walker) checkCondition(cond ast.Expression) {
	if cond == nil {
		return
	}
	t := w.inferExpression(cond)
	if !typesystem.AssignableTo(t, typesystem.Bool) {
		w.addError(diagnostics.ErrA208, cond.GetToken(), t)
	}
}

func (w *walker) analyzeReturn(rs *ast.ReturnStatement) {
	if w.currentFn == nil {
		return
	}
	want := w.currentFn.returnType
	if rs.Value == nil {
		if !want.Equal(typesystem.Void) && !typesystem.IsUnknown(want) {
			w.addError(diagnostics.ErrA209, rs.Token,
				fmt.Sprintf("function '%s' must return a value of type %s", w.currentFn.name, want))
		}
		return
	}
	got := w.inferExpression(rs.Value)
	if want.Equal(typesystem.Void) {
		w.addError(diagnostics.ErrA209, rs.Value.GetToken(),
			fmt.Sprintf("function '%s' does not return a value", w.currentFn.name))
		return
	}
	if !typesystem.AssignableTo(got, want) {
		w.addError(diagnostics.ErrA209, rs.Value.GetToken(),
			fmt.Sprintf("function '%s' returns %s, got %s", w.currentFn.name, want, got))
	}
}

func (w *walker) analyzeAssign(as *ast.AssignStatement) {
	root := ast.RootIdentifier(as.Target)
	if root == nil {
		return
	}
	valueType := typesystem.Unknown
	if as.Value != nil {
		valueType = w.inferExpression(as.Value)
	}

	sym, ok := w.symbolTable.Find(root.Value)
	if !ok {
		w.addError(diagnostics.ErrA201, root.Token, root.Value)
		return
	}
	if sym.Kind != symbols.VariableSymbol && sym.Kind != symbols.ParameterSymbol {
		w.addError(diagnostics.ErrA206, root.Token, root.Value)
		return
	}
	if !sym.Mutable {
		w.addError(diagnostics.ErrA206, root.Token, root.Value)
		return
	}

	targetType := w.inferExpression(as.Target)
	op := as.BinaryOperator()
	if op == "" {
		if !typesystem.AssignableTo(valueType, targetType) {
			w.addError(diagnostics.ErrA200, as.Value.GetToken(), targetType, valueType)
		}
		return
	}

	result, ok := w.binaryResult(op, targetType, valueType)
	if !ok {
		w.addError(diagnostics.ErrA207, as.Token,
			fmt.Sprintf("operator '%s' cannot be applied to %s and %s", as.Operator, targetType, valueType))
		return
	}
	if !typesystem.AssignableTo(result, targetType) {
		w.addError(diagnostics.ErrA200, as.Token, targetType, result)
	}
}

// alwaysReturns reports whether every path through block ends in a return.
// An unconditional `while true` loop without a break never falls through.
func alwaysReturns(block *ast.BlockStatement) bool {
	if block == nil {
		return false
	}
	for _, s := range block.Statements {
		if statementReturns(s) {
			return true
		}
	}
	return false
}

func statementReturns(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case *ast.ReturnStatement:
		return true
	case *ast.BlockStatement:
		return alwaysReturns(s)
	case *ast.IfStatement:
		if s.Alternative == nil {
			return false
		}
		return alwaysReturns(s.Consequence) && statementReturns(s.Alternative)
	case *ast.WhileStatement:
		cond, ok := s.Condition.(*ast.BooleanLiteral)
		return ok && cond.Value && !containsBreak(s.Body)
	}
	return false
}

// containsBreak looks for a break that targets the loop owning block.
func containsBreak(block *ast.BlockStatement) bool {
	if block == nil {
		return false
	}
	for _, s := range block.Statements {
		switch n := s.(type) {
		case *ast.BreakStatement:
			return true
		case *ast.BlockStatement:
			if containsBreak(n) {
				return true
			}
		case *ast.IfStatement:
			for cur := ast.Statement(n); cur != nil; {
				ifs, ok := cur.(*ast.IfStatement)
				if !ok {
					if b, ok := cur.(*ast.BlockStatement); ok && containsBreak(b) {
						return true
					}
					break
				}
				if containsBreak(ifs.Consequence) {
					return true
				}
				cur = ifs.Alternative
			}
		}
	}
	return false
}
