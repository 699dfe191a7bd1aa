package ast

// Visitor walks the AST. Each node's Accept calls the matching method.
type Visitor interface {
	VisitProgram(node *Program)

	VisitLetStatement(node *LetStatement)
	VisitFunctionDeclaration(node *FunctionDeclaration)
	VisitSignalDeclaration(node *SignalDeclaration)
	VisitStructDeclaration(node *StructDeclaration)
	VisitBlockStatement(node *BlockStatement)
	VisitIfStatement(node *IfStatement)
	VisitWhileStatement(node *WhileStatement)
	VisitReturnStatement(node *ReturnStatement)
	VisitBreakStatement(node *BreakStatement)
	VisitContinueStatement(node *ContinueStatement)
	VisitExpressionStatement(node *ExpressionStatement)
	VisitAssignStatement(node *AssignStatement)

	VisitIdentifier(node *Identifier)
	VisitIntegerLiteral(node *IntegerLiteral)
	VisitFloatLiteral(node *FloatLiteral)
	VisitStringLiteral(node *StringLiteral)
	VisitBooleanLiteral(node *BooleanLiteral)
	VisitPrefixExpression(node *PrefixExpression)
	VisitInfixExpression(node *InfixExpression)
	VisitCallExpression(node *CallExpression)
	VisitFieldAccessExpression(node *FieldAccessExpression)
	VisitStructLiteral(node *StructLiteral)
}
