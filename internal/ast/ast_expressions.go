package ast

import "github.com/funvibe/glint/internal/token"

// PrefixExpression is `-x` or `!x`.
type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) Accept(v Visitor)     { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}

// InfixExpression is a binary operation. Token is the operator.
type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) Accept(v Visitor)     { v.VisitInfixExpression(ie) }
func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}

// CallExpression calls a named function or builtin.
type CallExpression struct {
	Token     token.Token // The '(' token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) Accept(v Visitor)     { v.VisitCallExpression(ce) }
func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}

// FieldAccessExpression is `obj.field`.
type FieldAccessExpression struct {
	Token  token.Token // The '.' token
	Object Expression
	Field  *Identifier
}

func (fa *FieldAccessExpression) Accept(v Visitor)     { v.VisitFieldAccessExpression(fa) }
func (fa *FieldAccessExpression) expressionNode()      {}
func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Lexeme }
func (fa *FieldAccessExpression) GetToken() token.Token {
	if fa == nil {
		return token.Token{}
	}
	return fa.Token
}

type StructLiteralField struct {
	Name  *Identifier
	Value Expression
}

// StructLiteral is `Vector2 { x: 1.0, y: 2.0 }`.
type StructLiteral struct {
	Token    token.Token // The type name token
	TypeName *Identifier
	Fields   []*StructLiteralField
}

func (sl *StructLiteral) Accept(v Visitor)     { v.VisitStructLiteral(sl) }
func (sl *StructLiteral) expressionNode()      {}
func (sl *StructLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StructLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

// Field returns the value expression for name, or nil.
func (sl *StructLiteral) Field(name string) Expression {
	for _, f := range sl.Fields {
		if f.Name.Value == name {
			return f.Value
		}
	}
	return nil
}
