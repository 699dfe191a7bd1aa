package ast

import (
	"github.com/funvibe/glint/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Program is the root node of every AST our parser produces.
// Statements holds top-level items in source order.
type Program struct {
	File       string
	Statements []Statement
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Globals returns the top-level let declarations in source order.
func (p *Program) Globals() []*LetStatement {
	var out []*LetStatement
	for _, s := range p.Statements {
		if ls, ok := s.(*LetStatement); ok {
			out = append(out, ls)
		}
	}
	return out
}

func (p *Program) Functions() []*FunctionDeclaration {
	var out []*FunctionDeclaration
	for _, s := range p.Statements {
		if fd, ok := s.(*FunctionDeclaration); ok {
			out = append(out, fd)
		}
	}
	return out
}

func (p *Program) Signals() []*SignalDeclaration {
	var out []*SignalDeclaration
	for _, s := range p.Statements {
		if sd, ok := s.(*SignalDeclaration); ok {
			out = append(out, sd)
		}
	}
	return out
}

func (p *Program) Structs() []*StructDeclaration {
	var out []*StructDeclaration
	for _, s := range p.Statements {
		if sd, ok := s.(*StructDeclaration); ok {
			out = append(out, sd)
		}
	}
	return out
}

// Identifier is a name reference.
type Identifier struct {
	Token token.Token
	Value string
}

func (i *Identifier) Accept(v Visitor)     { v.VisitIdentifier(i) }
func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntegerLiteral holds an i32 literal. The lexer guarantees the range.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) Accept(v Visitor)     { v.VisitIntegerLiteral(il) }
func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) Accept(v Visitor)     { v.VisitFloatLiteral(fl) }
func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) Accept(v Visitor)     { v.VisitStringLiteral(sl) }
func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (b *BooleanLiteral) Accept(v Visitor)     { v.VisitBooleanLiteral(b) }
func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Lexeme }
func (b *BooleanLiteral) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// TypeRef names a type in an annotation: `x: f32`.
type TypeRef struct {
	Token token.Token
	Name  string
}

func (tr *TypeRef) GetToken() token.Token {
	if tr == nil {
		return token.Token{}
	}
	return tr.Token
}

func (tr *TypeRef) String() string {
	if tr == nil {
		return ""
	}
	return tr.Name
}
