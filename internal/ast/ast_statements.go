package ast

import "github.com/funvibe/glint/internal/token"

// LetStatement declares a variable. At top level Global is set and the
// declaration may carry an export annotation.
// let mut speed: f32 = 10.0;
type LetStatement struct {
	Token          token.Token // The 'let' token
	Name           *Identifier
	Mutable        bool
	TypeAnnotation *TypeRef // Optional
	Value          Expression
	Global         bool
	Export         *ExportAnnotation // Optional, globals only
}

func (ls *LetStatement) Accept(v Visitor)     { v.VisitLetStatement(ls) }
func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Lexeme }
func (ls *LetStatement) GetToken() token.Token {
	if ls == nil {
		return token.Token{}
	}
	return ls.Token
}

type Parameter struct {
	Token token.Token
	Name  *Identifier
	Type  *TypeRef
}

// FunctionDeclaration is a named function; every one is a potential entry point.
type FunctionDeclaration struct {
	Token      token.Token // The 'fn' token
	Name       *Identifier
	Parameters []*Parameter
	ReturnType *TypeRef // nil means void
	Body       *BlockStatement
}

func (fd *FunctionDeclaration) Accept(v Visitor)     { v.VisitFunctionDeclaration(fd) }
func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FunctionDeclaration) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// SignalDeclaration declares an event the script may emit.
// signal hit(amount: i32);
type SignalDeclaration struct {
	Token      token.Token // The 'signal' token
	Name       *Identifier
	Parameters []*Parameter
}

func (sd *SignalDeclaration) Accept(v Visitor)     { v.VisitSignalDeclaration(sd) }
func (sd *SignalDeclaration) statementNode()       {}
func (sd *SignalDeclaration) TokenLiteral() string { return sd.Token.Lexeme }
func (sd *SignalDeclaration) GetToken() token.Token {
	if sd == nil {
		return token.Token{}
	}
	return sd.Token
}

type StructField struct {
	Token token.Token
	Name  *Identifier
	Type  *TypeRef
}

// StructDeclaration declares a user struct type.
type StructDeclaration struct {
	Token  token.Token // The 'struct' token
	Name   *Identifier
	Fields []*StructField
}

func (sd *StructDeclaration) Accept(v Visitor)     { v.VisitStructDeclaration(sd) }
func (sd *StructDeclaration) statementNode()       {}
func (sd *StructDeclaration) TokenLiteral() string { return sd.Token.Lexeme }
func (sd *StructDeclaration) GetToken() token.Token {
	if sd == nil {
		return token.Token{}
	}
	return sd.Token
}

type BlockStatement struct {
	Token      token.Token // The '{' token
	Statements []Statement
}

func (bs *BlockStatement) Accept(v Visitor)     { v.VisitBlockStatement(bs) }
func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BlockStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

// IfStatement. Alternative is a *BlockStatement, an *IfStatement for
// `else if`, or nil.
type IfStatement struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement
}

func (is *IfStatement) Accept(v Visitor)     { v.VisitIfStatement(is) }
func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Lexeme }
func (is *IfStatement) GetToken() token.Token {
	if is == nil {
		return token.Token{}
	}
	return is.Token
}

type WhileStatement struct {
	Token     token.Token // The 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) Accept(v Visitor)     { v.VisitWhileStatement(ws) }
func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Lexeme }
func (ws *WhileStatement) GetToken() token.Token {
	if ws == nil {
		return token.Token{}
	}
	return ws.Token
}

type ReturnStatement struct {
	Token token.Token // The 'return' token
	Value Expression  // nil for bare return
}

func (rs *ReturnStatement) Accept(v Visitor)     { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Lexeme }
func (rs *ReturnStatement) GetToken() token.Token {
	if rs == nil {
		return token.Token{}
	}
	return rs.Token
}

type BreakStatement struct {
	Token token.Token
}

func (bs *BreakStatement) Accept(v Visitor)     { v.VisitBreakStatement(bs) }
func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Lexeme }
func (bs *BreakStatement) GetToken() token.Token {
	if bs == nil {
		return token.Token{}
	}
	return bs.Token
}

type ContinueStatement struct {
	Token token.Token
}

func (cs *ContinueStatement) Accept(v Visitor)     { v.VisitContinueStatement(cs) }
func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Lexeme }
func (cs *ContinueStatement) GetToken() token.Token {
	if cs == nil {
		return token.Token{}
	}
	return cs.Token
}

type ExpressionStatement struct {
	Token      token.Token // The first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)     { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Lexeme }
func (es *ExpressionStatement) GetToken() token.Token {
	if es == nil {
		return token.Token{}
	}
	return es.Token
}

// AssignStatement is `target op value;` where target is an identifier or a
// field access chain rooted at one. Operator is "=", "+=", "-=", ...
type AssignStatement struct {
	Token    token.Token // The operator token
	Target   Expression
	Operator string
	Value    Expression
}

func (as *AssignStatement) Accept(v Visitor)     { v.VisitAssignStatement(as) }
func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Lexeme }
func (as *AssignStatement) GetToken() token.Token {
	if as == nil {
		return token.Token{}
	}
	return as.Token
}

// BinaryOperator returns the arithmetic operator of a compound assignment,
// or "" for plain `=`.
func (as *AssignStatement) BinaryOperator() string {
	if len(as.Operator) == 2 && as.Operator[1] == '=' {
		return as.Operator[:1]
	}
	return ""
}

// RootIdentifier returns the variable an assignment target is rooted at.
func RootIdentifier(e Expression) *Identifier {
	for {
		switch n := e.(type) {
		case *Identifier:
			return n
		case *FieldAccessExpression:
			e = n.Object
		default:
			return nil
		}
	}
}
