package parser

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/token"
)

func (p *Parser) parseItem() ast.Statement {
	switch p.curToken.Type {
	case token.AT:
		return p.parseExportedLet()
	case token.LET:
		return p.parseLetStatement(true)
	case token.FN:
		return p.parseFunctionDeclaration()
	case token.SIGNAL:
		return p.parseSignalDeclaration()
	case token.STRUCT:
		return p.parseStructDeclaration()
	}
	p.errorAt(diagnostics.ErrP100, p.curToken, describeToken(p.curToken))
	return nil
}

// parseExportedLet parses `@export[(hint)] let ...`.
func (p *Parser) parseExportedLet() ast.Statement {
	annotation := p.parseExportAnnotation()
	if annotation == nil {
		return nil
	}
	if !p.peekTokenIs(token.LET) {
		p.errorAt(diagnostics.ErrP107, p.peekToken)
		return nil
	}
	p.nextToken()
	stmt := p.parseLetStatement(true)
	if stmt == nil {
		return nil
	}
	stmt.Export = annotation
	return stmt
}

// parseLetStatement parses `let [mut] name[: type] = expr;`.
func (p *Parser) parseLetStatement(global bool) *ast.LetStatement {
	stmt := &ast.LetStatement{Token: p.curToken, Global: global}

	if p.peekTokenIs(token.MUT) {
		p.nextToken()
		stmt.Mutable = true
	}
	stmt.Name = p.expectIdentifier()
	if stmt.Name == nil {
		return nil
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		stmt.TypeAnnotation = p.parseTypeRef()
		if stmt.TypeAnnotation == nil {
			return stmt
		}
	}

	if !p.expectPeek(token.ASSIGN) {
		return stmt
	}
	stmt.Value = p.nextExpression(LOWEST)
	if stmt.Value == nil {
		return stmt
	}
	p.expectPeek(token.SEMICOLON)
	return stmt
}

func (p *Parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	fn := &ast.FunctionDeclaration{Token: p.curToken}

	fn.Name = p.expectIdentifier()
	if fn.Name == nil {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return fn
	}
	params, ok := p.parseParameters()
	fn.Parameters = params
	if !ok {
		return fn
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		fn.ReturnType = p.parseTypeRef()
		if fn.ReturnType == nil {
			return fn
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return fn
	}
	fn.Body = p.parseBlockStatement()
	return fn
}

// parseParameters parses `(name: type, ...)`. curToken is the '(' on entry
// and the ')' on success.
func (p *Parser) parseParameters() ([]*ast.Parameter, bool) {
	params := []*ast.Parameter{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		name := p.expectIdentifier()
		if name == nil {
			return params, false
		}
		param := &ast.Parameter{Token: name.Token, Name: name}
		if !p.expectPeek(token.COLON) {
			return params, false
		}
		param.Type = p.parseTypeRef()
		if param.Type == nil {
			return params, false
		}
		params = append(params, param)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(token.RPAREN) {
			break
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return params, false
	}
	return params, true
}

// parseSignalDeclaration parses `signal name(param: type, ...);`.
func (p *Parser) parseSignalDeclaration() *ast.SignalDeclaration {
	sig := &ast.SignalDeclaration{Token: p.curToken}

	sig.Name = p.expectIdentifier()
	if sig.Name == nil {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return sig
	}
	params, ok := p.parseParameters()
	sig.Parameters = params
	if !ok {
		return sig
	}
	p.expectPeek(token.SEMICOLON)
	return sig
}

// parseStructDeclaration parses `struct Name { field: type, ... }`.
func (p *Parser) parseStructDeclaration() *ast.StructDeclaration {
	decl := &ast.StructDeclaration{Token: p.curToken}

	decl.Name = p.expectIdentifier()
	if decl.Name == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return decl
	}

	for !p.peekTokenIs(token.RBRACE) {
		name := p.expectIdentifier()
		if name == nil {
			return decl
		}
		field := &ast.StructField{Token: name.Token, Name: name}
		if !p.expectPeek(token.COLON) {
			return decl
		}
		field.Type = p.parseTypeRef()
		if field.Type == nil {
			return decl
		}
		decl.Fields = append(decl.Fields, field)

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return decl
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return decl
}

// parseTypeRef reads the type name after ':' or '->'.
func (p *Parser) parseTypeRef() *ast.TypeRef {
	if !p.peekTokenIs(token.IDENT) {
		p.errorAt(diagnostics.ErrP104, p.peekToken, describeToken(p.peekToken))
		return nil
	}
	p.nextToken()
	return &ast.TypeRef{Token: p.curToken, Name: p.curToken.Literal.(string)}
}

func (p *Parser) expectIdentifier() *ast.Identifier {
	if !p.peekTokenIs(token.IDENT) {
		p.errorAt(diagnostics.ErrP103, p.peekToken, describeToken(p.peekToken))
		return nil
	}
	p.nextToken()
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

// parseBlockStatement parses `{ stmt* }`. curToken is the '{' on entry and
// the matching '}' on exit.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		errCount := len(p.ctx.Errors)
		stmt := p.parseStatement()
		if stmt != nil && !isNilStatement(stmt) {
			block.Statements = append(block.Statements, stmt)
		}
		if len(p.ctx.Errors) > errCount && !p.atStatementBoundary() {
			p.synchronizeStatement()
		}
		p.nextToken()
	}

	if p.curTokenIs(token.EOF) {
		p.errorAt(diagnostics.ErrP101, p.curToken, "'}'", describeToken(p.curToken))
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		if stmt := p.parseLetStatement(false); stmt != nil {
			return stmt
		}
		return nil
	case token.IF:
		if stmt := p.parseIfStatement(); stmt != nil {
			return stmt
		}
		return nil
	case token.WHILE:
		if stmt := p.parseWhileStatement(); stmt != nil {
			return stmt
		}
		return nil
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken}
		p.expectPeek(token.SEMICOLON)
		return stmt
	case token.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken}
		p.expectPeek(token.SEMICOLON)
		return stmt
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.SEMICOLON:
		return nil
	case token.AT:
		p.errorAt(diagnostics.ErrP107, p.curToken)
		return nil
	case token.FN, token.SIGNAL, token.STRUCT:
		p.errorAt(diagnostics.ErrP100, p.curToken, describeToken(p.curToken)+"; declarations are only allowed at top level")
		return nil
	}
	return p.parseExpressionOrAssignStatement()
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{Token: p.curToken}

	stmt.Condition = p.nextExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()

	if !p.peekTokenIs(token.ELSE) {
		return stmt
	}
	p.nextToken()

	if p.peekTokenIs(token.IF) {
		p.nextToken()
		if alt := p.parseIfStatement(); alt != nil {
			stmt.Alternative = alt
		}
		return stmt
	}
	if !p.expectPeek(token.LBRACE) {
		return stmt
	}
	stmt.Alternative = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	stmt.Condition = p.nextExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return stmt
	}
	stmt.Value = p.nextExpression(LOWEST)
	if stmt.Value == nil {
		return stmt
	}
	p.expectPeek(token.SEMICOLON)
	return stmt
}

// parseExpressionOrAssignStatement parses `expr;` or `target op= expr;`.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	start := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if assignOperators[p.peekToken.Type] {
		p.nextToken()
		stmt := &ast.AssignStatement{Token: p.curToken, Target: expr, Operator: p.curToken.Lexeme}
		if ast.RootIdentifier(expr) == nil {
			p.errorAt(diagnostics.ErrP105, start)
		}
		stmt.Value = p.nextExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
		p.expectPeek(token.SEMICOLON)
		return stmt
	}

	stmt := &ast.ExpressionStatement{Token: start, Expression: expr}
	p.expectPeek(token.SEMICOLON)
	return stmt
}
