package parser

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.maxDepth {
		if !p.tooDeep {
			p.errorAt(diagnostics.ErrP109, p.curToken)
			p.tooDeep = true
		}
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorAt(diagnostics.ErrP102, p.curToken, describeToken(p.curToken))
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}
	return leftExp
}

// nextExpression advances to the next token and parses an expression. A
// missing operand before a closing token is reported at that token, which
// is left unconsumed for the enclosing construct.
func (p *Parser) nextExpression(precedence int) ast.Expression {
	switch p.peekToken.Type {
	case token.SEMICOLON, token.RBRACE, token.RPAREN, token.COMMA, token.EOF:
		p.errorAt(diagnostics.ErrP102, p.peekToken, describeToken(p.peekToken))
		return nil
	}
	p.nextToken()
	return p.parseExpression(precedence)
}

func (p *Parser) parseIdentifier() ast.Expression {
	ident := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal.(string)}
	// Only capitalized names open a struct literal, so `if x { ... }`
	// stays a condition followed by a block.
	if p.peekTokenIs(token.LBRACE) && isTypeName(ident.Value) {
		return p.parseStructLiteral(ident)
	}
	return ident
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.IntegerLiteral{Token: p.curToken, Value: p.curToken.Literal.(int64)}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.FloatLiteral{Token: p.curToken, Value: p.curToken.Literal.(float64)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal.(string)}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
	}
	expression.Right = p.nextExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Lexeme,
		Left:     left,
	}
	precedence := p.curPrecedence()
	expression.Right = p.nextExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	exp := p.nextExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseCallExpression handles `name(args)`. Only plain names are callable.
func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.errorAt(diagnostics.ErrP100, p.curToken, describeToken(p.curToken)+"; only named functions can be called")
		return nil
	}
	call := &ast.CallExpression{Token: p.curToken, Function: ident}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

// parseExpressionList parses comma separated expressions up to end. A
// trailing comma is allowed.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	for {
		exp := p.nextExpression(LOWEST)
		if exp == nil {
			return nil, false
		}
		list = append(list, exp)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}

func (p *Parser) parseFieldAccessExpression(left ast.Expression) ast.Expression {
	access := &ast.FieldAccessExpression{Token: p.curToken, Object: left}
	access.Field = p.expectIdentifier()
	if access.Field == nil {
		return nil
	}
	return access
}

// parseStructLiteral parses `Name { field: expr, ... }`. curToken is Name.
func (p *Parser) parseStructLiteral(name *ast.Identifier) ast.Expression {
	lit := &ast.StructLiteral{Token: name.Token, TypeName: name, Fields: []*ast.StructLiteralField{}}
	p.nextToken() // {

	for !p.peekTokenIs(token.RBRACE) {
		fieldName := p.expectIdentifier()
		if fieldName == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		value := p.nextExpression(LOWEST)
		if value == nil {
			return nil
		}
		lit.Fields = append(lit.Fields, &ast.StructLiteralField{Name: fieldName, Value: value})

		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return lit
}
