package parser

import (
	"fmt"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/token"
)

// parseExportAnnotation parses `@export` with an optional `(hint)`. The hint
// name is an ordinary identifier; it only has meaning here.
func (p *Parser) parseExportAnnotation() *ast.ExportAnnotation {
	annotation := &ast.ExportAnnotation{Token: p.curToken}
	if !p.expectPeek(token.EXPORT) {
		return nil
	}
	if !p.peekTokenIs(token.LPAREN) {
		return annotation
	}
	p.nextToken()

	if !p.peekTokenIs(token.IDENT) {
		p.errorAt(diagnostics.ErrP106, p.peekToken, p.peekToken.Lexeme)
		return nil
	}
	p.nextToken()

	hintTok := p.curToken
	switch hintTok.Literal.(string) {
	case config.RangeHintName:
		hint := p.parseRangeHint()
		if hint == nil {
			return nil
		}
		annotation.Hint = hint
	case config.EnumHintName:
		values, ok := p.parseStringArguments()
		if !ok {
			return nil
		}
		annotation.Hint = &ast.EnumHint{Token: hintTok, Values: values}
	case config.FileHintName:
		patterns, ok := p.parseStringArguments()
		if !ok {
			return nil
		}
		annotation.Hint = &ast.FileHint{Token: hintTok, Patterns: patterns}
	default:
		p.errorAt(diagnostics.ErrP106, hintTok, hintTok.Lexeme)
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return annotation
}

// parseRangeHint parses `range(min, max[, step])`. curToken is `range`.
func (p *Parser) parseRangeHint() *ast.RangeHint {
	hint := &ast.RangeHint{Token: p.curToken, Integral: true}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}

	var values []float64
	for {
		v, integral, ok := p.parseSignedNumber()
		if !ok {
			return nil
		}
		values = append(values, v)
		hint.Integral = hint.Integral && integral
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}

	if len(values) < 2 || len(values) > 3 {
		p.errorAt(diagnostics.ErrP108, hint.Token, fmt.Sprintf("range hint takes 2 or 3 numbers, got %d", len(values)))
		return nil
	}
	hint.Min, hint.Max = values[0], values[1]
	if len(values) == 3 {
		hint.Step = values[2]
		hint.HasStep = true
	}
	return hint
}

// parseSignedNumber reads an optionally negated numeric literal.
func (p *Parser) parseSignedNumber() (float64, bool, bool) {
	p.nextToken()
	sign := 1.0
	if p.curTokenIs(token.MINUS) {
		sign = -1
		p.nextToken()
	}
	switch p.curToken.Type {
	case token.INT:
		return sign * float64(p.curToken.Literal.(int64)), true, true
	case token.FLOAT:
		return sign * p.curToken.Literal.(float64), false, true
	}
	p.errorAt(diagnostics.ErrP108, p.curToken, fmt.Sprintf("range bounds must be number literals, got %s", describeToken(p.curToken)))
	return 0, false, false
}

// parseStringArguments parses `("a", "b", ...)` after enum or file. An
// empty list is accepted here and rejected by the analyzer.
func (p *Parser) parseStringArguments() ([]string, bool) {
	if !p.expectPeek(token.LPAREN) {
		return nil, false
	}
	values := []string{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return values, true
	}
	for {
		if !p.expectPeek(token.STRING) {
			return nil, false
		}
		values = append(values, p.curToken.Literal.(string))
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return values, true
}
