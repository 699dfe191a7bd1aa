package parser

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/pipeline"
	"github.com/funvibe/glint/internal/token"
)

const (
	_ int = iota
	LOWEST
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	CALL        // f(x) a.b
)

var precedences = map[token.TokenType]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       LESSGREATER,
	token.LTE:      LESSGREATER,
	token.GT:       LESSGREATER,
	token.GTE:      LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   CALL,
	token.DOT:      CALL,
}

var assignOperators = map[token.TokenType]bool{
	token.ASSIGN:          true,
	token.PLUS_ASSIGN:     true,
	token.MINUS_ASSIGN:    true,
	token.ASTERISK_ASSIGN: true,
	token.SLASH_ASSIGN:    true,
	token.PERCENT_ASSIGN:  true,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream pipeline.TokenSource
	ctx    *pipeline.PipelineContext

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	depth    int
	maxDepth int
	tooDeep  bool
}

func New(stream pipeline.TokenSource, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{stream: stream, ctx: ctx, maxDepth: config.DefaultMaxParseDepth}
	if ctx.Options != nil && ctx.Options.MaxParseDepth > 0 {
		p.maxDepth = ctx.Options.MaxParseDepth
	}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.IDENT:  p.parseIdentifier,
		token.INT:    p.parseIntegerLiteral,
		token.FLOAT:  p.parseFloatLiteral,
		token.STRING: p.parseStringLiteral,
		token.TRUE:   p.parseBoolean,
		token.FALSE:  p.parseBoolean,
		token.MINUS:  p.parsePrefixExpression,
		token.BANG:   p.parsePrefixExpression,
		token.LPAREN: p.parseGroupedExpression,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.LPAREN: p.parseCallExpression,
		token.DOT:    p.parseFieldAccessExpression,
	}
	for _, t := range []token.TokenType{
		token.OR, token.AND, token.EQ, token.NOT_EQ, token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT,
	} {
		p.infixParseFns[t] = p.parseInfixExpression
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
	for p.peekToken.Type == token.ILLEGAL {
		p.lexicalError(p.peekToken)
		p.peekToken = p.stream.Next()
	}
}

// lexicalError reports an ILLEGAL token once; the parser never sees it.
func (p *Parser) lexicalError(tok token.Token) {
	code := diagnostics.ErrL001
	if ill, ok := tok.Literal.(token.Illegal); ok {
		code = diagnostics.ErrorCode(ill.Code)
	}
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, tok.Message()))
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek advances when the next token has type t and reports an error
// anchored at the unexpected token otherwise.
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(
		diagnostics.ErrP101, p.peekToken, describe(t), describeToken(p.peekToken),
	))
}

func (p *Parser) errorAt(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) {
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.NewError(code, tok, args...))
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// ParseProgram parses top-level items until EOF, recovering after errors.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{File: p.ctx.FilePath, Statements: []ast.Statement{}}

	for !p.curTokenIs(token.EOF) {
		errCount := len(p.ctx.Errors)
		stmt := p.parseItem()
		if stmt != nil && !isNilStatement(stmt) {
			program.Statements = append(program.Statements, stmt)
		}
		if len(p.ctx.Errors) > errCount && !p.atItemBoundary() {
			p.synchronizeTopLevel()
		}
		p.nextToken()
	}
	return program
}

// ParseExpression parses a standalone expression that must span the whole
// input, e.g. a serialized default value.
func (p *Parser) ParseExpression() ast.Expression {
	expr := p.parseExpression(LOWEST)
	if expr != nil && !p.peekTokenIs(token.EOF) {
		p.errorAt(diagnostics.ErrP100, p.peekToken, describeToken(p.peekToken))
		return nil
	}
	return expr
}

func (p *Parser) atItemBoundary() bool {
	return p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) ||
		isItemStart(p.peekToken.Type) || p.peekTokenIs(token.EOF)
}

func (p *Parser) atStatementBoundary() bool {
	return p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) ||
		isStatementStart(p.peekToken.Type) || p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF)
}

// synchronizeTopLevel skips the rest of a broken item. curToken is left on
// a ';' or on the token right before the next item.
func (p *Parser) synchronizeTopLevel() {
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.SEMICOLON) &&
		!isItemStart(p.peekToken.Type) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
	}
}

// synchronizeStatement skips the rest of a broken statement inside a block.
// curToken is left on a ';' or on the token right before the next statement
// or the closing brace.
func (p *Parser) synchronizeStatement() {
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.SEMICOLON) &&
		!isStatementStart(p.peekToken.Type) && !p.peekTokenIs(token.RBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
	}
}

func isItemStart(t token.TokenType) bool {
	switch t {
	case token.FN, token.LET, token.SIGNAL, token.STRUCT, token.AT:
		return true
	}
	return false
}

func isStatementStart(t token.TokenType) bool {
	switch t {
	case token.LET, token.IF, token.WHILE, token.RETURN, token.BREAK, token.CONTINUE, token.FN:
		return true
	}
	return false
}

func isNilStatement(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.LetStatement:
		return n == nil || n.Name == nil
	case *ast.FunctionDeclaration:
		return n == nil || n.Name == nil
	case *ast.SignalDeclaration:
		return n == nil || n.Name == nil
	case *ast.StructDeclaration:
		return n == nil || n.Name == nil
	}
	return s == nil
}

func isTypeName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

func describe(t token.TokenType) string {
	switch t {
	case token.IDENT:
		return "identifier"
	case token.INT:
		return "integer"
	case token.FLOAT:
		return "float"
	case token.STRING:
		return "string"
	case token.EOF:
		return "end of file"
	}
	if tok, ok := keywordNames[t]; ok {
		return "'" + tok + "'"
	}
	return "'" + string(t) + "'"
}

func describeToken(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return fmt.Sprintf("identifier '%s'", tok.Lexeme)
	case token.INT, token.FLOAT, token.STRING:
		return fmt.Sprintf("%s %s", describe(tok.Type), tok.Lexeme)
	}
	return "'" + tok.Lexeme + "'"
}

var keywordNames = map[token.TokenType]string{
	token.FN: "fn", token.LET: "let", token.MUT: "mut", token.IF: "if", token.ELSE: "else",
	token.WHILE: "while", token.RETURN: "return", token.BREAK: "break", token.CONTINUE: "continue",
	token.TRUE: "true", token.FALSE: "false", token.SIGNAL: "signal", token.STRUCT: "struct",
	token.EXPORT: "export",
}
