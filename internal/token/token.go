package token

import "unicode/utf8"

type TokenType string

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Identifiers + literals
	IDENT  TokenType = "IDENT"
	INT    TokenType = "INT"
	FLOAT  TokenType = "FLOAT"
	STRING TokenType = "STRING"

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	BANG     TokenType = "!"
	ASTERISK TokenType = "*"
	SLASH    TokenType = "/"
	PERCENT  TokenType = "%"

	PLUS_ASSIGN     TokenType = "+="
	MINUS_ASSIGN    TokenType = "-="
	ASTERISK_ASSIGN TokenType = "*="
	SLASH_ASSIGN    TokenType = "/="
	PERCENT_ASSIGN  TokenType = "%="

	LT     TokenType = "<"
	GT     TokenType = ">"
	LTE    TokenType = "<="
	GTE    TokenType = ">="
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	AND    TokenType = "&&"
	OR     TokenType = "||"
	ARROW  TokenType = "->"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."
	AT        TokenType = "@"
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"

	// Keywords
	FN       TokenType = "FN"
	LET      TokenType = "LET"
	MUT      TokenType = "MUT"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	RETURN   TokenType = "RETURN"
	BREAK    TokenType = "BREAK"
	CONTINUE TokenType = "CONTINUE"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	SIGNAL   TokenType = "SIGNAL"
	STRUCT   TokenType = "STRUCT"
	EXPORT   TokenType = "EXPORT"
)

var keywords = map[string]TokenType{
	"fn":       FN,
	"let":      LET,
	"mut":      MUT,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"signal":   SIGNAL,
	"struct":   STRUCT,
	"export":   EXPORT,
}

// LookupIdent returns the keyword type for ident, or IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

// Token is a lexical unit. For ILLEGAL tokens Literal holds an Illegal.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
	Offset  int
}

// Span locates a token in the source.
type Span struct {
	Line   int
	Column int
	Offset int
	Length int
}

func (t Token) Span() Span {
	n := utf8.RuneCountInString(t.Lexeme)
	if n == 0 {
		n = 1
	}
	return Span{Line: t.Line, Column: t.Column, Offset: t.Offset, Length: n}
}

// Illegal is the Literal of an ILLEGAL token.
type Illegal struct {
	Code    int
	Message string
}

// Message returns the error text carried by an ILLEGAL token.
func (t Token) Message() string {
	if t.Type != ILLEGAL {
		return ""
	}
	switch lit := t.Literal.(type) {
	case Illegal:
		return lit.Message
	case string:
		return lit
	}
	return "illegal token"
}
