package lexer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/token"
	"golang.org/x/text/unicode/norm"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.Reset()
	return l
}

// Reset rewinds the lexer to the start of its input.
func (l *Lexer) Reset() {
	l.position = 0
	l.readPosition = 0
	l.ch = 0
	l.line = 1
	l.column = 0
	l.readChar()
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
		l.readPosition = len(l.input) + 1
		l.column++
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.position >= len(l.input)
}

// Tokenize returns every token including the final EOF.
func (l *Lexer) Tokenize() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) NextToken() token.Token {
	if tok, ok := l.skipWhitespace(); !ok {
		return tok
	}

	line, col, start := l.line, l.column, l.position
	if l.atEOF() {
		return token.Token{Type: token.EOF, Lexeme: "", Line: line, Column: col, Offset: start}
	}

	// two-character operators
	two := func(next rune, long, short token.TokenType) token.Token {
		if l.peekChar() == next {
			l.readChar()
			l.readChar()
			return l.makeToken(long, start, line, col)
		}
		l.readChar()
		return l.makeToken(short, start, line, col)
	}

	switch l.ch {
	case '=':
		return two('=', token.EQ, token.ASSIGN)
	case '!':
		return two('=', token.NOT_EQ, token.BANG)
	case '+':
		return two('=', token.PLUS_ASSIGN, token.PLUS)
	case '*':
		return two('=', token.ASTERISK_ASSIGN, token.ASTERISK)
	case '/':
		return two('=', token.SLASH_ASSIGN, token.SLASH)
	case '%':
		return two('=', token.PERCENT_ASSIGN, token.PERCENT)
	case '<':
		return two('=', token.LTE, token.LT)
	case '>':
		return two('=', token.GTE, token.GT)
	case '-':
		switch l.peekChar() {
		case '>':
			l.readChar()
			l.readChar()
			return l.makeToken(token.ARROW, start, line, col)
		case '=':
			l.readChar()
			l.readChar()
			return l.makeToken(token.MINUS_ASSIGN, start, line, col)
		}
		l.readChar()
		return l.makeToken(token.MINUS, start, line, col)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return l.makeToken(token.AND, start, line, col)
		}
		l.readChar()
		return l.illegal(diagnostics.ErrL001, "unexpected character '&'; did you mean '&&'?", start, line, col)
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return l.makeToken(token.OR, start, line, col)
		}
		l.readChar()
		return l.illegal(diagnostics.ErrL001, "unexpected character '|'; did you mean '||'?", start, line, col)
	case ',', ';', ':', '.', '@', '(', ')', '{', '}':
		t := token.TokenType(string(l.ch))
		l.readChar()
		return l.makeToken(t, start, line, col)
	case '"':
		return l.readString(start, line, col)
	}

	if isLetter(l.ch) {
		for isIdentPart(l.ch) {
			l.readChar()
		}
		lexeme := l.input[start:l.position]
		name := norm.NFC.String(lexeme)
		return token.Token{Type: token.LookupIdent(name), Lexeme: lexeme, Literal: name, Line: line, Column: col, Offset: start}
	}
	if isDigit(l.ch) {
		return l.readNumber(start, line, col)
	}

	ch := l.ch
	l.readChar()
	return l.illegal(diagnostics.ErrL001, fmt.Sprintf("unexpected character %q", ch), start, line, col)
}

func (l *Lexer) makeToken(t token.TokenType, start, line, col int) token.Token {
	lexeme := l.input[start:l.position]
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col, Offset: start}
}

func (l *Lexer) illegal(code diagnostics.ErrorCode, msg string, start, line, col int) token.Token {
	end := l.position
	if end > len(l.input) {
		end = len(l.input)
	}
	return token.Token{
		Type:    token.ILLEGAL,
		Lexeme:  l.input[start:end],
		Literal: token.Illegal{Code: int(code), Message: msg},
		Line:    line,
		Column:  col,
		Offset:  start,
	}
}

// skipWhitespace consumes blanks and comments. It returns false together
// with an ILLEGAL token when a block comment is never closed.
func (l *Lexer) skipWhitespace() (token.Token, bool) {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch != '/' {
			return token.Token{}, true
		}
		switch l.peekChar() {
		case '/':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		case '*':
			line, col, start := l.line, l.column, l.position
			l.readChar() // /
			l.readChar() // *
			closed := false
			for !l.atEOF() {
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					closed = true
					break
				}
				l.readChar()
			}
			if !closed {
				tok := l.illegal(diagnostics.ErrL006, "unterminated block comment", start, line, col)
				tok.Lexeme = "/*"
				return tok, false
			}
		default:
			return token.Token{}, true
		}
	}
}

func (l *Lexer) readString(start, line, col int) token.Token {
	var sb strings.Builder
	var badEscape string
	l.readChar() // opening quote
	for {
		switch {
		case l.atEOF() || l.ch == '\n':
			tok := l.illegal(diagnostics.ErrL002, "unterminated string literal", start, line, col)
			return tok
		case l.ch == '"':
			l.readChar()
			if badEscape != "" {
				return l.illegal(diagnostics.ErrL003, fmt.Sprintf("unknown escape sequence '%s'", badEscape), start, line, col)
			}
			tok := l.makeToken(token.STRING, start, line, col)
			tok.Literal = sb.String()
			return tok
		case l.ch == '\\':
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'u':
				r, ok := l.readUnicodeEscape()
				if !ok {
					if badEscape == "" {
						badEscape = "\\u"
					}
					continue
				}
				sb.WriteRune(r)
			default:
				if l.atEOF() || l.ch == '\n' {
					continue
				}
				if badEscape == "" {
					badEscape = "\\" + string(l.ch)
				}
			}
			l.readChar()
		default:
			sb.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// readUnicodeEscape reads the four hex digits after \u. On success the
// lexer is left on the last digit.
func (l *Lexer) readUnicodeEscape() (rune, bool) {
	var v rune
	for i := 0; i < 4; i++ {
		if !isHexDigit(l.peekChar()) {
			l.readChar()
			return 0, false
		}
		l.readChar()
		d, _ := strconv.ParseUint(string(l.ch), 16, 8)
		v = v*16 + rune(d)
	}
	return v, true
}

func (l *Lexer) readNumber(start, line, col int) token.Token {
	isFloat := false
	isHex := false
	malformed := ""

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		isHex = true
		l.readChar()
		l.readChar()
		digits := l.position
		for isHexDigit(l.ch) {
			l.readChar()
		}
		if digits == l.position {
			malformed = "hex literal has no digits"
		}
	} else {
		for isDigit(l.ch) {
			l.readChar()
		}
		if l.ch == '.' {
			if isDigit(l.peekChar()) {
				isFloat = true
				l.readChar()
				for isDigit(l.ch) {
					l.readChar()
				}
			} else {
				l.readChar()
				malformed = "missing digits after decimal point"
			}
		}
		if malformed == "" && (l.ch == 'e' || l.ch == 'E') {
			isFloat = true
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			if !isDigit(l.ch) {
				malformed = "exponent has no digits"
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
		if malformed == "" && l.ch == '.' && isDigit(l.peekChar()) {
			for l.ch == '.' || isDigit(l.ch) {
				l.readChar()
			}
			malformed = "too many decimal points in number"
		}
	}

	if isLetter(l.ch) || isDigit(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		if malformed == "" {
			malformed = "invalid character in number literal"
		}
	}

	lexeme := l.input[start:l.position]
	if malformed != "" {
		return l.illegal(diagnostics.ErrL004, fmt.Sprintf("malformed number '%s': %s", lexeme, malformed), start, line, col)
	}

	if isFloat {
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil || math.Abs(v) > math.MaxFloat32 {
			return l.illegal(diagnostics.ErrL004, fmt.Sprintf("float literal '%s' is out of range for f32", lexeme), start, line, col)
		}
		return token.Token{Type: token.FLOAT, Lexeme: lexeme, Literal: v, Line: line, Column: col, Offset: start}
	}

	var v int64
	var err error
	if isHex {
		v, err = strconv.ParseInt(lexeme[2:], 16, 64)
	} else {
		v, err = strconv.ParseInt(lexeme, 10, 64)
	}
	if err != nil || v > math.MaxInt32 {
		return l.illegal(diagnostics.ErrL005, fmt.Sprintf("integer literal %s is out of range for i32", lexeme), start, line, col)
	}
	return token.Token{Type: token.INT, Lexeme: lexeme, Literal: v, Line: line, Column: col, Offset: start}
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isIdentPart(ch rune) bool {
	return isLetter(ch) || isDigit(ch) || (ch >= 0x80 && unicode.IsMark(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}
