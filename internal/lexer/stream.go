package lexer

import "github.com/funvibe/glint/internal/token"

// TokenStream buffers lexer output so the parser can look ahead.
type TokenStream struct {
	lexer  *Lexer
	buffer []token.Token
	done   bool
}

func NewTokenStream(l *Lexer) *TokenStream {
	return &TokenStream{lexer: l}
}

func (ts *TokenStream) fill(n int) {
	for len(ts.buffer) < n {
		if ts.done {
			ts.buffer = append(ts.buffer, ts.buffer[len(ts.buffer)-1])
			continue
		}
		tok := ts.lexer.NextToken()
		if tok.Type == token.EOF {
			ts.done = true
		}
		ts.buffer = append(ts.buffer, tok)
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (ts *TokenStream) Next() token.Token {
	ts.fill(1)
	tok := ts.buffer[0]
	if tok.Type == token.EOF {
		return tok
	}
	ts.buffer = ts.buffer[1:]
	return tok
}

// Peek returns up to n upcoming tokens without consuming them.
func (ts *TokenStream) Peek(n int) []token.Token {
	ts.fill(n)
	return ts.buffer[:n]
}

// Reset restarts the stream from the beginning of the source.
func (ts *TokenStream) Reset() {
	ts.lexer.Reset()
	ts.buffer = nil
	ts.done = false
}
