package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/glint/internal/token"
)

// ErrorCode is a stable diagnostic number. Codes are grouped by phase:
// 1-99 lexical, 100-199 syntax, 200-299 type, 300-399 signals,
// 400-499 runtime, 800-899 exported properties.
type ErrorCode int

const (
	// Lexical
	ErrL001 ErrorCode = 1 // unexpected character
	ErrL002 ErrorCode = 2 // unterminated string
	ErrL003 ErrorCode = 3 // invalid escape
	ErrL004 ErrorCode = 4 // malformed number
	ErrL005 ErrorCode = 5 // integer out of range
	ErrL006 ErrorCode = 6 // unterminated block comment

	// Syntax
	ErrP100 ErrorCode = 100 // unexpected token
	ErrP101 ErrorCode = 101 // expected token
	ErrP102 ErrorCode = 102 // expected expression
	ErrP103 ErrorCode = 103 // expected identifier
	ErrP104 ErrorCode = 104 // expected type
	ErrP105 ErrorCode = 105 // invalid assignment target
	ErrP106 ErrorCode = 106 // unknown export hint
	ErrP107 ErrorCode = 107 // misplaced export annotation
	ErrP108 ErrorCode = 108 // invalid hint argument
	ErrP109 ErrorCode = 109 // nesting too deep

	// Type
	ErrA200 ErrorCode = 200 // type mismatch
	ErrA201 ErrorCode = 201 // undefined variable
	ErrA202 ErrorCode = 202 // undefined function
	ErrA203 ErrorCode = 203 // argument count
	ErrA204 ErrorCode = 204 // argument type
	ErrA205 ErrorCode = 205 // unknown type
	ErrA206 ErrorCode = 206 // assignment to immutable
	ErrA207 ErrorCode = 207 // invalid operands
	ErrA208 ErrorCode = 208 // non-bool condition
	ErrA209 ErrorCode = 209 // return mismatch
	ErrA210 ErrorCode = 210 // unknown field
	ErrA211 ErrorCode = 211 // duplicate declaration
	ErrA212 ErrorCode = 212 // missing struct field
	ErrA213 ErrorCode = 213 // duplicate struct field
	ErrA214 ErrorCode = 214 // break/continue outside loop
	ErrA215 ErrorCode = 215 // field access on non-struct

	// Signals
	ErrS301 ErrorCode = 301 // duplicate signal
	ErrS302 ErrorCode = 302 // undeclared signal
	ErrS303 ErrorCode = 303 // signal name not a literal
	ErrS304 ErrorCode = 304 // signal argument count
	ErrS305 ErrorCode = 305 // signal argument type

	// Runtime
	ErrR401 ErrorCode = 401 // undefined variable
	ErrR402 ErrorCode = 402 // division by zero
	ErrR403 ErrorCode = 403 // signal emitter failed
	ErrR404 ErrorCode = 404 // non-finite ranged value
	ErrR405 ErrorCode = 405 // entry point not found
	ErrR406 ErrorCode = 406 // property not found
	ErrR407 ErrorCode = 407 // value type mismatch
	ErrR408 ErrorCode = 408 // call depth exceeded
	ErrR409 ErrorCode = 409 // invalid builtin argument
	ErrR410 ErrorCode = 410 // entry point arity
	ErrR411 ErrorCode = 411 // environment state

	// Exported properties
	ErrE801 ErrorCode = 801 // duplicate export
	ErrE802 ErrorCode = 802 // non-constant default
	ErrE803 ErrorCode = 803 // type not exportable
	ErrE804 ErrorCode = 804 // range hint on non-numeric
	ErrE805 ErrorCode = 805 // enum hint on non-string
	ErrE806 ErrorCode = 806 // file hint on non-string
	ErrE807 ErrorCode = 807 // invalid range
	ErrE808 ErrorCode = 808 // empty enum or malformed value
	ErrE809 ErrorCode = 809 // invalid file filter
	ErrE810 ErrorCode = 810 // duplicate enum value

	// Warnings
	WarnW851 ErrorCode = 851 // read-only export
	WarnW852 ErrorCode = 852 // default outside range
	WarnW451 ErrorCode = 451 // out-of-range script write
	WarnW452 ErrorCode = 452 // property type drift on reload
)

var messages = map[ErrorCode]string{
	ErrL001: "%s",
	ErrL002: "%s",
	ErrL003: "%s",
	ErrL004: "%s",
	ErrL005: "%s",
	ErrL006: "%s",

	ErrP100: "unexpected token %s",
	ErrP101: "expected %s, got %s",
	ErrP102: "expected expression, got %s",
	ErrP103: "expected identifier, got %s",
	ErrP104: "expected type name, got %s",
	ErrP105: "invalid assignment target",
	ErrP106: "unknown export hint '%s'; expected range, file or enum",
	ErrP107: "export annotation must precede a global 'let' declaration",
	ErrP108: "%s",
	ErrP109: "expression is nested too deeply",

	ErrA200: "type mismatch: expected %s, got %s",
	ErrA201: "undefined variable '%s'",
	ErrA202: "undefined function '%s'",
	ErrA203: "function '%s' expects %d argument(s), got %d",
	ErrA204: "argument %d of '%s': expected %s, got %s",
	ErrA205: "unknown type '%s'",
	ErrA206: "cannot assign to immutable variable '%s'",
	ErrA207: "%s",
	ErrA208: "condition must be bool, got %s",
	ErrA209: "%s",
	ErrA210: "type %s has no field '%s'",
	ErrA211: "'%s' is already declared",
	ErrA212: "missing field '%s' in %s literal",
	ErrA213: "field '%s' is set more than once",
	ErrA214: "'%s' outside of a loop",
	ErrA215: "cannot access field '%s' on value of type %s",

	ErrS301: "signal '%s' is already declared",
	ErrS302: "signal '%s' is not declared",
	ErrS303: "signal name must be a string literal",
	ErrS304: "signal '%s' expects %d argument(s), got %d",
	ErrS305: "argument %d of signal '%s': expected %s, got %s",

	ErrR401: "undefined variable '%s'",
	ErrR402: "division by zero",
	ErrR403: "signal '%s': %s",
	ErrR404: "property '%s' rejects non-finite value %s",
	ErrR405: "entry point '%s' not found",
	ErrR406: "exported property '%s' not found",
	ErrR407: "%s",
	ErrR408: "maximum call depth exceeded",
	ErrR409: "%s",
	ErrR410: "entry point '%s' expects %d argument(s), got %d",
	ErrR411: "%s",

	ErrE801: "property '%s' is already exported",
	ErrE802: "default value of exported property '%s' must be a compile-time constant",
	ErrE803: "type %s of property '%s' cannot be exported",
	ErrE804: "range hint requires i32 or f32, property '%s' is %s",
	ErrE805: "enum hint requires String, property '%s' is %s",
	ErrE806: "file hint requires String, property '%s' is %s",
	ErrE807: "invalid range on '%s': %s",
	ErrE808: "invalid enum hint on '%s': %s",
	ErrE809: "invalid file filter on '%s': %s",
	ErrE810: "enum hint on '%s' repeats value %q",

	WarnW851: "exported property '%s' is not mutable and will be read-only",
	WarnW852: "default of '%s' lies outside its range",
	WarnW451: "value %s for '%s' is outside range [%s, %s]",
	WarnW452: "property '%s' changed type from %s to %s; reset to default",
}

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

func (c ErrorCode) String() string {
	if c >= 450 && c < 500 || c >= 850 {
		return fmt.Sprintf("W%03d", int(c))
	}
	return fmt.Sprintf("E%03d", int(c))
}

// DiagnosticError is a compile-time or runtime problem anchored at a token.
type DiagnosticError struct {
	Code     ErrorCode
	Token    token.Token
	File     string
	Severity Severity
	Args     []interface{}
}

func NewError(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Args: args}
}

func NewWarning(code ErrorCode, tok token.Token, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{Code: code, Token: tok, Severity: SeverityWarning, Args: args}
}

func (e *DiagnosticError) Message() string {
	format, ok := messages[e.Code]
	if !ok {
		return fmt.Sprint(e.Args...)
	}
	return fmt.Sprintf(format, e.Args...)
}

func (e *DiagnosticError) Span() token.Span {
	return e.Token.Span()
}

func (e *DiagnosticError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

func (e *DiagnosticError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(":")
	}
	if e.Token.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", e.Token.Line, e.Token.Column)
	}
	fmt.Fprintf(&b, "%s[%s]: %s", e.Severity, e.Code, e.Message())
	return b.String()
}

// Diagnostics is an ordered list of problems. It implements error.
type Diagnostics []*DiagnosticError

func (d Diagnostics) Error() string {
	parts := make([]string, 0, len(d))
	for _, e := range d {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

func (d Diagnostics) HasErrors() bool {
	for _, e := range d {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

func (d Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, e := range d {
		if !e.IsWarning() {
			out = append(out, e)
		}
	}
	return out
}

func (d Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, e := range d {
		if e.IsWarning() {
			out = append(out, e)
		}
	}
	return out
}

// Sorted returns a copy ordered by position, dropping exact duplicates.
func (d Diagnostics) Sorted() Diagnostics {
	seen := make(map[string]bool, len(d))
	out := make(Diagnostics, 0, len(d))
	for _, e := range d {
		key := fmt.Sprintf("%d:%d:%d", e.Token.Line, e.Token.Column, e.Code)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Token.Line != out[j].Token.Line {
			return out[i].Token.Line < out[j].Token.Line
		}
		return out[i].Token.Column < out[j].Token.Column
	})
	return out
}
