// Package glint compiles Glint scripts and runs them inside a host
// application.
//
// A Program is compiled once and shared. Each Environment is an
// independent instance of a Program with its own property values, so a
// host typically creates one Environment per scene object.
//
// Hot reload keeps the value of every exported property that exists in
// both versions with a compatible type. An i32 value is converted when the
// property becomes f32. Any other type change resets the property to its
// new default and raises a W452 warning. Properties only in the new
// version start at their default; the rest are dropped.
package glint

import (
	"fmt"
	"io"
	"strings"

	"github.com/funvibe/glint/internal/analyzer"
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/lexer"
	"github.com/funvibe/glint/internal/parser"
	"github.com/funvibe/glint/internal/pipeline"
)

type (
	Options          = config.Options
	PropertyMetadata = ast.PropertyMetadata
	PropertyHint     = ast.PropertyHint
	HintKind         = ast.HintKind
	SignalInfo       = ast.SignalInfo
	SignalParam      = ast.SignalParam
)

const (
	HintNone  = ast.HintNone
	HintRange = ast.HintRange
	HintEnum  = ast.HintEnum
	HintFile  = ast.HintFile
)

// DefaultOptions returns the built-in compiler and runtime settings.
func DefaultOptions() *Options { return config.Default() }

// LoadOptions reads a glint.yaml file.
func LoadOptions(path string) (*Options, error) { return config.Load(path) }

type compileSettings struct {
	file    string
	options *Options
}

// Option configures Compile.
type Option func(*compileSettings)

// WithFile names the source in diagnostics.
func WithFile(path string) Option {
	return func(s *compileSettings) { s.file = path }
}

// WithOptions replaces the default settings. The same settings bound the
// call depth of every Environment created from the program.
func WithOptions(opts *Options) Option {
	return func(s *compileSettings) {
		if opts != nil {
			s.options = opts
		}
	}
}

// Program is an immutable compiled script.
type Program struct {
	file        string
	source      string
	options     *Options
	ast         *ast.Program
	properties  []PropertyMetadata
	signals     []SignalInfo
	warnings    Diagnostics
	entryPoints []EntryPoint
}

// EntryPoint describes a function the host may call.
type EntryPoint struct {
	Name    string  `yaml:"name"`
	Params  []Param `yaml:"params"`
	Returns string  `yaml:"returns"`
}

type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Compile lexes, parses and checks source. On failure the error is a
// Diagnostics value holding every problem found, warnings included.
func Compile(source string, opts ...Option) (*Program, error) {
	s := compileSettings{options: config.Default()}
	for _, o := range opts {
		o(&s)
	}

	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = s.file
	ctx.Options = s.options
	ctx.ExtractMetadata = true
	ctx = pipeline.New(
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	).Run(ctx)

	if ctx.Errors.HasErrors() {
		return nil, convertDiagnostics(ctx.Errors)
	}

	prog := ctx.Program()
	return &Program{
		file:        s.file,
		source:      source,
		options:     s.options,
		ast:         prog,
		properties:  ctx.Properties,
		signals:     ctx.Signals,
		warnings:    convertDiagnostics(ctx.Errors.Warnings()),
		entryPoints: entryPoints(prog),
	}, nil
}

func entryPoints(prog *ast.Program) []EntryPoint {
	out := []EntryPoint{}
	for _, fd := range prog.Functions() {
		ep := EntryPoint{Name: fd.Name.Value, Params: []Param{}, Returns: config.VoidTypeName}
		for _, p := range fd.Parameters {
			ep.Params = append(ep.Params, Param{Name: p.Name.Value, Type: p.Type.Name})
		}
		if fd.ReturnType != nil {
			ep.Returns = fd.ReturnType.Name
		}
		out = append(out, ep)
	}
	return out
}

// File is the name given with WithFile.
func (p *Program) File() string { return p.file }

// Source returns the text the program was compiled from.
func (p *Program) Source() string { return p.source }

// Properties lists exported properties in declaration order. The returned
// slice is a copy.
func (p *Program) Properties() []PropertyMetadata {
	out := make([]PropertyMetadata, len(p.properties))
	for i, m := range p.properties {
		m.Hint.Values = append([]string(nil), m.Hint.Values...)
		out[i] = m
	}
	return out
}

// Property looks up one exported property by name.
func (p *Program) Property(name string) (PropertyMetadata, bool) {
	for _, m := range p.Properties() {
		if m.Name == name {
			return m, true
		}
	}
	return PropertyMetadata{}, false
}

func (p *Program) Signals() []SignalInfo {
	out := make([]SignalInfo, len(p.signals))
	for i, s := range p.signals {
		s.Params = append([]SignalParam(nil), s.Params...)
		out[i] = s
	}
	return out
}

// Warnings are the non-fatal diagnostics reported by Compile.
func (p *Program) Warnings() Diagnostics {
	return append(Diagnostics(nil), p.warnings...)
}

func (p *Program) EntryPoints() []EntryPoint {
	out := make([]EntryPoint, len(p.entryPoints))
	for i, ep := range p.entryPoints {
		ep.Params = append([]Param(nil), ep.Params...)
		out[i] = ep
	}
	return out
}

// Span locates a diagnostic in the source. Line and Column are 1-based;
// Length counts runes.
type Span struct {
	Line   int `yaml:"line"`
	Column int `yaml:"column"`
	Offset int `yaml:"offset"`
	Length int `yaml:"length"`
}

// Diagnostic is one compile-time problem.
type Diagnostic struct {
	Code     string `yaml:"code"`
	Message  string `yaml:"message"`
	File     string `yaml:"file,omitempty"`
	Span     Span   `yaml:"span"`
	Severity string `yaml:"severity"`

	raw *diagnostics.DiagnosticError
}

func (d Diagnostic) IsWarning() bool { return d.Severity == diagnostics.SeverityWarning.String() }

func (d Diagnostic) Error() string {
	var b strings.Builder
	if d.File != "" {
		b.WriteString(d.File)
		b.WriteString(":")
	}
	if d.Span.Line > 0 {
		fmt.Fprintf(&b, "%d:%d: ", d.Span.Line, d.Span.Column)
	}
	b.WriteString(d.Severity + "[" + d.Code + "]: " + d.Message)
	return b.String()
}

// Diagnostics is the error returned by Compile.
type Diagnostics []Diagnostic

func (d Diagnostics) Error() string {
	parts := make([]string, len(d))
	for i, e := range d {
		parts[i] = e.Error()
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

// Render prints each diagnostic followed by the surrounding source lines
// and a caret under the offending column. color is "auto", "always" or
// "never"; with "auto" only terminals get ANSI colors.
func (d Diagnostics) Render(w io.Writer, source, color string) error {
	raw := make(diagnostics.Diagnostics, 0, len(d))
	for _, e := range d {
		if e.raw != nil {
			raw = append(raw, e.raw)
		}
	}
	return diagnostics.NewRenderer(source, "", diagnostics.ColorMode(color)).Render(w, raw)
}

func convertDiagnostics(in diagnostics.Diagnostics) Diagnostics {
	out := make(Diagnostics, 0, len(in))
	for _, e := range in {
		sp := e.Span()
		out = append(out, Diagnostic{
			Code:     e.Code.String(),
			Message:  e.Message(),
			File:     e.File,
			Span:     Span{Line: sp.Line, Column: sp.Column, Offset: sp.Offset, Length: sp.Length},
			Severity: e.Severity.String(),
			raw:      e,
		})
	}
	return out
}
