package pipeline

import (
	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/token"
)

// TokenSource is the parser's view of the lexer output.
type TokenSource interface {
	Next() token.Token
	Peek(n int) []token.Token
}

// PipelineContext carries one compilation through every stage.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	Options     *config.Options
	TokenStream TokenSource
	AstRoot     ast.Node
	Errors      diagnostics.Diagnostics

	// ExtractMetadata asks the analyzer to build Properties.
	ExtractMetadata bool
	Properties      []ast.PropertyMetadata
	Signals         []ast.SignalInfo
}

type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{SourceCode: source, Options: config.Default()}
}

// Program returns the parsed program, or nil when parsing never ran.
func (ctx *PipelineContext) Program() *ast.Program {
	prog, _ := ctx.AstRoot.(*ast.Program)
	return prog
}
