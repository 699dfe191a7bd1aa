package analyzer

import (
	"github.com/funvibe/glint/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	program := ctx.Program()
	if program == nil {
		return ctx
	}
	if program.File == "" {
		program.File = ctx.FilePath
	}

	analyzer := New(ctx.Options)
	if ctx.ExtractMetadata {
		meta, errs := analyzer.AnalyzeWithMetadata(program)
		ctx.Properties = meta.Properties
		ctx.Signals = meta.Signals
		ctx.Errors = append(ctx.Errors, errs...)
		return ctx
	}
	ctx.Errors = append(ctx.Errors, analyzer.Analyze(program)...)
	return ctx
}
