package parser_test

import (
	"testing"

	"github.com/funvibe/glint/internal/lexer"
	"github.com/funvibe/glint/internal/parser"
	"github.com/funvibe/glint/internal/pipeline"
	"github.com/funvibe/glint/internal/prettyprinter"
)

func FuzzParser(f *testing.F) {
	f.Add("@export(range(0, 100, 1)) let mut health: i32 = 50;")
	f.Add("signal hit(amount: i32);\nfn main() { emit_signal(\"hit\", 5); }")
	f.Add("fn main() { if x { foo(); } }")
	f.Add("struct P { a: i32, b: Vector2 }\nlet p = P { a: 1, b: Vector2 { x: 0.0, y: 1e3 } };")
	f.Add("fn f( { let = ; } } @export(enum(\"a\",)) let")
	f.Add("let s = \"unterminated\nlet t = 0x;")
	f.Add("((((((((((((")

	f.Fuzz(func(t *testing.T, src string) {
		ctx := &pipeline.PipelineContext{SourceCode: src}
		ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
		prog := ctx.Program()
		if prog == nil {
			t.Fatal("no program produced")
		}
		// Partial trees must still be printable.
		_ = prettyprinter.Print(prog)
	})
}
