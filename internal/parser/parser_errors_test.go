package parser_test

import (
	"strings"
	"testing"

	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/lexer"
	"github.com/funvibe/glint/internal/parser"
	"github.com/funvibe/glint/internal/pipeline"
)

// parseWithErrors runs the lexer+parser and returns all diagnostic errors.
func parseWithErrors(input string) []*diagnostics.DiagnosticError {
	ctx := &pipeline.PipelineContext{SourceCode: input}
	lp := &lexer.LexerProcessor{}
	ctx = lp.Process(ctx)
	pp := &parser.ParserProcessor{}
	ctx = pp.Process(ctx)
	return ctx.Errors
}

// expectError asserts an error with the given code is reported.
func expectError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

// expectOnlyError asserts exactly one error with the given code.
func expectOnlyError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	e := expectError(t, input, code)
	if errs := parseWithErrors(input); len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), diagnostics.Diagnostics(errs))
	}
	return e
}

func TestParserErrorCodes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diagnostics.ErrorCode
	}{
		{"unknown top-level token", "x = 1;", diagnostics.ErrP100},
		{"nested function", "fn f() { fn g() {} }", diagnostics.ErrP100},
		{"call on non-name", "fn f() { 1(2); }", diagnostics.ErrP100},
		{"missing semicolon", "let a = 1 let b = 2;", diagnostics.ErrP101},
		{"signal without semicolon", "signal hit(a: i32)", diagnostics.ErrP101},
		{"unclosed block", "fn f() { let a = 1;", diagnostics.ErrP101},
		{"missing expression", "let a = ;", diagnostics.ErrP102},
		{"dangling operator", "fn f() { let a = 1 + ; }", diagnostics.ErrP102},
		{"missing name", "let = 5;", diagnostics.ErrP103},
		{"missing field name", "fn f() { a.1; }", diagnostics.ErrP103},
		{"missing type", "let a: = 5;", diagnostics.ErrP104},
		{"missing param type", "fn f(a: ) {}", diagnostics.ErrP104},
		{"literal target", "fn f() { 1 = 2; }", diagnostics.ErrP105},
		{"call target", "fn f() { g() = 2; }", diagnostics.ErrP105},
		{"unknown hint", "@export(color(1)) let mut a: i32 = 1;", diagnostics.ErrP106},
		{"hint not a name", "@export(5) let mut a: i32 = 1;", diagnostics.ErrP106},
		{"export before fn", "@export fn f() {}", diagnostics.ErrP107},
		{"export inside fn", "fn f() { @export let x = 1; }", diagnostics.ErrP107},
		{"range with one bound", "@export(range(1)) let mut a: i32 = 1;", diagnostics.ErrP108},
		{"range with four bounds", "@export(range(1, 2, 3, 4)) let mut a: i32 = 1;", diagnostics.ErrP108},
		{"range with names", "@export(range(a, b)) let mut a: i32 = 1;", diagnostics.ErrP108},
		{"unterminated string", `let a = "abc;`, diagnostics.ErrL002},
		{"bad character", "let a = 1 # 2;", diagnostics.ErrL001},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.input, tt.code)
		})
	}
}

func TestSingleErrorPerMistake(t *testing.T) {
	expectOnlyError(t, "@export fn f() {}", diagnostics.ErrP107)
	expectOnlyError(t, "fn f() { @export let x = 1; }", diagnostics.ErrP107)
	expectOnlyError(t, "@export(color(1)) let mut a: i32 = 1;", diagnostics.ErrP106)
	expectOnlyError(t, "fn f() { 1 = 2; }", diagnostics.ErrP105)
	expectOnlyError(t, "x = 1;", diagnostics.ErrP100)
}

func TestErrorAnchoredAtOffendingToken(t *testing.T) {
	e := expectOnlyError(t, "let a = 1 let b = 2;", diagnostics.ErrP101)
	if e.Token.Line != 1 || e.Token.Column != 11 || e.Token.Lexeme != "let" {
		t.Errorf("anchored at %d:%d %q", e.Token.Line, e.Token.Column, e.Token.Lexeme)
	}
	if !strings.Contains(e.Message(), "expected ';'") {
		t.Errorf("unexpected message %q", e.Message())
	}
}

func TestMultipleErrorsInOnePass(t *testing.T) {
	src := `let a = ;
let b = 2;
fn f() {
    let c = ;
    let d: i32 = 4;
    g(;
    return d;
}
let e = 1 let h = 2;
`
	ctx := &pipeline.PipelineContext{SourceCode: src}
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)

	want := []struct {
		line int
		code diagnostics.ErrorCode
	}{
		{1, diagnostics.ErrP102},
		{4, diagnostics.ErrP102},
		{6, diagnostics.ErrP102},
		{9, diagnostics.ErrP101},
	}
	if len(ctx.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %d: %v", len(want), len(ctx.Errors), ctx.Errors)
	}
	for i, w := range want {
		if ctx.Errors[i].Token.Line != w.line || ctx.Errors[i].Code != w.code {
			t.Errorf("error %d: %s at line %d, want %s at line %d",
				i, ctx.Errors[i].Code, ctx.Errors[i].Token.Line, w.code, w.line)
		}
	}

	prog := ctx.Program()
	if got := len(prog.Globals()); got != 4 {
		t.Errorf("expected globals a, b, e, h to survive; got %d", got)
	}
	fns := prog.Functions()
	if len(fns) != 1 || len(fns[0].Body.Statements) != 3 {
		t.Fatalf("function body not recovered: %+v", fns)
	}

	// The caret sits directly under the offending line.
	snippet := diagnostics.NewRenderer(src, "", diagnostics.ColorNever).Snippet(ctx.Errors[2])
	lines := strings.Split(snippet, "\n")
	caret := -1
	for i, l := range lines {
		if strings.Contains(l, "^") {
			caret = i
			break
		}
	}
	if caret < 1 || !strings.Contains(lines[caret-1], "g(;") {
		t.Fatalf("caret not under offending line:\n%s", snippet)
	}
	if strings.Index(lines[caret], "^") != strings.Index(lines[caret-1], ";") {
		t.Errorf("caret column mismatch:\n%s", snippet)
	}
}

func TestNestingDepthLimit(t *testing.T) {
	deep := "let a = " + strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300) + ";"
	errs := parseWithErrors(deep)
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrP109 {
		t.Fatalf("expected a single depth error, got %v", diagnostics.Diagnostics(errs))
	}

	ctx := &pipeline.PipelineContext{SourceCode: "let a = ((((1))));", Options: &config.Options{MaxParseDepth: 4}}
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if len(ctx.Errors) != 1 || ctx.Errors[0].Code != diagnostics.ErrP109 {
		t.Fatalf("configured depth ignored: %v", ctx.Errors)
	}

	expectNoErrors(t, "let a = "+strings.Repeat("(", 100)+"1"+strings.Repeat(")", 100)+";")
}

func TestPartialDeclarationsAreKept(t *testing.T) {
	ctx := &pipeline.PipelineContext{SourceCode: "let a: i32 = ;\nfn f(x: i32 {}\nlet b = 1;"}
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}).Run(ctx)
	if !ctx.Errors.HasErrors() {
		t.Fatal("expected errors")
	}
	prog := ctx.Program()
	globals := prog.Globals()
	if len(globals) != 2 || globals[0].Value != nil || globals[0].TypeAnnotation.Name != "i32" {
		t.Fatalf("unexpected globals %+v", globals)
	}
	fns := prog.Functions()
	if len(fns) != 1 || fns[0].Name.Value != "f" || fns[0].Body != nil {
		t.Fatalf("unexpected functions %+v", fns)
	}
}

// expectNoErrors asserts parsing succeeds without errors.
func expectNoErrors(t *testing.T, input string) {
	t.Helper()
	errs := parseWithErrors(input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
}
