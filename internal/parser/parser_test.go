package parser_test

import (
	"testing"

	"github.com/funvibe/glint/internal/ast"
	"github.com/funvibe/glint/internal/lexer"
	"github.com/funvibe/glint/internal/parser"
	"github.com/funvibe/glint/internal/pipeline"
	"github.com/funvibe/glint/internal/prettyprinter"
)

// parse is a test helper: lexes+parses input and fails on errors.
func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: input}
	lp := &lexer.LexerProcessor{}
	ctx = lp.Process(ctx)
	pp := &parser.ParserProcessor{}
	ctx = pp.Process(ctx)
	if len(ctx.Errors) > 0 {
		for _, e := range ctx.Errors {
			t.Errorf("parse error: %s", e)
		}
		t.FailNow()
	}
	return ctx.AstRoot.(*ast.Program)
}

func parseExpression(t *testing.T, input string) ast.Expression {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: input}
	expr := parser.New(lexer.NewTokenStream(lexer.New(input)), ctx).ParseExpression()
	if len(ctx.Errors) > 0 || expr == nil {
		t.Fatalf("parse errors in %q: %v", input, ctx.Errors)
	}
	return expr
}

// body returns the statements of the first function in prog.
func body(t *testing.T, prog *ast.Program) []ast.Statement {
	t.Helper()
	fns := prog.Functions()
	if len(fns) == 0 || fns[0].Body == nil {
		t.Fatalf("no function body in program")
	}
	return fns[0].Body.Statements
}

// sexpr prints an expression fully parenthesized.
func sexpr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.InfixExpression:
		return "(" + sexpr(n.Left) + " " + n.Operator + " " + sexpr(n.Right) + ")"
	case *ast.PrefixExpression:
		return "(" + n.Operator + sexpr(n.Right) + ")"
	case *ast.CallExpression:
		s := n.Function.Value + "("
		for i, arg := range n.Arguments {
			if i > 0 {
				s += ", "
			}
			s += sexpr(arg)
		}
		return s + ")"
	case *ast.FieldAccessExpression:
		return sexpr(n.Object) + "." + n.Field.Value
	}
	return prettyprinter.Print(e)
}

func TestParseItems(t *testing.T) {
	prog := parse(t, `struct Enemy { pos: Vector2, hp: i32 }
signal hit(amount: i32, at: Vector2);
@export(range(0, 100, 1)) let mut health: i32 = 50;
let speed = 2.5;
fn tick(delta: f32) -> bool { return true; }
fn reset() {}
`)
	if len(prog.Statements) != 6 {
		t.Fatalf("expected 6 items, got %d", len(prog.Statements))
	}

	structs := prog.Structs()
	if len(structs) != 1 || structs[0].Name.Value != "Enemy" || len(structs[0].Fields) != 2 {
		t.Fatalf("unexpected struct: %+v", structs)
	}
	if structs[0].Fields[1].Name.Value != "hp" || structs[0].Fields[1].Type.Name != "i32" {
		t.Errorf("unexpected field %+v", structs[0].Fields[1])
	}

	signals := prog.Signals()
	if len(signals) != 1 || signals[0].Name.Value != "hit" || len(signals[0].Parameters) != 2 {
		t.Fatalf("unexpected signal: %+v", signals)
	}
	if signals[0].Parameters[1].Type.Name != "Vector2" {
		t.Errorf("second signal param type %s", signals[0].Parameters[1].Type.Name)
	}

	globals := prog.Globals()
	if len(globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(globals))
	}
	health := globals[0]
	if !health.Global || !health.Mutable || health.Export == nil || health.TypeAnnotation.Name != "i32" {
		t.Fatalf("unexpected health declaration: %+v", health)
	}
	hint, ok := health.Export.Hint.(*ast.RangeHint)
	if !ok {
		t.Fatalf("expected range hint, got %T", health.Export.Hint)
	}
	if hint.Min != 0 || hint.Max != 100 || hint.Step != 1 || !hint.HasStep || !hint.Integral {
		t.Errorf("unexpected range hint %+v", hint)
	}
	speed := globals[1]
	if speed.Mutable || speed.Export != nil || speed.TypeAnnotation != nil {
		t.Errorf("unexpected speed declaration: %+v", speed)
	}
	if lit, ok := speed.Value.(*ast.FloatLiteral); !ok || lit.Value != 2.5 {
		t.Errorf("speed value %#v", speed.Value)
	}

	fns := prog.Functions()
	if len(fns) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fns))
	}
	if fns[0].Name.Value != "tick" || len(fns[0].Parameters) != 1 || fns[0].ReturnType.Name != "bool" {
		t.Errorf("unexpected tick: %+v", fns[0])
	}
	if fns[1].ReturnType != nil || len(fns[1].Body.Statements) != 0 {
		t.Errorf("unexpected reset: %+v", fns[1])
	}
}

func TestIfConditionIsNotStructLiteral(t *testing.T) {
	prog := parse(t, "fn main() { if x { foo(); } }")
	stmts := body(t, prog)
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	ifStmt, ok := stmts[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", stmts[0])
	}
	if ident, ok := ifStmt.Condition.(*ast.Identifier); !ok || ident.Value != "x" {
		t.Fatalf("condition is %T, want identifier x", ifStmt.Condition)
	}
	if len(ifStmt.Consequence.Statements) != 1 {
		t.Fatalf("expected 1 statement in consequence")
	}
	es, ok := ifStmt.Consequence.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected call statement, got %T", ifStmt.Consequence.Statements[0])
	}
	if call, ok := es.Expression.(*ast.CallExpression); !ok || call.Function.Value != "foo" {
		t.Errorf("expected call to foo, got %s", sexpr(es.Expression))
	}
}

func TestStructLiterals(t *testing.T) {
	prog := parse(t, `fn main() {
    let v = Vector2 { x: 1.0, y: 2.0 };
    let r = Rect2 { position: v, size: Vector2 { x: 1, y: 1 }, };
    let e = Empty {};
}`)
	stmts := body(t, prog)
	v := stmts[0].(*ast.LetStatement).Value.(*ast.StructLiteral)
	if v.TypeName.Value != "Vector2" || len(v.Fields) != 2 || v.Field("y") == nil {
		t.Fatalf("unexpected literal %s", prettyprinter.Print(v))
	}
	r := stmts[1].(*ast.LetStatement).Value.(*ast.StructLiteral)
	if _, ok := r.Field("size").(*ast.StructLiteral); !ok {
		t.Errorf("nested literal not parsed: %s", prettyprinter.Print(r))
	}
	e := stmts[2].(*ast.LetStatement).Value.(*ast.StructLiteral)
	if len(e.Fields) != 0 {
		t.Errorf("expected empty literal")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"a - b - c", "((a - b) - c)"},
		{"a / b % c", "((a / b) % c)"},
		{"-a * b", "((-a) * b)"},
		{"!a == b", "((!a) == b)"},
		{"a || b && c", "(a || (b && c))"},
		{"a && b || c && d", "((a && b) || (c && d))"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a <= b != c >= d", "((a <= b) != (c >= d))"},
		{"a + f(b, c * d).x", "(a + f(b, (c * d)).x)"},
		{"(a + b) * c", "((a + b) * c)"},
		{"v.pos.x * 2.0", "(v.pos.x * 2.0)"},
		{"- -a", "(-(-a))"},
		{"f(a,)", "f(a)"},
	}
	for _, tt := range tests {
		got := sexpr(parseExpression(t, tt.input))
		if got != tt.expected {
			t.Errorf("%q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestAssignments(t *testing.T) {
	prog := parse(t, "fn main() { x = 1; x += 2; v.pos.x -= 1.0; y %= 3; }")
	stmts := body(t, prog)
	want := []struct {
		target string
		op     string
		binary string
	}{
		{"x", "=", ""},
		{"x", "+=", "+"},
		{"v.pos.x", "-=", "-"},
		{"y", "%=", "%"},
	}
	if len(stmts) != len(want) {
		t.Fatalf("expected %d statements, got %d", len(want), len(stmts))
	}
	for i, w := range want {
		as, ok := stmts[i].(*ast.AssignStatement)
		if !ok {
			t.Fatalf("statement %d is %T", i, stmts[i])
		}
		if sexpr(as.Target) != w.target || as.Operator != w.op || as.BinaryOperator() != w.binary {
			t.Errorf("statement %d: %s %s (%q)", i, sexpr(as.Target), as.Operator, as.BinaryOperator())
		}
	}
	if root := ast.RootIdentifier(stmts[2].(*ast.AssignStatement).Target); root == nil || root.Value != "v" {
		t.Errorf("root of v.pos.x is %v", root)
	}
}

func TestControlFlow(t *testing.T) {
	prog := parse(t, `fn main() -> i32 {
    let mut i = 0;
    while i < 10 {
        if i == 3 { break; } else if i == 2 { continue; } else { i += 1; }
    }
    return;
}`)
	stmts := body(t, prog)
	loop, ok := stmts[1].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected while, got %T", stmts[1])
	}
	ifStmt := loop.Body.Statements[0].(*ast.IfStatement)
	if _, ok := ifStmt.Consequence.Statements[0].(*ast.BreakStatement); !ok {
		t.Errorf("expected break")
	}
	elseIf, ok := ifStmt.Alternative.(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected else-if, got %T", ifStmt.Alternative)
	}
	if _, ok := elseIf.Consequence.Statements[0].(*ast.ContinueStatement); !ok {
		t.Errorf("expected continue")
	}
	if _, ok := elseIf.Alternative.(*ast.BlockStatement); !ok {
		t.Errorf("expected final else block, got %T", elseIf.Alternative)
	}
	if ret := stmts[2].(*ast.ReturnStatement); ret.Value != nil {
		t.Errorf("bare return has value %v", ret.Value)
	}
}

func TestExportHints(t *testing.T) {
	tests := []struct {
		input string
		check func(t *testing.T, hint ast.Hint)
	}{
		{`@export let mut a: i32 = 1;`, func(t *testing.T, hint ast.Hint) {
			if hint != nil {
				t.Errorf("expected no hint, got %T", hint)
			}
		}},
		{`@export(range(-10, 10)) let mut a: i32 = 1;`, func(t *testing.T, hint ast.Hint) {
			h := hint.(*ast.RangeHint)
			if h.Min != -10 || h.Max != 10 || h.HasStep || !h.Integral {
				t.Errorf("unexpected %+v", h)
			}
		}},
		{`@export(range(0.0, 1, 0.1)) let mut a: f32 = 0.5;`, func(t *testing.T, hint ast.Hint) {
			h := hint.(*ast.RangeHint)
			if h.Max != 1 || h.Step != 0.1 || !h.HasStep || h.Integral {
				t.Errorf("unexpected %+v", h)
			}
		}},
		{`@export(enum("Idle", "Walk")) let mut s: String = "Idle";`, func(t *testing.T, hint ast.Hint) {
			h := hint.(*ast.EnumHint)
			if len(h.Values) != 2 || h.Values[1] != "Walk" {
				t.Errorf("unexpected %+v", h)
			}
		}},
		{`@export(file("*.png", "jpg")) let mut s: String = "";`, func(t *testing.T, hint ast.Hint) {
			h := hint.(*ast.FileHint)
			if len(h.Patterns) != 2 || h.Patterns[1] != "jpg" {
				t.Errorf("unexpected %+v", h)
			}
		}},
		{`@export(enum()) let mut s: String = "";`, func(t *testing.T, hint ast.Hint) {
			if h := hint.(*ast.EnumHint); len(h.Values) != 0 {
				t.Errorf("unexpected %+v", h)
			}
		}},
	}
	for _, tt := range tests {
		prog := parse(t, tt.input)
		globals := prog.Globals()
		if len(globals) != 1 || globals[0].Export == nil {
			t.Fatalf("%s: expected one exported global", tt.input)
		}
		tt.check(t, globals[0].Export.Hint)
	}
}

func TestHintNamesAreOrdinaryIdentifiers(t *testing.T) {
	prog := parse(t, "let range = 1; let file = 2; fn enum(x: i32) -> i32 { return x; }")
	if len(prog.Globals()) != 2 || prog.Functions()[0].Name.Value != "enum" {
		t.Fatalf("hint names should be usable as identifiers")
	}
}
