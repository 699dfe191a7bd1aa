package evaluator_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/glint/internal/analyzer"
	"github.com/funvibe/glint/internal/config"
	"github.com/funvibe/glint/internal/diagnostics"
	"github.com/funvibe/glint/internal/evaluator"
	"github.com/funvibe/glint/internal/lexer"
	"github.com/funvibe/glint/internal/parser"
	"github.com/funvibe/glint/internal/pipeline"
)

func compile(t *testing.T, src string) evaluator.Unit {
	t.Helper()
	ctx := &pipeline.PipelineContext{SourceCode: src, Options: config.Default(), ExtractMetadata: true}
	ctx = pipeline.New(&lexer.LexerProcessor{}, &parser.ParserProcessor{}, &analyzer.SemanticAnalyzerProcessor{}).Run(ctx)
	require.False(t, ctx.Errors.HasErrors(), "compile errors:\n%s", ctx.Errors.Error())
	return evaluator.Unit{Program: ctx.Program(), Properties: ctx.Properties, Signals: ctx.Signals}
}

type harness struct {
	inst     *evaluator.Instance
	out      *bytes.Buffer
	warnings []evaluator.Warning
}

func newHarness(t *testing.T, src string) *harness {
	t.Helper()
	h := &harness{out: &bytes.Buffer{}}
	e := evaluator.New()
	e.Out = h.out
	e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	e.OnWarning = func(w evaluator.Warning) { h.warnings = append(h.warnings, w) }
	h.inst = evaluator.NewInstance(e)
	require.Nil(t, h.inst.Initialize(compile(t, src)))
	return h
}

func (h *harness) call(t *testing.T, name string, args ...evaluator.Object) evaluator.Object {
	t.Helper()
	res, err := h.inst.Execute(context.Background(), name, args)
	require.Nil(t, err, "execute %s", name)
	return res
}

func (h *harness) callErr(t *testing.T, name string, args ...evaluator.Object) *evaluator.Error {
	t.Helper()
	_, err := h.inst.Execute(context.Background(), name, args)
	require.NotNil(t, err, "expected %s to fail", name)
	return err
}

func (h *harness) get(t *testing.T, name string) evaluator.Object {
	t.Helper()
	v, err := h.inst.GetProperty(name)
	require.Nil(t, err, "get %s", name)
	return v
}

func i32(v int32) *evaluator.Integer { return &evaluator.Integer{Value: v} }
func f32(v float32) *evaluator.Float { return &evaluator.Float{Value: v} }
func str(v string) *evaluator.String { return &evaluator.String{Value: v} }
func boolean(v bool) *evaluator.Boolean { return &evaluator.Boolean{Value: v} }

func TestExportedDefaultIsSeeded(t *testing.T) {
	h := newHarness(t, `@export let mut health: i32 = 100;`)
	assert.Equal(t, i32(100), h.get(t, "health"))
	assert.Equal(t, evaluator.Idle, h.inst.State())
}

func TestStructDefaultIsDecoded(t *testing.T) {
	h := newHarness(t, `@export let mut origin: Vector2 = Vector2 { x: 1.5, y: -2.0 };
@export let mut tint: Color = Color { r: 1.0, g: 0.5, b: 0.0, a: 1.0 };`)
	assert.Equal(t, evaluator.NewVector2(1.5, -2), h.get(t, "origin"))
	assert.Equal(t, evaluator.NewColor(1, 0.5, 0, 1), h.get(t, "tint"))
}

func TestEditorWriteClampsScriptWriteWarns(t *testing.T) {
	src := `@export(range(0, 100, 1)) let mut health: i32 = 50;`

	h := newHarness(t, src)
	v, err := h.inst.SetProperty("health", i32(150), true)
	require.Nil(t, err)
	assert.Equal(t, i32(100), v)
	assert.Equal(t, i32(100), h.get(t, "health"))
	assert.Empty(t, h.warnings)

	h = newHarness(t, src)
	v, err = h.inst.SetProperty("health", i32(150), false)
	require.Nil(t, err)
	assert.Equal(t, i32(150), v)
	assert.Equal(t, i32(150), h.get(t, "health"))
	require.Len(t, h.warnings, 1)
	assert.Equal(t, diagnostics.WarnW451, h.warnings[0].Code)
	assert.Equal(t, "health", h.warnings[0].Property)
	assert.Equal(t, "value 150 for 'health' is outside range [0, 100]", h.warnings[0].Message)
}

func TestScriptAssignmentTakesScriptPath(t *testing.T) {
	h := newHarness(t, `@export(range(0, 100, 1)) let mut hp: i32 = 50;
fn heal(amount: i32) { hp += amount; }
fn current() -> i32 { return hp; }`)

	h.call(t, "heal", i32(100))
	assert.Equal(t, i32(150), h.get(t, "hp"))
	assert.Equal(t, i32(150), h.call(t, "current"))
	require.Len(t, h.warnings, 1)
	assert.Equal(t, diagnostics.WarnW451, h.warnings[0].Code)
}

func TestEditorClampStaysInRange(t *testing.T) {
	h := newHarness(t, `@export(range(-1.5, 2.25, 0.25)) let mut speed: f32 = 0.0;`)
	inputs := []float32{-1e30, -2, -1.5, -0.1, 0, 1, 2.25, 2.26, 1e30}
	for _, in := range inputs {
		v, err := h.inst.SetProperty("speed", f32(in), true)
		require.Nil(t, err)
		got := v.(*evaluator.Float).Value
		assert.GreaterOrEqual(t, got, float32(-1.5), "input %v", in)
		assert.LessOrEqual(t, got, float32(2.25), "input %v", in)
	}
	v, err := h.inst.SetProperty("speed", i32(7), true)
	require.Nil(t, err)
	assert.Equal(t, f32(2.25), v, "i32 widens before clamping")
}

func TestNonFiniteValuesAreRejected(t *testing.T) {
	h := newHarness(t, `@export(range(0.0, 1.0, 0.1)) let mut volume: f32 = 0.5;`)
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		for _, editor := range []bool{true, false} {
			_, err := h.inst.SetProperty("volume", f32(float32(bad)), editor)
			require.NotNil(t, err)
			assert.Equal(t, diagnostics.ErrR404, err.Code)
			assert.Equal(t, f32(0.5), h.get(t, "volume"))
		}
	}
	assert.Empty(t, h.warnings)
}

func TestPropertyWriteErrors(t *testing.T) {
	h := newHarness(t, `@export let mut name: String = "a";
@export let level: i32 = 3;`)

	_, err := h.inst.SetProperty("missing", i32(1), true)
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrR406, err.Code)

	_, err = h.inst.SetProperty("name", i32(1), true)
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrR407, err.Code)
	assert.Equal(t, str("a"), h.get(t, "name"))

	_, err = h.inst.SetProperty("level", i32(4), true)
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrR407, err.Code)

	_, err = h.inst.GetProperty("missing")
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrR406, err.Code)
}

func TestSignalEmission(t *testing.T) {
	h := newHarness(t, `signal hit(amount: i32);
signal moved(to: Vector2, speed: f32);
fn attack() { emit_signal("hit", 5); }
fn walk() { emit_signal("moved", Vector2 { x: 1.0, y: 0.0 }, 3); }`)

	type emission struct {
		name string
		args []evaluator.Object
	}
	var got []emission
	h.inst.Evaluator().Emitter = func(name string, args []evaluator.Object) error {
		got = append(got, emission{name, args})
		return nil
	}

	h.call(t, "attack")
	require.Len(t, got, 1)
	assert.Equal(t, "hit", got[0].name)
	assert.Equal(t, []evaluator.Object{i32(5)}, got[0].args)

	h.call(t, "walk")
	require.Len(t, got, 2)
	assert.Equal(t, []evaluator.Object{evaluator.NewVector2(1, 0), f32(3)}, got[1].args)
}

func TestSignalWithoutEmitterIsNoop(t *testing.T) {
	h := newHarness(t, `signal done();
fn finish() -> i32 { emit_signal("done"); return 1; }`)
	assert.Equal(t, i32(1), h.call(t, "finish"))
}

func TestEmitterFailureAbortsCall(t *testing.T) {
	h := newHarness(t, `signal hit(amount: i32);
let mut after: i32 = 0;
fn attack() { emit_signal("hit", 1); after = 1; }
fn read() -> i32 { return after; }`)
	h.inst.Evaluator().Emitter = func(string, []evaluator.Object) error { return errors.New("host busy") }

	err := h.callErr(t, "attack")
	assert.Equal(t, diagnostics.ErrR403, err.Code)
	assert.Equal(t, "signal 'hit': host busy", err.Message)
	assert.Equal(t, i32(0), h.call(t, "read"))
}

func TestRuntimeErrorDoesNotPoisonInstance(t *testing.T) {
	h := newHarness(t, `let mut count: i32 = 0;
fn bump() { count += 1; }
fn divide(d: i32) -> i32 {
    count += 10;
    return 100 / d;
}
fn read() -> i32 { return count; }`)

	err := h.callErr(t, "divide", i32(0))
	assert.Equal(t, diagnostics.ErrR402, err.Code)
	assert.Equal(t, 5, err.Line)
	assert.Equal(t, evaluator.Idle, h.inst.State())

	h.call(t, "bump")
	assert.Equal(t, i32(11), h.call(t, "read"))
	assert.Equal(t, i32(25), h.call(t, "divide", i32(4)))
}

func TestCallDepthLimit(t *testing.T) {
	h := newHarness(t, `fn dive(n: i32) -> i32 { return dive(n + 1); }
fn ok() -> i32 { return 1; }`)
	h.inst.Evaluator().MaxCallDepth = 32

	err := h.callErr(t, "dive", i32(0))
	assert.Equal(t, diagnostics.ErrR408, err.Code)
	assert.Len(t, err.StackTrace, 32)
	assert.Equal(t, i32(1), h.call(t, "ok"))
}

func TestEntryPointErrors(t *testing.T) {
	h := newHarness(t, `let speed: f32 = 1.0;
fn scale(by: f32) -> f32 { return speed * by; }`)

	err := h.callErr(t, "missing")
	assert.Equal(t, diagnostics.ErrR405, err.Code)
	err = h.callErr(t, "speed")
	assert.Equal(t, diagnostics.ErrR405, err.Code, "globals are not entry points")
	err = h.callErr(t, "sqrt", f32(4))
	assert.Equal(t, diagnostics.ErrR405, err.Code, "builtins are not entry points")

	err = h.callErr(t, "scale")
	assert.Equal(t, diagnostics.ErrR410, err.Code)
	assert.Equal(t, "entry point 'scale' expects 1 argument(s), got 0", err.Message)

	err = h.callErr(t, "scale", str("x"))
	assert.Equal(t, diagnostics.ErrR407, err.Code)

	assert.Equal(t, f32(3), h.call(t, "scale", i32(3)), "i32 argument widens")
}

func TestArithmetic(t *testing.T) {
	h := newHarness(t, `fn overflow() -> i32 { return 2147483647 + 1; }
fn mixed() -> f32 { return 1 + 0.5; }
fn fmod() -> f32 { return 7.5 % 2.0; }
fn imod() -> i32 { return -7 % 3; }
fn idiv() -> i32 { return -7 / 2; }
fn cmp() -> bool { return 2 < 2.5 && 3 == 3.0 && "a" < "b"; }
fn concat() -> String { return "gl" + "int"; }
fn shortcut() -> bool { return false && 1 / 0 == 0; }
fn fzero() -> f32 { return 1.0 / 0.0; }
fn neg() -> i32 { let x = 5; return -x; }`)

	assert.Equal(t, i32(math.MinInt32), h.call(t, "overflow"))
	assert.Equal(t, f32(1.5), h.call(t, "mixed"))
	assert.Equal(t, f32(1.5), h.call(t, "fmod"))
	assert.Equal(t, i32(-1), h.call(t, "imod"))
	assert.Equal(t, i32(-3), h.call(t, "idiv"))
	assert.Equal(t, boolean(true), h.call(t, "cmp"))
	assert.Equal(t, str("glint"), h.call(t, "concat"))
	assert.Equal(t, boolean(false), h.call(t, "shortcut"))
	assert.Equal(t, diagnostics.ErrR402, h.callErr(t, "fzero").Code)
	assert.Equal(t, i32(-5), h.call(t, "neg"))
}

func TestLoops(t *testing.T) {
	h := newHarness(t, `fn sum(n: i32) -> i32 {
    let mut i = 0;
    let mut total = 0;
    while true {
        i += 1;
        if i > n { break; }
        if i % 2 == 0 { continue; }
        total += i;
    }
    return total;
}`)
	assert.Equal(t, i32(25), h.call(t, "sum", i32(10)))
}

func TestStructValueSemantics(t *testing.T) {
	h := newHarness(t, `struct Enemy { hp: i32, pos: Vector2 }
fn copy() -> f32 {
    let mut a = Vector2 { x: 1.0, y: 2.0 };
    let b = a;
    a.x = 5.0;
    return b.x + a.x;
}
fn nested() -> Enemy {
    let mut e = Enemy { hp: 3, pos: Vector2 { x: 0.0, y: 0.0 } };
    e.pos.y = 4;
    e.hp -= 1;
    return e;
}`)
	assert.Equal(t, f32(6), h.call(t, "copy"))

	res := h.call(t, "nested").(*evaluator.StructInstance)
	assert.Equal(t, "Enemy { hp: 2, pos: Vector2 { x: 0.0, y: 4.0 } }", res.Inspect())
	pos, ok := res.StructField("pos")
	require.True(t, ok)
	assert.Equal(t, f32(4), pos.Fields[1], "i32 widened on field write")
}

func TestBuiltins(t *testing.T) {
	h := newHarness(t, `fn run() {
    print("hp", 3, 1.5, true, Vector2 { x: 1.0, y: 2.0 });
    print(to_string(2.0), len("héllo"));
}
fn trunc(x: f32) -> i32 { return to_int(x); }
fn root(x: f32) -> f32 { return sqrt(x); }
fn mix() -> f32 { return lerp(0, 10, 0.25) + clamp(5, 0, 1) + min(2, 3) + max(2, 3) + abs(-1) + floor(1.7); }
fn norm() -> Vector2 { return vec2_normalized(Vector2 { x: 3.0, y: 4.0 }); }
fn zero() -> Vector2 { return vec2_normalized(Vector2 { x: 0.0, y: 0.0 }); }
fn length() -> f32 { return vec2_length(Vector2 { x: 3.0, y: 4.0 }); }
fn inside(x: f32, y: f32) -> bool {
    let r = Rect2 { position: Vector2 { x: 0.0, y: 0.0 }, size: Vector2 { x: 10.0, y: 5.0 } };
    return rect_has_point(r, Vector2 { x: x, y: y });
}
fn moved(angle: f32) -> Vector2 {
    let t = Transform2D { position: Vector2 { x: 10.0, y: 0.0 }, rotation: angle, scale: Vector2 { x: 2.0, y: 2.0 } };
    return transform_point(t, Vector2 { x: 1.0, y: 1.0 });
}`)

	h.call(t, "run")
	assert.Equal(t, "hp 3 1.5 true Vector2 { x: 1.0, y: 2.0 }\n2.0 5\n", h.out.String())

	assert.Equal(t, i32(-2), h.call(t, "trunc", f32(-2.7)))
	assert.Equal(t, diagnostics.ErrR409, h.callErr(t, "trunc", f32(3e9)).Code)
	assert.Equal(t, diagnostics.ErrR409, h.callErr(t, "trunc", f32(float32(math.NaN()))).Code)
	assert.Equal(t, f32(3), h.call(t, "root", f32(9)))
	assert.Equal(t, diagnostics.ErrR409, h.callErr(t, "root", f32(-1)).Code)
	assert.Equal(t, f32(2.5+1+2+3+1+1), h.call(t, "mix"))

	x, y, ok := evaluator.Vector2Components(h.call(t, "norm"))
	require.True(t, ok)
	assert.InDelta(t, 0.6, x, 1e-6)
	assert.InDelta(t, 0.8, y, 1e-6)
	assert.Equal(t, evaluator.NewVector2(0, 0), h.call(t, "zero"))
	assert.Equal(t, f32(5), h.call(t, "length"))

	assert.Equal(t, boolean(true), h.call(t, "inside", f32(0), f32(0)))
	assert.Equal(t, boolean(true), h.call(t, "inside", f32(9.9), f32(4.9)))
	assert.Equal(t, boolean(false), h.call(t, "inside", f32(10), f32(1)))
	assert.Equal(t, boolean(false), h.call(t, "inside", f32(-0.1), f32(1)))

	assert.Equal(t, evaluator.NewVector2(12, 2), h.call(t, "moved", f32(0)))
	x, y, ok = evaluator.Vector2Components(h.call(t, "moved", f32(math.Pi/2)))
	require.True(t, ok)
	assert.InDelta(t, 8, x, 1e-5)
	assert.InDelta(t, 2, y, 1e-5)
}

func TestReloadKeepsMigratesAndResets(t *testing.T) {
	h := newHarness(t, `@export let mut a: i32 = 1;
@export let mut b: i32 = 2;
@export let mut c: String = "x";
fn old() {}`)
	_, err := h.inst.SetProperty("a", i32(10), true)
	require.Nil(t, err)

	require.Nil(t, h.inst.Reload(compile(t, `@export let mut a: f32 = 0.0;
@export let mut c: i32 = 3;
@export let mut d: bool = true;
let base: i32 = 7;
fn fresh() -> i32 { return base + c; }`)))

	assert.Equal(t, f32(10), h.get(t, "a"), "i32 migrates to f32")
	assert.Equal(t, i32(3), h.get(t, "c"), "type drift resets to default")
	assert.Equal(t, boolean(true), h.get(t, "d"))
	_, getErr := h.inst.GetProperty("b")
	require.NotNil(t, getErr)
	assert.Equal(t, diagnostics.ErrR406, getErr.Code)

	require.Len(t, h.warnings, 1)
	assert.Equal(t, diagnostics.WarnW452, h.warnings[0].Code)
	assert.Equal(t, "property 'c' changed type from String to i32; reset to default", h.warnings[0].Message)

	assert.Equal(t, i32(10), h.call(t, "fresh"))
	assert.Equal(t, diagnostics.ErrR405, h.callErr(t, "old").Code)
}

func TestFailedReloadKeepsPreviousProgram(t *testing.T) {
	h := newHarness(t, `@export let mut a: i32 = 1;
fn read() -> i32 { return a; }`)

	err := h.inst.Reload(compile(t, `@export let mut a: i32 = 2;
let broken: i32 = 1 / 0;
fn other() {}`))
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrR402, err.Code)

	assert.Equal(t, evaluator.Idle, h.inst.State())
	assert.Equal(t, i32(1), h.call(t, "read"))
	assert.Equal(t, diagnostics.ErrR405, h.callErr(t, "other").Code)
}

func TestStateMachine(t *testing.T) {
	h := newHarness(t, `signal ping();
@export let mut n: i32 = 0;
fn tick() { emit_signal("ping"); }
fn noop() {}`)

	var reentrant, write *evaluator.Error
	var observed evaluator.State
	h.inst.Evaluator().Emitter = func(string, []evaluator.Object) error {
		observed = h.inst.State()
		_, reentrant = h.inst.Execute(context.Background(), "noop", nil)
		_, write = h.inst.SetProperty("n", i32(1), true)
		return nil
	}
	h.call(t, "tick")
	assert.Equal(t, evaluator.Running, observed)
	require.NotNil(t, reentrant)
	assert.Equal(t, diagnostics.ErrR411, reentrant.Code)
	require.NotNil(t, write)
	assert.Equal(t, diagnostics.ErrR411, write.Code)
	assert.Equal(t, i32(0), h.get(t, "n"))

	h.inst.Close()
	h.inst.Close()
	assert.Equal(t, evaluator.Terminated, h.inst.State())
	assert.Equal(t, diagnostics.ErrR411, h.callErr(t, "noop").Code)
	_, err := h.inst.GetProperty("n")
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrR411, err.Code)
	assert.Equal(t, diagnostics.ErrR411, h.inst.Reload(compile(t, "fn noop() {}")).Code)
}

func TestCloseFromEmitterStaysTerminated(t *testing.T) {
	h := newHarness(t, `signal bye();
fn leave() { emit_signal("bye"); }`)
	h.inst.Evaluator().Emitter = func(string, []evaluator.Object) error {
		h.inst.Close()
		return nil
	}
	h.call(t, "leave")
	assert.Equal(t, evaluator.Terminated, h.inst.State())
}

func TestCancelledContext(t *testing.T) {
	h := newHarness(t, `fn spin() { while true { } }`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.inst.Execute(ctx, "spin", nil)
	require.NotNil(t, err)
	assert.Equal(t, diagnostics.ErrR411, err.Code)
	assert.Equal(t, evaluator.Idle, h.inst.State())
}
