package glint_test

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	glint "github.com/funvibe/glint/pkg/embed"
)

func TestMarshallerRoundTrip(t *testing.T) {
	m := glint.NewMarshaller()
	values := []glint.Value{
		glint.Nil{},
		glint.Int(0),
		glint.Int(math.MinInt32),
		glint.Int(math.MaxInt32),
		glint.Float(-0.25),
		glint.Float(math.MaxFloat32),
		glint.Float(math.SmallestNonzeroFloat32),
		glint.Bool(true),
		glint.String(""),
		glint.String("héllo, wörld"),
		glint.Vector2{X: 1, Y: -2},
		glint.Color{R: 0.1, G: 0.2, B: 0.3, A: 1},
		glint.Rect2{Position: glint.Vector2{X: 1, Y: 2}, Size: glint.Vector2{X: 3, Y: 4}},
		glint.Transform2D{Position: glint.Vector2{X: 5}, Rotation: 1.5, Scale: glint.Vector2{X: 1, Y: 1}},
		glint.Struct{Name: "Item", Fields: []glint.Field{{Name: "id", Value: glint.Int(1)}}},
	}
	for _, v := range values {
		t.Run(v.Kind().String(), func(t *testing.T) {
			back, err := m.ToValue(m.FromValue(v))
			require.NoError(t, err)
			assert.Equal(t, v, back)
		})
	}
}

func TestMarshallerGoValues(t *testing.T) {
	m := glint.NewMarshaller()
	tests := []struct {
		in   interface{}
		want glint.Value
	}{
		{nil, glint.Nil{}},
		{42, glint.Int(42)},
		{int64(-7), glint.Int(-7)},
		{uint8(200), glint.Int(200)},
		{float64(0.5), glint.Float(0.5)},
		{float32(1.25), glint.Float(1.25)},
		{false, glint.Bool(false)},
		{"x", glint.String("x")},
		{(*int)(nil), glint.Nil{}},
	}
	for _, tt := range tests {
		got, err := m.ToValue(tt.in)
		require.NoError(t, err, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}

	n := 9
	got, err := m.ToValue(&n)
	require.NoError(t, err)
	assert.Equal(t, glint.Int(9), got)

	for _, bad := range []interface{}{int64(math.MaxInt32) + 1, uint64(math.MaxUint64), []int{1}, map[string]int{}} {
		_, err := m.ToValue(bad)
		assert.Error(t, err, "%#v", bad)
	}
}

func TestMarshallerDecode(t *testing.T) {
	m := glint.NewMarshaller()

	var i int
	require.NoError(t, m.Decode(glint.Int(3), &i))
	assert.Equal(t, 3, i)

	var f float64
	require.NoError(t, m.Decode(glint.Int(2), &f))
	assert.Equal(t, 2.0, f)

	var s string
	require.NoError(t, m.Decode(glint.String("ok"), &s))
	assert.Equal(t, "ok", s)

	var v glint.Vector2
	require.NoError(t, m.Decode(glint.Vector2{X: 1, Y: 2}, &v))
	assert.Equal(t, glint.Vector2{X: 1, Y: 2}, v)

	var anything interface{}
	require.NoError(t, m.Decode(glint.Bool(true), &anything))
	assert.Equal(t, true, anything)

	assert.Error(t, m.Decode(glint.String("no"), &i))
	assert.Error(t, m.Decode(glint.Int(1), i))
}

func TestValuesSurviveTheRuntime(t *testing.T) {
	prog, err := glint.Compile(`struct Item { id: i32, label: String, at: Rect2 }
fn echo_int(v: i32) -> i32 { return v; }
fn echo_float(v: f32) -> f32 { return v; }
fn echo_bool(v: bool) -> bool { return v; }
fn echo_string(v: String) -> String { return v; }
fn echo_color(v: Color) -> Color { return v; }
fn echo_transform(v: Transform2D) -> Transform2D { return v; }
fn echo_item(v: Item) -> Item { return v; }`)
	require.NoError(t, err)
	env, err := glint.NewEnvironment(prog, glint.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	tests := []struct {
		entry string
		value glint.Value
	}{
		{"echo_int", glint.Int(math.MinInt32)},
		{"echo_float", glint.Float(-3.75)},
		{"echo_bool", glint.Bool(true)},
		{"echo_string", glint.String("naïve")},
		{"echo_color", glint.Color{R: 1, G: 0.5, B: 0.25, A: 0}},
		{"echo_transform", glint.Transform2D{Position: glint.Vector2{X: 1, Y: 2}, Rotation: 0.5, Scale: glint.Vector2{X: 2, Y: 2}}},
		{"echo_item", glint.Struct{Name: "Item", Fields: []glint.Field{
			{Name: "id", Value: glint.Int(4)},
			{Name: "label", Value: glint.String("box")},
			{Name: "at", Value: glint.Rect2{Size: glint.Vector2{X: 8, Y: 8}}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.entry, func(t *testing.T) {
			got, err := env.Execute(tt.entry, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}
