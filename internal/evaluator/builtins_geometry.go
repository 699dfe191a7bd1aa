package evaluator

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/funvibe/glint/internal/config"
)

func vectorArg(name string, obj Object) (f64.Vec2, *Error) {
	x, y, ok := Vector2Components(obj)
	if !ok {
		return f64.Vec2{}, argError(name, "expected Vector2, got %s", obj.RuntimeType())
	}
	return f64.Vec2{float64(x), float64(y)}, nil
}

func newVector(v f64.Vec2) *StructInstance {
	return NewVector2(float32(v[0]), float32(v[1]))
}

func builtinVec2Length(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return argError(config.Vec2LengthFuncName, "expected 1 argument, got %d", len(args))
	}
	v, err := vectorArg(config.Vec2LengthFuncName, args[0])
	if err != nil {
		return err
	}
	return &Float{Value: float32(math.Hypot(v[0], v[1]))}
}

// builtinVec2Normalized returns the zero vector for a zero-length input.
func builtinVec2Normalized(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return argError(config.Vec2NormalizedFuncName, "expected 1 argument, got %d", len(args))
	}
	v, err := vectorArg(config.Vec2NormalizedFuncName, args[0])
	if err != nil {
		return err
	}
	l := math.Hypot(v[0], v[1])
	if l == 0 {
		return NewVector2(0, 0)
	}
	return newVector(f64.Vec2{v[0] / l, v[1] / l})
}

// builtinRectHasPoint treats the rect as half-open: the position edge is
// inside, the far edge is not.
func builtinRectHasPoint(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return argError(config.RectHasPointFuncName, "expected 2 arguments, got %d", len(args))
	}
	rect, ok := args[0].(*StructInstance)
	if !ok || rect.Def.Name != config.Rect2TypeName {
		return argError(config.RectHasPointFuncName, "expected Rect2, got %s", args[0].RuntimeType())
	}
	posObj, _ := rect.Get("position")
	sizeObj, _ := rect.Get("size")
	pos, err := vectorArg(config.RectHasPointFuncName, posObj)
	if err != nil {
		return err
	}
	size, err := vectorArg(config.RectHasPointFuncName, sizeObj)
	if err != nil {
		return err
	}
	p, err := vectorArg(config.RectHasPointFuncName, args[1])
	if err != nil {
		return err
	}
	inside := p[0] >= pos[0] && p[0] < pos[0]+size[0] &&
		p[1] >= pos[1] && p[1] < pos[1]+size[1]
	return nativeBool(inside)
}

// transformMatrix builds the affine matrix for scale, then rotation, then
// translation.
func transformMatrix(position f64.Vec2, rotation float64, scale f64.Vec2) f64.Aff3 {
	sin, cos := math.Sincos(rotation)
	return f64.Aff3{
		cos * scale[0], -sin * scale[1], position[0],
		sin * scale[0], cos * scale[1], position[1],
	}
}

func applyAffine(m f64.Aff3, p f64.Vec2) f64.Vec2 {
	return f64.Vec2{
		m[0]*p[0] + m[1]*p[1] + m[2],
		m[3]*p[0] + m[4]*p[1] + m[5],
	}
}

func builtinTransformPoint(e *Evaluator, args ...Object) Object {
	if len(args) != 2 {
		return argError(config.TransformPointFuncName, "expected 2 arguments, got %d", len(args))
	}
	t, ok := args[0].(*StructInstance)
	if !ok || t.Def.Name != config.Transform2DTypeName {
		return argError(config.TransformPointFuncName, "expected Transform2D, got %s", args[0].RuntimeType())
	}
	posObj, _ := t.Get("position")
	scaleObj, _ := t.Get("scale")
	rotation, _ := t.FloatField("rotation")
	position, err := vectorArg(config.TransformPointFuncName, posObj)
	if err != nil {
		return err
	}
	scale, err := vectorArg(config.TransformPointFuncName, scaleObj)
	if err != nil {
		return err
	}
	p, err := vectorArg(config.TransformPointFuncName, args[1])
	if err != nil {
		return err
	}
	return newVector(applyAffine(transformMatrix(position, float64(rotation), scale), p))
}
