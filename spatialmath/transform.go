package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a hierarchical scene transform: translation, rotation, and
// per-axis scale, expressed relative to a parent frame (or the world frame
// at the root of a hierarchy).
type Transform struct {
	Translation r3.Vector
	Rotation    Rotation
	Scale       r3.Vector
}

// NewZeroTransform returns the identity transform using the given rotation
// implementation's identity and unit scale.
func NewZeroTransform(rot Rotation) Transform {
	return Transform{
		Rotation: ZeroRotationLike(rot),
		Scale:    r3.Vector{X: 1, Y: 1, Z: 1},
	}
}

// TransformPoint maps pt from this transform's local frame into its parent
// frame: scale, then rotate, then translate.
func (t Transform) TransformPoint(pt r3.Vector) r3.Vector {
	scaled := r3.Vector{X: pt.X * t.Scale.X, Y: pt.Y * t.Scale.Y, Z: pt.Z * t.Scale.Z}
	return t.Translation.Add(t.Rotation.RotatePoint(scaled))
}

// Mul composes a parent transform with a child transform, yielding the
// child's placement in the parent's parent frame.
func (t Transform) Mul(child Transform) Transform {
	return Transform{
		Translation: t.TransformPoint(child.Translation),
		Rotation:    t.Rotation.Mul(child.Rotation),
		Scale: r3.Vector{
			X: t.Scale.X * child.Scale.X,
			Y: t.Scale.Y * child.Scale.Y,
			Z: t.Scale.Z * child.Scale.Z,
		},
	}
}

// ApproxEqual reports whether o is within epsilon of the transform in
// translation, rotation, and scale.
func (t Transform) ApproxEqual(o Transform, epsilon float64) bool {
	return t.Translation.Sub(o.Translation).Norm() < epsilon &&
		t.Rotation.ApproxEqual(o.Rotation, epsilon) &&
		t.Scale.Sub(o.Scale).Norm() < epsilon
}

// rotationMatrix converts a quaternion into the equivalent 3x3 rotation
// matrix, normalizing it first.
func rotationMatrix(q quat.Number) mgl64.Mat3 {
	n := quat.Abs(q)
	if n == 0 {
		return mgl64.Ident3()
	}
	q = quat.Scale(1/n, q)
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	var m mgl64.Mat3
	m.Set(0, 0, 1-2*(y*y+z*z))
	m.Set(0, 1, 2*(x*y-z*w))
	m.Set(0, 2, 2*(x*z+y*w))
	m.Set(1, 0, 2*(x*y+z*w))
	m.Set(1, 1, 1-2*(x*x+z*z))
	m.Set(1, 2, 2*(y*z-x*w))
	m.Set(2, 0, 2*(x*z-y*w))
	m.Set(2, 1, 2*(y*z+x*w))
	m.Set(2, 2, 1-2*(x*x+y*y))
	return m
}
