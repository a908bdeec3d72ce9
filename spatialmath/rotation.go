// Package spatialmath defines the rotation, inertia, and transform math used
// to prepare rigid bodies for simulation. Planar (2D) and spatial (3D) worlds
// share the same interfaces; a world picks one family of implementations at
// construction and never mixes them.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Rotation expresses the orientation of a rigid body or scene frame.
// Planar worlds rotate about Z with a scalar angle, spatial worlds use a
// unit quaternion.
type Rotation interface {
	// Quaternion returns the quaternion equivalent of the rotation.
	Quaternion() quat.Number
	// Mul composes two rotations; the receiver is applied after o.
	Mul(o Rotation) Rotation
	// Inverse returns the opposite rotation.
	Inverse() Rotation
	// RotatePoint rotates pt about the origin.
	RotatePoint(pt r3.Vector) r3.Vector
	// ApproxEqual reports whether two rotations are within epsilon of
	// representing the same orientation.
	ApproxEqual(o Rotation, epsilon float64) bool
}

// ZeroRotationLike returns the identity rotation of the same implementation
// as r.
func ZeroRotationLike(r Rotation) Rotation {
	if _, ok := r.(*PlanarRotation); ok {
		return NewZeroPlanarRotation()
	}
	return NewZeroSpatialRotation()
}

// QuaternionAlmostEqual reports whether two quaternions represent nearly the
// same rotation, treating q and -q as equivalent.
func QuaternionAlmostEqual(a, b quat.Number, epsilon float64) bool {
	return quat.Abs(quat.Sub(a, b)) < epsilon || quat.Abs(quat.Add(a, b)) < epsilon
}

// PlanarRotation is a rotation about the Z axis, measured in radians.
type PlanarRotation struct {
	angle float64
}

// NewZeroPlanarRotation returns the planar identity rotation.
func NewZeroPlanarRotation() *PlanarRotation {
	return &PlanarRotation{}
}

// NewPlanarRotation returns a rotation of the given angle about Z.
func NewPlanarRotation(radians float64) *PlanarRotation {
	return &PlanarRotation{angle: radians}
}

// Angle returns the rotation angle in radians.
func (r *PlanarRotation) Angle() float64 {
	return r.angle
}

// Quaternion returns the equivalent rotation about the Z axis.
func (r *PlanarRotation) Quaternion() quat.Number {
	return quat.Number{Real: math.Cos(r.angle / 2), Kmag: math.Sin(r.angle / 2)}
}

// Mul composes two planar rotations by summing their angles.
func (r *PlanarRotation) Mul(o Rotation) Rotation {
	return &PlanarRotation{angle: r.angle + planarAngle(o)}
}

// Inverse returns the opposite rotation.
func (r *PlanarRotation) Inverse() Rotation {
	return &PlanarRotation{angle: -r.angle}
}

// RotatePoint rotates pt about Z, leaving its Z component untouched.
func (r *PlanarRotation) RotatePoint(pt r3.Vector) r3.Vector {
	sin, cos := math.Sincos(r.angle)
	return r3.Vector{
		X: cos*pt.X - sin*pt.Y,
		Y: sin*pt.X + cos*pt.Y,
		Z: pt.Z,
	}
}

// ApproxEqual reports whether o represents nearly the same orientation.
func (r *PlanarRotation) ApproxEqual(o Rotation, epsilon float64) bool {
	return QuaternionAlmostEqual(r.Quaternion(), o.Quaternion(), epsilon)
}

func planarAngle(o Rotation) float64 {
	if pr, ok := o.(*PlanarRotation); ok {
		return pr.angle
	}
	// Fall back through the quaternion's Z component.
	q := o.Quaternion()
	return 2 * math.Atan2(q.Kmag, q.Real)
}

// SpatialRotation is a 3D rotation backed by a unit quaternion.
type SpatialRotation struct {
	q quat.Number
}

// NewZeroSpatialRotation returns the spatial identity rotation.
func NewZeroSpatialRotation() *SpatialRotation {
	return &SpatialRotation{q: quat.Number{Real: 1}}
}

// NewSpatialRotation returns a rotation for the given quaternion, normalizing
// it first. A zero quaternion yields the identity.
func NewSpatialRotation(q quat.Number) *SpatialRotation {
	n := quat.Abs(q)
	if n == 0 {
		return NewZeroSpatialRotation()
	}
	return &SpatialRotation{q: quat.Scale(1/n, q)}
}

// NewSpatialRotationFromAxisAngle returns the rotation of theta radians about
// the given axis.
func NewSpatialRotationFromAxisAngle(axis r3.Vector, theta float64) *SpatialRotation {
	if axis.Norm() == 0 {
		return NewZeroSpatialRotation()
	}
	axis = axis.Normalize()
	s := math.Sin(theta / 2)
	return &SpatialRotation{q: quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}}
}

// Quaternion returns the underlying quaternion.
func (r *SpatialRotation) Quaternion() quat.Number {
	return r.q
}

// Mul composes two rotations; the receiver is applied after o.
func (r *SpatialRotation) Mul(o Rotation) Rotation {
	return &SpatialRotation{q: quat.Mul(r.q, o.Quaternion())}
}

// Inverse returns the conjugate rotation.
func (r *SpatialRotation) Inverse() Rotation {
	return &SpatialRotation{q: quat.Conj(r.q)}
}

// RotatePoint rotates pt about the origin.
func (r *SpatialRotation) RotatePoint(pt r3.Vector) r3.Vector {
	p := quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}
	res := quat.Mul(quat.Mul(r.q, p), quat.Conj(r.q))
	return r3.Vector{X: res.Imag, Y: res.Jmag, Z: res.Kmag}
}

// ApproxEqual reports whether o represents nearly the same orientation.
func (r *SpatialRotation) ApproxEqual(o Rotation, epsilon float64) bool {
	return QuaternionAlmostEqual(r.q, o.Quaternion(), epsilon)
}
