package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// AngularInertia is the rotational inertia of a rigid body about its center
// of mass, in the body's local frame. Planar worlds use a scalar, spatial
// worlds a 3x3 tensor. The same type also carries inverse inertia values;
// a zero inverse means infinite inertia.
type AngularInertia interface {
	// Inverse returns the inverse inertia. Zero or infinite inertia
	// inverts to zero.
	Inverse() AngularInertia
	// Shifted re-expresses the inertia about a point offset from the
	// current one via the parallel-axis theorem, given the mass it
	// belongs to.
	Shifted(mass float64, offset r3.Vector) AngularInertia
	// Add returns the element-wise sum with o.
	Add(o AngularInertia) AngularInertia
	// Sub returns the element-wise difference with o.
	Sub(o AngularInertia) AngularInertia
	// WorldInverse returns the inverse inertia expressed in world space
	// for a body with the given rotation.
	WorldInverse(rot Rotation) AngularInertia
	// Locked zeroes the components of an inverse inertia that correspond
	// to locked rotational axes.
	Locked(axes LockedAxes) AngularInertia
	// Zero returns the zero inertia of the same implementation.
	Zero() AngularInertia
	// Infinite returns the infinite-inertia sentinel of the same
	// implementation.
	Infinite() AngularInertia
	// IsZero reports whether every component is zero.
	IsZero() bool
	// ApproxEqual reports whether o is element-wise within epsilon.
	ApproxEqual(o AngularInertia, epsilon float64) bool
}

// PlanarInertia is a scalar rotational inertia about the Z axis.
type PlanarInertia struct {
	value float64
}

// NewPlanarInertia returns a planar inertia with the given value.
func NewPlanarInertia(value float64) *PlanarInertia {
	return &PlanarInertia{value: value}
}

// NewZeroPlanarInertia returns the zero planar inertia.
func NewZeroPlanarInertia() *PlanarInertia {
	return &PlanarInertia{}
}

// NewInfinitePlanarInertia returns the infinite planar inertia sentinel.
func NewInfinitePlanarInertia() *PlanarInertia {
	return &PlanarInertia{value: math.Inf(1)}
}

// Value returns the scalar inertia.
func (i *PlanarInertia) Value() float64 {
	return i.value
}

// Inverse returns the inverse inertia; zero and infinite values invert to zero.
func (i *PlanarInertia) Inverse() AngularInertia {
	if i.value > 0 && !math.IsInf(i.value, 1) {
		return &PlanarInertia{value: 1 / i.value}
	}
	return &PlanarInertia{}
}

// Shifted applies the 2D parallel-axis theorem: I + m*|d|^2.
func (i *PlanarInertia) Shifted(mass float64, offset r3.Vector) AngularInertia {
	if mass <= 0 || offset == (r3.Vector{}) {
		return &PlanarInertia{value: i.value}
	}
	return &PlanarInertia{value: i.value + mass*offset.Norm2()}
}

// Add returns the sum of the two inertias.
func (i *PlanarInertia) Add(o AngularInertia) AngularInertia {
	return &PlanarInertia{value: i.value + mustPlanar(o).value}
}

// Sub returns the difference of the two inertias.
func (i *PlanarInertia) Sub(o AngularInertia) AngularInertia {
	return &PlanarInertia{value: i.value - mustPlanar(o).value}
}

// WorldInverse returns the inverse inertia; a scalar inertia is invariant
// under rotation about Z.
func (i *PlanarInertia) WorldInverse(Rotation) AngularInertia {
	return i.Inverse()
}

// Locked zeroes the inverse inertia when planar rotation is locked.
func (i *PlanarInertia) Locked(axes LockedAxes) AngularInertia {
	if axes.RotationZLocked() {
		return &PlanarInertia{}
	}
	return &PlanarInertia{value: i.value}
}

// Zero returns the zero planar inertia.
func (i *PlanarInertia) Zero() AngularInertia {
	return NewZeroPlanarInertia()
}

// Infinite returns the infinite planar inertia sentinel.
func (i *PlanarInertia) Infinite() AngularInertia {
	return NewInfinitePlanarInertia()
}

// IsZero reports whether the inertia is zero.
func (i *PlanarInertia) IsZero() bool {
	return i.value == 0
}

// ApproxEqual reports whether o is within epsilon of the inertia.
func (i *PlanarInertia) ApproxEqual(o AngularInertia, epsilon float64) bool {
	po, ok := o.(*PlanarInertia)
	if !ok {
		return false
	}
	return math.Abs(i.value-po.value) < epsilon
}

func mustPlanar(o AngularInertia) *PlanarInertia {
	po, ok := o.(*PlanarInertia)
	if !ok {
		panic("planar angular inertia combined with a non-planar value")
	}
	return po
}

// SpatialInertia is a 3x3 rotational inertia tensor.
type SpatialInertia struct {
	m mgl64.Mat3
}

// NewSpatialInertia returns a spatial inertia with the given tensor.
func NewSpatialInertia(m mgl64.Mat3) *SpatialInertia {
	return &SpatialInertia{m: m}
}

// NewZeroSpatialInertia returns the zero tensor.
func NewZeroSpatialInertia() *SpatialInertia {
	return &SpatialInertia{}
}

// NewInfiniteSpatialInertia returns the infinite-inertia sentinel tensor.
func NewInfiniteSpatialInertia() *SpatialInertia {
	return NewSpatialInertiaFromDiagonal(r3.Vector{
		X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1),
	})
}

// NewSpatialInertiaFromDiagonal returns a diagonal inertia tensor, the form
// produced for shapes aligned with their principal axes.
func NewSpatialInertiaFromDiagonal(d r3.Vector) *SpatialInertia {
	var m mgl64.Mat3
	m.Set(0, 0, d.X)
	m.Set(1, 1, d.Y)
	m.Set(2, 2, d.Z)
	return &SpatialInertia{m: m}
}

// Matrix returns the underlying tensor.
func (i *SpatialInertia) Matrix() mgl64.Mat3 {
	return i.m
}

// Inverse returns the inverse tensor; zero, singular, and infinite tensors
// invert to the zero tensor.
func (i *SpatialInertia) Inverse() AngularInertia {
	if i.IsZero() || i.hasInf() {
		return &SpatialInertia{}
	}
	det := i.m.Det()
	if det == 0 || math.IsNaN(det) {
		return &SpatialInertia{}
	}
	return &SpatialInertia{m: i.m.Inv()}
}

// Shifted applies the parallel-axis theorem:
// I + m*(|d|^2*E - d (x) d), where E is the identity.
func (i *SpatialInertia) Shifted(mass float64, offset r3.Vector) AngularInertia {
	if mass <= 0 || offset == (r3.Vector{}) {
		return &SpatialInertia{m: i.m}
	}
	shift := mgl64.Ident3().Mul(offset.Norm2()).Sub(outer(offset, offset)).Mul(mass)
	return &SpatialInertia{m: i.m.Add(shift)}
}

// Add returns the element-wise sum of the two tensors.
func (i *SpatialInertia) Add(o AngularInertia) AngularInertia {
	return &SpatialInertia{m: i.m.Add(mustSpatial(o).m)}
}

// Sub returns the element-wise difference of the two tensors.
func (i *SpatialInertia) Sub(o AngularInertia) AngularInertia {
	return &SpatialInertia{m: i.m.Sub(mustSpatial(o).m)}
}

// WorldInverse rotates the inverse tensor into world space: R * I^-1 * R^T.
func (i *SpatialInertia) WorldInverse(rot Rotation) AngularInertia {
	inv := i.Inverse().(*SpatialInertia)
	r := rotationMatrix(rot.Quaternion())
	return &SpatialInertia{m: r.Mul3(inv.m).Mul3(r.Transpose())}
}

// Locked zeroes the row and column of every locked rotational axis.
func (i *SpatialInertia) Locked(axes LockedAxes) AngularInertia {
	m := i.m
	for axis := 0; axis < 3; axis++ {
		if !axes.RotationAxisLocked(axis) {
			continue
		}
		for k := 0; k < 3; k++ {
			m.Set(axis, k, 0)
			m.Set(k, axis, 0)
		}
	}
	return &SpatialInertia{m: m}
}

// Zero returns the zero tensor.
func (i *SpatialInertia) Zero() AngularInertia {
	return NewZeroSpatialInertia()
}

// Infinite returns the infinite-inertia sentinel tensor.
func (i *SpatialInertia) Infinite() AngularInertia {
	return NewInfiniteSpatialInertia()
}

// IsZero reports whether every element of the tensor is zero.
func (i *SpatialInertia) IsZero() bool {
	return i.m == mgl64.Mat3{}
}

// ApproxEqual reports whether o is element-wise within epsilon of the tensor.
func (i *SpatialInertia) ApproxEqual(o AngularInertia, epsilon float64) bool {
	so, ok := o.(*SpatialInertia)
	if !ok {
		return false
	}
	for idx := range i.m {
		if math.Abs(i.m[idx]-so.m[idx]) >= epsilon {
			return false
		}
	}
	return true
}

func (i *SpatialInertia) hasInf() bool {
	for _, v := range i.m {
		if math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func mustSpatial(o AngularInertia) *SpatialInertia {
	so, ok := o.(*SpatialInertia)
	if !ok {
		panic("spatial angular inertia combined with a non-spatial value")
	}
	return so
}

func outer(a, b r3.Vector) mgl64.Mat3 {
	var m mgl64.Mat3
	m.Set(0, 0, a.X*b.X)
	m.Set(0, 1, a.X*b.Y)
	m.Set(0, 2, a.X*b.Z)
	m.Set(1, 0, a.Y*b.X)
	m.Set(1, 1, a.Y*b.Y)
	m.Set(1, 2, a.Y*b.Z)
	m.Set(2, 0, a.Z*b.X)
	m.Set(2, 1, a.Z*b.Y)
	m.Set(2, 2, a.Z*b.Z)
	return m
}
