package rigidbody

import (
	"github.com/golang/geo/r3"

	"github.com/keelphysics/keel/spatialmath"
)

// Body is the engine-native record of a rigid body. Each entity exclusively
// owns its record; every method below is a pure read safe to run over many
// entities independently.
//
// Position and Rotation are absolute and authoritative for the solver.
// AccumulatedTranslation is a pending displacement not yet folded into
// Position, kept separate so mid-step position queries stay consistent.
// Planar bodies embed their state in the XY plane with angular quantities on
// the Z axis.
type Body struct {
	Kind Kind

	Position               r3.Vector
	Rotation               spatialmath.Rotation
	PreviousRotation       spatialmath.Rotation
	AccumulatedTranslation r3.Vector

	LinearVelocity          r3.Vector
	AngularVelocity         r3.Vector
	PreSolveLinearVelocity  r3.Vector
	PreSolveAngularVelocity r3.Vector

	MassProperties MassProperties

	Friction    float64
	Restitution float64

	LockedAxes spatialmath.LockedAxes
	// Dominance is an optional priority override; nil means the default of
	// 0 for dynamic bodies. Non-dynamic bodies always resolve to
	// MaxDominance regardless of this field.
	Dominance *int8

	TimeSleeping float64
	Sleeping     bool
	Sensor       bool
}

// NewPlanarBody returns a body for a 2D world: identity planar rotation and
// zero scalar inertia.
func NewPlanarBody(kind Kind) *Body {
	return &Body{
		Kind:             kind,
		Rotation:         spatialmath.NewZeroPlanarRotation(),
		PreviousRotation: spatialmath.NewZeroPlanarRotation(),
		MassProperties: MassProperties{
			AngularInertia: spatialmath.NewZeroPlanarInertia(),
		},
	}
}

// NewSpatialBody returns a body for a 3D world: identity quaternion rotation
// and zero inertia tensor.
func NewSpatialBody(kind Kind) *Body {
	return &Body{
		Kind:             kind,
		Rotation:         spatialmath.NewZeroSpatialRotation(),
		PreviousRotation: spatialmath.NewZeroSpatialRotation(),
		MassProperties: MassProperties{
			AngularInertia: spatialmath.NewZeroSpatialInertia(),
		},
	}
}

// Mass returns the body's mass; non-dynamic bodies report the infinite-mass
// sentinel. Unlike EffectiveInverseMass, no axis locking is applied.
func (b *Body) Mass() Mass {
	if !b.Kind.IsDynamic() {
		return InfiniteMass()
	}
	return b.MassProperties.Mass
}

// AngularInertia returns the body's local-frame angular inertia; non-dynamic
// bodies report the infinite-inertia sentinel. Unlike
// EffectiveInverseInertia, no axis locking is applied.
func (b *Body) AngularInertia() spatialmath.AngularInertia {
	if !b.Kind.IsDynamic() {
		return b.MassProperties.AngularInertia.Infinite()
	}
	return b.MassProperties.AngularInertia
}

// EffectiveDominance resolves the body's dominance: MaxDominance for
// non-dynamic bodies, otherwise the configured value or 0 when unset.
func (b *Body) EffectiveDominance() int8 {
	if !b.Kind.IsDynamic() {
		return MaxDominance
	}
	if b.Dominance == nil {
		return 0
	}
	return *b.Dominance
}

// EffectiveInverseMass computes the per-axis inverse mass usable by the
// solver: zero for non-dynamic bodies, otherwise the inverse mass splat with
// locked translational axes zeroed.
func (b *Body) EffectiveInverseMass() r3.Vector {
	if !b.Kind.IsDynamic() {
		return r3.Vector{}
	}
	inv := b.MassProperties.Mass.Inverse()
	return b.LockedAxes.ApplyToVector(r3.Vector{X: inv, Y: inv, Z: inv})
}

// EffectiveInverseInertia computes the world-space inverse inertia usable by
// the solver: zero for non-dynamic bodies, otherwise the local inverse
// rotated into world space with locked rotational axes zeroed.
func (b *Body) EffectiveInverseInertia() spatialmath.AngularInertia {
	if !b.Kind.IsDynamic() {
		return b.MassProperties.AngularInertia.Zero()
	}
	return b.MassProperties.AngularInertia.WorldInverse(b.Rotation).Locked(b.LockedAxes)
}

// VelocityAtPoint computes the velocity of a point expressed relative to the
// body's center of mass: v + w x p. With planar angular velocity on the Z
// axis this reduces to the 2D v + w*perp(p).
func (b *Body) VelocityAtPoint(point r3.Vector) r3.Vector {
	return b.LinearVelocity.Add(b.AngularVelocity.Cross(point))
}

// CurrentPosition returns the up-to-date position mid-step: Position plus the
// pending translation, with the pending part adjusted for the rotation delta
// accumulated since the last fold, taken about the center of mass.
func (b *Body) CurrentPosition() r3.Vector {
	com := b.MassProperties.CenterOfMass
	prev := b.PreviousRotation
	if prev == nil {
		prev = b.Rotation
	}
	return b.Position.
		Add(b.AccumulatedTranslation).
		Add(prev.RotatePoint(com)).
		Sub(b.Rotation.RotatePoint(com))
}
