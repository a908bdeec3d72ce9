package rigidbody

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/keelphysics/keel/spatialmath"
	"github.com/keelphysics/keel/utils"
)

func TestNonDynamicBodies(t *testing.T) {
	dominance := int8(-5)
	for _, kind := range []Kind{Kinematic, Static} {
		t.Run(kind.String(), func(t *testing.T) {
			for _, axes := range []spatialmath.LockedAxes{
				0,
				spatialmath.LockAllTranslation,
				spatialmath.LockAllRotation,
				spatialmath.LockTranslationY | spatialmath.LockRotationX,
			} {
				body := NewSpatialBody(kind)
				body.MassProperties = NewMassProperties(
					NewMass(12),
					r3.Vector{X: 1},
					spatialmath.NewSpatialInertiaFromDiagonal(r3.Vector{X: 1, Y: 2, Z: 3}),
				)
				body.LockedAxes = axes
				body.Dominance = &dominance

				test.That(t, body.EffectiveInverseMass(), test.ShouldResemble, r3.Vector{})
				test.That(t, body.EffectiveInverseInertia().IsZero(), test.ShouldBeTrue)
				test.That(t, body.EffectiveDominance(), test.ShouldEqual, MaxDominance)
				test.That(t, body.Mass().IsInfinite(), test.ShouldBeTrue)
				test.That(t, body.AngularInertia().Inverse().IsZero(), test.ShouldBeTrue)
			}
		})
	}
}

func TestEffectiveInverseMass(t *testing.T) {
	body := NewSpatialBody(Dynamic)
	body.MassProperties.Mass = NewMass(4)

	t.Run("splats the inverse", func(t *testing.T) {
		test.That(t, body.EffectiveInverseMass(), test.ShouldResemble, r3.Vector{X: 0.25, Y: 0.25, Z: 0.25})
	})

	t.Run("locked translation axes are zeroed", func(t *testing.T) {
		body.LockedAxes = spatialmath.LockTranslationX | spatialmath.LockTranslationZ
		test.That(t, body.EffectiveInverseMass(), test.ShouldResemble, r3.Vector{Y: 0.25})
	})
}

func TestEffectiveInverseInertia(t *testing.T) {
	t.Run("planar", func(t *testing.T) {
		body := NewPlanarBody(Dynamic)
		body.MassProperties.AngularInertia = spatialmath.NewPlanarInertia(2)

		inv := body.EffectiveInverseInertia()
		test.That(t, inv.(*spatialmath.PlanarInertia).Value(), test.ShouldAlmostEqual, 0.5)

		body.LockedAxes = spatialmath.LockRotationZ
		test.That(t, body.EffectiveInverseInertia().IsZero(), test.ShouldBeTrue)
	})

	t.Run("spatial is rotated into world space", func(t *testing.T) {
		body := NewSpatialBody(Dynamic)
		body.MassProperties.AngularInertia = spatialmath.NewSpatialInertiaFromDiagonal(r3.Vector{X: 2, Y: 4, Z: 8})
		body.Rotation = spatialmath.NewSpatialRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)

		want := spatialmath.NewSpatialInertiaFromDiagonal(r3.Vector{X: 0.25, Y: 0.5, Z: 0.125})
		test.That(t, body.EffectiveInverseInertia().ApproxEqual(want, 1e-9), test.ShouldBeTrue)

		body.LockedAxes = spatialmath.LockRotationX
		locked := spatialmath.NewSpatialInertiaFromDiagonal(r3.Vector{Y: 0.5, Z: 0.125})
		test.That(t, body.EffectiveInverseInertia().ApproxEqual(locked, 1e-9), test.ShouldBeTrue)
	})
}

func TestEffectiveDominance(t *testing.T) {
	body := NewSpatialBody(Dynamic)
	test.That(t, body.EffectiveDominance(), test.ShouldEqual, 0)

	dominance := int8(23)
	body.Dominance = &dominance
	test.That(t, body.EffectiveDominance(), test.ShouldEqual, 23)
}

func TestVelocityAtPoint(t *testing.T) {
	t.Run("planar reduces to perp", func(t *testing.T) {
		body := NewPlanarBody(Dynamic)
		body.LinearVelocity = r3.Vector{X: 1, Y: 2}
		body.AngularVelocity = r3.Vector{Z: 3}

		// v + w*perp(p) with p = (2, 1): perp = (-1, 2)
		got := body.VelocityAtPoint(r3.Vector{X: 2, Y: 1})
		test.That(t, utils.R3VectorAlmostEqual(got, r3.Vector{X: -2, Y: 8}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("spatial uses the cross product", func(t *testing.T) {
		body := NewSpatialBody(Dynamic)
		body.LinearVelocity = r3.Vector{X: 1}
		body.AngularVelocity = r3.Vector{X: 0.5, Y: -1, Z: 2}

		p := r3.Vector{X: 0, Y: 2, Z: -1}
		want := body.LinearVelocity.Add(body.AngularVelocity.Cross(p))
		test.That(t, utils.R3VectorAlmostEqual(body.VelocityAtPoint(p), want, 1e-9), test.ShouldBeTrue)
	})
}

func TestCurrentPosition(t *testing.T) {
	t.Run("sums position and pending translation", func(t *testing.T) {
		body := NewSpatialBody(Dynamic)
		body.Position = r3.Vector{X: 1, Y: 2}
		body.AccumulatedTranslation = r3.Vector{X: 0.5}

		test.That(t, utils.R3VectorAlmostEqual(body.CurrentPosition(), r3.Vector{X: 1.5, Y: 2}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("adjusts for the rotation delta about the center of mass", func(t *testing.T) {
		body := NewSpatialBody(Dynamic)
		body.MassProperties.CenterOfMass = r3.Vector{X: 1}
		body.Rotation = spatialmath.NewSpatialRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)
		// previous rotation is still identity

		// prev*com - rot*com = (1,0,0) - (0,1,0)
		test.That(t, utils.R3VectorAlmostEqual(body.CurrentPosition(), r3.Vector{X: 1, Y: -1}, 1e-9), test.ShouldBeTrue)
	})

	t.Run("missing previous rotation means no delta", func(t *testing.T) {
		body := NewSpatialBody(Dynamic)
		body.PreviousRotation = nil
		body.MassProperties.CenterOfMass = r3.Vector{X: 1}
		body.Rotation = spatialmath.NewSpatialRotationFromAxisAngle(r3.Vector{Z: 1}, math.Pi/2)
		body.Position = r3.Vector{X: 3}

		test.That(t, utils.R3VectorAlmostEqual(body.CurrentPosition(), r3.Vector{X: 3}, 1e-9), test.ShouldBeTrue)
	})
}
