package rigidbody

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/keelphysics/keel/spatialmath"
)

// comEpsilon guards the center-of-mass division on Remove as the remaining
// mass approaches zero.
var comEpsilon = math.Nextafter(1, 2) - 1

// MassProperties aggregates a body's mass, local-frame center of mass, and
// local-frame angular inertia. Colliders contribute their own MassProperties
// through Combine and Remove.
type MassProperties struct {
	Mass           Mass
	CenterOfMass   r3.Vector
	AngularInertia spatialmath.AngularInertia
}

// NewMassProperties returns mass properties with the given components.
func NewMassProperties(mass Mass, com r3.Vector, inertia spatialmath.AngularInertia) MassProperties {
	return MassProperties{Mass: mass, CenterOfMass: com, AngularInertia: inertia}
}

// Combine folds a collider contribution into the aggregate: masses sum, the
// center of mass is mass-weighted, and both inertias are shifted to the new
// center via the parallel-axis theorem before summing. A non-positive
// combined mass leaves the aggregate unchanged.
func (p *MassProperties) Combine(other MassProperties) {
	mass1 := p.Mass.Value()
	mass2 := other.Mass.Value()
	newMass := mass1 + mass2

	if newMass <= 0 {
		return
	}

	com1 := p.CenterOfMass
	com2 := other.CenterOfMass
	newCOM := com1.Mul(mass1).Add(com2.Mul(mass2)).Mul(1 / newMass)

	i1 := p.AngularInertia.Shifted(mass1, newCOM.Sub(com1))
	i2 := other.AngularInertia.Shifted(mass2, newCOM.Sub(com2))

	p.Mass = NewMass(newMass)
	p.AngularInertia = i1.Add(i2)
	p.CenterOfMass = newCOM
}

// Remove detaches a collider contribution from the aggregate. The caller is
// responsible for only removing a contribution previously combined; no
// positive-semi-definiteness check is performed on the resulting inertia.
// A non-positive input mass total leaves the aggregate unchanged, and the
// center of mass falls back to its previous value as the remaining mass
// approaches zero.
func (p *MassProperties) Remove(other MassProperties) {
	mass1 := p.Mass.Value()
	mass2 := other.Mass.Value()

	if mass1+mass2 <= 0 {
		return
	}

	newMass := math.Max(mass1-mass2, 0)
	com1 := p.CenterOfMass
	com2 := other.CenterOfMass

	newCOM := com1
	if newMass > comEpsilon {
		newCOM = com1.Mul(mass1).Sub(com2.Mul(mass2)).Mul(1 / newMass)
	}

	i1 := p.AngularInertia.Shifted(mass1, newCOM.Sub(com1))
	i2 := other.AngularInertia.Shifted(mass2, newCOM.Sub(com2))

	p.Mass = NewMass(newMass)
	p.AngularInertia = i1.Sub(i2)
	p.CenterOfMass = newCOM
}
