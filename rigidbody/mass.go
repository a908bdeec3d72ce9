// Package rigidbody defines the per-entity rigid body record and the pure
// mass-property and effective-property computations consumed by a constraint
// solver.
package rigidbody

import "math"

// Kind determines whether a body's mass and inertia are finite and whether
// the body is influenced by forces.
type Kind uint8

// The supported body kinds.
const (
	// Dynamic bodies have finite mass and respond to forces.
	Dynamic Kind = iota
	// Kinematic bodies move only by authored velocity; infinite mass.
	Kinematic
	// Static bodies never move; infinite mass.
	Static
)

// IsDynamic reports whether the kind responds to forces.
func (k Kind) IsDynamic() bool {
	return k == Dynamic
}

func (k Kind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// Mass is a body mass with its cached inverse. A zero inverse means infinite
// mass.
type Mass struct {
	value   float64
	inverse float64
}

// NewMass returns a mass with its inverse cached. Non-positive and infinite
// values get a zero inverse. Negative authored mass is a caller contract
// violation and is not defended against.
func NewMass(value float64) Mass {
	m := Mass{value: value}
	if value > 0 && !math.IsInf(value, 1) {
		m.inverse = 1 / value
	}
	return m
}

// InfiniteMass returns the infinite-mass sentinel.
func InfiniteMass() Mass {
	return Mass{value: math.Inf(1)}
}

// Value returns the mass value.
func (m Mass) Value() float64 {
	return m.value
}

// Inverse returns the cached inverse mass.
func (m Mass) Inverse() float64 {
	return m.inverse
}

// IsInfinite reports whether the mass behaves as infinite (zero inverse).
func (m Mass) IsInfinite() bool {
	return m.inverse == 0
}

// MaxDominance is the dominance resolved for every non-dynamic body,
// guaranteeing it never yields to a dynamic one.
const MaxDominance = int8(math.MaxInt8)
