package spatialmath

import "github.com/golang/geo/r3"

// LockedAxes is a bitmask freezing translational or rotational degrees of
// freedom of a body, regardless of any forces acting on it. The zero value
// locks nothing. Planar worlds use the Z rotation bit for their single
// rotational degree of freedom.
type LockedAxes uint8

// The individual degrees of freedom that can be locked.
const (
	LockTranslationX LockedAxes = 1 << iota
	LockTranslationY
	LockTranslationZ
	LockRotationX
	LockRotationY
	LockRotationZ
)

// Common combinations.
const (
	LockAllTranslation = LockTranslationX | LockTranslationY | LockTranslationZ
	LockAllRotation    = LockRotationX | LockRotationY | LockRotationZ
)

// TranslationXLocked reports whether translation along X is locked.
func (a LockedAxes) TranslationXLocked() bool { return a&LockTranslationX != 0 }

// TranslationYLocked reports whether translation along Y is locked.
func (a LockedAxes) TranslationYLocked() bool { return a&LockTranslationY != 0 }

// TranslationZLocked reports whether translation along Z is locked.
func (a LockedAxes) TranslationZLocked() bool { return a&LockTranslationZ != 0 }

// RotationXLocked reports whether rotation about X is locked.
func (a LockedAxes) RotationXLocked() bool { return a&LockRotationX != 0 }

// RotationYLocked reports whether rotation about Y is locked.
func (a LockedAxes) RotationYLocked() bool { return a&LockRotationY != 0 }

// RotationZLocked reports whether rotation about Z is locked.
func (a LockedAxes) RotationZLocked() bool { return a&LockRotationZ != 0 }

// RotationAxisLocked reports whether rotation about the axis with the given
// index (0 = X, 1 = Y, 2 = Z) is locked.
func (a LockedAxes) RotationAxisLocked(axis int) bool {
	return a&(LockRotationX<<uint(axis)) != 0
}

// ApplyToVector zeroes the components of v along locked translational axes.
func (a LockedAxes) ApplyToVector(v r3.Vector) r3.Vector {
	if a.TranslationXLocked() {
		v.X = 0
	}
	if a.TranslationYLocked() {
		v.Y = 0
	}
	if a.TranslationZLocked() {
		v.Z = 0
	}
	return v
}
