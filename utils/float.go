// Package utils contains small numeric helpers shared across packages.
package utils

import (
	"math"

	"github.com/golang/geo/r3"
)

// Float64AlmostEqual reports whether two floats are within epsilon of each
// other.
func Float64AlmostEqual(v1, v2, epsilon float64) bool {
	return math.Abs(v1-v2) < epsilon
}

// R3VectorAlmostEqual reports whether two vectors are within epsilon of each
// other on every axis.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon &&
		math.Abs(a.Y-b.Y) < epsilon &&
		math.Abs(a.Z-b.Z) < epsilon
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
