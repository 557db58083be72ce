// Package utils contains angle and numeric helpers shared by the planner and
// the command-line front end.
package utils

import "math"

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// NormalizeRadians maps an angle into (-π, π].
func NormalizeRadians(ang float64) float64 {
	ang = math.Remainder(ang, 2*math.Pi)
	if ang <= -math.Pi {
		ang += 2 * math.Pi
	}
	return ang
}

// AngleDiffRad returns the smallest absolute difference between two angles,
// in [0, π]. The arguments are commutative.
func AngleDiffRad(a1, a2 float64) float64 {
	return math.Abs(NormalizeRadians(a1 - a2))
}

// Float64AlmostEqual compares two float64s and returns if the difference
// between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
