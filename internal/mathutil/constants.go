package mathutil

import "math"

// Numeric guards shared by every conversion.
const (
	// Epsilon is the zero threshold for vector and quaternion norms.
	Epsilon = 1e-10

	// DivisionGuard is the smallest denominator a conversion divides by
	// before switching to its degenerate-case formula.
	DivisionGuard = 1e-4

	// SingularityFloor is the smallest angle-space distance (radians) from a gimbal
	// boundary that Euler extraction treats as singular. It absorbs the rounding of
	// an exact boundary passed through a matrix.
	SingularityFloor = 1e-12
)

// AngleDist returns the shortest angular distance between two angles in radians (0–π).
func AngleDist(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		return 2*math.Pi - d
	}
	return d
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
