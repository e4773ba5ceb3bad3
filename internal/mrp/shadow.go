// Package mrp decides which of the two Modified Rodrigues Parameter sets is reported.
//
// A rotation has a primary set σ and a shadow set σ′ = −σ/|σ|². Both describe the
// same rotation; the shadow keeps |σ| ≤ 1 for rotations beyond 180°.
package mrp

import "attitude-engine/internal/mathutil"

// Set is one MRP parameterization and which branch it is.
type Set struct {
	Sigma  mathutil.Vec3
	Shadow bool
}

// ShadowOf returns −σ/|σ|². The transform is its own inverse.
// The zero vector (no rotation, whose shadow lies at 360°) maps to itself.
func ShadowOf(sigma mathutil.Vec3) mathutil.Vec3 {
	n2 := sigma.LenSq()
	if n2 < mathutil.Epsilon*mathutil.Epsilon {
		return mathutil.Vec3{}
	}
	return sigma.Scale(-1 / n2)
}

// Switch returns the other set of the same rotation.
func (s Set) Switch() Set {
	return Set{Sigma: ShadowOf(s.Sigma), Shadow: !s.Shadow}
}

// NormSq is |σ|².
func (s Set) NormSq() float64 {
	return s.Sigma.LenSq()
}

// Select picks the set to report.
//
// With auto enabled the reported magnitude is kept bounded: a primary set with
// |σ|² ≥ 1 is switched to its shadow (the 180° boundary itself reports the shadow),
// and a shadow set with |σ|² > 1 is switched back. With auto disabled the caller's
// requested branch is reported.
func Select(current Set, requestShadow, auto bool) Set {
	if auto {
		n2 := current.NormSq()
		if !current.Shadow && n2 >= 1 {
			return current.Switch()
		}
		if current.Shadow && n2 > 1 {
			return current.Switch()
		}
		return current
	}
	if requestShadow != current.Shadow {
		return current.Switch()
	}
	return current
}
