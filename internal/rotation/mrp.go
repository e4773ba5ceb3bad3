package rotation

import (
	"gonum.org/v1/gonum/num/quat"

	"attitude-engine/internal/mathutil"
	"attitude-engine/internal/mrp"
)

// QuatToMRP returns σ = v/(1+w). Near w = −1 (a full turn) that division is
// unbounded, so the shadow set −v/(1−w) is returned instead with Shadow set.
func QuatToMRP(q quat.Number) mrp.Set {
	q, _ = mathutil.QuatNormalize(q)
	v := mathutil.QuatVec(q)
	if 1+q.Real < mathutil.DivisionGuard {
		return mrp.Set{Sigma: v.Scale(-1 / (1 - q.Real)), Shadow: true}
	}
	return mrp.Set{Sigma: v.Scale(1 / (1 + q.Real))}
}

// MRPToQuat inverts QuatToMRP. A shadow set is mapped back to its primary first.
// The second result is false for non-finite input, which yields the identity.
func MRPToQuat(s mrp.Set) (quat.Number, bool) {
	if !s.Sigma.IsFinite() {
		return mathutil.QuatIdentity(), false
	}
	sigma := s.Sigma
	if s.Shadow {
		sigma = mrp.ShadowOf(sigma)
	}
	n2 := sigma.LenSq()
	if !mathutil.IsFinite(n2) {
		// |σ| → ∞ is the full turn, i.e. no rotation.
		return mathutil.QuatIdentity(), true
	}
	d := 1 + n2
	return mathutil.QuatFromParts((1-n2)/d, sigma.Scale(2/d)), true
}
