package rotation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"attitude-engine/internal/mathutil"
)

// QuatToAxisAngle returns the unit rotation axis and the angle 2·atan2(|v|, w).
// A rotation without a defined axis reports +Z and angle 0.
func QuatToAxisAngle(q quat.Number) (mathutil.Vec3, float64) {
	q, _ = mathutil.QuatNormalize(q)
	v := mathutil.QuatVec(q)
	n := v.Len()
	if n < mathutil.Epsilon {
		return mathutil.UnitZ, 0
	}
	return v.Scale(1 / n), 2 * math.Atan2(n, q.Real)
}

// AxisAngleToQuat returns cos(θ/2) + sin(θ/2)·axis, normalizing the axis first.
// The second result is false for a zero-length or non-finite axis or angle,
// in which case the identity is returned.
func AxisAngleToQuat(axis mathutil.Vec3, angle float64) (quat.Number, bool) {
	if !axis.IsFinite() || !mathutil.IsFinite(angle) {
		return mathutil.QuatIdentity(), false
	}
	n := axis.Len()
	if n < mathutil.Epsilon {
		return mathutil.QuatIdentity(), false
	}
	half := angle / 2
	return mathutil.QuatFromParts(math.Cos(half), axis.Scale(math.Sin(half)/n)), true
}
