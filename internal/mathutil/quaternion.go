package mathutil

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quaternions are gonum numbers: Real is the scalar part w, Imag/Jmag/Kmag are x/y/z.

// QuatIdentity is the identity rotation.
func QuatIdentity() quat.Number {
	return quat.Number{Real: 1}
}

// QuatVec returns the vector part (x, y, z).
func QuatVec(q quat.Number) Vec3 {
	return Vec3{q.Imag, q.Jmag, q.Kmag}
}

// QuatFromParts assembles a quaternion from scalar and vector parts.
func QuatFromParts(w float64, v Vec3) quat.Number {
	return quat.Number{Real: w, Imag: v[0], Jmag: v[1], Kmag: v[2]}
}

// QuatAxis returns the unit quaternion of an elementary rotation about axis 0, 1 or 2.
func QuatAxis(axis int, angle float64) quat.Number {
	var v Vec3
	v[axis] = math.Sin(angle / 2)
	return QuatFromParts(math.Cos(angle/2), v)
}

// QuatIsFinite reports whether every component is finite.
func QuatIsFinite(q quat.Number) bool {
	return IsFinite(q.Real) && QuatVec(q).IsFinite()
}

// QuatNormalize returns q/|q|. The second result is false when |q| is below
// Epsilon (or q is not finite), in which case the identity is returned.
func QuatNormalize(q quat.Number) (quat.Number, bool) {
	if !QuatIsFinite(q) {
		return QuatIdentity(), false
	}
	n := quat.Abs(q)
	if n < Epsilon {
		return QuatIdentity(), false
	}
	return quat.Scale(1/n, q), true
}

// QuatCanonical normalizes q and flips it into the w ≥ 0 hemisphere.
// q and −q describe the same rotation.
func QuatCanonical(q quat.Number) (quat.Number, bool) {
	n, ok := QuatNormalize(q)
	if n.Real < 0 {
		n = quat.Scale(-1, n)
	}
	return n, ok
}

// QuatSameRotation reports whether a and b represent the same rotation within tol,
// accounting for the q/−q double cover.
func QuatSameRotation(a, b quat.Number, tol float64) bool {
	d := quat.Abs(quat.Sub(a, b))
	s := quat.Abs(quat.Add(a, b))
	return math.Min(d, s) <= tol
}
