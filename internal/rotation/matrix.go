// Package rotation converts between the canonical quaternion and the other
// rotation representations: matrix, Euler angles, axis-angle and MRP.
//
// Every function tolerates non-unit quaternions and normalizes internally;
// degenerate input falls back to the identity rotation instead of dividing by zero.
package rotation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"attitude-engine/internal/mathutil"
)

// QuatToMatrix converts a quaternion to a 3×3 rotation matrix.
// q is normalized first; the zero quaternion yields the identity matrix.
func QuatToMatrix(q quat.Number) mathutil.Mat3 {
	q, _ = mathutil.QuatNormalize(q)
	x, y, z, w := q.Imag, q.Jmag, q.Kmag, q.Real
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return mathutil.Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// MatrixToQuat converts a rotation matrix to a unit quaternion (Shepperd's method).
// The largest of w, x, y, z is recovered from the diagonal first so the division
// never goes through a small pivot.
func MatrixToQuat(m mathutil.Mat3) quat.Number {
	var q quat.Number
	tr := m[0] + m[4] + m[8]
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		q = quat.Number{Real: s / 4, Imag: (m[7] - m[5]) / s, Jmag: (m[2] - m[6]) / s, Kmag: (m[3] - m[1]) / s}
	case m[0] > m[4] && m[0] > m[8]:
		s := math.Sqrt(1+m[0]-m[4]-m[8]) * 2
		q = quat.Number{Real: (m[7] - m[5]) / s, Imag: s / 4, Jmag: (m[1] + m[3]) / s, Kmag: (m[2] + m[6]) / s}
	case m[4] > m[8]:
		s := math.Sqrt(1+m[4]-m[0]-m[8]) * 2
		q = quat.Number{Real: (m[2] - m[6]) / s, Imag: (m[1] + m[3]) / s, Jmag: s / 4, Kmag: (m[5] + m[7]) / s}
	default:
		s := math.Sqrt(1+m[8]-m[0]-m[4]) * 2
		q = quat.Number{Real: (m[3] - m[1]) / s, Imag: (m[2] + m[6]) / s, Jmag: (m[5] + m[7]) / s, Kmag: s / 4}
	}
	q, _ = mathutil.QuatNormalize(q)
	return q
}
