package rotation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"attitude-engine/internal/eulerorder"
	"attitude-engine/internal/mathutil"
)

// Euler is the result of an extraction. When Singular is set, angle2 sits exactly
// on the order's singular boundary, Angle3 is 0 and Angle1 carries the combined angle.
type Euler struct {
	Angle1, Angle2, Angle3 float64
	Singular               bool
}

// MatrixToEuler extracts the angles of order d from a rotation matrix. The
// configuration is singular when the middle angle lies within tol radians of the
// order's boundary (never less than mathutil.SingularityFloor, so the exact
// boundary always counts).
//
// One algorithm serves all 24 orders. The extraction runs on the intrinsic axis
// sequence (i, j, ·) with k the axis that is neither i nor j and s the parity of
// (i, j, k); extrinsic orders are the intrinsic sequence read backwards.
//
//	Tait-Bryan   R = Ri(b1)·Rj(b2)·Rk(b3):  sin b2 = s·R[i][k]
//	Proper Euler R = Ri(b1)·Rj(b2)·Ri(b3):  cos b2 = R[i][i]
//
// b2 comes from atan2 of that entry against the hypot of its row partners, which
// keeps full precision next to the boundary where asin/acos lose half the digits.
func MatrixToEuler(m mathutil.Mat3, d eulerorder.Descriptor, tol float64) Euler {
	ax := d.IntrinsicAxes()
	i, j := ax[0], ax[1]
	k := 3 - i - j
	s := d.Parity()
	tol = math.Max(tol, mathutil.SingularityFloor)

	var b1, b2, b3 float64
	singular := false

	switch d.Kind {
	case eulerorder.TaitBryan:
		b2 = math.Atan2(s*m.At(i, k), math.Hypot(m.At(i, i), m.At(i, j)))
		if math.Pi/2-math.Abs(b2) <= tol {
			singular = true
			b2 = math.Copysign(math.Pi/2, b2)
		} else {
			b1 = math.Atan2(-s*m.At(j, k), m.At(k, k))
			b3 = math.Atan2(-s*m.At(i, j), m.At(i, i))
		}
	case eulerorder.ProperEuler:
		b2 = math.Atan2(math.Hypot(m.At(i, j), m.At(i, k)), m.At(i, i))
		switch {
		case b2 <= tol:
			singular = true
			b2 = 0
		case math.Pi-b2 <= tol:
			singular = true
			b2 = math.Pi
		default:
			b1 = math.Atan2(m.At(j, i), -s*m.At(k, i))
			b3 = math.Atan2(m.At(i, j), s*m.At(i, k))
		}
	}

	if singular {
		if d.Frame == eulerorder.Extrinsic {
			// b1 is the caller's angle3: zero it and solve the last intrinsic
			// angle from row j, which R_j(b2) leaves untouched.
			if d.Kind == eulerorder.TaitBryan {
				b3 = math.Atan2(s*m.At(j, i), m.At(j, j))
			} else {
				b3 = math.Atan2(-s*m.At(j, k), m.At(j, j))
			}
		} else {
			// b3 = 0, so column j of R is R_i(b1)·e_j.
			b1 = math.Atan2(s*m.At(k, j), m.At(j, j))
		}
	}

	a1, a2, a3 := d.ToIntrinsic(b1, b2, b3)
	return Euler{Angle1: a1, Angle2: a2, Angle3: a3, Singular: singular}
}

// EulerToMatrix composes the three elementary rotations of order d.
// It is the left inverse of MatrixToEuler away from singularities.
func EulerToMatrix(a1, a2, a3 float64, d eulerorder.Descriptor) mathutil.Mat3 {
	b1, b2, b3 := d.ToIntrinsic(a1, a2, a3)
	ax := d.IntrinsicAxes()
	return mathutil.Mat3Mul(
		mathutil.RotAxis(ax[0], b1),
		mathutil.Mat3Mul(mathutil.RotAxis(ax[1], b2), mathutil.RotAxis(ax[2], b3)),
	)
}

// EulerToQuat composes the elementary quaternions of order d. The result is unit
// length for finite angles.
func EulerToQuat(a1, a2, a3 float64, d eulerorder.Descriptor) quat.Number {
	b1, b2, b3 := d.ToIntrinsic(a1, a2, a3)
	ax := d.IntrinsicAxes()
	return quat.Mul(
		mathutil.QuatAxis(ax[0], b1),
		quat.Mul(mathutil.QuatAxis(ax[1], b2), mathutil.QuatAxis(ax[2], b3)),
	)
}
