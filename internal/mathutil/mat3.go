package mathutil

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Mat3 is a 3×3 matrix stored row-major: [r0c0, r0c1, r0c2, r1c0, ...].
// Value type for zero heap allocation.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3FromRows builds a Mat3 from nested rows, the layout of the wire format.
func Mat3FromRows(rows [3][3]float64) Mat3 {
	return Mat3{
		rows[0][0], rows[0][1], rows[0][2],
		rows[1][0], rows[1][1], rows[1][2],
		rows[2][0], rows[2][1], rows[2][2],
	}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return m
}

// At returns the element at row r, column c.
func (m Mat3) At(r, c int) float64 {
	return m[r*3+c]
}

// Rows returns the matrix as nested rows.
func (m Mat3) Rows() [3][3]float64 {
	return [3][3]float64{
		{m[0], m[1], m[2]},
		{m[3], m[4], m[5]},
		{m[6], m[7], m[8]},
	}
}

// MulVec3 returns M × v.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2],
		m[3]*v[0] + m[4]*v[1] + m[5]*v[2],
		m[6]*v[0] + m[7]*v[1] + m[8]*v[2],
	}
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// IsFinite reports whether every element is finite.
func (m Mat3) IsFinite() bool {
	for _, v := range m {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}

// Dense copies m into a gonum matrix.
func (m Mat3) Dense() *mat.Dense {
	data := make([]float64, 9)
	copy(data, m[:])
	return mat.NewDense(3, 3, data)
}

func mat3FromDense(d mat.Matrix) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = d.At(r, c)
		}
	}
	return m
}

// OrthonormalityError returns max|RᵀR − I| over all elements.
// Zero for an exact rotation or reflection.
func (m Mat3) OrthonormalityError() float64 {
	d := m.Dense()
	var rtr mat.Dense
	rtr.Mul(d.T(), d)

	worst := 0.0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			worst = math.Max(worst, math.Abs(rtr.At(r, c)-want))
		}
	}
	return worst
}

// IsRotation reports whether m is orthonormal with determinant +1 within tol.
func (m Mat3) IsRotation(tol float64) bool {
	return m.IsFinite() &&
		m.OrthonormalityError() <= tol &&
		math.Abs(m.Det()-1) <= tol
}

// NearestRotation projects m onto SO(3) using R = U·diag(1, 1, det(UVᵀ))·Vᵀ.
// Returns false when m has rank below 2 and no rotation is determined.
func (m Mat3) NearestRotation() (Mat3, bool) {
	if !m.IsFinite() {
		return Mat3Identity(), false
	}

	var svd mat.SVD
	if !svd.Factorize(m.Dense(), mat.SVDFull) {
		return Mat3Identity(), false
	}
	values := svd.Values(nil)
	if values[0] < Epsilon || values[1] < Epsilon*values[0] {
		return Mat3Identity(), false
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var r mat.Dense
	r.Mul(&u, v.T())
	if mat.Det(&r) < 0 {
		// Reflection: flip the axis of the smallest singular value.
		var ud mat.Dense
		ud.Mul(&u, mat.NewDiagDense(3, []float64{1, 1, -1}))
		r.Mul(&ud, v.T())
	}
	return mat3FromDense(&r), true
}
