package attitude

// Quaternion is the canonical unit quaternion, w ≥ 0.
type Quaternion struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// GimbalLock is present when the middle Euler angle sits on a singular boundary.
type GimbalLock struct {
	LockType      string  `json:"lock_type"`
	CombinedAngle float64 `json:"combined_angle"`
}

type EulerAngles struct {
	Angle1     float64     `json:"angle1"`
	Angle2     float64     `json:"angle2"`
	Angle3     float64     `json:"angle3"`
	Order      string      `json:"order"`
	GimbalLock *GimbalLock `json:"gimbal_lock"`
}

type MRP struct {
	Sigma1   float64 `json:"sigma1"`
	Sigma2   float64 `json:"sigma2"`
	Sigma3   float64 `json:"sigma3"`
	IsShadow bool    `json:"is_shadow"`
}

// Sigma returns the three parameters as a vector.
func (m MRP) Sigma() [3]float64 {
	return [3]float64{m.Sigma1, m.Sigma2, m.Sigma3}
}

type AxisAngle struct {
	Axis  [3]float64 `json:"axis"`
	Angle float64    `json:"angle"`
}

type RotationMatrix struct {
	Matrix [3][3]float64 `json:"matrix"`
}

// ConversionResult holds the same rotation in all five representations.
type ConversionResult struct {
	Quaternion     Quaternion     `json:"quaternion"`
	Euler          EulerAngles    `json:"euler"`
	MRP            MRP            `json:"mrp"`
	AxisAngle      AxisAngle      `json:"axis_angle"`
	RotationMatrix RotationMatrix `json:"rotation_matrix"`

	// Degenerate is set when the input described no rotation (zero quaternion,
	// zero axis, non-finite values, rank-deficient matrix) and the identity was
	// substituted. It is not part of the wire record.
	Degenerate bool `json:"-"`
}
