package mathutil

import "math"

// Axis indices used by the Euler order table and elementary rotations.
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// RotAxis returns the elementary rotation about axis 0, 1 or 2.
func RotAxis(axis int, a float64) Mat3 {
	switch axis {
	case AxisX:
		return RotX(a)
	case AxisY:
		return RotY(a)
	case AxisZ:
		return RotZ(a)
	}
	panic("mathutil: invalid axis")
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(r float64) float64 {
	return r * 180 / math.Pi
}
