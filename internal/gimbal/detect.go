// Package gimbal detects Euler configurations at the singular middle angle.
package gimbal

import (
	"math"

	"attitude-engine/internal/eulerorder"
	"attitude-engine/internal/mathutil"
)

// DefaultTolerance is the angle-space distance (radians) from a singular
// boundary that still counts as locked.
const DefaultTolerance = 1e-6

// LockType tells which singular boundary the middle angle sits on.
type LockType string

const (
	// Positive is +π/2 for Tait-Bryan orders and 0 for Proper Euler orders.
	Positive LockType = "positive"
	// Negative is −π/2 for Tait-Bryan orders and π for Proper Euler orders.
	Negative LockType = "negative"
)

// Info describes a locked configuration. Only CombinedAngle is determined;
// angle1 and angle3 individually are not.
type Info struct {
	LockType      LockType
	CombinedAngle float64
}

// Detect returns lock information when angle2 is within tol of the order's
// singular boundary, or nil. The exact boundary is always flagged.
//
// CombinedAngle is angle1 + σ·angle3, where σ is the sign with which the two
// outer rotations add up at that boundary.
func Detect(d eulerorder.Descriptor, angle1, angle2, angle3, tol float64) *Info {
	if tol < 0 {
		tol = 0
	}

	var lock LockType
	switch d.Kind {
	case eulerorder.TaitBryan:
		switch {
		case math.Abs(angle2-math.Pi/2) <= tol:
			lock = Positive
		case math.Abs(angle2+math.Pi/2) <= tol:
			lock = Negative
		default:
			return nil
		}
	case eulerorder.ProperEuler:
		switch {
		case mathutil.AngleDist(angle2, 0) <= tol:
			lock = Positive
		case mathutil.AngleDist(angle2, math.Pi) <= tol:
			lock = Negative
		default:
			return nil
		}
	default:
		return nil
	}

	return &Info{
		LockType:      lock,
		CombinedAngle: angle1 + combineSign(d, lock)*angle3,
	}
}

// combineSign is +1 when the outer rotations add and −1 when they subtract.
//
// Proper Euler: R_i(a1)·R_j(0)·R_i(a3) = R_i(a1+a3), and R_j(π) reverses R_i.
// Tait-Bryan: R_j(±π/2) carries the third axis onto ±parity times the first.
func combineSign(d eulerorder.Descriptor, lock LockType) float64 {
	s := 1.0
	if lock == Negative {
		s = -1
	}
	if d.Kind == eulerorder.ProperEuler {
		return s
	}
	return s * d.Parity()
}
