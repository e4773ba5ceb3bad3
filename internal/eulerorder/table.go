// Package eulerorder is the static table of the 24 supported Euler rotation orders.
//
// Each of the 12 axis sequences (6 Tait-Bryan, 6 Proper Euler) exists in two frames.
// Upper-case names are intrinsic: "ZYX" rotates about Z, then the rotated Y, then the
// twice-rotated X, so R = Rz(a1)·Ry(a2)·Rx(a3). Lower-case names are extrinsic: "zyx"
// rotates about the fixed z, then fixed y, then fixed x, so R = Rx(a3)·Ry(a2)·Rz(a1).
package eulerorder

import "attitude-engine/internal/mathutil"

// Kind classifies an order by its axis pattern.
type Kind int

const (
	TaitBryan   Kind = iota // three distinct axes
	ProperEuler             // first axis repeats as third
)

func (k Kind) String() string {
	if k == ProperEuler {
		return "Proper Euler"
	}
	return "Tait-Bryan"
}

// Frame tells whether the rotations are about moving or fixed axes.
type Frame int

const (
	Intrinsic Frame = iota
	Extrinsic
)

func (f Frame) String() string {
	if f == Extrinsic {
		return "extrinsic"
	}
	return "intrinsic"
}

// Descriptor is one row of the order table.
type Descriptor struct {
	Name        string
	Kind        Kind
	Frame       Frame
	Description string
	// Axes are the axis indices in the order the angles are named (angle1, angle2, angle3).
	Axes [3]int
}

const (
	x = mathutil.AxisX
	y = mathutil.AxisY
	z = mathutil.AxisZ
)

// table is grouped by Kind, intrinsic before extrinsic within each group.
var table = [...]Descriptor{
	{"XYZ", TaitBryan, Intrinsic, "Roll-Pitch-Yaw", [3]int{x, y, z}},
	{"XZY", TaitBryan, Intrinsic, "Intrinsic X-Z'-Y''", [3]int{x, z, y}},
	{"YXZ", TaitBryan, Intrinsic, "Intrinsic Y-X'-Z''", [3]int{y, x, z}},
	{"YZX", TaitBryan, Intrinsic, "Intrinsic Y-Z'-X''", [3]int{y, z, x}},
	{"ZXY", TaitBryan, Intrinsic, "Intrinsic Z-X'-Y''", [3]int{z, x, y}},
	{"ZYX", TaitBryan, Intrinsic, "Yaw-Pitch-Roll (Aerospace)", [3]int{z, y, x}},

	{"xyz", TaitBryan, Extrinsic, "Extrinsic x-y-z (fixed axes; intrinsic ZYX with angles reversed)", [3]int{x, y, z}},
	{"xzy", TaitBryan, Extrinsic, "Extrinsic x-z-y (fixed axes; intrinsic YZX with angles reversed)", [3]int{x, z, y}},
	{"yxz", TaitBryan, Extrinsic, "Extrinsic y-x-z (fixed axes; intrinsic ZXY with angles reversed)", [3]int{y, x, z}},
	{"yzx", TaitBryan, Extrinsic, "Extrinsic y-z-x (fixed axes; intrinsic XZY with angles reversed)", [3]int{y, z, x}},
	{"zxy", TaitBryan, Extrinsic, "Extrinsic z-x-y (fixed axes; intrinsic YXZ with angles reversed)", [3]int{z, x, y}},
	{"zyx", TaitBryan, Extrinsic, "Extrinsic z-y-x (fixed axes; intrinsic XYZ with angles reversed)", [3]int{z, y, x}},

	{"XYX", ProperEuler, Intrinsic, "Intrinsic X-Y'-X''", [3]int{x, y, x}},
	{"XZX", ProperEuler, Intrinsic, "Intrinsic X-Z'-X''", [3]int{x, z, x}},
	{"YXY", ProperEuler, Intrinsic, "Intrinsic Y-X'-Y''", [3]int{y, x, y}},
	{"YZY", ProperEuler, Intrinsic, "Intrinsic Y-Z'-Y''", [3]int{y, z, y}},
	{"ZXZ", ProperEuler, Intrinsic, "Classical Euler (Precession)", [3]int{z, x, z}},
	{"ZYZ", ProperEuler, Intrinsic, "Intrinsic Z-Y'-Z''", [3]int{z, y, z}},

	{"xyx", ProperEuler, Extrinsic, "Extrinsic x-y-x (fixed axes)", [3]int{x, y, x}},
	{"xzx", ProperEuler, Extrinsic, "Extrinsic x-z-x (fixed axes)", [3]int{x, z, x}},
	{"yxy", ProperEuler, Extrinsic, "Extrinsic y-x-y (fixed axes)", [3]int{y, x, y}},
	{"yzy", ProperEuler, Extrinsic, "Extrinsic y-z-y (fixed axes)", [3]int{y, z, y}},
	{"zxz", ProperEuler, Extrinsic, "Extrinsic z-x-z (fixed axes)", [3]int{z, x, z}},
	{"zyz", ProperEuler, Extrinsic, "Extrinsic z-y-z (fixed axes)", [3]int{z, y, z}},
}

// Count is the number of supported orders.
const Count = len(table)

var byName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(table))
	for _, d := range table {
		m[d.Name] = d
	}
	return m
}()

// Lookup returns the descriptor for an order string. Names are case-sensitive.
func Lookup(name string) (Descriptor, bool) {
	d, ok := byName[name]
	return d, ok
}

// All returns every descriptor in enumeration order. The slice is a copy.
func All() []Descriptor {
	out := make([]Descriptor, len(table))
	copy(out, table[:])
	return out
}

// Grouped returns the descriptors of each Kind, Tait-Bryan first.
func Grouped() [][]Descriptor {
	groups := make([][]Descriptor, 2)
	for _, d := range table {
		groups[d.Kind] = append(groups[d.Kind], d)
	}
	return groups
}

// Classify returns the Kind of an order string.
func Classify(name string) (Kind, bool) {
	d, ok := byName[name]
	return d.Kind, ok
}

// AxisTriplet returns the axis indices of an order string.
func AxisTriplet(name string) ([3]int, bool) {
	d, ok := byName[name]
	return d.Axes, ok
}

// IntrinsicAxes returns the axes of the equivalent intrinsic sequence.
// An extrinsic order is the intrinsic order read backwards.
func (d Descriptor) IntrinsicAxes() [3]int {
	if d.Frame == Extrinsic {
		return [3]int{d.Axes[2], d.Axes[1], d.Axes[0]}
	}
	return d.Axes
}

// ToIntrinsic maps this order's angles onto the equivalent intrinsic sequence.
func (d Descriptor) ToIntrinsic(a1, a2, a3 float64) (float64, float64, float64) {
	if d.Frame == Extrinsic {
		return a3, a2, a1
	}
	return a1, a2, a3
}

// Parity is +1 when the intrinsic (first, second, remaining) axes form an
// even permutation of (X, Y, Z) and −1 otherwise.
func (d Descriptor) Parity() float64 {
	ax := d.IntrinsicAxes()
	if (ax[1]-ax[0]+3)%3 == 1 {
		return 1
	}
	return -1
}
