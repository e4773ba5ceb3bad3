package preview

import (
	"image/color"

	"attitude-engine/internal/mathutil"
)

// Face is one triangle of the scene, indices into Mesh.Verts.
type Face struct {
	Idx   [3]int
	Color color.NRGBA
}

// Mesh is a body-frame triangle mesh.
type Mesh struct {
	Verts []mathutil.Vec3
	Faces []Face
}

// Body axis colors: x red, y green, z blue.
var AxisColors = [3]color.NRGBA{
	{R: 225, G: 60, B: 50, A: 255},
	{R: 70, G: 190, B: 80, A: 255},
	{R: 60, G: 110, B: 230, A: 255},
}

var bodyColor = color.NRGBA{R: 190, G: 190, B: 200, A: 255}

// SceneExtent bounds every vertex of BodyScene.
const SceneExtent = 1.9

// BodyScene is a flat box for the body with an arrow along each body axis.
func BodyScene() Mesh {
	var m Mesh
	m.addBox(mathutil.Vec3{}, mathutil.Vec3{0.9, 0.55, 0.2}, bodyColor)
	for axis := 0; axis < 3; axis++ {
		m.addArrow(axis, AxisColors[axis])
	}
	return m
}

// addArrow adds a shaft and a wider head along the positive axis.
func (m *Mesh) addArrow(axis int, c color.NRGBA) {
	shaft := mathutil.Vec3{0.035, 0.035, 0.035}
	shaft[axis] = 0.7
	center := mathutil.Vec3{}
	center[axis] = 0.7
	m.addBox(center, shaft, c)

	head := mathutil.Vec3{0.09, 0.09, 0.09}
	head[axis] = 0.12
	center[axis] = 1.52
	m.addBox(center, head, c)
}

// box corner signs, bit 0 = x, bit 1 = y, bit 2 = z
var boxFaces = [6][4]int{
	{0, 2, 6, 4}, // -x
	{1, 5, 7, 3}, // +x
	{0, 4, 5, 1}, // -y
	{2, 3, 7, 6}, // +y
	{0, 1, 3, 2}, // -z
	{4, 6, 7, 5}, // +z
}

func (m *Mesh) addBox(center, half mathutil.Vec3, c color.NRGBA) {
	base := len(m.Verts)
	for i := 0; i < 8; i++ {
		v := center
		for k := 0; k < 3; k++ {
			if i&(1<<k) != 0 {
				v[k] += half[k]
			} else {
				v[k] -= half[k]
			}
		}
		m.Verts = append(m.Verts, v)
	}
	for _, q := range boxFaces {
		m.Faces = append(m.Faces,
			Face{Idx: [3]int{base + q[0], base + q[1], base + q[2]}, Color: c},
			Face{Idx: [3]int{base + q[0], base + q[2], base + q[3]}, Color: c},
		)
	}
}
