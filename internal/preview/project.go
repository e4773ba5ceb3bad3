package preview

import (
	"math"

	"attitude-engine/internal/mathutil"
)

// DefaultCamera looks at the origin from above the x-y plane with world +Z up on screen.
var DefaultCamera = CameraMatrix(0.8, 0.45)

// CameraMatrix builds the world-to-camera rotation for a viewer at the given
// azimuth (about world Z) and elevation above the x-y plane, both in radians.
// Camera space has x right, y up and z toward the viewer.
func CameraMatrix(azimuth, elevation float64) mathutil.Mat3 {
	return mathutil.Mat3Mul(mathutil.RotX(elevation-math.Pi/2), mathutil.RotZ(-azimuth))
}

// ProjectVertices transforms body-frame vertices through the attitude R and the
// camera, then maps them orthographically to screen coordinates.
func ProjectVertices(verts []mathutil.Vec3, R, camera mathutil.Mat3, scale float64, renderSize int) []mathutil.Vec3 {
	view := mathutil.Mat3Mul(camera, R)
	half := float64(renderSize) / 2

	out := make([]mathutil.Vec3, len(verts))
	for i, v := range verts {
		t := view.MulVec3(v)
		out[i] = mathutil.Vec3{
			t[0]*scale + half,
			-t[1]*scale + half,
			t[2],
		}
	}
	return out
}
