package preview

import (
	"image/color"
	"math"

	"attitude-engine/internal/mathutil"
)

// RasterizeTriangle fills one flat-shaded triangle given in screen space
// (x right, y down, z toward the viewer) with z-buffering.
func RasterizeTriangle(fb *FrameBuffer, p [3]mathutil.Vec3, c color.NRGBA, lc *LightConfig) {
	x0, y0, z0 := p[0][0], p[0][1], p[0][2]
	x1, y1, z1 := p[1][0], p[1][1], p[1][2]
	x2, y2, z2 := p[2][0], p[2][1], p[2][2]

	// Face normal for flat shading; screen y points down, so flip it back.
	n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
	if n.Len() < 1e-8 {
		return
	}
	n = n.Normalize()
	n[1] = -n[1]
	r, g, b := lc.shadeColor(c.R, c.G, c.B, lc.ComputeShade(n))

	// Bounding box
	minX := int(math.Max(math.Floor(math.Min(math.Min(x0, x1), x2)), 0))
	maxX := int(math.Min(math.Ceil(math.Max(math.Max(x0, x1), x2)), float64(fb.Width-1)))
	minY := int(math.Max(math.Floor(math.Min(math.Min(y0, y1), y2)), 0))
	maxY := int(math.Min(math.Ceil(math.Max(math.Max(y0, y1), y2)), float64(fb.Height-1)))
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = r
			fb.Color[pxIdx+1] = g
			fb.Color[pxIdx+2] = b
			fb.Color[pxIdx+3] = c.A
		}
	}
}
