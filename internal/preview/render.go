// Package preview renders orientation snapshots: a shaded body with its three
// axes drawn under a rotation, either as a still or as the Euler stage sequence.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"attitude-engine/internal/eulerorder"
	"attitude-engine/internal/mathutil"
	"attitude-engine/internal/rotation"
)

// Options control a render.
type Options struct {
	Size        int
	Supersample int
	Background  color.NRGBA
	Camera      mathutil.Mat3
	Light       LightConfig
}

// DefaultOptions renders a 256 px image at 2× supersampling on a transparent background.
func DefaultOptions() Options {
	return Options{
		Size:        256,
		Supersample: 2,
		Camera:      DefaultCamera,
		Light:       DefaultLightConfig(),
	}
}

// Renderer draws one scene; it is safe for concurrent use.
type Renderer struct {
	opts  Options
	scene Mesh
}

func NewRenderer(opts Options) *Renderer {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Camera == (mathutil.Mat3{}) {
		opts.Camera = DefaultCamera
	}
	if opts.Light == (LightConfig{}) {
		opts.Light = DefaultLightConfig()
	}
	return &Renderer{opts: opts, scene: BodyScene()}
}

// Render draws the body rotated by R (body to world).
func (r *Renderer) Render(R mathutil.Mat3) *image.NRGBA {
	size := r.opts.Size * r.opts.Supersample
	fb := NewFrameBuffer(size, size, r.opts.Background)
	scale := float64(size) / (2 * SceneExtent)

	p := ProjectVertices(r.scene.Verts, R, r.opts.Camera, scale, size)
	for _, f := range r.scene.Faces {
		RasterizeTriangle(fb, [3]mathutil.Vec3{p[f.Idx[0]], p[f.Idx[1]], p[f.Idx[2]]}, f.Color, &r.opts.Light)
	}

	img := fb.Image()
	if r.opts.Supersample > 1 {
		img = Downsample(img, r.opts.Size)
	}
	return img
}

// StageRotations returns the cumulative rotations of an Euler sequence: the
// identity, after the first rotation, after the first two, and the final attitude.
func StageRotations(order string, angle1, angle2, angle3 float64) ([]mathutil.Mat3, error) {
	d, ok := eulerorder.Lookup(order)
	if !ok {
		return nil, fmt.Errorf("preview: invalid euler order %q", order)
	}
	return []mathutil.Mat3{
		mathutil.Mat3Identity(),
		rotation.EulerToMatrix(angle1, 0, 0, d),
		rotation.EulerToMatrix(angle1, angle2, 0, d),
		rotation.EulerToMatrix(angle1, angle2, angle3, d),
	}, nil
}

// RenderStages draws one frame per stage of StageRotations.
func (r *Renderer) RenderStages(order string, angle1, angle2, angle3 float64) ([]image.Image, error) {
	stages, err := StageRotations(order, angle1, angle2, angle3)
	if err != nil {
		return nil, err
	}
	frames := make([]image.Image, len(stages))
	for i, R := range stages {
		frames[i] = r.Render(R)
	}
	return frames, nil
}
