package server

import (
	"fmt"

	"attitude-engine/pkg/attitude"
)

// ConvertRequest carries the named parameters of every entry point; only the
// fields of the requested source are read.
type ConvertRequest struct {
	// quaternion
	W *float64 `json:"w,omitempty"`
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	Z *float64 `json:"z,omitempty"`

	// euler
	Angle1 *float64 `json:"angle1,omitempty"`
	Angle2 *float64 `json:"angle2,omitempty"`
	Angle3 *float64 `json:"angle3,omitempty"`

	// mrp
	Sigma1   *float64 `json:"sigma1,omitempty"`
	Sigma2   *float64 `json:"sigma2,omitempty"`
	Sigma3   *float64 `json:"sigma3,omitempty"`
	IsShadow bool     `json:"is_shadow,omitempty"`

	// axis_angle
	AxisX *float64 `json:"axis_x,omitempty"`
	AxisY *float64 `json:"axis_y,omitempty"`
	AxisZ *float64 `json:"axis_z,omitempty"`
	Angle *float64 `json:"angle,omitempty"`

	// matrix
	Matrix *[3][3]float64 `json:"matrix,omitempty"`

	Order      string `json:"order,omitempty"`
	AutoShadow *bool  `json:"auto_shadow,omitempty"`
	// Degrees marks euler and axis_angle angles as degrees.
	Degrees *bool `json:"degrees,omitempty"`

	// preview only
	Stages bool   `json:"stages,omitempty"`
	Format string `json:"format,omitempty"`
}

// input flattens the request for source, applying the server defaults.
func (r *ConvertRequest) input(source attitude.Source, d Defaults) (attitude.Input, error) {
	in := attitude.Input{
		Source:     source,
		Order:      r.Order,
		AutoShadow: d.AutoShadow,
		IsShadow:   r.IsShadow,
	}
	if in.Order == "" {
		in.Order = d.Order
	}
	if r.AutoShadow != nil {
		in.AutoShadow = *r.AutoShadow
	}

	var fields []*float64
	var names []string
	switch source {
	case attitude.SourceQuaternion:
		fields, names = []*float64{r.W, r.X, r.Y, r.Z}, []string{"w", "x", "y", "z"}
	case attitude.SourceEuler:
		fields, names = []*float64{r.Angle1, r.Angle2, r.Angle3}, []string{"angle1", "angle2", "angle3"}
	case attitude.SourceMRP:
		fields, names = []*float64{r.Sigma1, r.Sigma2, r.Sigma3}, []string{"sigma1", "sigma2", "sigma3"}
	case attitude.SourceAxisAngle:
		fields, names = []*float64{r.AxisX, r.AxisY, r.AxisZ, r.Angle}, []string{"axis_x", "axis_y", "axis_z", "angle"}
	case attitude.SourceMatrix:
		if r.Matrix == nil {
			return in, fmt.Errorf("missing field %q: %w", "matrix", attitude.ErrInputShape)
		}
		m := r.Matrix
		in.Values = []float64{m[0][0], m[0][1], m[0][2], m[1][0], m[1][1], m[1][2], m[2][0], m[2][1], m[2][2]}
		return in, nil
	}

	in.Values = make([]float64, len(fields))
	for i, f := range fields {
		if f == nil {
			return in, fmt.Errorf("missing field %q: %w", names[i], attitude.ErrInputShape)
		}
		in.Values[i] = *f
	}

	degrees := d.Degrees
	if r.Degrees != nil {
		degrees = *r.Degrees
	}
	if degrees {
		in.AnglesToRadians()
	}
	return in, nil
}
