package attitude

import (
	"fmt"
	"strings"
)

// Source names the representation a conversion starts from.
type Source string

const (
	SourceQuaternion Source = "quaternion"
	SourceEuler      Source = "euler"
	SourceMRP        Source = "mrp"
	SourceAxisAngle  Source = "axis_angle"
	SourceMatrix     Source = "matrix"
)

// Sources lists every source in a stable order.
var Sources = []Source{SourceQuaternion, SourceEuler, SourceMRP, SourceAxisAngle, SourceMatrix}

// Arity is the number of values a source takes.
func (s Source) Arity() int {
	switch s {
	case SourceQuaternion, SourceAxisAngle:
		return 4
	case SourceEuler, SourceMRP:
		return 3
	case SourceMatrix:
		return 9
	}
	return 0
}

// ParseSource accepts the source names plus "axis-angle" and "axisangle".
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quaternion", "quat", "q":
		return SourceQuaternion, nil
	case "euler":
		return SourceEuler, nil
	case "mrp":
		return SourceMRP, nil
	case "axis_angle", "axis-angle", "axisangle":
		return SourceAxisAngle, nil
	case "matrix", "rotation_matrix":
		return SourceMatrix, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Input is one conversion request in flat form. Values holds, per source:
// w x y z; angle1 angle2 angle3; sigma1 sigma2 sigma3; axis_x axis_y axis_z angle;
// or the nine matrix entries row by row.
type Input struct {
	Source     Source    `json:"source"`
	Values     []float64 `json:"values"`
	Order      string    `json:"order"`
	AutoShadow bool      `json:"auto_shadow"`
	// IsShadow applies to the mrp source only.
	IsShadow bool `json:"is_shadow,omitempty"`
}

// Convert dispatches in to the matching entry point.
func (e *Engine) Convert(in Input) (*ConversionResult, error) {
	n := in.Source.Arity()
	if n == 0 {
		err := fmt.Errorf("%w: %q", ErrUnknownSource, in.Source)
		e.observeError(in.Source, err)
		return nil, err
	}
	if len(in.Values) != n {
		err := fmt.Errorf("attitude: %s expects %d values, got %d: %w", in.Source, n, len(in.Values), ErrInputShape)
		e.observeError(in.Source, err)
		return nil, err
	}

	v := in.Values
	switch in.Source {
	case SourceQuaternion:
		return e.ConvertFromQuaternion(v[0], v[1], v[2], v[3], in.Order, in.AutoShadow)
	case SourceEuler:
		return e.ConvertFromEuler(v[0], v[1], v[2], in.Order, in.AutoShadow)
	case SourceMRP:
		return e.ConvertFromMRP(v[0], v[1], v[2], in.IsShadow, in.Order, in.AutoShadow)
	case SourceAxisAngle:
		return e.ConvertFromAxisAngle(v[0], v[1], v[2], v[3], in.Order, in.AutoShadow)
	default:
		return e.ConvertFromMatrix([3][3]float64{
			{v[0], v[1], v[2]},
			{v[3], v[4], v[5]},
			{v[6], v[7], v[8]},
		}, in.Order, in.AutoShadow)
	}
}

func (e *Engine) observeError(source Source, err error) {
	if e.observer != nil {
		e.observer.ObserveError(source, err)
	}
}

// AnglesToRadians rewrites the angle values of in from degrees to radians: all
// three Euler angles, or the axis-angle angle. Other sources have no angles.
// Inputs with the wrong number of values are left alone.
func (in *Input) AnglesToRadians() {
	if len(in.Values) != in.Source.Arity() {
		return
	}
	switch in.Source {
	case SourceEuler:
		for i := range in.Values {
			in.Values[i] = DegreesToRadians(in.Values[i])
		}
	case SourceAxisAngle:
		in.Values[3] = DegreesToRadians(in.Values[3])
	}
}
