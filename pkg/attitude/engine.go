// Package attitude converts a 3D rotation given in any one of five representations
// (quaternion, Euler angles, Modified Rodrigues Parameters, axis-angle, rotation
// matrix) into a consistent set of all five.
//
// An Engine holds only immutable settings and is safe for concurrent use.
package attitude

import (
	"gonum.org/v1/gonum/num/quat"
	"k8s.io/klog/v2"

	"attitude-engine/internal/eulerorder"
	"attitude-engine/internal/gimbal"
	"attitude-engine/internal/mathutil"
	"attitude-engine/internal/mrp"
	"attitude-engine/internal/rotation"
)

// projectionTolerance bounds how far a projected matrix may stray from SO(3).
const projectionTolerance = 1e-9

// Observer is notified after every conversion attempt.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveConversion(source Source, result *ConversionResult)
	ObserveError(source Source, err error)
}

// Engine converts rotations between representations. Use NewEngine; the zero
// value flags only exact gimbal boundaries and discards its logs.
type Engine struct {
	tolerance float64
	logger    klog.Logger
	observer  Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithTolerance sets the gimbal lock tolerance in radians. Zero flags only the
// exact boundary; negative or non-finite values are ignored.
func WithTolerance(tol float64) Option {
	return func(e *Engine) {
		if tol >= 0 && mathutil.IsFinite(tol) {
			e.tolerance = tol
		}
	}
}

// WithLogger sets the logger for verbose diagnostics. The default is klog.Background().
func WithLogger(logger klog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithObserver registers o to be told about every conversion and rejected input.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine returns an engine with the default gimbal tolerance, modified by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		tolerance: gimbal.DefaultTolerance,
		logger:    klog.Background(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tolerance returns the gimbal lock detection tolerance.
func (e *Engine) Tolerance() float64 {
	return e.tolerance
}

// ConvertFromQuaternion converts (w, x, y, z). The quaternion need not be unit
// length; a zero or non-finite quaternion yields the identity with Degenerate set.
func (e *Engine) ConvertFromQuaternion(w, x, y, z float64, order string, autoShadow bool) (*ConversionResult, error) {
	d, err := e.lookup(SourceQuaternion, order)
	if err != nil {
		return nil, err
	}
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	return e.finish(SourceQuaternion, q, d, autoShadow, false, mathutil.QuatIsFinite(q)), nil
}

// ConvertFromEuler converts three angles (radians) of the given order.
func (e *Engine) ConvertFromEuler(angle1, angle2, angle3 float64, order string, autoShadow bool) (*ConversionResult, error) {
	d, err := e.lookup(SourceEuler, order)
	if err != nil {
		return nil, err
	}
	ok := mathutil.IsFinite(angle1) && mathutil.IsFinite(angle2) && mathutil.IsFinite(angle3)
	q := mathutil.QuatIdentity()
	if ok {
		q = rotation.EulerToQuat(angle1, angle2, angle3, d)
	}
	return e.finish(SourceEuler, q, d, autoShadow, false, ok), nil
}

// ConvertFromMRP converts an MRP set. isShadow tells whether sigma is the shadow
// set; with autoShadow disabled the result reports the same branch.
func (e *Engine) ConvertFromMRP(sigma1, sigma2, sigma3 float64, isShadow bool, order string, autoShadow bool) (*ConversionResult, error) {
	d, err := e.lookup(SourceMRP, order)
	if err != nil {
		return nil, err
	}
	q, ok := rotation.MRPToQuat(mrp.Set{Sigma: mathutil.Vec3{sigma1, sigma2, sigma3}, Shadow: isShadow})
	return e.finish(SourceMRP, q, d, autoShadow, isShadow, ok), nil
}

// ConvertFromAxisAngle converts a rotation of angle radians about axis. The axis
// is normalized; a zero-length axis yields the identity with Degenerate set.
func (e *Engine) ConvertFromAxisAngle(axisX, axisY, axisZ, angle float64, order string, autoShadow bool) (*ConversionResult, error) {
	d, err := e.lookup(SourceAxisAngle, order)
	if err != nil {
		return nil, err
	}
	q, ok := rotation.AxisAngleToQuat(mathutil.Vec3{axisX, axisY, axisZ}, angle)
	return e.finish(SourceAxisAngle, q, d, autoShadow, false, ok), nil
}

// ConvertFromMatrix converts a 3×3 matrix given row by row. A matrix that is not
// exactly orthonormal is replaced by the nearest proper rotation; a singular or
// non-finite matrix yields the identity with Degenerate set.
func (e *Engine) ConvertFromMatrix(m [3][3]float64, order string, autoShadow bool) (*ConversionResult, error) {
	d, err := e.lookup(SourceMatrix, order)
	if err != nil {
		return nil, err
	}
	r, ok := mathutil.Mat3FromRows(m).NearestRotation()
	ok = ok && r.IsRotation(projectionTolerance)
	q := mathutil.QuatIdentity()
	if ok {
		q = rotation.MatrixToQuat(r)
	}
	return e.finish(SourceMatrix, q, d, autoShadow, false, ok), nil
}

func (e *Engine) lookup(source Source, order string) (eulerorder.Descriptor, error) {
	d, ok := eulerorder.Lookup(order)
	if !ok {
		err := &InvalidOrderError{Order: order}
		e.observeError(source, err)
		return eulerorder.Descriptor{}, err
	}
	return d, nil
}

// finish derives every representation from q. ok false means the input was
// degenerate and q is discarded in favor of the identity.
func (e *Engine) finish(source Source, q quat.Number, d eulerorder.Descriptor, autoShadow, requestShadow, ok bool) *ConversionResult {
	if ok {
		q, ok = mathutil.QuatCanonical(q)
	}
	if !ok {
		q = mathutil.QuatIdentity()
		e.logger.V(2).Info("Degenerate input replaced by identity", "source", source)
	}

	res := assemble(q, d, autoShadow, requestShadow, e.tolerance)
	res.Degenerate = !ok
	if res.Euler.GimbalLock != nil {
		e.logger.V(4).Info("Gimbal lock", "source", source, "order", d.Name,
			"lockType", res.Euler.GimbalLock.LockType, "combinedAngle", res.Euler.GimbalLock.CombinedAngle)
	}
	if e.observer != nil {
		e.observer.ObserveConversion(source, res)
	}
	return res
}

// assemble builds the result from a canonical unit quaternion.
func assemble(q quat.Number, d eulerorder.Descriptor, autoShadow, requestShadow bool, tol float64) *ConversionResult {
	m := rotation.QuatToMatrix(q)

	eul := rotation.MatrixToEuler(m, d, tol)
	euler := EulerAngles{
		Angle1: eul.Angle1,
		Angle2: eul.Angle2,
		Angle3: eul.Angle3,
		Order:  d.Name,
	}
	if info := gimbal.Detect(d, eul.Angle1, eul.Angle2, eul.Angle3, tol); info != nil {
		euler.GimbalLock = &GimbalLock{LockType: string(info.LockType), CombinedAngle: info.CombinedAngle}
	}

	set := mrp.Select(rotation.QuatToMRP(q), requestShadow, autoShadow)
	axis, angle := rotation.QuatToAxisAngle(q)

	return &ConversionResult{
		Quaternion: Quaternion{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag},
		Euler:      euler,
		MRP: MRP{
			Sigma1:   set.Sigma[0],
			Sigma2:   set.Sigma[1],
			Sigma3:   set.Sigma[2],
			IsShadow: set.Shadow,
		},
		AxisAngle:      AxisAngle{Axis: axis, Angle: angle},
		RotationMatrix: RotationMatrix{Matrix: m.Rows()},
	}
}
