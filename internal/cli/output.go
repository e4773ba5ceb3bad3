package cli

import (
	"encoding/json"

	"attitude-engine/pkg/attitude"
)

func marshalIndent(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// inDegrees returns a copy of res with every angle converted to degrees.
// Quaternion, MRP, axis and matrix components are unitless and unchanged.
func inDegrees(res *attitude.ConversionResult) *attitude.ConversionResult {
	d := *res
	d.Euler.Angle1 = attitude.RadiansToDegrees(res.Euler.Angle1)
	d.Euler.Angle2 = attitude.RadiansToDegrees(res.Euler.Angle2)
	d.Euler.Angle3 = attitude.RadiansToDegrees(res.Euler.Angle3)
	if res.Euler.GimbalLock != nil {
		g := *res.Euler.GimbalLock
		g.CombinedAngle = attitude.RadiansToDegrees(g.CombinedAngle)
		d.Euler.GimbalLock = &g
	}
	d.AxisAngle.Angle = attitude.RadiansToDegrees(res.AxisAngle.Angle)
	return &d
}
