package attitude

import (
	"encoding/json"

	"attitude-engine/internal/eulerorder"
	"attitude-engine/internal/mathutil"
)

const version = "0.1.0"

// Version returns the engine version.
func Version() string {
	return version
}

// OrderInfo describes one supported Euler order. It marshals as the tuple
// [order, classification, description].
type OrderInfo struct {
	Order          string
	Classification string
	Description    string
}

func (o OrderInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{o.Order, o.Classification, o.Description})
}

func (o *OrderInfo) UnmarshalJSON(data []byte) error {
	var t [3]string
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	o.Order, o.Classification, o.Description = t[0], t[1], t[2]
	return nil
}

// EulerOrders returns all 24 orders, Tait-Bryan before Proper Euler and
// intrinsic before extrinsic within each classification.
func EulerOrders() []OrderInfo {
	all := eulerorder.All()
	out := make([]OrderInfo, 0, len(all))
	for _, d := range all {
		out = append(out, OrderInfo{Order: d.Name, Classification: d.Kind.String(), Description: d.Description})
	}
	return out
}

// ValidOrder reports whether order is one of the supported order strings.
func ValidOrder(order string) bool {
	_, ok := eulerorder.Lookup(order)
	return ok
}

func DegreesToRadians(deg float64) float64 { return mathutil.Deg2Rad(deg) }

func RadiansToDegrees(rad float64) float64 { return mathutil.Rad2Deg(rad) }
