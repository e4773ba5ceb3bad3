package batch

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"attitude-engine/pkg/attitude"
)

// Request is one entry of a batch file. Unset optional fields fall back to the
// run's defaults.
type Request struct {
	Name       string    `json:"name,omitempty"`
	Source     string    `json:"source"`
	Values     []float64 `json:"values"`
	Order      string    `json:"order,omitempty"`
	AutoShadow *bool     `json:"auto_shadow,omitempty"`
	IsShadow   bool      `json:"is_shadow,omitempty"`
	Degrees    *bool     `json:"degrees,omitempty"`
	Preview    bool      `json:"preview,omitempty"`
}

// LoadRequests reads a YAML or JSON list of requests.
func LoadRequests(path string) ([]Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}

	var reqs []Request
	if err := yaml.UnmarshalStrict(data, &reqs); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}
	return reqs, nil
}

// Input resolves the request against the run defaults. Angles given in degrees
// are converted to radians.
func (r Request) Input(defaults Config) (attitude.Input, error) {
	src, err := attitude.ParseSource(r.Source)
	if err != nil {
		return attitude.Input{}, err
	}

	in := attitude.Input{
		Source:     src,
		Values:     append([]float64(nil), r.Values...),
		Order:      r.Order,
		AutoShadow: defaults.AutoShadow,
		IsShadow:   r.IsShadow,
	}
	if in.Order == "" {
		in.Order = defaults.DefaultOrder
	}
	if r.AutoShadow != nil {
		in.AutoShadow = *r.AutoShadow
	}

	degrees := defaults.Degrees
	if r.Degrees != nil {
		degrees = *r.Degrees
	}
	if degrees {
		in.AnglesToRadians()
	}
	return in, nil
}
