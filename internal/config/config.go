package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"sigs.k8s.io/yaml"

	"attitude-engine/internal/eulerorder"
	"attitude-engine/internal/gimbal"
)

const (
	DefaultOrder  = "ZYX"
	DefaultListen = ":8080"
)

// Config holds engine defaults and service settings.
type Config struct {
	// Engine
	DefaultOrder string   `json:"default_order"`
	AutoShadow   *bool    `json:"auto_shadow,omitempty"`
	Degrees      bool     `json:"degrees"`
	Tolerance    *float64 `json:"tolerance,omitempty"`

	// Service
	Listen  string `json:"listen"`
	Metrics *bool  `json:"metrics,omitempty"`

	// Batch and preview output
	OutputDir string  `json:"output_dir"`
	Preview   Preview `json:"preview"`
	Workers   int     `json:"workers"`
}

// Preview holds the snapshot render settings.
type Preview struct {
	Size        int    `json:"size"`
	Supersample int    `json:"supersample"`
	Format      string `json:"format"`
}

// Load reads a YAML or JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Pointer fields are nil when the flag was not given.
type Flags struct {
	Order      string
	AutoShadow *bool
	Degrees    *bool
	Tolerance  *float64
	Listen     string
	OutputDir  string
	Format     string
	Size       int
	Workers    int
}

// Resolve applies flags, fills in defaults and validates the result.
// CLI flags take priority when set.
func (c *Config) Resolve(flags Flags) error {
	if flags.Order != "" {
		c.DefaultOrder = flags.Order
	}
	if flags.AutoShadow != nil {
		c.AutoShadow = flags.AutoShadow
	}
	if flags.Degrees != nil {
		c.Degrees = *flags.Degrees
	}
	if flags.Tolerance != nil {
		c.Tolerance = flags.Tolerance
	}
	if flags.Listen != "" {
		c.Listen = flags.Listen
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Preview.Format = flags.Format
	}
	if flags.Size > 0 {
		c.Preview.Size = flags.Size
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.DefaultOrder == "" {
		c.DefaultOrder = DefaultOrder
	}
	if c.AutoShadow == nil {
		on := true
		c.AutoShadow = &on
	}
	if c.Tolerance == nil {
		tol := gimbal.DefaultTolerance
		c.Tolerance = &tol
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Metrics == nil {
		on := true
		c.Metrics = &on
	}
	if c.OutputDir == "" {
		c.OutputDir = "attitude-out"
	}
	if !filepath.IsAbs(c.OutputDir) {
		if abs, err := filepath.Abs(c.OutputDir); err == nil {
			c.OutputDir = abs
		}
	}

	// Defaults for preview settings
	if c.Preview.Size <= 0 {
		c.Preview.Size = 256
	}
	if c.Preview.Supersample <= 0 {
		c.Preview.Supersample = 2
	}
	c.Preview.Format = strings.ToLower(c.Preview.Format)
	if c.Preview.Format == "" {
		c.Preview.Format = "webp"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}

	return c.validate()
}

func (c *Config) validate() error {
	if _, ok := eulerorder.Lookup(c.DefaultOrder); !ok {
		return fmt.Errorf("config: default_order %q is not a supported euler order", c.DefaultOrder)
	}
	if tol := *c.Tolerance; tol < 0 || math.IsNaN(tol) || math.IsInf(tol, 0) {
		return fmt.Errorf("config: tolerance %v must be a finite value >= 0", tol)
	}
	switch c.Preview.Format {
	case "webp", "tga":
	default:
		return fmt.Errorf("config: preview.format %q: want webp or tga", c.Preview.Format)
	}
	if c.Preview.Size > 4096 {
		return fmt.Errorf("config: preview.size %d exceeds 4096", c.Preview.Size)
	}
	if c.Preview.Supersample > 8 {
		return fmt.Errorf("config: preview.supersample %d exceeds 8", c.Preview.Supersample)
	}
	return nil
}

// ShadowEnabled reports the resolved auto-shadow policy.
func (c *Config) ShadowEnabled() bool {
	return c.AutoShadow == nil || *c.AutoShadow
}

// GimbalTolerance reports the resolved gimbal lock tolerance in radians.
// Zero flags only the exact singular boundary.
func (c *Config) GimbalTolerance() float64 {
	if c.Tolerance == nil {
		return gimbal.DefaultTolerance
	}
	return *c.Tolerance
}

// MetricsEnabled reports whether /metrics is served.
func (c *Config) MetricsEnabled() bool {
	return c.Metrics == nil || *c.Metrics
}
