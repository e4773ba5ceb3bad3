// Package cli is the attitude command tree.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"

	"attitude-engine/internal/config"
	"attitude-engine/internal/metrics"
	"attitude-engine/internal/preview"
	"attitude-engine/pkg/attitude"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	order      string
	autoShadow bool
	degrees    bool
	tolerance  float64
	output     string

	out    io.Writer
	errOut io.Writer
}

// NewCommand builds the root command writing results to out and diagnostics to errOut.
func NewCommand(out, errOut io.Writer) *cobra.Command {
	o := &globalOptions{out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "attitude",
		Short: "Convert 3D rotations between quaternion, Euler, MRP, axis-angle and matrix form",
		Long: `attitude converts a rotation given in one representation into all five:
unit quaternion, Euler angles in any of 24 orders, Modified Rodrigues
Parameters, axis-angle and rotation matrix.

Upper-case orders (ZYX) are intrinsic, lower-case orders (zyx) extrinsic.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.configPath, "config", "", "Path to a YAML or JSON config file.")
	flags.StringVar(&o.order, "order", "", "Euler order of the input and output angles (default from config, else ZYX).")
	flags.BoolVar(&o.autoShadow, "auto-shadow", true, "Switch to the MRP shadow set when |σ|² ≥ 1.")
	flags.BoolVar(&o.degrees, "degrees", false, "Read and print angles in degrees.")
	flags.Float64Var(&o.tolerance, "tolerance", 0, "Gimbal lock tolerance in radians; 0 flags the exact boundary only (default 1e-6).")
	flags.StringVarP(&o.output, "output", "o", "json", "Output format: json or yaml.")

	addKlogFlags(flags)

	cmd.AddCommand(
		newConvertCommand(o),
		newOrdersCommand(o),
		newVersionCommand(o),
		newAngleCommand(o, "deg2rad", "Convert degrees to radians", attitude.DegreesToRadians),
		newAngleCommand(o, "rad2deg", "Convert radians to degrees", attitude.RadiansToDegrees),
		newPreviewCommand(o),
		newBatchCommand(o),
		newServeCommand(o),
	)
	return cmd
}

// addKlogFlags exposes klog's -v, --vmodule and related flags on fs.
func addKlogFlags(fs *pflag.FlagSet) {
	klogFlags := flag.NewFlagSet("klog", flag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
}

// resolve loads the config file if given and applies the flags the user set.
func (o *globalOptions) resolve(cmd *cobra.Command, extra config.Flags) (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}

	extra.Order = o.order
	if cmd.Flags().Changed("tolerance") {
		v := o.tolerance
		extra.Tolerance = &v
	}
	if cmd.Flags().Changed("auto-shadow") {
		v := o.autoShadow
		extra.AutoShadow = &v
	}
	if cmd.Flags().Changed("degrees") {
		v := o.degrees
		extra.Degrees = &v
	}
	if err := cfg.Resolve(extra); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// engine builds an engine for cfg, instrumented when rec is non-nil.
func engine(cfg config.Config, rec *metrics.Recorder) *attitude.Engine {
	opts := []attitude.Option{attitude.WithTolerance(cfg.GimbalTolerance()), attitude.WithLogger(klog.Background())}
	if rec != nil {
		opts = append(opts, attitude.WithObserver(rec))
	}
	return attitude.NewEngine(opts...)
}

func renderer(cfg config.Config) *preview.Renderer {
	opts := preview.DefaultOptions()
	opts.Size = cfg.Preview.Size
	opts.Supersample = cfg.Preview.Supersample
	return preview.NewRenderer(opts)
}

// print writes v as indented JSON or YAML.
func (o *globalOptions) print(v any) error {
	switch strings.ToLower(o.output) {
	case "json", "":
		data, err := marshalIndent(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.out, string(data))
		return err
	case "yaml", "yml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = o.out.Write(data)
		return err
	}
	return fmt.Errorf("unknown output format %q: want json or yaml", o.output)
}

// parseValues accepts numbers as separate arguments or comma separated.
func parseValues(args []string) ([]float64, error) {
	var vals []float64
	for _, a := range args {
		for _, f := range strings.Split(a, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid number %q", f)
			}
			vals = append(vals, v)
		}
	}
	return vals, nil
}
