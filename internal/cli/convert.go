package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"attitude-engine/internal/config"
	"attitude-engine/pkg/attitude"
)

const convertExample = `  # Quarter turn about X given as a quaternion
  attitude convert quaternion 0.7071068 0.7071068 0 0

  # Yaw, pitch, roll in degrees; "--" lets values start with a minus sign
  attitude convert euler --degrees --order ZYX -- 30 -90 10

  # A shadow MRP set, reported as given
  attitude convert mrp --shadow --auto-shadow=false 2,0,0

  # Row-major rotation matrix printed as YAML
  attitude convert matrix -o yaml 1 0 0 0 0 -1 0 1 0`

type convertOptions struct {
	*globalOptions

	shadow bool
	input  attitude.Input
}

func newConvertCommand(g *globalOptions) *cobra.Command {
	o := &convertOptions{globalOptions: g}
	cmd := &cobra.Command{
		Use:       "convert SOURCE VALUES...",
		Short:     "Convert a rotation into every representation",
		Long:      "SOURCE is one of quaternion (w x y z), euler (a1 a2 a3), mrp (s1 s2 s3), axis-angle (x y z angle) or matrix (nine values, row by row).",
		Example:   convertExample,
		ValidArgs: []string{"quaternion", "euler", "mrp", "axis-angle", "matrix"},
		Args:      cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd, config.Flags{})
			if err != nil {
				return err
			}
			if err := o.Complete(cfg, args); err != nil {
				return err
			}
			return o.Run(cfg)
		},
	}
	cmd.Flags().BoolVar(&o.shadow, "shadow", false, "The MRP values are the shadow set.")
	return cmd
}

// Complete builds the engine input from the positional arguments.
func (o *convertOptions) Complete(cfg config.Config, args []string) error {
	var err error
	o.input, err = inputFromArgs(cfg, args, o.shadow)
	return err
}

func (o *convertOptions) Run(cfg config.Config) error {
	res, err := engine(cfg, nil).Convert(o.input)
	if err != nil {
		return err
	}
	if res.Degenerate {
		fmt.Fprintf(o.errOut, "warning: degenerate %s input, result is the identity rotation\n", o.input.Source)
	}
	if cfg.Degrees {
		res = inDegrees(res)
	}
	return o.print(res)
}

// inputFromArgs turns "SOURCE VALUES..." into an engine input in radians.
func inputFromArgs(cfg config.Config, args []string, shadow bool) (attitude.Input, error) {
	src, err := attitude.ParseSource(args[0])
	if err != nil {
		return attitude.Input{}, err
	}
	vals, err := parseValues(args[1:])
	if err != nil {
		return attitude.Input{}, err
	}
	if len(vals) != src.Arity() {
		return attitude.Input{}, fmt.Errorf("%s expects %d values, got %d", src, src.Arity(), len(vals))
	}

	in := attitude.Input{
		Source:     src,
		Values:     vals,
		Order:      cfg.DefaultOrder,
		AutoShadow: cfg.ShadowEnabled(),
		IsShadow:   shadow,
	}
	if cfg.Degrees {
		in.AnglesToRadians()
	}
	return in, nil
}
