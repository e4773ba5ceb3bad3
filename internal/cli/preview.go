package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"attitude-engine/internal/config"
	"attitude-engine/internal/imageio"
	"attitude-engine/internal/mathutil"
	"attitude-engine/pkg/attitude"
)

const stageDelayMs = 800

type previewOptions struct {
	*globalOptions

	file    string
	format  string
	size    int
	stages  bool
	shadow  bool
	input   attitude.Input
	imgType imageio.Format
}

func newPreviewCommand(g *globalOptions) *cobra.Command {
	o := &previewOptions{globalOptions: g}
	cmd := &cobra.Command{
		Use:   "preview SOURCE VALUES...",
		Short: "Render a snapshot of the rotated body frame",
		Long: `Render the body frame (a box with red X, green Y and blue Z arrows) rotated
by the given attitude. With --stages the output is an animated WebP stepping
through the three Euler rotations of the active order.`,
		Example: `  attitude preview euler --degrees -f yaw.webp 45 0 0
  attitude preview quaternion --stages -f stages.webp 0.9 0.1 0.3 0.2`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd, config.Flags{Format: o.format, Size: o.size})
			if err != nil {
				return err
			}
			if err := o.Complete(cfg, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cfg)
		},
	}
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "Output image path (default attitude-preview.<format>).")
	cmd.Flags().StringVar(&o.format, "format", "", "Image format: webp or tga (default from the file extension or config).")
	cmd.Flags().IntVar(&o.size, "size", 0, "Image size in pixels.")
	cmd.Flags().BoolVar(&o.stages, "stages", false, "Animate the Euler rotation stages.")
	cmd.Flags().BoolVar(&o.shadow, "shadow", false, "The MRP values are the shadow set.")
	return cmd
}

// Complete picks the format (the file extension wins over config) and parses the input.
func (o *previewOptions) Complete(cfg config.Config, args []string) error {
	f, err := imageio.ParseFormat(cfg.Preview.Format)
	if err != nil {
		return err
	}
	if ext := strings.TrimPrefix(filepath.Ext(o.file), "."); ext != "" && o.format == "" {
		if f, err = imageio.ParseFormat(ext); err != nil {
			return err
		}
	}
	o.imgType = f
	if o.file == "" {
		o.file = "attitude-preview" + f.Ext()
	}

	o.input, err = inputFromArgs(cfg, args, o.shadow)
	return err
}

func (o *previewOptions) Validate() error {
	if o.stages && o.imgType != imageio.WebP {
		return errors.New("--stages needs the webp format")
	}
	if filepath.Ext(o.file) != o.imgType.Ext() {
		return fmt.Errorf("file %s does not match format %s", o.file, o.imgType)
	}
	return nil
}

func (o *previewOptions) Run(cfg config.Config) error {
	res, err := engine(cfg, nil).Convert(o.input)
	if err != nil {
		return err
	}
	if res.Degenerate {
		fmt.Fprintf(o.errOut, "warning: degenerate %s input, rendering the identity rotation\n", o.input.Source)
	}

	r := renderer(cfg)
	var buf bytes.Buffer
	if o.stages {
		e := res.Euler
		frames, err := r.RenderStages(e.Order, e.Angle1, e.Angle2, e.Angle3)
		if err != nil {
			return err
		}
		if err := imageio.EncodeAnimation(&buf, frames, stageDelayMs); err != nil {
			return err
		}
	} else {
		img := r.Render(mathutil.Mat3FromRows(res.RotationMatrix.Matrix))
		if err := imageio.Encode(&buf, img, o.imgType); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(o.file); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(o.file, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", o.file, err)
	}
	fmt.Fprintln(o.out, o.file)
	return nil
}
