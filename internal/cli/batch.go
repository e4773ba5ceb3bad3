package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"attitude-engine/internal/batch"
	"attitude-engine/internal/config"
	"attitude-engine/internal/imageio"
)

type batchOptions struct {
	*globalOptions

	outputDir string
	workers   int
	format    string
	size      int
}

func newBatchCommand(g *globalOptions) *cobra.Command {
	o := &batchOptions{globalOptions: g}
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Convert every request in a YAML or JSON file",
		Long: `Convert a list of requests concurrently. The output directory receives
manifest.json (summary plus one entry per request), results.json (full
results) and previews/ for requests with "preview: true".

Each request has source, values and optionally name, order, auto_shadow,
is_shadow, degrees and preview.`,
		Example: `  attitude batch requests.yaml --output-dir out --workers 8`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd, config.Flags{OutputDir: o.outputDir, Workers: o.workers, Format: o.format, Size: o.size})
			if err != nil {
				return err
			}
			return o.Run(cmd, cfg, args[0])
		},
	}
	cmd.Flags().StringVar(&o.outputDir, "output-dir", "", "Directory for the manifest, results and previews (default attitude-out).")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "Concurrent workers (default number of CPUs).")
	cmd.Flags().StringVar(&o.format, "format", "", "Preview image format: webp or tga.")
	cmd.Flags().IntVar(&o.size, "size", 0, "Preview size in pixels.")
	return cmd
}

func (o *batchOptions) Run(cmd *cobra.Command, cfg config.Config, path string) error {
	reqs, err := batch.LoadRequests(path)
	if err != nil {
		return err
	}
	format, err := imageio.ParseFormat(cfg.Preview.Format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", cfg.OutputDir, err)
	}

	klog.InfoS("Starting batch", "requests", len(reqs), "workers", cfg.Workers, "outputDir", cfg.OutputDir)
	results := batch.Run(cmd.Context(), batch.Config{
		Engine:       engine(cfg, nil),
		Renderer:     renderer(cfg),
		Format:       format,
		OutputDir:    cfg.OutputDir,
		DefaultOrder: cfg.DefaultOrder,
		AutoShadow:   cfg.ShadowEnabled(),
		Degrees:      cfg.Degrees,
		Workers:      cfg.Workers,
	}, reqs)

	if err := batch.WriteManifest(filepath.Join(cfg.OutputDir, "manifest.json"), results); err != nil {
		return err
	}
	if err := batch.WriteResults(filepath.Join(cfg.OutputDir, "results.json"), results); err != nil {
		return err
	}

	sum := batch.Summarize(results)
	fmt.Fprintf(o.out, "%d requests: %d succeeded, %d failed, %d gimbal lock, %d degenerate\n",
		sum.Total, sum.Succeeded, sum.Failed, sum.GimbalLock, sum.Degenerate)
	if sum.Failed > 0 {
		return fmt.Errorf("%d of %d requests failed, see %s", sum.Failed, sum.Total, filepath.Join(cfg.OutputDir, "manifest.json"))
	}
	return nil
}
