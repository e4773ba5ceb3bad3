package cli

import (
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"attitude-engine/internal/config"
	"attitude-engine/internal/metrics"
	"attitude-engine/internal/server"
)

func newServeCommand(g *globalOptions) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		Long: `Serve the JSON API:

  POST /api/convert                 {"source": ..., "values": [...], "order": ...}
  POST /api/convert/{source}        named fields, e.g. {"w":1,"x":0,"y":0,"z":0}
  POST /api/preview/{source}        same body, answers with an image
  GET  /api/orders | /api/version | /api/health
  GET  /metrics                     Prometheus metrics unless disabled in config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.resolve(cmd, config.Flags{Listen: listen})
			if err != nil {
				return err
			}

			var rec *metrics.Recorder
			if cfg.MetricsEnabled() {
				rec = metrics.New()
			}
			srv := server.New(server.Options{
				Engine:   engine(cfg, rec),
				Renderer: renderer(cfg),
				Metrics:  rec,
				Defaults: server.Defaults{
					Order:      cfg.DefaultOrder,
					AutoShadow: cfg.ShadowEnabled(),
					Degrees:    cfg.Degrees,
				},
			})
			klog.V(2).InfoS("Resolved config", "order", cfg.DefaultOrder, "tolerance", cfg.GimbalTolerance(), "metrics", rec != nil)
			return srv.ListenAndServe(cmd.Context(), cfg.Listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Address to listen on (default :8080).")
	return cmd
}
