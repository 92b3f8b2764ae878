package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tech-debt-manager/src/controller"
	"tech-debt-manager/src/handler/api"
	"tech-debt-manager/src/service/auth"
	"tech-debt-manager/src/service/metrics"
	"tech-debt-manager/src/util"
)

func (h *Handler) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the technical debt API",
		Long:  "Starts the HTTP API. Every request to /api/technical-debt runs a fresh aggregation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				h.cfg.Server.Address = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			recorder := metrics.NewRecorder()
			analysisCtrl := controller.NewAnalysisController(h.cfg, recorder)
			authSvc := auth.NewService(h.cfg.Auth)

			util.Info("Serving project %s (%d detectors)", analysisCtrl.ProjectName(), len(analysisCtrl.Detectors()))
			server := api.NewServer(h.cfg.Server, analysisCtrl, authSvc, recorder)
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.address)")

	return cmd
}
