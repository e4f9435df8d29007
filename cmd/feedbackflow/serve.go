package main

import (
	"sync/atomic"

	"github.com/spacesedan/feedbackflow/internal/monitoring"
	"github.com/spacesedan/feedbackflow/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the feedback analysis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer a.close()

		healthy := &atomic.Bool{}
		healthy.Store(true)
		go monitoring.MonitorModelHealth(ctx, a.huggingFace, healthy, monitoring.HEALTHCHECK_INTERVAL, inferenceModels(cfg)...)

		srv := server.New(a.pipeline, cfg.API, healthy)
		if a.recent != nil {
			srv.WithRecent(a.recent)
		}
		return srv.ListenAndServe(ctx, cfg.API.Addr)
	},
}
