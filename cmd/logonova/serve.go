package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fpang/logonova/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the studio HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := newStudio()
		srv := server.New(ctx, svc, server.Options{
			DefaultBatchSize: appCfg.DefaultBatchSize,
			Metrics:          appCfg.MetricsEnabled,
		})
		logStartup("serve")
		fmt.Fprintf(os.Stderr, "\n  logonova API: http://%s/api\n\n", appCfg.Addr)
		return srv.ListenAndServe(ctx, appCfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8080)")
	serveCmd.Flags().Bool("metrics", true, "expose Prometheus metrics on /metrics")
	rootCmd.AddCommand(serveCmd)
}
