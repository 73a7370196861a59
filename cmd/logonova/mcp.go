package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fpang/logonova/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve generation tools to an agent over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := newStudio()
		logStartup("mcp")
		return mcptools.Run(ctx, mcptools.NewServer(svc, version, appCfg.DefaultBatchSize))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
