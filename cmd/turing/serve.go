package main

import (
	"context"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the simulator in server mode, exposing runs and the machine library
as a JSON API over HTTP, with Prometheus metrics on /metrics and run events
on /events (SSE).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.Serve(ctx, configFromFlags(cmd), port, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
