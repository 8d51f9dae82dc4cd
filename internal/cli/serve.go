package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/turing/internal/presentation/tui"
	turinghttp "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
)

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg Config, port string, w io.Writer) error {
	metrics := observability.NewMetrics()
	streams := turinghttp.NewStreamManager(nil)

	env, err := Setup(cfg, streams.Hooks().Merge(metrics.Hooks()))
	if err != nil {
		return err
	}
	defer env.Close()

	handler := turinghttp.NewHandler(env.Engine.Runs(),
		turinghttp.WithLoader(env.Engine.Loader()),
		turinghttp.WithStreams(streams),
		turinghttp.WithMetrics(metrics.Handler()),
		turinghttp.WithLogger(env.Logger),
	)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		if isTerminal(w) {
			tui.PrintBanner(w)
		}
		printSystemMessage(w, "Starting Turing Server on %s", srv.Addr)
		if cfg.Dir != "" {
			printSystemMessage(w, "Serving machines from: %s", cfg.Dir)
		}
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		printSystemMessage(w, "Start shutdown...")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			env.Logger.Error("Graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		printSystemMessage(w, "Turing Server stopped gracefully")
		return nil
	}
}

// ServeMCP exposes the engine as an MCP server over stdio or SSE.
func ServeMCP(ctx context.Context, cfg Config, transport string, port int) error {
	env, err := Setup(cfg, domain.LifecycleHooks{})
	if err != nil {
		return err
	}
	defer env.Close()

	srv := mcp.NewServer(env.Engine.Runs(), env.Engine.Loader(), env.Logger)

	switch transport {
	case "stdio":
		env.Logger.Info("Starting Turing MCP Server (Stdio)")
		return srv.ServeStdio()
	case "sse":
		env.Logger.Info("Starting Turing MCP Server (SSE)", "port", port)
		if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		env.Logger.Info("MCP Server stopped gracefully")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	}
}
