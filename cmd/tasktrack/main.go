// Package main is the entry point for the tasktrack CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasktrack/internal/backend/httpapi"
	"tasktrack/internal/cli"
	"tasktrack/internal/commands"
	"tasktrack/internal/config"
	"tasktrack/internal/logging"
	"tasktrack/internal/service"
	"tasktrack/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var diagLog *os.File
	defer func() {
		if diagLog != nil {
			diagLog.Close()
		}
	}()

	var provider *telemetry.Provider
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: trace flush failed: %v\n", err)
		}
	}()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		// Full-screen commands own the terminal, so diagnostics go to the log file.
		var diag io.Writer = os.Stderr
		opts := logging.FromConfig(cfg)
		if cfg.LogToFile {
			f, err := cfg.OpenLog()
			if err != nil {
				return nil, err
			}
			diagLog = f
			diag = f
			opts.ReportTimestamp = true
		}

		p, err := telemetry.Init(ctx, telemetry.Config{
			Exporter: cfg.TraceExporter,
			Endpoint: cfg.TraceEndpoint,
			Version:  commands.Version,
			Output:   diag,
		})
		if err != nil {
			return nil, err
		}
		provider = p
		return httpapi.New(cfg,
			httpapi.WithTracer(p.Tracer),
			httpapi.WithLogger(logging.New(diag, opts)),
			httpapi.WithUserAgent(commands.UserAgent()),
		), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	return dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}
