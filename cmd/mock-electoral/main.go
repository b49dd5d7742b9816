// Package main runs fake electoral-lookup and vote-registration services for local development.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"progreso/internal/platform/httpserver"
	"progreso/internal/platform/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr     string
		token    string
		latency  time.Duration
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "mock-electoral",
		Short: "Fake electoral lookup (GET /electores/{cedula}) and registration (POST /votos) services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logger.New(logLevel)
			srv := newElectoralServer(token, latency, log)
			log.Info("mock electoral services ready",
				"lookup", "GET /electores/{cedula}",
				"registration", "POST /votos",
				"auth_required", token != "",
				"latency", latency.String(),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return httpserver.Run(ctx, log, httpserver.New(addr, srv.routes()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("MOCK_ELECTORAL_ADDR", ":8081"), "Listen address")
	cmd.Flags().StringVar(&token, "token", envOr("MOCK_ELECTORAL_TOKEN", "dev-registration-token"), "Bearer token required by POST /votos (empty disables the check)")
	cmd.Flags().DurationVar(&latency, "latency", 0, "Simulated latency per request")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
