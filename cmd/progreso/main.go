// Package main provides the progreso binary: the consultation HTTP service
// and a one-shot CLI over the same workflow.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"progreso/internal/electoral/models"
	"progreso/internal/platform/config"
	"progreso/internal/platform/health"
	"progreso/internal/platform/httpserver"
	"progreso/internal/platform/logger"
	"progreso/pkg/requestcontext"
)

const appName = "progreso"

// exitCodeError carries a process exit code out of a command without printing anything.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		var exit exitCodeError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Electoral consultation and vote registration service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(serveCmd(&logLevel))
	cmd.AddCommand(consultaCmd(&logLevel))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, health.Version)
		},
	})
	return cmd
}

func loadConfig(logLevel string) (*config.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func serveCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the consultation HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*logLevel)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)
			log.Info("initializing progreso",
				"addr", cfg.Addr,
				"env", cfg.Env,
				"registration_enabled", cfg.RegistrationEnabled(),
			)

			app, err := newApp(cfg, log, prometheus.NewRegistry())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return httpserver.Run(ctx, log, httpserver.New(cfg.Addr, app.router))
		},
	}
}

func consultaCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "consulta <cedula>",
		Short: "Run one consultation and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*logLevel)
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)

			app, err := newApp(cfg, log, prometheus.NewRegistry())
			if err != nil {
				return err
			}
			ctx := requestcontext.WithRequestID(cmd.Context(), uuid.NewString())
			result := app.service.Process(ctx, args[0])
			if err := printResult(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if code := exitCode(result); code != 0 {
				return exitCodeError{code: code}
			}
			return nil
		},
	}
}

func printResult(w io.Writer, result *models.WorkflowResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// exitCode is non-zero only when no record could be shown for a well-formed reason:
// bad input or a failed lookup. Not found and registration failures exit 0.
func exitCode(result *models.WorkflowResult) int {
	switch result.State {
	case models.StateInvalidInput:
		return 2
	case models.StateLookupError:
		return 3
	default:
		return 0
	}
}
