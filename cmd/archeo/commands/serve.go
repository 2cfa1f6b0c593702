package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codearcheology/archeo/internal/server"
	"github.com/codearcheology/archeo/pkg/config"
	"github.com/codearcheology/archeo/pkg/observability"
	"github.com/codearcheology/archeo/pkg/version"
)

// ServeCommand holds the flags for the serve command.
type ServeCommand struct {
	configPath string
	port       int
}

// NewServeCommand creates and configures the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &ServeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
		Long:  "Start an HTTP server that accepts zip uploads and analyzes them as background jobs",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return cmd.Run(cobraCmd)
		},
	}

	cobraCmd.Flags().StringVarP(&cmd.configPath, "config", "c", "", "Config file path")
	cobraCmd.Flags().IntVarP(&cmd.port, "port", "p", 0, "Override the configured port")

	return cobraCmd
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (c *ServeCommand) Run(cobraCmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	if c.port != 0 {
		cfg.Server.Port = c.port
	}

	providers, err := observability.Init(observabilityConfig(cfg))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
		}
	}()

	srv, err := server.New(cfg.Server, providers)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cobraCmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}

func observabilityConfig(cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.Mode = observability.ModeServe
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.DebugTrace = cfg.Telemetry.DebugTrace
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogLevel = logLevel(cfg.Logging.Level)

	return obsCfg
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
