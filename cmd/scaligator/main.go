package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillcoder/scaligator/internal/app"
	"github.com/skillcoder/scaligator/internal/config"
	"github.com/skillcoder/scaligator/internal/infra/logging"
	"github.com/skillcoder/scaligator/internal/infra/shutdown"
)

func main() {
	appStart := time.Now()
	// Start listening for signals immediately as first thing, before any other initialization
	signals := shutdown.Notify()
	ctx := context.Background()

	err := newRootCommand(signals, appStart).ExecuteContext(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to run", "reason", err)
		// Give the logger some time to flush
		time.Sleep(1 * time.Second)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "bye")
}

func newRootCommand(signals <-chan os.Signal, appStart time.Time) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scaligator",
		Short: "CPU threshold autoscaler for Kubernetes Deployments",
		Long: `scaligator periodically reads per-pod CPU usage for the watched namespaces,
averages it per Deployment and adds or removes one replica when the mean crosses
the configured thresholds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, signals, appStart)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path of the config file (default: ./Config.{yaml,json,toml} if present)")

	return cmd
}

func run(ctx context.Context, configPath string, signals <-chan os.Signal, appStart time.Time) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogFormat, cfg.LogLevel)

	logger.InfoContext(ctx, "config loaded",
		"prometheusURL", cfg.PrometheusURL,
		"namespaces", cfg.WatchNamespaces,
		"usageSource", cfg.UsageSource,
		"reconcileInterval", cfg.ReconcileInterval,
		"scaleUpThreshold", cfg.ScaleUpCPUThreshold,
		"scaleDownThreshold", cfg.ScaleDownCPUThreshold,
		"maxReplicas", cfg.MaxReplicas,
		"httpPort", cfg.HTTPPort,
	)

	application, err := app.New(logger, cfg, signals, appStart)
	if err != nil {
		return fmt.Errorf("new application: %w", err)
	}

	return application.Run(ctx)
}
