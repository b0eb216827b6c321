package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xecurify/draftpilot/internal/config"
	"github.com/xecurify/draftpilot/internal/instrumentation"
	"github.com/xecurify/draftpilot/internal/server"
)

func newWatchCmd() *cobra.Command {
	var (
		metricsEnabled bool
		metricsAddr    string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously check the mailbox and draft replies",
		Long: `Run mailbox checks in a loop, pausing for the configured check interval
between runs. Failed runs are logged and retried after a short
cooldown.

A Prometheus metrics listener is served on a dedicated port with
/healthz and /readyz probes; readiness turns true after the first
successful check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(),
				os.Interrupt, syscall.SIGTERM)
			defer cancel()

			instrConfig := instrumentation.DefaultConfig()
			instrConfig.ServiceVersion = version
			if !metricsEnabled {
				instrConfig.Enabled = false
			}

			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("create instrumentation provider: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := provider.Shutdown(shutdownCtx); err != nil {
					slog.Error("instrumentation shutdown failed", "error", err)
				}
			}()

			var metricsServer *server.MetricsServer
			if metricsEnabled && provider.Enabled() {
				metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
					Addr:                    metricsAddr,
					MetricsPath:             instrConfig.PrometheusEndpoint,
					InstrumentationProvider: provider,
				})
				if err != nil {
					return fmt.Errorf("create metrics server: %w", err)
				}

				go func() {
					if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						slog.Error("metrics server failed", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
					defer cancel()
					if err := metricsServer.Shutdown(shutdownCtx); err != nil {
						slog.Error("metrics server shutdown failed", "error", err)
					}
				}()
			}

			runner, err := buildRunner(ctx, cfg, provider, instrConfig.AuditLogging, false)
			if err != nil {
				return err
			}

			slog.Info("watching mailbox",
				"account", cfg.Mailbox.Account,
				"interval", cfg.Mailbox.CheckInterval().String(),
			)

			err = runner.Watch(ctx, func(runErr error) {
				if metricsServer != nil && runErr == nil {
					metricsServer.SetReady(true)
				}
			})
			if errors.Is(err, context.Canceled) {
				slog.Info("shutdown signal received, stopping watcher")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")
	return cmd
}
