package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xecurify/draftpilot/internal/config"
	"github.com/xecurify/draftpilot/internal/instrumentation"
)

func newCheckCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one mailbox check and draft replies",
		Long: `Fetch unread messages once, classify each by response category, analyze
its conversation thread, and create a reply draft for every message with
a matching category. Messages are marked read after a draft is created.

With --dry-run the configuration and the cached mailbox token are
validated and the full pipeline runs, but no draft is created, nothing
is marked read, and the checkpoint is not advanced.`,
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
			// A single check does not serve metrics; the recorder stays a no-op.
			instrConfig.Enabled = false

			provider, err := instrumentation.NewProvider(ctx, instrConfig)
			if err != nil {
				return fmt.Errorf("create instrumentation provider: %w", err)
			}

			runner, err := buildRunner(ctx, cfg, provider, instrConfig.AuditLogging, dryRun)
			if err != nil {
				return err
			}

			sum, err := runner.Run(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Checked %d message(s): %d processed, %d drafted, %d skipped, %d failed\n",
				sum.Checked, sum.Processed, sum.Drafted, sum.Skipped, sum.Failed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate configuration and run the pipeline without touching the mailbox")
	return cmd
}
