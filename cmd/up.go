package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-launch/internal/app"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
	"github.com/firefly-engineering/firefly-launch/internal/orchestrator"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Install dependencies, start both services and wait for interrupt",
	Args:  cobra.NoArgs,
	// runUp reports its own failures.
	SilenceUsage: true,
	RunE:         runUp,
}

var (
	upWatchInterval time.Duration
	upSkipInstall   bool
)

// notifyContext is replaced in tests.
var notifyContext = func(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func init() {
	upCmd.Flags().DurationVar(&upWatchInterval, "watch-interval", 0, "Re-check both services at this interval while running (0 disables)")
	upCmd.Flags().BoolVar(&upSkipInstall, "skip-install", false, "Skip dependency installation")
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command, args []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if upSkipInstall {
		cfg.Install = nil
	}

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	o, runID := app.Default.Run(cfg,
		orchestrator.WithWatchInterval(upWatchInterval),
		orchestrator.WithReadyHook(func(r orchestrator.Report) {
			printSummary(cmd.OutOrStdout(), r)
		}),
	)

	logInfo("Launching %s preset in %s", cfg.Preset, cfg.ProjectRoot)
	logging.Info("run started", "run_id", runID, "state_dir", cfg.StateDir)

	if err := o.Run(ctx); err != nil {
		logError("Launch failed: %v", err)
		return err
	}
	return nil
}
