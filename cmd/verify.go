package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-launch/internal/errors"
	"github.com/firefly-engineering/firefly-launch/internal/health"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Probe the configured auxiliary endpoints once",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

var verifyStrict bool

func init() {
	verifyCmd.Flags().BoolVar(&verifyStrict, "strict", false, "Exit 1 if any endpoint is not accessible")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(cfg.Verify.Endpoints) == 0 {
		logInfo("No endpoints configured for the %s preset", cfg.Preset)
		return nil
	}

	results := health.Verify(cmd.Context(), cfg.Verify.Endpoints, cfg.Readiness.ProbeTimeout.Std())
	health.Report(results)

	summary := health.Summarize(results)
	logInfo("Endpoints: %s", summary)

	if verifyStrict && (summary.Failed > 0 || summary.Warning > 0) {
		return errors.New(errors.ExitGeneralError, fmt.Sprintf("%d of %d endpoints not accessible", summary.Failed+summary.Warning, len(results)))
	}
	return nil
}
