package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-launch/internal/errors"
	"github.com/firefly-engineering/firefly-launch/internal/readiness"
)

var waitCmd = &cobra.Command{
	Use:   "wait <target>",
	Short: "Wait until a URL returns 200 or a host:port accepts connections",
	Long: `Wait polls a single target until it is ready.

An http:// or https:// target is ready when a GET returns status 200.
A host:port target is ready when a TCP connection succeeds.

Exits 0 when the target became ready and 1 when the timeout elapsed.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runWait,
}

var (
	waitTimeout      time.Duration
	waitInterval     time.Duration
	waitProbeTimeout time.Duration
)

func init() {
	waitCmd.Flags().DurationVarP(&waitTimeout, "timeout", "t", readiness.DefaultTimeout, "Total time to wait")
	waitCmd.Flags().DurationVar(&waitInterval, "interval", readiness.DefaultInterval, "Time between attempts")
	waitCmd.Flags().DurationVar(&waitProbeTimeout, "probe-timeout", readiness.DefaultProbeTimeout, "Time limit for a single attempt")
	rootCmd.AddCommand(waitCmd)
}

func runWait(cmd *cobra.Command, args []string) error {
	target := args[0]

	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	check := readiness.Check{
		Target:       target,
		Timeout:      waitTimeout,
		Interval:     waitInterval,
		ProbeTimeout: waitProbeTimeout,
	}

	logInfo("Waiting for %s (timeout %s)...", target, waitTimeout)
	res, err := check.Run(ctx)
	if err != nil {
		return errors.ConfigError("invalid target", err)
	}

	switch res.Outcome {
	case readiness.OutcomeReady:
		logSuccess("%s is ready after %d attempt(s)", target, res.Attempts)
		return nil
	case readiness.OutcomeCancelled:
		return errors.StartupInterrupted(target)
	default:
		logError("%s was not ready within %s", target, waitTimeout)
		return errors.ReadinessTimeout(target, target, res.LastErr)
	}
}
