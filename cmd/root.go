package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-launch/internal/config"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
)

var (
	verbose     bool
	jsonOutput  bool
	configFile  string
	presetName  string
	projectRoot string
)

var rootCmd = &cobra.Command{
	Use:   "launch-ctl",
	Short: "Install, start and supervise a backend and frontend for local development",
	Long: `launch-ctl brings up a two-service development stack.

A run installs dependencies, starts the backend, waits until it answers
its health check, then does the same for the frontend. Once both are
ready it verifies auxiliary endpoints and keeps running until interrupted,
when both services are stopped in reverse order.

Built-in presets:
  complete  Python backend on :8000, frontend on :5500
  setup     Node mock backend on :8000, frontend on :4000

Use --config to layer a TOML launch file over a preset.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(verbose, jsonOutput, os.Stderr)
		logging.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML launch file layered over the preset")
	rootCmd.PersistentFlags().StringVarP(&presetName, "preset", "p", "", "Built-in preset ("+config.PresetComplete+" or "+config.PresetSetup+")")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project-root", "C", "", "Project root directory (default: current directory)")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
	logWarning = logging.UserWarning
	logError   = logging.UserError
)
