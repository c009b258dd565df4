package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-launch/internal/config"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the resolved launch plan as TOML",
	Long: `Plan prints the launch plan that "up" would run, after applying the
preset, the launch file and LAUNCH_* environment overrides.

The output is a valid launch file and can be saved and edited.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

var planListPresets bool

func init() {
	planCmd.Flags().BoolVar(&planListPresets, "list-presets", false, "List the built-in presets")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if planListPresets {
		for _, name := range config.PresetNames() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	text, err := cfg.Encode()
	if err != nil {
		return err
	}
	fmt.Fprint(out, text)
	return nil
}
