package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-launch/internal/app"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
)

var logsCmd = &cobra.Command{
	Use:   "logs <service>",
	Short: "Show the captured output of the backend or frontend",
	Args:  cobra.ExactArgs(1),
	RunE:  runLogs,
}

var logsLines int

func init() {
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show (0 for all)")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	name := args[0]
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, ok := findService(cfg, name); !ok {
		return errors.ValidationError(fmt.Sprintf("unknown service %q (expected %q or %q)", name, cfg.Backend.Name, cfg.Frontend.Name))
	}

	path := filepath.Join(cfg.LogsDir(), name+".log")
	data, err := app.Default.FS.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logInfo("No output captured for %s yet (%s)", name, path)
			return nil
		}
		return errors.Wrap(errors.ExitGeneralError, "failed to read "+path, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), tailLines(string(data), logsLines))
	return nil
}

// tailLines returns the last n lines of text. n <= 0 returns everything.
func tailLines(text string, n int) string {
	if n <= 0 || text == "" {
		return text
	}
	trimmed := strings.TrimSuffix(text, "\n")
	lines := strings.Split(trimmed, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[len(lines)-n:], "\n") + "\n"
}
