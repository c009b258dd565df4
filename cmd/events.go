package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-launch/internal/app"
	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Display the lifecycle events of past runs",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

var (
	eventsJSON    bool
	eventsRun     string
	eventsLastRun bool
	eventsService string
	eventsType    string
	eventsLimit   int
	eventsClear   bool
)

func init() {
	eventsCmd.Flags().BoolVar(&eventsJSON, "json-lines", false, "Output events as JSON lines")
	eventsCmd.Flags().StringVar(&eventsRun, "run", "", "Only show events of this run ID")
	eventsCmd.Flags().BoolVar(&eventsLastRun, "last-run", false, "Only show events of the most recent run")
	eventsCmd.Flags().StringVar(&eventsService, "service", "", "Only show events for this service")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "Only show events of this type")
	eventsCmd.Flags().IntVarP(&eventsLimit, "lines", "n", 0, "Show only the last N events")
	eventsCmd.Flags().BoolVar(&eventsClear, "clear", false, "Delete the event log")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	auditLogger := app.Default.AuditLog(cfg)

	if eventsClear {
		if err := auditLogger.Remove(); err != nil {
			return errors.Wrap(errors.ExitGeneralError, "failed to clear event log", err)
		}
		logSuccess("Cleared %s", auditLogger.Path())
		return nil
	}

	events, err := auditLogger.Events()
	if err != nil {
		return errors.Wrap(errors.ExitGeneralError, "failed to read event log", err)
	}

	filter := audit.Filter{
		RunID:   eventsRun,
		Service: eventsService,
		Type:    audit.EventType(eventsType),
		Last:    eventsLimit,
	}
	if eventsLastRun {
		filter.RunID = audit.LastRunID(events)
	}
	events = filter.Apply(events)

	if len(events) == 0 {
		logInfo("No events found in %s", auditLogger.Path())
		return nil
	}

	out := cmd.OutOrStdout()
	for _, e := range events {
		if eventsJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Fprintln(out, string(data))
			continue
		}

		ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
		line := fmt.Sprintf("[%s] %-10s %-9s", ts, e.Type, e.Service)
		if e.Details != "" {
			line += " " + e.Details
		}
		fmt.Fprintln(out, line)
	}

	return nil
}
