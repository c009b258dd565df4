package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-launch/internal/health"
	"github.com/firefly-engineering/firefly-launch/internal/orchestrator"
)

var (
	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 1)

	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("10"))

	summaryLabelStyle = lipgloss.NewStyle().
				Bold(true)

	summaryDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// renderSummary builds the completion box shown once both services are up.
func renderSummary(r orchestrator.Report) string {
	var b strings.Builder

	b.WriteString(summaryTitleStyle.Render("All services are running"))
	b.WriteString("\n")

	for _, p := range r.Processes {
		fmt.Fprintf(&b, "\n%s %s %s",
			summaryLabelStyle.Render(p.Name+":"),
			p.CommandLine(),
			summaryDimStyle.Render(fmt.Sprintf("(pid %d)", p.Pid)))
	}

	if len(r.Config.Links) > 0 {
		b.WriteString("\n")
		for _, l := range r.Config.Links {
			fmt.Fprintf(&b, "\n%s %s", summaryLabelStyle.Render(l.Label+":"), l.URL)
		}
	}

	if len(r.Verification) > 0 {
		fmt.Fprintf(&b, "\n\n%s %s", summaryLabelStyle.Render("Endpoints:"), health.Summarize(r.Verification))
	}

	if len(r.Config.Notes) > 0 {
		b.WriteString("\n")
		for _, note := range r.Config.Notes {
			fmt.Fprintf(&b, "\n%s", note)
		}
	}

	fmt.Fprintf(&b, "\n\n%s", summaryDimStyle.Render("Logs: "+r.Config.LogsDir()))
	fmt.Fprintf(&b, "\n%s", summaryDimStyle.Render("Press Ctrl+C to stop all services"))

	return summaryBoxStyle.Render(b.String())
}

func printSummary(w io.Writer, r orchestrator.Report) {
	fmt.Fprintln(w, renderSummary(r))
}
