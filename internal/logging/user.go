package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Severity is the tag printed in front of a user-facing status line.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeveritySuccess Severity = "SUCCESS"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

var severityStyles = map[Severity]lipgloss.Style{
	SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var (
	outMu sync.Mutex
	// stdout receives info and success lines, stderr warnings and errors.
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects user-facing output. A nil writer restores the default.
// It returns a function that restores the previous writers.
func SetOutput(out, errOut io.Writer) (restore func()) {
	outMu.Lock()
	defer outMu.Unlock()

	prevOut, prevErr := stdout, stderr
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout, stderr = out, errOut

	return func() {
		outMu.Lock()
		defer outMu.Unlock()
		stdout, stderr = prevOut, prevErr
	}
}

// Tag renders the bracketed severity tag, e.g. "[SUCCESS]".
func Tag(sev Severity) string {
	return severityStyles[sev].Render("[" + string(sev) + "]")
}

func userf(sev Severity, format string, args ...interface{}) {
	outMu.Lock()
	defer outMu.Unlock()

	w := stdout
	if sev == SeverityWarning || sev == SeverityError {
		w = stderr
	}
	fmt.Fprintf(w, Tag(sev)+" "+format+"\n", args...)
}

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	userf(SeverityInfo, format, args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	userf(SeveritySuccess, format, args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	userf(SeverityWarning, format, args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	userf(SeverityError, format, args...)
}

// UserOutput returns the writer used for info and success lines.
func UserOutput() io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	return stdout
}

// UserErrorOutput returns the writer used for warning and error lines.
func UserErrorOutput() io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	return stderr
}
