// Package logging provides logging utilities for launch-ctl.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Status lines for the operator
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings.
// Readiness probe failures are logged here rather than discarded:
//
//	logging.Debug("probe failed", "target", target, "attempt", n, "error", err)
//
// # User Output
//
// User-facing messages carry a severity tag styled with lipgloss:
//
//	logging.UserInfo("Starting backend...")          // [INFO]
//	logging.UserSuccess("Backend ready on %s", url)   // [SUCCESS]
//	logging.UserWarning("%s - Status %d", url, code)  // [WARNING]
//	logging.UserError("Frontend failed to start")     // [ERROR]
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// SetOutput swaps both writers, which tests use to capture status lines.
package logging
