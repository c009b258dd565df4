// Package errors provides typed errors with exit codes for launch-ctl.
//
// # Error Types
//
// LaunchError wraps an error with an exit code and a Kind:
//
//	type LaunchError struct {
//	    Code    int    // Exit code
//	    Kind    Kind   // Failure category
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	}
//
// # Exit Codes
//
//	ExitSuccess      = 0  // Startup, interrupt and clean shutdown
//	ExitGeneralError = 1  // Any gating failure
//	ExitConfigError  = 2  // Invalid launch configuration
//
// # Kinds
//
// Gating failures abort the run and terminate already-started processes:
//
//	errors.InstallFailed("python", err)
//	errors.StartFailed("backend", err)
//	errors.ReadinessTimeout("frontend", "http://localhost:5500", err)
//	errors.StartupInterrupted("backend")
//
// Auxiliary endpoint failures are never returned as errors; they are only
// reported to the user.
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
