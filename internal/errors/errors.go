package errors

import (
	"errors"
	"fmt"
)

// Exit codes for launch-ctl
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitConfigError  = 2
)

// Kind classifies a launch failure.
type Kind string

const (
	KindGeneral            Kind = "general"
	KindConfig             Kind = "config"
	KindInstallFailed      Kind = "dependency-install-failure"
	KindStartFailed        Kind = "process-start-failure"
	KindReadinessTimeout   Kind = "readiness-timeout"
	KindStartupInterrupted Kind = "startup-interrupted"
)

// LaunchError is the base error type for launch-ctl
type LaunchError struct {
	Code    int
	Kind    Kind
	Message string
	Cause   error
}

func (e *LaunchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *LaunchError) ExitCode() int {
	return e.Code
}

// New creates a new LaunchError
func New(code int, message string) *LaunchError {
	return &LaunchError{
		Code:    code,
		Kind:    KindGeneral,
		Message: message,
	}
}

// Wrap wraps an existing error with a LaunchError
func Wrap(code int, message string, cause error) *LaunchError {
	return &LaunchError{
		Code:    code,
		Kind:    KindGeneral,
		Message: message,
		Cause:   cause,
	}
}

func withKind(kind Kind, code int, message string, cause error) *LaunchError {
	return &LaunchError{
		Code:    code,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// InstallFailed returns an error for a failed dependency install step
func InstallFailed(step string, cause error) *LaunchError {
	return withKind(KindInstallFailed, ExitGeneralError, fmt.Sprintf("failed to install %s dependencies", step), cause)
}

// StartFailed returns an error for a process that could not be launched
func StartFailed(name string, cause error) *LaunchError {
	return withKind(KindStartFailed, ExitGeneralError, fmt.Sprintf("failed to start %s", name), cause)
}

// ReadinessTimeout returns an error for a service that never became ready
func ReadinessTimeout(name, target string, cause error) *LaunchError {
	return withKind(KindReadinessTimeout, ExitGeneralError, fmt.Sprintf("%s not ready at %s", name, target), cause)
}

// StartupInterrupted returns an error for a run cancelled before startup completed
func StartupInterrupted(name string) *LaunchError {
	return withKind(KindStartupInterrupted, ExitGeneralError, fmt.Sprintf("interrupted while waiting for %s", name), nil)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *LaunchError {
	return withKind(KindConfig, ExitConfigError, message, cause)
}

// ValidationError returns an error for input validation failures
func ValidationError(message string) *LaunchError {
	return New(ExitGeneralError, message)
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.ExitCode()
	}
	return ExitGeneralError
}

// KindOf returns the Kind of the first LaunchError in err's chain.
func KindOf(err error) Kind {
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.Kind
	}
	return KindGeneral
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}
