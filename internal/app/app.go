// Package app provides the application context for launch-ctl.
// It allows dependency injection for testing.
package app

import (
	"github.com/google/uuid"

	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/config"
	"github.com/firefly-engineering/firefly-launch/internal/installer"
	"github.com/firefly-engineering/firefly-launch/internal/orchestrator"
	"github.com/firefly-engineering/firefly-launch/internal/process"
	"github.com/firefly-engineering/firefly-launch/internal/system"
)

// App holds the application dependencies
type App struct {
	// Executor runs short-lived commands such as install steps
	Executor system.CommandExecutor

	// Starter launches the managed services
	Starter system.ProcessStarter

	// FS is used for process logs and manifest checks
	FS system.FileSystem

	// NewRunID generates the identifier stamped on a run's events
	NewRunID func() string
}

// Option is a function that configures the App
type Option func(*App)

// WithExecutor sets a custom command executor
func WithExecutor(e system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = e
	}
}

// WithStarter sets a custom process starter
func WithStarter(s system.ProcessStarter) Option {
	return func(a *App) {
		a.Starter = s
	}
}

// WithFS sets a custom file system
func WithFS(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithRunID sets a fixed run identifier
func WithRunID(id string) Option {
	return func(a *App) {
		a.NewRunID = func() string { return id }
	}
}

// New creates a new App with the given options.
// Anything not provided uses the real OS implementation.
func New(opts ...Option) *App {
	app := &App{
		Executor: system.DefaultExecutor(),
		Starter:  system.DefaultStarter(),
		FS:       system.DefaultFS(),
		NewRunID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// AuditLog returns the event log for cfg's state directory
func (a *App) AuditLog(cfg *config.Config) *audit.Logger {
	return audit.NewLogger(cfg.EventsPath())
}

// Run wires everything needed for one launch of cfg
func (a *App) Run(cfg *config.Config, opts ...orchestrator.Option) (*orchestrator.Orchestrator, string) {
	runID := a.NewRunID()
	auditLog := a.AuditLog(cfg).ForRun(runID)

	inst := installer.New(cfg, a.Executor, a.FS, auditLog)
	controller := process.NewController(a.Starter, a.FS, process.WithAuditLogger(auditLog))

	opts = append([]orchestrator.Option{orchestrator.WithAuditLogger(auditLog)}, opts...)
	return orchestrator.New(cfg, inst, controller, opts...), runID
}

// CheckRootManifest verifies cfg's root manifest using the app's file system
func (a *App) CheckRootManifest(cfg *config.Config) error {
	return cfg.CheckRootManifest(a.FS.Exists)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
