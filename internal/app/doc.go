// Package app provides the application context for launch-ctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds the OS-facing dependencies:
//
//	type App struct {
//	    Executor system.CommandExecutor // install steps
//	    Starter  system.ProcessStarter  // managed services
//	    FS       system.FileSystem      // process logs, manifests
//	    NewRunID func() string          // run identifiers
//	}
//
// # Creating an App
//
//	// Production usage
//	a := app.New()
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithExecutor(system.NewMockExecutor()),
//	    app.WithStarter(system.NewMockStarter()),
//	    app.WithFS(system.NewMockFS()),
//	)
//
// Run builds an orchestrator for a launch plan, sharing one run-scoped
// audit log between the installer, the process controller and the
// orchestrator itself.
package app
