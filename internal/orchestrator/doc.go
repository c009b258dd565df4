// Package orchestrator runs the launch state machine.
//
// A run moves through these states, strictly in order:
//
//	installing-deps -> starting-backend -> waiting-backend ->
//	starting-frontend -> waiting-frontend -> verifying -> running ->
//	shutting-down -> done
//
// Any installation, start or readiness failure moves the run to "failed":
// processes already started are terminated in reverse start order and the
// run returns a LaunchError with exit code 1. The frontend is never started
// unless the backend became ready.
//
// The running state lasts until the context is cancelled, normally by
// SIGINT or SIGTERM. Cancelling earlier, while a service is still being
// waited on, aborts the wait at once and fails the run as interrupted.
//
// Every transition is recorded and available from Transitions.
package orchestrator
