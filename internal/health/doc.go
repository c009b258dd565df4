// Package health runs one-shot checks against running services.
//
// Unlike the readiness waiter, these checks never retry and never stop a
// run. Each endpoint is classified as:
//
//	StatusOK      - HTTP 200, or TCP connect succeeded
//	StatusWarning - the service answered with another HTTP status
//	StatusFailed  - no response (refused, timed out, invalid target)
//
// Verify is used after startup for the auxiliary endpoints:
//
//	results := health.Verify(ctx, cfg.Verify.Endpoints, probeTimeout)
//	health.Report(results)
//
// CheckPrerequisites probes external dependencies such as a database port
// once dependencies are installed. A missing prerequisite is only reported.
package health
