// Package readiness waits for an external service to become reachable.
//
// A Probe performs one attempt against a target and reports a ProbeResult.
// Two probes are provided:
//
//	readiness.NewHTTPProbe("http://localhost:8000/health", 5*time.Second) // GET, ready on 200
//	readiness.NewTCPProbe("localhost:5432", 5*time.Second)                // ready on connect
//
// ParseTarget picks one from a target string: anything with a scheme is an
// HTTP probe, a bare host:port is a TCP probe.
//
// # Waiting
//
// A Waiter repeats a probe at a fixed interval until it succeeds, the timeout
// elapses or the context is cancelled:
//
//	w := readiness.New(30*time.Second)
//	res := w.Wait(ctx, probe)
//	switch res.Outcome {
//	case readiness.OutcomeReady:
//	case readiness.OutcomeTimedOut:
//	case readiness.OutcomeCancelled:
//	}
//
// Probe failures never escape the waiter. Each one is logged at debug level
// and counted as "not ready yet"; the last one is kept in Result.LastErr.
//
// The waiter never reports a timeout before the full budget has elapsed. It
// may overrun the budget by up to one interval plus one probe timeout.
package readiness
