package readiness

import (
	"context"
	"time"

	"github.com/firefly-engineering/firefly-launch/internal/logging"
)

const (
	// DefaultInterval is the fixed delay between failed attempts.
	DefaultInterval = time.Second

	// DefaultTimeout is the default total wait budget.
	DefaultTimeout = 30 * time.Second
)

// Outcome is how a wait ended.
type Outcome int

const (
	OutcomeReady Outcome = iota
	OutcomeTimedOut
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReady:
		return "ready"
	case OutcomeTimedOut:
		return "timed-out"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Result describes a finished wait.
type Result struct {
	Outcome  Outcome
	Attempts int
	Elapsed  time.Duration
	// LastErr is the reason the last failed attempt was not ready.
	LastErr error
}

// Ready reports whether the wait succeeded.
func (r Result) Ready() bool {
	return r.Outcome == OutcomeReady
}

// Waiter polls a probe at a fixed interval within a timeout budget.
type Waiter struct {
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

// Option configures a Waiter.
type Option func(*Waiter)

// WithInterval sets the delay between failed attempts.
func WithInterval(d time.Duration) Option {
	return func(w *Waiter) {
		if d > 0 {
			w.interval = d
		}
	}
}

// New creates a Waiter with the given total timeout.
func New(timeout time.Duration, opts ...Option) *Waiter {
	w := &Waiter{
		interval: DefaultInterval,
		timeout:  timeout,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Interval returns the delay between attempts.
func (w *Waiter) Interval() time.Duration {
	return w.interval
}

// Timeout returns the total wait budget.
func (w *Waiter) Timeout() time.Duration {
	return w.timeout
}

// Wait probes until the probe succeeds, the timeout elapses or ctx is done.
func (w *Waiter) Wait(ctx context.Context, probe Probe) Result {
	start := w.now()
	var res Result

	finish := func(o Outcome) Result {
		res.Outcome = o
		res.Elapsed = w.now().Sub(start)
		return res
	}

	for w.now().Sub(start) < w.timeout {
		if ctx.Err() != nil {
			return finish(OutcomeCancelled)
		}

		res.Attempts++
		pr := probe.Probe(ctx)
		if pr.OK {
			logging.Debug("readiness probe succeeded", "target", probe.Target(), "attempt", res.Attempts)
			return finish(OutcomeReady)
		}
		if ctx.Err() != nil {
			return finish(OutcomeCancelled)
		}

		res.LastErr = pr.Err
		logging.Debug("readiness probe failed",
			"target", probe.Target(),
			"attempt", res.Attempts,
			"status", pr.Status,
			"error", pr.Err,
		)

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return finish(OutcomeCancelled)
		case <-timer.C:
		}
	}

	return finish(OutcomeTimedOut)
}

// Check is one readiness wait against a target string.
type Check struct {
	Target       string
	Timeout      time.Duration
	Interval     time.Duration
	ProbeTimeout time.Duration
}

// Run parses the target and waits on it. The error is non-nil only when the
// target cannot be parsed.
func (c Check) Run(ctx context.Context) (Result, error) {
	probe, err := ParseTarget(c.Target, c.ProbeTimeout)
	if err != nil {
		return Result{}, err
	}
	return New(c.Timeout, WithInterval(c.Interval)).Wait(ctx, probe), nil
}

// WaitUntilReady polls target with the default interval and probe timeout
// and reports whether it became ready within timeout. Invalid targets are
// never ready.
func WaitUntilReady(ctx context.Context, target string, timeout time.Duration) bool {
	res, err := Check{Target: target, Timeout: timeout}.Run(ctx)
	if err != nil {
		logging.Debug("invalid readiness target", "target", target, "error", err)
		return false
	}
	return res.Ready()
}
