// Package monitor watches running services and reports when one stops
// responding. It never restarts anything.
package monitor

import (
	"context"
	"time"

	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/health"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
	"github.com/firefly-engineering/firefly-launch/internal/readiness"
)

// Target is a service to watch.
type Target struct {
	Name  string
	Probe readiness.Probe
}

// CheckResult holds the result of a single service check.
type CheckResult struct {
	Service string
	Status  health.Status
	// Changed is true when the status differs from the previous check.
	Changed bool
}

// Monitor periodically probes a fixed set of services.
type Monitor struct {
	interval time.Duration
	targets  []Target
	auditLog *audit.Logger

	last map[string]health.Status
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithAuditLogger sets the audit logger for recording health changes.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(m *Monitor) {
		m.auditLog = logger
	}
}

// New creates a new Monitor. Every target is assumed healthy at start,
// since it has just passed its readiness check.
func New(interval time.Duration, targets []Target, opts ...Option) *Monitor {
	m := &Monitor{
		interval: interval,
		targets:  targets,
		last:     make(map[string]health.Status, len(targets)),
	}
	for _, t := range targets {
		m.last[t.Name] = health.StatusOK
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run starts the monitoring loop. It blocks until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	logging.Debug("starting health monitor", "interval", m.interval, "targets", len(m.targets))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Debug("health monitor stopping")
			return ctx.Err()
		case <-ticker.C:
			m.CheckAll(ctx)
		}
	}
}

// CheckAll probes every target once and reports status changes.
func (m *Monitor) CheckAll(ctx context.Context) []CheckResult {
	var results []CheckResult
	for _, t := range m.targets {
		if ctx.Err() != nil {
			break
		}

		res := health.CheckEndpoint(ctx, t.Probe)
		if ctx.Err() != nil {
			break
		}

		result := CheckResult{
			Service: t.Name,
			Status:  res.Status,
			Changed: m.last[t.Name] != res.Status,
		}
		m.last[t.Name] = res.Status
		results = append(results, result)

		if !result.Changed {
			continue
		}

		if res.Status == health.StatusOK {
			logging.UserSuccess("%s is responding again at %s", t.Name, t.Probe.Target())
		} else {
			logging.UserWarning("%s stopped responding at %s", t.Name, t.Probe.Target())
			logging.Debug("health check failed", "service", t.Name, "code", res.Code, "error", res.Err)
		}
		_ = m.auditLog.LogEvent(audit.EventHealth, t.Name, string(res.Status))
	}

	return results
}
