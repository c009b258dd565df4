package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/health"
	"github.com/firefly-engineering/firefly-launch/internal/readiness"
)

// switchProbe reports ready while up is true.
type switchProbe struct {
	up    atomic.Bool
	calls atomic.Int32
}

func (p *switchProbe) Target() string { return "http://localhost:8000" }

func (p *switchProbe) Probe(ctx context.Context) readiness.ProbeResult {
	p.calls.Add(1)
	if p.up.Load() {
		return readiness.ProbeResult{OK: true, Status: 200}
	}
	return readiness.ProbeResult{Err: errors.New("connection refused")}
}

func TestMonitor_New(t *testing.T) {
	m := New(30*time.Second, []Target{{Name: "backend", Probe: &switchProbe{}}})
	if m.interval != 30*time.Second {
		t.Errorf("interval = %v, want %v", m.interval, 30*time.Second)
	}
	if m.auditLog != nil {
		t.Error("auditLog should default to nil")
	}
	if m.last["backend"] != health.StatusOK {
		t.Errorf("initial status = %q, want ok", m.last["backend"])
	}
}

func TestMonitor_CheckAllReportsChanges(t *testing.T) {
	probe := &switchProbe{}
	probe.up.Store(true)
	logger := audit.NewLogger(filepath.Join(t.TempDir(), "events.jsonl"))

	m := New(time.Second, []Target{{Name: "backend", Probe: probe}}, WithAuditLogger(logger))
	ctx := context.Background()

	steps := []struct {
		up          bool
		wantStatus  health.Status
		wantChanged bool
	}{
		{true, health.StatusOK, false},
		{false, health.StatusFailed, true},
		{false, health.StatusFailed, false},
		{true, health.StatusOK, true},
	}

	for i, step := range steps {
		probe.up.Store(step.up)
		results := m.CheckAll(ctx)
		if len(results) != 1 {
			t.Fatalf("step %d: got %d results, want 1", i, len(results))
		}
		if results[0].Status != step.wantStatus {
			t.Errorf("step %d: status = %q, want %q", i, results[0].Status, step.wantStatus)
		}
		if results[0].Changed != step.wantChanged {
			t.Errorf("step %d: changed = %v, want %v", i, results[0].Changed, step.wantChanged)
		}
	}

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d health events, want 2 (one per change)", len(events))
	}
	if events[0].Details != string(health.StatusFailed) || events[1].Details != string(health.StatusOK) {
		t.Errorf("events = %+v", events)
	}
}

func TestMonitor_CheckAllEmpty(t *testing.T) {
	m := New(time.Second, nil)
	if results := m.CheckAll(context.Background()); len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestMonitor_RunStopsOnCancel(t *testing.T) {
	probe := &switchProbe{}
	probe.up.Store(true)
	m := New(10*time.Millisecond, []Target{{Name: "backend", Probe: probe}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for probe.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("monitor did not probe on its interval")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
