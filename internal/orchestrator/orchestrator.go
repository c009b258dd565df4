package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/config"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
	"github.com/firefly-engineering/firefly-launch/internal/health"
	"github.com/firefly-engineering/firefly-launch/internal/installer"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
	"github.com/firefly-engineering/firefly-launch/internal/monitor"
	"github.com/firefly-engineering/firefly-launch/internal/port"
	"github.com/firefly-engineering/firefly-launch/internal/process"
	"github.com/firefly-engineering/firefly-launch/internal/readiness"
)

// Installer runs dependency installation.
type Installer interface {
	Run(ctx context.Context) ([]installer.StepResult, error)
}

// ProbeFactory builds the readiness probe for a target.
type ProbeFactory func(target string, probeTimeout time.Duration) (readiness.Probe, error)

// PortCheck reports whether the port behind target is already taken.
type PortCheck func(ctx context.Context, target string) (addr string, inUse bool)

// Report is passed to the ready hook once startup has completed.
type Report struct {
	Config       *config.Config
	Processes    []*process.Managed
	Verification []health.EndpointResult
}

// Orchestrator drives a single launch run from installation to shutdown.
// It is not safe to Run more than once.
type Orchestrator struct {
	cfg        *config.Config
	installer  Installer
	controller *process.Controller
	auditLog   *audit.Logger

	probeFactory  ProbeFactory
	portCheck     PortCheck
	watchInterval time.Duration
	onReady       func(Report)
	onTransition  func(Transition)
	now           func() time.Time

	mu          sync.Mutex
	state       State
	transitions []Transition
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAuditLogger records lifecycle events.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(o *Orchestrator) {
		o.auditLog = logger
	}
}

// WithProbeFactory replaces how readiness targets become probes.
func WithProbeFactory(f ProbeFactory) Option {
	return func(o *Orchestrator) {
		o.probeFactory = f
	}
}

// WithPortCheck replaces the pre-launch port check. Nil disables it.
func WithPortCheck(fn PortCheck) Option {
	return func(o *Orchestrator) {
		o.portCheck = fn
	}
}

// WithWatchInterval re-probes both services at this interval while
// running. Zero disables watching.
func WithWatchInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.watchInterval = d
	}
}

// WithReadyHook is called once both services are ready and verified.
func WithReadyHook(fn func(Report)) Option {
	return func(o *Orchestrator) {
		o.onReady = fn
	}
}

// WithTransitionHook is called after every state change.
func WithTransitionHook(fn func(Transition)) Option {
	return func(o *Orchestrator) {
		o.onTransition = fn
	}
}

// New creates an Orchestrator for cfg.
func New(cfg *config.Config, inst Installer, controller *process.Controller, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:          cfg,
		installer:    inst,
		controller:   controller,
		probeFactory: readiness.ParseTarget,
		portCheck:    port.Check,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Transitions returns every state change so far, in order.
func (o *Orchestrator) Transitions() []Transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Transition, len(o.transitions))
	copy(out, o.transitions)
	return out
}

// States returns the sequence of states entered, in order.
func (o *Orchestrator) States() []State {
	transitions := o.Transitions()
	states := make([]State, 0, len(transitions))
	for _, t := range transitions {
		states = append(states, t.To)
	}
	return states
}

func (o *Orchestrator) enter(s State) {
	o.mu.Lock()
	t := Transition{From: o.state, To: s, At: o.now()}
	o.state = s
	o.transitions = append(o.transitions, t)
	hook := o.onTransition
	o.mu.Unlock()

	logging.Debug("state transition", "from", t.From, "to", t.To)
	_ = o.auditLog.LogEvent(audit.EventState, "", t.From.String()+" -> "+t.To.String())
	if hook != nil {
		hook(t)
	}
}

// Run performs one launch. It returns nil after a clean shutdown triggered
// by cancelling ctx once both services are running. Any failure before
// that point terminates whatever was started and returns a LaunchError.
func (o *Orchestrator) Run(ctx context.Context) error {
	_ = o.auditLog.LogEvent(audit.EventRunStart, "", "preset="+o.cfg.Preset+" root="+o.cfg.ProjectRoot)

	o.enter(StateInstallingDeps)
	if o.installer != nil {
		if _, err := o.installer.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return o.fail(errors.StartupInterrupted("dependencies"))
			}
			return o.fail(err)
		}
	}
	if len(o.cfg.Prerequisites) > 0 {
		health.ReportPrerequisites(health.CheckPrerequisites(ctx, o.cfg.Prerequisites, o.cfg.Readiness.ProbeTimeout.Std()))
	}

	if err := o.startService(ctx, o.cfg.Backend, StateStartingBackend, StateWaitingBackend); err != nil {
		return o.fail(err)
	}
	if err := o.startService(ctx, o.cfg.Frontend, StateStartingFrontend, StateWaitingFrontend); err != nil {
		return o.fail(err)
	}

	o.enter(StateVerifying)
	var verification []health.EndpointResult
	if len(o.cfg.Verify.Endpoints) > 0 {
		logging.UserInfo("Verifying endpoints...")
		verification = health.Verify(ctx, o.cfg.Verify.Endpoints, o.cfg.Readiness.ProbeTimeout.Std())
		health.Report(verification)
		for _, r := range verification {
			_ = o.auditLog.LogEvent(audit.EventVerify, "", fmt.Sprintf("%s %s code=%d", r.Target, r.Status, r.Code))
		}
	}

	o.enter(StateRunning)
	if o.onReady != nil {
		o.onReady(Report{
			Config:       o.cfg,
			Processes:    o.controller.Processes(),
			Verification: verification,
		})
	}
	o.block(ctx)

	_ = o.auditLog.LogEvent(audit.EventInterrupt, "", "shutdown requested")
	o.enter(StateShuttingDown)
	logging.UserInfo("Shutting down services...")
	o.controller.TerminateAll()

	o.enter(StateDone)
	_ = o.auditLog.LogEvent(audit.EventRunEnd, "", "done")
	logging.UserSuccess("Services stopped")
	return nil
}

// startService launches svc and waits for it to become ready.
func (o *Orchestrator) startService(ctx context.Context, svc config.ServiceConfig, starting, waiting State) error {
	o.enter(starting)
	if ctx.Err() != nil {
		return errors.StartupInterrupted(svc.Name)
	}

	argv, err := svc.Argv()
	if err != nil {
		return errors.StartFailed(svc.Name, err)
	}
	dir, err := o.cfg.ResolveDir(svc.Dir)
	if err != nil {
		return errors.StartFailed(svc.Name, err)
	}

	if o.portCheck != nil {
		if addr, inUse := o.portCheck(ctx, svc.Target); inUse {
			logging.UserWarning("Port %s is already in use, %s may fail to start", addr, svc.Name)
			_ = o.auditLog.LogEvent(audit.EventError, svc.Name, "port in use: "+addr)
		}
	}

	logging.UserInfo("Starting %s...", svc.Name)
	m, err := o.controller.Launch(ctx, process.Spec{
		Name:    svc.Name,
		Argv:    argv,
		Dir:     dir,
		LogPath: filepath.Join(o.cfg.LogsDir(), svc.Name+".log"),
	})
	if err != nil {
		if ctx.Err() != nil {
			return errors.StartupInterrupted(svc.Name)
		}
		logging.UserError("Failed to start %s: %v", svc.Name, err)
		return err
	}

	o.enter(waiting)
	check := o.cfg.ReadinessCheck(svc)
	probe, err := o.probeFactory(check.Target, check.ProbeTimeout)
	if err != nil {
		return errors.ReadinessTimeout(svc.Name, check.Target, err)
	}

	logging.UserInfo("Waiting for %s at %s (timeout %s)...", svc.Name, check.Target, check.Timeout)
	res := readiness.New(check.Timeout, readiness.WithInterval(check.Interval)).Wait(ctx, probe)
	logging.Debug("readiness wait finished", "service", svc.Name, "outcome", res.Outcome, "attempts", res.Attempts, "elapsed", res.Elapsed)

	switch res.Outcome {
	case readiness.OutcomeReady:
		logging.UserSuccess("%s is ready at %s", svc.Name, check.Target)
		_ = o.auditLog.LogEvent(audit.EventReady, svc.Name, fmt.Sprintf("%s attempts=%d elapsed=%s", check.Target, res.Attempts, res.Elapsed.Round(time.Millisecond)))
		return nil
	case readiness.OutcomeCancelled:
		return errors.StartupInterrupted(svc.Name)
	default:
		logging.UserError("%s failed to become ready within %s", svc.Name, check.Timeout)
		logging.UserInfo("See %s for %s output", m.LogPath, svc.Name)
		_ = o.auditLog.LogEvent(audit.EventTimeout, svc.Name, fmt.Sprintf("%s attempts=%d", check.Target, res.Attempts))
		return errors.ReadinessTimeout(svc.Name, check.Target, res.LastErr)
	}
}

// block waits in the running state until ctx is cancelled.
func (o *Orchestrator) block(ctx context.Context) {
	if o.watchInterval <= 0 {
		<-ctx.Done()
		return
	}

	var targets []monitor.Target
	for _, svc := range []config.ServiceConfig{o.cfg.Backend, o.cfg.Frontend} {
		probe, err := o.probeFactory(svc.Target, o.cfg.Readiness.ProbeTimeout.Std())
		if err != nil {
			continue
		}
		targets = append(targets, monitor.Target{Name: svc.Name, Probe: probe})
	}
	_ = monitor.New(o.watchInterval, targets, monitor.WithAuditLogger(o.auditLog)).Run(ctx)
}

// fail moves to the failed state and terminates everything started so far.
func (o *Orchestrator) fail(err error) error {
	kind := errors.KindOf(err)
	if kind == errors.KindStartupInterrupted {
		_ = o.auditLog.LogEvent(audit.EventInterrupt, "", err.Error())
	} else {
		logging.Error("run failed", "state", o.State(), "error", err)
		_ = o.auditLog.LogEvent(audit.EventError, "", err.Error())
	}

	o.enter(StateFailed)
	if procs := o.controller.Processes(); len(procs) > 0 {
		logging.UserInfo("Stopping started services...")
		o.controller.TerminateAll()
	}
	_ = o.auditLog.LogEvent(audit.EventRunEnd, "", string(kind))
	return err
}
