package installer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/config"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
	"github.com/firefly-engineering/firefly-launch/internal/readiness"
	"github.com/firefly-engineering/firefly-launch/internal/system"
)

// maxOutputLines is how much failing command output is shown to the user.
const maxOutputLines = 20

// StepStatus is the outcome of one install step.
type StepStatus string

const (
	StepInstalled StepStatus = "installed"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// StepResult records what happened to one install step.
type StepResult struct {
	Name   string
	Status StepStatus
	// Reason explains a skipped or failed step.
	Reason string
	Output []byte
}

// Installer runs install steps.
type Installer struct {
	cfg      *config.Config
	exec     system.CommandExecutor
	fs       system.FileSystem
	auditLog *audit.Logger

	probeFactory func(target string, probeTimeout time.Duration) (readiness.Probe, error)
}

// Option configures an Installer.
type Option func(*Installer)

// WithProbeFactory replaces how requires_target gates are probed.
func WithProbeFactory(f func(target string, probeTimeout time.Duration) (readiness.Probe, error)) Option {
	return func(i *Installer) {
		i.probeFactory = f
	}
}

// New creates an Installer. Nil executor or filesystem use the system
// defaults.
func New(cfg *config.Config, exec system.CommandExecutor, fs system.FileSystem, auditLog *audit.Logger, opts ...Option) *Installer {
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	if fs == nil {
		fs = system.DefaultFS()
	}
	i := &Installer{cfg: cfg, exec: exec, fs: fs, auditLog: auditLog, probeFactory: readiness.ParseTarget}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run executes every configured step in order. It stops at the first
// failing required step and returns an InstallFailed error for it.
func (i *Installer) Run(ctx context.Context) ([]StepResult, error) {
	results := make([]StepResult, 0, len(i.cfg.Install))
	for _, step := range i.cfg.Install {
		if err := ctx.Err(); err != nil {
			return results, errors.InstallFailed(step.Name, err)
		}

		res, err := i.runStep(ctx, step)
		results = append(results, res)
		_ = i.auditLog.LogEvent(audit.EventInstall, step.Name, string(res.Status)+reasonSuffix(res.Reason))

		if err == nil {
			continue
		}
		if step.Optional {
			logging.UserWarning("Failed to install %s dependencies, continuing: %v", step.Name, err)
			continue
		}
		logging.UserError("Failed to install %s dependencies", step.Name)
		showOutput(res.Output)
		return results, errors.InstallFailed(step.Name, err)
	}
	return results, nil
}

func (i *Installer) runStep(ctx context.Context, step config.InstallStep) (StepResult, error) {
	res := StepResult{Name: step.Name}

	dir, err := i.cfg.ResolveDir(step.Dir)
	if err != nil {
		return fail(res, err)
	}

	if step.Manifest != "" {
		manifest := filepath.Join(dir, step.Manifest)
		if !i.fs.Exists(manifest) {
			return fail(res, fmt.Errorf("%s not found", manifest))
		}
	}

	if step.RequiresTarget != "" {
		reachable, err := i.targetReachable(ctx, step)
		if err != nil {
			return fail(res, err)
		}
		if !reachable {
			res.Status = StepSkipped
			res.Reason = step.RequiresTarget + " not reachable"
			if step.Optional {
				logging.UserWarning("Skipping %s: %s is not reachable", step.Name, step.RequiresTarget)
				return res, nil
			}
			return res, fmt.Errorf("%s is not reachable", step.RequiresTarget)
		}
	}

	requires, err := step.RequiresArgv()
	if err != nil {
		return fail(res, err)
	}
	if requires != nil {
		logging.UserInfo("Checking %s prerequisite: %s", step.Name, step.Requires)
		if out, err := i.exec.Execute(ctx, dir, requires[0], requires[1:]...); err != nil {
			logging.Debug("prerequisite command failed", "step", step.Name, "command", step.Requires, "output", string(out), "error", err)
			res.Status = StepSkipped
			res.Reason = step.Requires + " failed"
			if step.Optional {
				logging.UserWarning("Skipping %s dependencies: %s is not available", step.Name, requires[0])
				return res, nil
			}
			return res, fmt.Errorf("prerequisite %q failed: %w", step.Requires, err)
		}
	}

	argv, err := step.Argv()
	if err != nil {
		return fail(res, err)
	}

	logging.UserInfo("Installing %s dependencies...", step.Name)
	logging.Debug("running install step", "step", step.Name, "command", shellquote.Join(argv...), "dir", dir)

	out, err := i.exec.Execute(ctx, dir, argv[0], argv[1:]...)
	res.Output = out
	if err != nil {
		return fail(res, err)
	}

	res.Status = StepInstalled
	logging.UserSuccess("%s dependencies installed successfully", step.Name)
	return res, nil
}

// targetReachable probes the step's requires_target once.
func (i *Installer) targetReachable(ctx context.Context, step config.InstallStep) (bool, error) {
	probe, err := i.probeFactory(step.RequiresTarget, i.cfg.Readiness.ProbeTimeout.Std())
	if err != nil {
		return false, err
	}

	logging.UserInfo("Checking %s prerequisite: %s", step.Name, probe.Target())
	pr := probe.Probe(ctx)
	if !pr.OK {
		logging.Debug("requires_target not reachable", "step", step.Name, "target", step.RequiresTarget, "error", pr.Err)
		return false, nil
	}
	logging.UserSuccess("%s is reachable", step.RequiresTarget)
	return true, nil
}

func fail(res StepResult, err error) (StepResult, error) {
	res.Status = StepFailed
	res.Reason = err.Error()
	return res, err
}

func reasonSuffix(reason string) string {
	if reason == "" {
		return ""
	}
	return ": " + reason
}

// showOutput prints the tail of a failed command's output.
func showOutput(out []byte) {
	text := strings.TrimRight(string(out), "\n")
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	if len(lines) > maxOutputLines {
		lines = lines[len(lines)-maxOutputLines:]
	}
	w := logging.UserErrorOutput()
	for _, line := range lines {
		fmt.Fprintf(w, "    %s\n", line)
	}
}
