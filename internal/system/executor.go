package system

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// osExecutor implements CommandExecutor using real OS operations.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// osStarter implements ProcessStarter with os/exec.
type osStarter struct{}

func (s *osStarter) Start(spec StartSpec) (Process, error) {
	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	// Stdin stays nil, which connects the child to the null device.
	cmd.Stdout = spec.Output
	cmd.Stderr = spec.Output
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &osProcess{cmd: cmd}, nil
}

type osProcess struct {
	cmd *exec.Cmd
}

func (p *osProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *osProcess) Signal(sig os.Signal) error {
	return p.cmd.Process.Signal(sig)
}

func (p *osProcess) Wait() error {
	return p.cmd.Wait()
}

// TerminateSignal is the graceful stop signal sent to managed processes.
var TerminateSignal os.Signal = syscall.SIGTERM
