package process

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
	"github.com/firefly-engineering/firefly-launch/internal/logging"
	"github.com/firefly-engineering/firefly-launch/internal/system"
)

// Spec describes a process to launch.
type Spec struct {
	// Name identifies the service, e.g. "backend".
	Name string
	Argv []string
	// Dir is the absolute working directory.
	Dir string
	// LogPath receives stdout and stderr. Empty discards output.
	LogPath string
}

// Managed is a launched process owned by a Controller.
type Managed struct {
	Name    string
	Command []string
	Dir     string
	LogPath string
	Pid     int

	handle system.Process
	log    io.Closer

	done    chan struct{}
	exitErr error

	terminated bool
}

// CommandLine returns the command quoted for display.
func (m *Managed) CommandLine() string {
	return shellquote.Join(m.Command...)
}

// Done is closed once the process has exited and been reaped.
func (m *Managed) Done() <-chan struct{} {
	return m.done
}

// ExitErr returns the wait error. Only meaningful after Done is closed.
func (m *Managed) ExitErr() error {
	<-m.done
	return m.exitErr
}

// Controller launches and terminates managed processes.
type Controller struct {
	starter  system.ProcessStarter
	fs       system.FileSystem
	auditLog *audit.Logger

	mu    sync.Mutex
	procs []*Managed
}

// Option configures a Controller.
type Option func(*Controller)

// WithAuditLogger records launch and terminate events.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(c *Controller) {
		c.auditLog = logger
	}
}

// NewController creates a Controller. Nil arguments use the system defaults.
func NewController(starter system.ProcessStarter, fs system.FileSystem, opts ...Option) *Controller {
	if starter == nil {
		starter = system.DefaultStarter()
	}
	if fs == nil {
		fs = system.DefaultFS()
	}
	c := &Controller{starter: starter, fs: fs}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Launch starts the process described by spec and begins tracking it.
// It does not check that the process is serving.
func (c *Controller) Launch(ctx context.Context, spec Spec) (*Managed, error) {
	if len(spec.Argv) == 0 {
		return nil, errors.StartFailed(spec.Name, fmt.Errorf("empty command"))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.StartFailed(spec.Name, err)
	}

	var (
		out io.Writer
		log io.WriteCloser
	)
	if spec.LogPath != "" {
		f, err := c.fs.Create(spec.LogPath)
		if err != nil {
			return nil, errors.StartFailed(spec.Name, fmt.Errorf("failed to create log file: %w", err))
		}
		out, log = f, f
	}

	logging.Debug("starting process", "name", spec.Name, "command", shellquote.Join(spec.Argv...), "dir", spec.Dir)

	handle, err := c.starter.Start(system.StartSpec{
		Name:   spec.Argv[0],
		Args:   spec.Argv[1:],
		Dir:    spec.Dir,
		Output: out,
	})
	if err != nil {
		if log != nil {
			_ = log.Close()
		}
		return nil, errors.StartFailed(spec.Name, err)
	}

	m := &Managed{
		Name:    spec.Name,
		Command: spec.Argv,
		Dir:     spec.Dir,
		LogPath: spec.LogPath,
		Pid:     handle.Pid(),
		handle:  handle,
		log:     log,
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	c.procs = append(c.procs, m)
	c.mu.Unlock()

	go c.reap(m)

	m.logger().Debug("process started")
	_ = c.auditLog.LogEvent(audit.EventLaunch, m.Name, fmt.Sprintf("pid=%d %s", m.Pid, m.CommandLine()))
	return m, nil
}

func (c *Controller) reap(m *Managed) {
	m.exitErr = m.handle.Wait()
	if m.log != nil {
		_ = m.log.Close()
	}
	m.logger().Debug("process exited", "error", m.exitErr)
	close(m.done)
}

func (m *Managed) logger() *slog.Logger {
	return logging.With("name", m.Name, "pid", m.Pid)
}

// Terminate sends the terminate signal to m. Further calls for the same
// process do nothing.
func (c *Controller) Terminate(m *Managed) error {
	c.mu.Lock()
	if m.terminated {
		c.mu.Unlock()
		return nil
	}
	m.terminated = true
	c.mu.Unlock()

	select {
	case <-m.done:
		m.logger().Debug("process already exited")
		return nil
	default:
	}

	m.logger().Debug("terminating process")
	_ = c.auditLog.LogEvent(audit.EventTerminate, m.Name, fmt.Sprintf("pid=%d", m.Pid))
	if err := m.handle.Signal(system.TerminateSignal); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return fmt.Errorf("failed to terminate %s (pid %d): %w", m.Name, m.Pid, err)
	}
	return nil
}

// TerminateAll terminates every tracked process, most recently started
// first. Signal failures are logged.
func (c *Controller) TerminateAll() {
	procs := c.Processes()
	for i := len(procs) - 1; i >= 0; i-- {
		if err := c.Terminate(procs[i]); err != nil {
			logging.Warn("terminate failed", "name", procs[i].Name, "error", err)
		}
	}
}

// Processes returns the tracked processes in start order.
func (c *Controller) Processes() []*Managed {
	c.mu.Lock()
	defer c.mu.Unlock()
	procs := make([]*Managed, len(c.procs))
	copy(procs, c.procs)
	return procs
}
