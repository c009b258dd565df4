package process

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"reflect"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/firefly-engineering/firefly-launch/internal/audit"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
	"github.com/firefly-engineering/firefly-launch/internal/system"
)

func newTestController() (*Controller, *system.MockStarter, *system.MockFS) {
	starter := system.NewMockStarter()
	fs := system.NewMockFS()
	return NewController(starter, fs), starter, fs
}

func TestLaunch(t *testing.T) {
	c, starter, fs := newTestController()

	m, err := c.Launch(context.Background(), Spec{
		Name:    "backend",
		Argv:    []string{"python", "main.py"},
		Dir:     "/srv/app/backend",
		LogPath: "/srv/app/.launch/logs/backend.log",
	})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}

	if m.Name != "backend" {
		t.Errorf("Name = %q, want %q", m.Name, "backend")
	}
	if m.Pid == 0 {
		t.Error("Pid should be set")
	}
	if got := m.CommandLine(); got != "python main.py" {
		t.Errorf("CommandLine() = %q", got)
	}

	if len(starter.Started) != 1 {
		t.Fatalf("started %d processes, want 1", len(starter.Started))
	}
	spec := starter.Started[0].Spec
	if spec.Name != "python" || !reflect.DeepEqual(spec.Args, []string{"main.py"}) {
		t.Errorf("StartSpec = %s %v", spec.Name, spec.Args)
	}
	if spec.Dir != "/srv/app/backend" {
		t.Errorf("Dir = %q", spec.Dir)
	}

	data, ok := fs.GetFile("/srv/app/.launch/logs/backend.log")
	if !ok {
		t.Fatal("log file should be created")
	}
	if !strings.Contains(string(data), "started python") {
		t.Errorf("log file should capture process output, got %q", data)
	}
}

func TestLaunch_NoLogPath(t *testing.T) {
	c, starter, _ := newTestController()

	if _, err := c.Launch(context.Background(), Spec{Name: "frontend", Argv: []string{"npm", "run", "dev"}}); err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	if starter.Started[0].Spec.Output != nil {
		t.Error("Output should be nil when no log path is set")
	}
}

func TestLaunch_StartFailure(t *testing.T) {
	c, starter, _ := newTestController()
	starter.StartErr["python"] = stderrors.New("executable file not found in $PATH")

	_, err := c.Launch(context.Background(), Spec{Name: "backend", Argv: []string{"python", "main.py"}})
	if err == nil {
		t.Fatal("Launch() should fail")
	}
	if errors.KindOf(err) != errors.KindStartFailed {
		t.Errorf("KindOf(err) = %q, want %q", errors.KindOf(err), errors.KindStartFailed)
	}
	if len(c.Processes()) != 0 {
		t.Error("failed launch should not be tracked")
	}
}

func TestLaunch_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(c *Controller, fs *system.MockFS) context.Context
		spec  Spec
	}{
		{
			name:  "empty command",
			setup: func(*Controller, *system.MockFS) context.Context { return context.Background() },
			spec:  Spec{Name: "backend"},
		},
		{
			name: "cancelled context",
			setup: func(*Controller, *system.MockFS) context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			spec: Spec{Name: "backend", Argv: []string{"python"}},
		},
		{
			name: "log file",
			setup: func(_ *Controller, fs *system.MockFS) context.Context {
				fs.CreateErr = stderrors.New("read-only file system")
				return context.Background()
			},
			spec: Spec{Name: "backend", Argv: []string{"python"}, LogPath: "/ro/backend.log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, starter, fs := newTestController()
			ctx := tt.setup(c, fs)

			_, err := c.Launch(ctx, tt.spec)
			if errors.KindOf(err) != errors.KindStartFailed {
				t.Errorf("KindOf(err) = %q, want %q", errors.KindOf(err), errors.KindStartFailed)
			}
			if len(starter.Started) != 0 {
				t.Error("nothing should be started")
			}
		})
	}
}

func TestTerminate_Once(t *testing.T) {
	c, starter, _ := newTestController()
	m, _ := c.Launch(context.Background(), Spec{Name: "backend", Argv: []string{"python", "main.py"}})

	if err := c.Terminate(m); err != nil {
		t.Fatalf("Terminate() error: %v", err)
	}
	if err := c.Terminate(m); err != nil {
		t.Fatalf("second Terminate() error: %v", err)
	}

	sigs := starter.SignalsFor("python")
	if len(sigs) != 1 {
		t.Fatalf("got %d signals, want exactly 1", len(sigs))
	}
	if sigs[0] != syscall.SIGTERM {
		t.Errorf("signal = %v, want SIGTERM", sigs[0])
	}

	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("process should be reaped after terminate")
	}
}

func TestTerminate_AlreadyExited(t *testing.T) {
	c, starter, _ := newTestController()
	m, _ := c.Launch(context.Background(), Spec{Name: "backend", Argv: []string{"node", "mock-backend.js"}})

	starter.Started[0].Exit()
	<-m.Done()

	if err := c.Terminate(m); err != nil {
		t.Fatalf("Terminate() error: %v", err)
	}
	if len(starter.Signals) != 0 {
		t.Errorf("exited process should not be signalled, got %v", starter.SignalOrder())
	}
}

func TestTerminate_SignalError(t *testing.T) {
	c, starter, _ := newTestController()
	starter.OnStart = func(p *system.MockProcess) {
		p.SignalErr = stderrors.New("operation not permitted")
	}
	m, _ := c.Launch(context.Background(), Spec{Name: "backend", Argv: []string{"python"}})

	if err := c.Terminate(m); err == nil {
		t.Error("Terminate() should report the signal error")
	}
}

func TestTerminateAll_ReverseOrder(t *testing.T) {
	c, starter, _ := newTestController()
	ctx := context.Background()

	if _, err := c.Launch(ctx, Spec{Name: "backend", Argv: []string{"python", "main.py"}}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Launch(ctx, Spec{Name: "frontend", Argv: []string{"npm", "run", "dev"}}); err != nil {
		t.Fatal(err)
	}

	c.TerminateAll()
	c.TerminateAll()

	want := []string{"npm", "python"}
	if got := starter.SignalOrder(); !reflect.DeepEqual(got, want) {
		t.Errorf("SignalOrder() = %v, want %v", got, want)
	}
}

func TestTerminateAll_Empty(t *testing.T) {
	c, starter, _ := newTestController()
	c.TerminateAll()
	if len(starter.Signals) != 0 {
		t.Error("no signals expected")
	}
}

func TestController_AuditEvents(t *testing.T) {
	logger := audit.NewLogger(filepath.Join(t.TempDir(), "events.jsonl"))
	c := NewController(system.NewMockStarter(), system.NewMockFS(), WithAuditLogger(logger))

	m, err := c.Launch(context.Background(), Spec{Name: "backend", Argv: []string{"node", "mock-backend.js"}})
	if err != nil {
		t.Fatal(err)
	}
	c.TerminateAll()

	events, err := logger.Events()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != audit.EventLaunch || !strings.Contains(events[0].Details, "node mock-backend.js") {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Type != audit.EventTerminate || events[1].Service != m.Name {
		t.Errorf("events[1] = %+v", events[1])
	}
}
