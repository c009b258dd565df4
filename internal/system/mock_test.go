package system

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"syscall"
	"testing"
)

func TestMockFS_ReadFile(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/project/package.json", []byte("{}"), 0644)

	data, err := mockFS.ReadFile("/project/package.json")
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("ReadFile = %q, want %q", string(data), "{}")
	}

	if _, err := mockFS.ReadFile("/nonexistent"); err != fs.ErrNotExist {
		t.Errorf("ReadFile error = %v, want fs.ErrNotExist", err)
	}
}

func TestMockFS_Exists(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.AddFile("/project/backend/main.py", []byte("x"), 0644)

	if !mockFS.Exists("/project/backend/main.py") {
		t.Error("File should exist")
	}
	if !mockFS.Exists("/project/backend") {
		t.Error("Parent of added file should exist")
	}
	if mockFS.Exists("/nonexistent") {
		t.Error("Nonexistent should not exist")
	}
}

func TestMockFS_Create(t *testing.T) {
	mockFS := NewMockFS()

	w, err := mockFS.Create("/state/logs/backend.log")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	_, _ = w.Write([]byte("hello "))
	_, _ = w.Write([]byte("world"))
	_ = w.Close()

	data, ok := mockFS.GetFile("/state/logs/backend.log")
	if !ok {
		t.Fatal("created file missing")
	}
	if string(data) != "hello world" {
		t.Errorf("file = %q, want %q", string(data), "hello world")
	}
}

func TestMockFS_ErrorInjection(t *testing.T) {
	mockFS := NewMockFS()
	mockFS.ReadFileErr = fs.ErrPermission
	mockFS.CreateErr = fs.ErrPermission

	if _, err := mockFS.ReadFile("/anything"); err != fs.ErrPermission {
		t.Errorf("ReadFile error = %v, want ErrPermission", err)
	}
	if _, err := mockFS.Create("/anything"); err != fs.ErrPermission {
		t.Errorf("Create error = %v, want ErrPermission", err)
	}
}

func TestMockExecutor_Execute(t *testing.T) {
	exec := NewMockExecutor()
	exec.AddResponse("npm install", []byte("added 12 packages\n"), nil)

	output, err := exec.Execute(context.Background(), "/project", "npm", "install")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if string(output) != "added 12 packages\n" {
		t.Errorf("Output = %q", string(output))
	}

	cmd, ok := exec.LastCommand()
	if !ok {
		t.Fatal("No command recorded")
	}
	if cmd.Name != "npm" || cmd.Dir != "/project" {
		t.Errorf("Command = %+v, want npm in /project", cmd)
	}
}

func TestMockExecutor_DefaultResponse(t *testing.T) {
	exec := NewMockExecutor()
	exec.DefaultResponse = MockResponse{Output: []byte("default"), Err: nil}

	output, err := exec.Execute(context.Background(), "", "unknown", "command")
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if string(output) != "default" {
		t.Errorf("Output = %q, want %q", string(output), "default")
	}
}

func TestMockExecutor_Reset(t *testing.T) {
	exec := NewMockExecutor()
	_, _ = exec.Execute(context.Background(), "", "cmd1")
	_, _ = exec.Execute(context.Background(), "", "cmd2")

	if len(exec.Commands) != 2 {
		t.Errorf("Commands length = %d, want 2", len(exec.Commands))
	}

	exec.Reset()

	if len(exec.Commands) != 0 {
		t.Errorf("Commands length after reset = %d, want 0", len(exec.Commands))
	}
}

func TestMockStarter_StartAndSignal(t *testing.T) {
	starter := NewMockStarter()
	var out bytes.Buffer

	p, err := starter.Start(StartSpec{Name: "python", Args: []string{"main.py"}, Dir: "/project/backend", Output: &out})
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if p.Pid() == 0 {
		t.Error("Pid should be non-zero")
	}
	if out.Len() == 0 {
		t.Error("expected start banner in process output")
	}

	if err := p.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Signal error: %v", err)
	}
	if err := p.Wait(); err != nil {
		t.Errorf("Wait error: %v", err)
	}

	sigs := starter.SignalsFor("python")
	if len(sigs) != 1 || sigs[0] != syscall.SIGTERM {
		t.Errorf("signals = %v, want [SIGTERM]", sigs)
	}
}

func TestMockStarter_StartErr(t *testing.T) {
	starter := NewMockStarter()
	starter.StartErr["node"] = errors.New("executable file not found")

	if _, err := starter.Start(StartSpec{Name: "node"}); err == nil {
		t.Fatal("expected start error")
	}
	if len(starter.Started) != 0 {
		t.Errorf("Started = %d, want 0", len(starter.Started))
	}
}

func TestDefaults(t *testing.T) {
	defer ResetDefaults()

	mockExec := NewMockExecutor()
	SetDefaultExecutor(mockExec)
	if DefaultExecutor() != mockExec {
		t.Error("DefaultExecutor should return the configured mock")
	}

	mockStarter := NewMockStarter()
	SetDefaultStarter(mockStarter)
	if DefaultStarter() != mockStarter {
		t.Error("DefaultStarter should return the configured mock")
	}

	ResetDefaults()
	if DefaultExecutor() == mockExec {
		t.Error("ResetDefaults should restore the OS executor")
	}
}
