package system

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string]*mockFile
	dirs  map[string]bool

	// Error injection
	ReadFileErr error
	CreateErr   error
}

type mockFile struct {
	data []byte
	mode fs.FileMode
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string]*mockFile),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: mode}
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// GetFile returns the contents of a file in the mock filesystem.
func (m *MockFS) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return f.data, true
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return f.data, nil
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, fileOk := m.files[path]
	_, dirOk := m.dirs[path]
	return fileOk || dirOk
}

func (m *MockFS) Create(path string) (io.WriteCloser, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.AddFile(path, nil, 0644)
	return &mockWriter{fs: m, path: path}, nil
}

// mockWriter appends to a MockFS file on every Write.
type mockWriter struct {
	fs   *MockFS
	path string
}

func (w *mockWriter) Write(p []byte) (int, error) {
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	f := w.fs.files[w.path]
	f.data = append(f.data, p...)
	return len(p), nil
}

func (w *mockWriter) Close() error { return nil }

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command patterns to responses.
	// Key format: "command arg1" or "command".
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse
}

// MockCommand records an executed command.
type MockCommand struct {
	Name string
	Args []string
	Dir  string
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Err    error
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

func (m *MockExecutor) Execute(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Commands = append(m.Commands, MockCommand{Name: name, Args: args, Dir: dir})

	key := name
	if len(args) > 0 {
		key = name + " " + args[0]
	}

	if resp, ok := m.Responses[key]; ok {
		return resp.Output, resp.Err
	}
	if resp, ok := m.Responses[name]; ok {
		return resp.Output, resp.Err
	}

	return m.DefaultResponse.Output, m.DefaultResponse.Err
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}

// MockStarter implements ProcessStarter for testing.
type MockStarter struct {
	mu sync.Mutex

	// Started records every process in start order.
	Started []*MockProcess

	// StartErr maps a command name to the error Start returns for it.
	StartErr map[string]error

	// Signals records every signal delivered, across all processes, in order.
	Signals []MockSignal

	// OnStart is invoked after a process is recorded, if set.
	OnStart func(p *MockProcess)

	nextPid int
}

// MockSignal records a signal delivered to a MockProcess.
type MockSignal struct {
	Pid    int
	Name   string
	Signal os.Signal
}

// MockProcess is a fake child process.
type MockProcess struct {
	starter *MockStarter
	pid     int
	Spec    StartSpec
	exited  chan struct{}
	once    sync.Once

	// SignalErr is returned from Signal if set.
	SignalErr error
}

// NewMockStarter creates a new MockStarter.
func NewMockStarter() *MockStarter {
	return &MockStarter{
		StartErr: make(map[string]error),
		nextPid:  1000,
	}
}

func (m *MockStarter) Start(spec StartSpec) (Process, error) {
	m.mu.Lock()
	if err, ok := m.StartErr[spec.Name]; ok {
		m.mu.Unlock()
		return nil, err
	}
	m.nextPid++
	p := &MockProcess{
		starter: m,
		pid:     m.nextPid,
		Spec:    spec,
		exited:  make(chan struct{}),
	}
	m.Started = append(m.Started, p)
	onStart := m.OnStart
	m.mu.Unlock()

	if spec.Output != nil {
		_, _ = spec.Output.Write([]byte("started " + spec.Name + "\n"))
	}
	if onStart != nil {
		onStart(p)
	}
	return p, nil
}

// SignalsFor returns the signals delivered to the process started as name.
func (m *MockStarter) SignalsFor(name string) []os.Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sigs []os.Signal
	for _, s := range m.Signals {
		if s.Name == name {
			sigs = append(sigs, s.Signal)
		}
	}
	return sigs
}

// SignalOrder returns the command names in the order they were signalled.
func (m *MockStarter) SignalOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.Signals))
	for _, s := range m.Signals {
		names = append(names, s.Name)
	}
	return names
}

// StartedNames returns the command names in start order.
func (m *MockStarter) StartedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.Started))
	for _, p := range m.Started {
		names = append(names, p.Spec.Name)
	}
	return names
}

func (p *MockProcess) Pid() int { return p.pid }

func (p *MockProcess) Signal(sig os.Signal) error {
	p.starter.mu.Lock()
	p.starter.Signals = append(p.starter.Signals, MockSignal{Pid: p.pid, Name: p.Spec.Name, Signal: sig})
	p.starter.mu.Unlock()
	if p.SignalErr != nil {
		return p.SignalErr
	}
	p.Exit()
	return nil
}

// Wait blocks until Exit is called.
func (p *MockProcess) Wait() error {
	<-p.exited
	return nil
}

// Exit marks the process as exited.
func (p *MockProcess) Exit() {
	p.once.Do(func() { close(p.exited) })
}
