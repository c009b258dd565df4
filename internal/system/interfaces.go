// Package system provides abstractions for OS operations to enable testing.
package system

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// FileSystem abstracts file system operations for testability.
type FileSystem interface {
	// ReadFile reads the named file and returns the contents.
	ReadFile(path string) ([]byte, error)

	// Exists returns true if the path exists.
	Exists(path string) bool

	// Create truncates or creates the named file for writing, creating
	// parent directories as needed.
	Create(path string) (io.WriteCloser, error)
}

// CommandExecutor abstracts command execution for testability.
type CommandExecutor interface {
	// Execute runs a command in dir and returns its combined output.
	// An empty dir runs in the current working directory.
	Execute(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// StartSpec describes a long-running child process.
type StartSpec struct {
	Name string
	Args []string
	Dir  string
	// Output receives both stdout and stderr. Nil discards them.
	Output io.Writer
}

// Process is a started child process.
type Process interface {
	Pid() int
	Signal(sig os.Signal) error
	// Wait blocks until the process exits.
	Wait() error
}

// ProcessStarter abstracts launching long-running child processes.
type ProcessStarter interface {
	Start(spec StartSpec) (Process, error)
}

// Default instances using real OS operations.
var (
	defaultFS       FileSystem      = &osFileSystem{}
	defaultExecutor CommandExecutor = &osExecutor{}
	defaultStarter  ProcessStarter  = &osStarter{}
)

// DefaultFS returns the default FileSystem implementation using real OS operations.
func DefaultFS() FileSystem {
	return defaultFS
}

// DefaultExecutor returns the default CommandExecutor implementation.
func DefaultExecutor() CommandExecutor {
	return defaultExecutor
}

// DefaultStarter returns the default ProcessStarter implementation.
func DefaultStarter() ProcessStarter {
	return defaultStarter
}

// SetDefaultFS sets the default FileSystem (useful for testing).
func SetDefaultFS(fs FileSystem) {
	defaultFS = fs
}

// SetDefaultExecutor sets the default CommandExecutor (useful for testing).
func SetDefaultExecutor(exec CommandExecutor) {
	defaultExecutor = exec
}

// SetDefaultStarter sets the default ProcessStarter (useful for testing).
func SetDefaultStarter(s ProcessStarter) {
	defaultStarter = s
}

// ResetDefaults restores the default OS implementations.
func ResetDefaults() {
	defaultFS = &osFileSystem{}
	defaultExecutor = &osExecutor{}
	defaultStarter = &osStarter{}
}

// osFileSystem implements FileSystem using real OS operations.
type osFileSystem struct{}

func (f *osFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *osFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (f *osFileSystem) Create(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}
