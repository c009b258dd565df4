package config

import (
	"fmt"
	"net/url"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	shellquote "github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/firefly-launch/internal/readiness"
)

const (
	DefaultStateDir = ".launch"
	LogsDirName     = "logs"
	EventsFileName  = "events.jsonl"
)

// Config is a complete launch plan.
type Config struct {
	ProjectRoot string `toml:"project_root"`
	StateDir    string `toml:"state_dir"`
	// RootManifest must exist in ProjectRoot when set, e.g. "package.json".
	RootManifest string `toml:"root_manifest,omitempty"`

	Readiness     ReadinessConfig `toml:"readiness"`
	Install       []InstallStep   `toml:"install"`
	Prerequisites []Prerequisite  `toml:"prerequisite"`
	Backend       ServiceConfig   `toml:"backend"`
	Frontend      ServiceConfig   `toml:"frontend"`
	Verify        VerifyConfig    `toml:"verify"`
	Links         []Link          `toml:"link"`
	Notes         []string        `toml:"notes"`

	// Preset is the built-in plan this config started from.
	Preset string `toml:"-"`
}

// ReadinessConfig holds polling settings shared by every wait.
type ReadinessConfig struct {
	Interval     Duration `toml:"interval"`
	ProbeTimeout Duration `toml:"probe_timeout"`
}

// InstallStep is one dependency installation command.
type InstallStep struct {
	Name    string `toml:"name"`
	Command string `toml:"command"`
	Dir     string `toml:"dir,omitempty"`
	// Manifest is reported when missing, relative to Dir.
	Manifest string `toml:"manifest,omitempty"`
	// Requires is a command that must succeed before the step runs,
	// e.g. "python --version".
	Requires string `toml:"requires,omitempty"`
	// RequiresTarget must answer a readiness probe before the step runs,
	// e.g. "localhost:5432".
	RequiresTarget string `toml:"requires_target,omitempty"`
	// Optional steps only warn on failure.
	Optional bool `toml:"optional,omitempty"`
}

// Prerequisite is an informational TCP or HTTP check run before the backend
// starts.
type Prerequisite struct {
	Name   string `toml:"name"`
	Target string `toml:"target"`
}

// ServiceConfig describes a managed process and its readiness target.
type ServiceConfig struct {
	Name    string   `toml:"name"`
	Command string   `toml:"command"`
	Dir     string   `toml:"dir,omitempty"`
	Target  string   `toml:"target"`
	Timeout Duration `toml:"timeout"`
}

// VerifyConfig lists auxiliary endpoints probed once after startup.
type VerifyConfig struct {
	Endpoints []string `toml:"endpoints"`
}

// Link is a labelled URL shown in the completion summary.
type Link struct {
	Label string `toml:"label"`
	URL   string `toml:"url"`
}

// Argv splits the command into program and arguments.
func (s ServiceConfig) Argv() ([]string, error) {
	return splitCommand(s.Command)
}

// Argv splits the install command into program and arguments.
func (s InstallStep) Argv() ([]string, error) {
	return splitCommand(s.Command)
}

// RequiresArgv splits the prerequisite command, or returns nil when unset.
func (s InstallStep) RequiresArgv() ([]string, error) {
	if s.Requires == "" {
		return nil, nil
	}
	return splitCommand(s.Requires)
}

func splitCommand(command string) ([]string, error) {
	argv, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("command is required")
	}
	return argv, nil
}

// ReadinessCheck returns the wait parameters for the service.
func (c *Config) ReadinessCheck(s ServiceConfig) readiness.Check {
	return readiness.Check{
		Target:       s.Target,
		Timeout:      s.Timeout.Std(),
		Interval:     c.Readiness.Interval.Std(),
		ProbeTimeout: c.Readiness.ProbeTimeout.Std(),
	}
}

// ResolveDir returns dir resolved inside the project root. Paths that
// would escape the root, including through symlinks, are clamped to it.
func (c *Config) ResolveDir(dir string) (string, error) {
	if dir == "" || dir == "." {
		return c.ProjectRoot, nil
	}
	if filepath.IsAbs(dir) {
		return "", fmt.Errorf("directory %q must be relative to the project root", dir)
	}
	resolved, err := securejoin.SecureJoin(c.ProjectRoot, dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", dir, err)
	}
	return resolved, nil
}

// LogsDir is where managed process output is captured.
func (c *Config) LogsDir() string {
	return filepath.Join(c.StateDir, LogsDirName)
}

// EventsPath is the lifecycle event log.
func (c *Config) EventsPath() string {
	return filepath.Join(c.StateDir, EventsFileName)
}

// Validate checks that the Config is complete and consistent.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project_root is required")
	}
	if c.Readiness.Interval <= 0 {
		return fmt.Errorf("readiness.interval must be positive (got %s)", c.Readiness.Interval)
	}
	if c.Readiness.ProbeTimeout <= 0 {
		return fmt.Errorf("readiness.probe_timeout must be positive (got %s)", c.Readiness.ProbeTimeout)
	}

	for i, step := range c.Install {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("install[%d]: %w", i, err)
		}
	}
	for i, p := range c.Prerequisites {
		if p.Name == "" {
			return fmt.Errorf("prerequisite[%d]: name is required", i)
		}
		if _, err := readiness.ParseTarget(p.Target, 0); err != nil {
			return fmt.Errorf("prerequisite %s: %w", p.Name, err)
		}
	}

	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := c.Frontend.Validate(); err != nil {
		return fmt.Errorf("frontend: %w", err)
	}
	if c.Backend.Name == c.Frontend.Name {
		return fmt.Errorf("backend and frontend must have different names (both %q)", c.Backend.Name)
	}

	for _, endpoint := range c.Verify.Endpoints {
		if err := validateHTTPURL(endpoint); err != nil {
			return fmt.Errorf("verify: %w", err)
		}
	}
	for _, link := range c.Links {
		if link.Label == "" || link.URL == "" {
			return fmt.Errorf("link requires both label and url")
		}
	}

	return nil
}

// Validate checks that the InstallStep is valid.
func (s *InstallStep) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.Argv(); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	if _, err := s.RequiresArgv(); err != nil {
		return fmt.Errorf("%s requires: %w", s.Name, err)
	}
	if s.RequiresTarget != "" {
		if _, err := readiness.ParseTarget(s.RequiresTarget, 0); err != nil {
			return fmt.Errorf("%s requires_target: %w", s.Name, err)
		}
	}
	return nil
}

// Validate checks that the ServiceConfig is valid.
func (s *ServiceConfig) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.Argv(); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	if _, err := readiness.ParseTarget(s.Target, 0); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%s: timeout must be positive (got %s)", s.Name, s.Timeout)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be an http or https URL", raw)
	}
	return nil
}
