package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/firefly-engineering/firefly-launch/internal/logging"
)

// LoadOptions selects where a launch plan comes from.
type LoadOptions struct {
	// Preset is the built-in plan to start from. Empty uses the file's
	// preset key, then DefaultPreset.
	Preset string
	// File is an optional TOML launch file layered over the preset.
	File string
	// ProjectRoot overrides every other source when set.
	ProjectRoot string
	// Environ replaces the process environment for overrides (tests).
	Environ map[string]string
}

// EnvOverrides are environment variables applied after the launch file.
type EnvOverrides struct {
	ProjectRoot     string   `env:"LAUNCH_PROJECT_ROOT"`
	StateDir        string   `env:"LAUNCH_STATE_DIR"`
	BackendTarget   string   `env:"LAUNCH_BACKEND_TARGET"`
	FrontendTarget  string   `env:"LAUNCH_FRONTEND_TARGET"`
	BackendTimeout  Duration `env:"LAUNCH_BACKEND_TIMEOUT"`
	FrontendTimeout Duration `env:"LAUNCH_FRONTEND_TIMEOUT"`
	PollInterval    Duration `env:"LAUNCH_POLL_INTERVAL"`
	ProbeTimeout    Duration `env:"LAUNCH_PROBE_TIMEOUT"`
}

// fileHeader is decoded first to pick the base preset.
type fileHeader struct {
	Preset string `toml:"preset"`
}

// Load builds, resolves and validates a launch plan.
func Load(opts LoadOptions) (*Config, error) {
	presetName := opts.Preset

	if opts.File != "" && presetName == "" {
		var head fileHeader
		if _, err := toml.DecodeFile(opts.File, &head); err != nil {
			return nil, fmt.Errorf("failed to parse launch file: %w", err)
		}
		presetName = head.Preset
	}
	if presetName == "" {
		presetName = DefaultPreset
	}

	cfg, err := Preset(presetName)
	if err != nil {
		return nil, err
	}

	if opts.File != "" {
		if err := cfg.decodeFile(opts.File); err != nil {
			return nil, err
		}
	}

	overrides, err := ParseEnvOverrides(opts.Environ)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(overrides)

	if opts.ProjectRoot != "" {
		cfg.ProjectRoot = opts.ProjectRoot
	}

	if err := cfg.Resolve(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid launch plan: %w", err)
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	var raw map[string]any
	defined, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("failed to parse launch file: %w", err)
	}

	// toml decodes arrays into existing elements, so a file's arrays
	// would inherit fields from the preset's entries.
	if defined.IsDefined("install") {
		c.Install = nil
	}
	if defined.IsDefined("prerequisite") {
		c.Prerequisites = nil
	}
	if defined.IsDefined("link") {
		c.Links = nil
	}
	if defined.IsDefined("notes") {
		c.Notes = nil
	}
	if defined.IsDefined("verify", "endpoints") {
		c.Verify.Endpoints = nil
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("failed to parse launch file: %w", err)
	}
	for _, key := range md.Undecoded() {
		if key.String() == "preset" {
			continue
		}
		logging.Warn("unknown key in launch file", "file", path, "key", key.String())
	}

	// A relative project root in a file is relative to the file itself.
	if c.ProjectRoot != "" && !filepath.IsAbs(c.ProjectRoot) && md.IsDefined("project_root") {
		c.ProjectRoot = filepath.Join(filepath.Dir(path), c.ProjectRoot)
	}
	return nil
}

// ParseEnvOverrides reads LAUNCH_* variables. A nil environ reads the
// process environment.
func ParseEnvOverrides(environ map[string]string) (EnvOverrides, error) {
	var o EnvOverrides
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return EnvOverrides{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// ApplyEnv layers non-empty overrides onto the config.
func (c *Config) ApplyEnv(o EnvOverrides) {
	if o.ProjectRoot != "" {
		c.ProjectRoot = o.ProjectRoot
	}
	if o.StateDir != "" {
		c.StateDir = o.StateDir
	}
	if o.BackendTarget != "" {
		c.Backend.Target = o.BackendTarget
	}
	if o.FrontendTarget != "" {
		c.Frontend.Target = o.FrontendTarget
	}
	if o.BackendTimeout > 0 {
		c.Backend.Timeout = o.BackendTimeout
	}
	if o.FrontendTimeout > 0 {
		c.Frontend.Timeout = o.FrontendTimeout
	}
	if o.PollInterval > 0 {
		c.Readiness.Interval = o.PollInterval
	}
	if o.ProbeTimeout > 0 {
		c.Readiness.ProbeTimeout = o.ProbeTimeout
	}
}

// Resolve makes ProjectRoot absolute and places a relative StateDir
// inside it.
func (c *Config) Resolve() error {
	if c.ProjectRoot == "" {
		c.ProjectRoot = "."
	}
	root, err := filepath.Abs(c.ProjectRoot)
	if err != nil {
		return fmt.Errorf("invalid project root: %w", err)
	}
	c.ProjectRoot = root

	if c.StateDir == "" {
		c.StateDir = DefaultStateDir
	}
	if !filepath.IsAbs(c.StateDir) {
		stateDir, err := c.ResolveDir(c.StateDir)
		if err != nil {
			return fmt.Errorf("invalid state dir: %w", err)
		}
		c.StateDir = stateDir
	}
	return nil
}

// Encode writes the config as TOML.
func (c *Config) Encode() (string, error) {
	var b strings.Builder
	if c.Preset != "" {
		fmt.Fprintf(&b, "preset = %q\n", c.Preset)
	}
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return "", fmt.Errorf("failed to encode launch plan: %w", err)
	}
	return b.String(), nil
}

// CheckRootManifest reports a missing root manifest.
func (c *Config) CheckRootManifest(exists func(path string) bool) error {
	if c.RootManifest == "" {
		return nil
	}
	if exists == nil {
		exists = func(p string) bool {
			_, err := os.Stat(p)
			return err == nil
		}
	}
	path := filepath.Join(c.ProjectRoot, c.RootManifest)
	if !exists(path) {
		return fmt.Errorf("%s not found in %s: run from the project root or pass --project-root", c.RootManifest, c.ProjectRoot)
	}
	return nil
}
