package config

import (
	"fmt"
	"sort"
	"time"
)

const (
	PresetComplete = "complete"
	PresetSetup    = "setup"

	DefaultPreset = PresetComplete
)

var presets = map[string]func() *Config{
	PresetComplete: completePreset,
	PresetSetup:    setupPreset,
}

// Preset returns a fresh copy of the named built-in plan.
func Preset(name string) (*Config, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, PresetNames())
	}
	cfg := build()
	cfg.Preset = name
	return cfg, nil
}

// PresetNames lists the built-in presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func defaultReadiness() ReadinessConfig {
	return ReadinessConfig{
		Interval:     Duration(time.Second),
		ProbeTimeout: Duration(5 * time.Second),
	}
}

// completePreset installs both ecosystems and runs the Python backend.
func completePreset() *Config {
	return &Config{
		ProjectRoot: ".",
		StateDir:    DefaultStateDir,
		Readiness:   defaultReadiness(),
		Install: []InstallStep{
			{Name: "Python", Command: "pip install -r requirements.txt", Dir: "backend", Manifest: "requirements.txt"},
			{Name: "Node.js", Command: "npm install", Manifest: "package.json"},
		},
		Backend: ServiceConfig{
			Name:    "backend",
			Command: "python main.py",
			Dir:     "backend",
			Target:  "http://localhost:8000/health",
			Timeout: Duration(30 * time.Second),
		},
		Frontend: ServiceConfig{
			Name:    "frontend",
			Command: "npm run dev",
			Target:  "http://localhost:5500",
			Timeout: Duration(30 * time.Second),
		},
		Verify: VerifyConfig{
			Endpoints: []string{
				"http://localhost:8000/",
				"http://localhost:8000/health",
				"http://localhost:8000/docs",
			},
		},
		Links: []Link{
			{Label: "Backend Server", URL: "http://localhost:8000"},
			{Label: "Frontend Server", URL: "http://localhost:5500"},
			{Label: "API Documentation", URL: "http://localhost:8000/docs"},
		},
	}
}

// setupPreset runs the Node mock backend and treats Python as optional.
func setupPreset() *Config {
	return &Config{
		ProjectRoot:  ".",
		StateDir:     DefaultStateDir,
		RootManifest: "package.json",
		Readiness:    defaultReadiness(),
		Install: []InstallStep{
			{Name: "frontend", Command: "npm install", Manifest: "package.json"},
			{
				Name:     "backend",
				Command:  "pip install -r backend/requirements.txt",
				Manifest: "backend/requirements.txt",
				Requires: "python --version",
				Optional: true,
			},
			{
				Name:           "database",
				Command:        "python backend/setup_database.py",
				RequiresTarget: "localhost:5432",
				Optional:       true,
			},
		},
		Prerequisites: []Prerequisite{
			{Name: "PostgreSQL", Target: "localhost:5432"},
		},
		Backend: ServiceConfig{
			Name:    "backend",
			Command: "node mock-backend.js",
			Target:  "http://localhost:8000",
			Timeout: Duration(10 * time.Second),
		},
		Frontend: ServiceConfig{
			Name:    "frontend",
			Command: "npm run dev",
			Target:  "http://localhost:4000",
			Timeout: Duration(30 * time.Second),
		},
		Links: []Link{
			{Label: "Frontend", URL: "http://localhost:4000"},
			{Label: "Backend", URL: "http://localhost:8000"},
			{Label: "API Docs", URL: "http://localhost:8000"},
		},
	}
}
