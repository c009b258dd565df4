package cmd

import (
	"github.com/firefly-engineering/firefly-launch/internal/app"
	"github.com/firefly-engineering/firefly-launch/internal/config"
	"github.com/firefly-engineering/firefly-launch/internal/errors"
)

// loadConfig builds the launch plan from the persistent flags.
// Any failure is a configuration error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Preset:      presetName,
		File:        configFile,
		ProjectRoot: projectRoot,
	})
	if err != nil {
		return nil, errors.ConfigError("invalid launch configuration", err)
	}
	return cfg, nil
}

// loadProjectConfig loads the plan and checks it is run from a project root.
func loadProjectConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := app.Default.CheckRootManifest(cfg); err != nil {
		return nil, errors.ConfigError("not a project root", err)
	}
	return cfg, nil
}

// findService returns the backend or frontend named name.
func findService(cfg *config.Config, name string) (config.ServiceConfig, bool) {
	for _, svc := range []config.ServiceConfig{cfg.Backend, cfg.Frontend} {
		if svc.Name == name {
			return svc, true
		}
	}
	return config.ServiceConfig{}, false
}
