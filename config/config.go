// Package config loads the reports root and capture settings from an optional
// YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultReportsRoot is used when neither a config file nor a flag sets one.
const DefaultReportsRoot = "crash-reports"

// EnvReportsRoot overrides the reports root from the environment.
const EnvReportsRoot = "FAULTDUMP_REPORTS_ROOT"

// Config is the process-wide crash reporting configuration. It is read once
// at startup and not modified afterwards.
type Config struct {
	// Directory receiving crash reports and minidumps
	ReportsRoot string `yaml:"reports_root"`
	// Whether minidumps are captured where the platform supports it
	Minidump bool `yaml:"minidump"`
	// Extra DbgHelp MINIDUMP_TYPE bits added to the default set
	ExtraDumpFlags uint32 `yaml:"extra_dump_flags,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ReportsRoot: DefaultReportsRoot,
		Minidump:    true,
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Relative roots are resolved against the config file location
	if cfg.ReportsRoot != "" && !filepath.IsAbs(cfg.ReportsRoot) {
		cfg.ReportsRoot = filepath.Join(filepath.Dir(path), cfg.ReportsRoot)
	}

	return cfg, cfg.Validate()
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.ReportsRoot == "" {
		return errors.New("reports_root must not be empty")
	}
	return nil
}
