package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "autobahncheck.yaml"

// Load reads and parses a configuration from the given YAML file path.
// Fields missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// LoadDefault loads ./autobahncheck.yaml when it exists and returns Default
// otherwise.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	return Load(DefaultPath)
}

// applyDefaults restores defaults for keys present in the file but left empty.
func applyDefaults(cfg *Config) {
	d := Default()
	if cfg.Format == "" {
		cfg.Format = d.Format
	}
	if cfg.Record.Timeout == "" {
		cfg.Record.Timeout = d.Record.Timeout
	}
}
