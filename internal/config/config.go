// Package config loads the project configuration from tenantsql.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFilename is the name of the project config file.
const ConfigFilename = "tenantsql.yaml"

// Config holds the complete project configuration.
type Config struct {
	// ConfigDir is the directory containing tenantsql.yaml (the project
	// root). Relative paths below resolve against it.
	ConfigDir string `yaml:"-"`

	// ModelsDir holds the model definition files. Default "models".
	ModelsDir string `yaml:"models_dir"`

	// OutDir receives generated queries, migrations, and wrappers.
	// Default "gen".
	OutDir string `yaml:"out_dir"`

	// WrapperPackage is the package name of the emitted Go wrappers.
	// Default "dbqueries".
	WrapperPackage string `yaml:"wrapper_package"`

	// Formatter is an optional external SQL formatter command; each
	// generated .sql file's path is appended as the final argument.
	Formatter []string `yaml:"formatter"`

	// DevLogging switches on pretty-printed logs.
	DevLogging bool `yaml:"dev_logging"`
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.ConfigDir = filepath.Dir(path)
	if cfg.ModelsDir == "" {
		cfg.ModelsDir = "models"
	}
	if cfg.OutDir == "" {
		cfg.OutDir = "gen"
	}
	if cfg.WrapperPackage == "" {
		cfg.WrapperPackage = "dbqueries"
	}
	return cfg, nil
}

// Find walks up from dir looking for tenantsql.yaml and loads the first one
// it finds.
func Find(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(abs, ConfigFilename)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, fmt.Errorf("no %s found in %s or any parent directory", ConfigFilename, dir)
		}
		abs = parent
	}
}

// ModelsPath returns the absolute models directory.
func (c *Config) ModelsPath() string {
	return c.resolve(c.ModelsDir)
}

// OutPath returns the absolute output directory.
func (c *Config) OutPath() string {
	return c.resolve(c.OutDir)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.ConfigDir, p)
}
