package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/controlbind/pkg/diag"
	"github.com/go-drift/controlbind/pkg/navigation"
)

// FileName is the config file looked up in the working directory.
const FileName = "controlbind.yaml"

// Config represents the optional controlbind.yaml configuration.
type Config struct {
	Control navigation.Options `yaml:"control"`
	Log     LogConfig          `yaml:"log"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string      `yaml:"level,omitempty"`
	Format diag.Format `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Control: navigation.DefaultOptions(),
		Log: LogConfig{
			Level:  "info",
			Format: diag.FormatAuto,
		},
	}
}

// LoadOptional reads controlbind.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads the config file at path. Keys absent from the file keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	cfg.Log.Level = strings.TrimSpace(cfg.Log.Level)

	if err := cfg.Control.Validate(); err != nil {
		return nil, fmt.Errorf("invalid control options in %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
