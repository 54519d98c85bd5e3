package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names an environment variable holding a config file path. It is
// consulted after --config and before the standard locations.
const EnvConfig = "GLDEMOS_CONFIG"

// Load builds the effective configuration: defaults, then the config file,
// then CLI flags. The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := ConfigPath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	} else if path := findConfigFile(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first config file that exists among
// $GLDEMOS_CONFIG, ./config.yaml and the user config directory.
func findConfigFile() string {
	var candidates []string
	if env := os.Getenv(EnvConfig); env != "" {
		candidates = append(candidates, env)
	}
	candidates = append(candidates, "config.yaml", DefaultPath())

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "GLDemos")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "GLDemos")
		}
		return filepath.Join(home, "AppData", "Roaming", "GLDemos")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gldemos")
	}
	return filepath.Join(home, ".config", "gldemos")
}

// DefaultPath is the config file inside ConfigDir.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// loadFromFile merges a YAML file over cfg. Unknown keys are rejected so a
// misspelt setting does not silently keep its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
