package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Configuration errors.
var (
	ErrNoDataRoots = errors.New("no data roots configured")
	ErrMixSize     = errors.New("mix size must be between 1 and 4096")
)

// Validate checks settings the importer cannot run without.
func (c *Config) Validate() error {
	if len(c.Data.Roots) == 0 {
		return ErrNoDataRoots
	}
	if c.Import.MixTextures && (c.Import.MixSize == 0 || c.Import.MixSize > 4096) {
		return fmt.Errorf("%w: %d", ErrMixSize, c.Import.MixSize)
	}
	return nil
}

// ShaderSources reads the configured shader files. An unset path yields an empty source,
// which the importer replaces with its built-in shader.
func (c ImportConfig) ShaderSources() (vertex, fragment string, err error) {
	read := func(path string) (string, error) {
		if path == "" {
			return "", nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading shader: %w", err)
		}
		return string(data), nil
	}
	if vertex, err = read(c.VertexShader); err != nil {
		return "", "", err
	}
	if fragment, err = read(c.FragmentShader); err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "NMSImport")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "NMSImport")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "nmsimport")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "nmsimport")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
