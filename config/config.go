// Package config holds the TOML-backed configuration for the assembler
// driver and processor: execution limits, trace output, and REPL display
// preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the toolchain's configuration, persisted as TOML.
type Config struct {
	Execution struct {
		MaxCycles   uint64 `toml:"max_cycles"`
		EnableTrace bool   `toml:"enable_trace"`
	} `toml:"execution"`

	Assembler struct {
		HaltOnParseError bool `toml:"halt_on_parse_error"`
	} `toml:"assembler"`

	Display struct {
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"display"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Execution.MaxCycles = 1000000
	cfg.Execution.EnableTrace = false
	cfg.Assembler.HaltOnParseError = false
	cfg.Display.NumberFormat = "hex"
	return cfg
}

// configEnvVar overrides the config file location, bypassing GetConfigPath's
// platform lookup entirely.
const configEnvVar = "ARMTOY_CONFIG"

// GetConfigPath returns the config file path. ARMTOY_CONFIG, if set, wins
// outright; otherwise the path is <os.UserConfigDir()>/arm-toy/config.toml,
// which already resolves to the right place per platform (%APPDATA% on
// Windows, ~/Library/Application Support on macOS, $XDG_CONFIG_HOME or
// ~/.config on other Unix systems).
func GetConfigPath() string {
	if p := os.Getenv(configEnvVar); p != "" {
		return p
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}

	dir := filepath.Join(base, "arm-toy")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(dir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults if the
// file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path) // #nosec G304 -- path from GetConfigPath or caller
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := toml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to path, creating parent directories as needed.
func (c *Config) SaveTo(path string) (err error) {
	if mkErr := os.MkdirAll(filepath.Dir(path), 0750); mkErr != nil {
		return fmt.Errorf("config: mkdir for %s: %w", path, mkErr)
	}

	f, err := os.Create(path) // #nosec G304 -- path from GetConfigPath or caller
	if err != nil {
		return fmt.Errorf("config: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("config: close %s: %w", path, cerr)
		}
	}()

	if encErr := toml.NewEncoder(f).Encode(c); encErr != nil {
		return fmt.Errorf("config: encode %s: %w", path, encErr)
	}

	return nil
}
