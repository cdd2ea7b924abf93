/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/makeobj/pkg/omf"
)

// Config represents the makeobj configuration
type Config struct {
	Pack    Pack    `yaml:"pack"`
	Unpack  Unpack  `yaml:"unpack"`
	Dump    Dump    `yaml:"dump"`
	Logging Logging `yaml:"logging"`
}

// Pack contains object module encoding settings
type Pack struct {
	Mode   string `yaml:"mode"`   // default, code or far (far_data)
	Vendor string `yaml:"vendor"` // text of the comment record
}

// Unpack contains object module decoding settings
type Unpack struct {
	MaxInputSize      int  `yaml:"max_input_size"`
	ValidateChecksums bool `yaml:"validate_checksums"`
}

// Dump contains C array output settings
type Dump struct {
	ValuesPerLine int `yaml:"values_per_line"`
	Skip          int `yaml:"skip"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Pack: Pack{
			Mode:   "default",
			Vendor: "MakeOBJ v1.2",
		},
		Unpack: Unpack{
			MaxInputSize: 0x753B,
		},
		Dump: Dump{
			ValuesPerLine: 16,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that every setting holds a usable value
func (c *Config) Validate() error {
	if _, err := omf.ParseSegmentKind(c.Pack.Mode); err != nil {
		return fmt.Errorf("pack.mode: %w", err)
	}
	if len(c.Pack.Vendor) > 255 {
		return fmt.Errorf("pack.vendor is %d bytes, max 255", len(c.Pack.Vendor))
	}
	if c.Unpack.MaxInputSize <= 0 {
		return fmt.Errorf("unpack.max_input_size must be positive, got %d", c.Unpack.MaxInputSize)
	}
	if c.Dump.ValuesPerLine <= 0 {
		return fmt.Errorf("dump.values_per_line must be positive, got %d", c.Dump.ValuesPerLine)
	}
	if c.Dump.Skip < 0 {
		return fmt.Errorf("dump.skip must not be negative, got %d", c.Dump.Skip)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Settings missing
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes the default configuration to configPath
func BootstrapConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./makeobj.yaml"
	}

	return filepath.Join(homeDir, ".makeobj", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
