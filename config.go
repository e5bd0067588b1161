package dualog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Config holds the construction options of a Logger.
// Empty Level and Mode select DEBUG and CONSOLE.
type Config struct {
	Level string `yaml:"level" toml:"level" mapstructure:"level"`
	Mode  string `yaml:"mode" toml:"mode" mapstructure:"mode"`
	File  string `yaml:"file" toml:"file" mapstructure:"file"`
}

// Resolve validates the configuration and returns the parsed threshold and
// mode. Every problem found is reported in the returned error.
func (c Config) Resolve() (Severity, Mode, error) {
	var merr *multierror.Error

	level, err := ParseSeverity(c.Level)
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	mode, err := ParseMode(c.Mode)
	if err != nil {
		merr = multierror.Append(merr, err)
	}
	if mode.File() && strings.TrimSpace(c.File) == "" {
		merr = multierror.Append(merr, fmt.Errorf("%w: mode %s", ErrMissingFile, mode))
	}

	if err := merr.ErrorOrNil(); err != nil {
		return 0, 0, err
	}
	return level, mode, nil
}

// LoadConfig reads a configuration file. The decoder is chosen from the
// extension: .yaml and .yml use YAML, .toml uses TOML.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return DecodeConfig(data, filepath.Ext(path))
}

// DecodeConfig decodes data in the given format ("yaml", "yml" or "toml",
// with or without a leading dot).
func DecodeConfig(data []byte, format string) (Config, error) {
	var c Config
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("yaml parse error: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("toml parse error: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrConfigFormat, format)
	}
	return c, nil
}
