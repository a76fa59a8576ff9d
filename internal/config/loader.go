package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".gdorking"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the structure of the .gdorking YAML file.
// Durations are written as Go duration strings ("10s", "500ms").
type File struct {
	Origin          string        `yaml:"origin,omitempty"`
	UserAgent       string        `yaml:"user_agent,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty"`
	PageSize        int           `yaml:"page_size,omitempty"`
	MaxAttempts     int           `yaml:"max_attempts,omitempty"`
	BaseDelay       time.Duration `yaml:"base_delay,omitempty"`
	BackoffFactor   float64       `yaml:"backoff_factor,omitempty"`
	RequestInterval time.Duration `yaml:"request_interval,omitempty"`
	OutputDir       string        `yaml:"output_dir,omitempty"`
	BaseName        string        `yaml:"base_name,omitempty"`
	Formats         []string      `yaml:"formats,omitempty"`
	Proxy           string        `yaml:"proxy,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .gdorking in the current directory
// 3. Look for .gdorking in the user's home directory
//
// Returns the path if found, or an empty string.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
