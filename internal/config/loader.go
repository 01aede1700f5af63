package config

import (
	_ "embed"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".solvecheck"

// File is the structure of the .solvecheck configuration file.
type File struct {
	// DisabledSubjects lists subjects whose plugins are never run.
	DisabledSubjects []string `yaml:"disabledSubjects,omitempty"`

	// BatchSize overrides the default concurrency.
	BatchSize int `yaml:"batchSize,omitempty"`

	// DBDir overrides the result database directory.
	DBDir string `yaml:"dbDir,omitempty"`

	// SaveResults stores every run in the database.
	SaveResults bool `yaml:"saveResults,omitempty"`
}

// Template is the commented configuration written by "solvecheck init".
//
//go:embed template.yaml
var Template []byte

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was given explicitly.
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
// 2. Look for .solvecheck in the current directory
// 3. Look for .solvecheck in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
