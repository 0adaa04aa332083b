package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the epcheck configuration file
type Config struct {
	Ignores IgnoresConfig `yaml:"ignores"`
}

// IgnoresConfig contains ignore rules for the analysis
type IgnoresConfig struct {
	Endpoints []string `yaml:"endpoints"` // "METHOD /path" entries to drop from the report
	Folders   []string `yaml:"folders"`   // Extra folders to exclude from scanning
}

// LoadConfig loads the .epcheck.config file from the specified directory
func LoadConfig(rootPath string) (*Config, error) {
	configPath := filepath.Join(rootPath, ".epcheck.config")

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No config file, return default config
		return &Config{
			Ignores: IgnoresConfig{
				Endpoints: []string{},
				Folders:   []string{},
			},
		}, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}
