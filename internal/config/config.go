package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Generator struct {
		Port string `yaml:"port"`
	} `yaml:"generator"`
	Labeler struct {
		Port string `yaml:"port"`
	} `yaml:"labeler"`
	Storage struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`
}

// LoadConfig reads configuration from the specified YAML file.
// Environment variables GENERATOR_PORT, LABELER_PORT and IMAGELAB_DATA_DIR
// override the file values.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	applyEnvOverrides(config)
	applyDefaults(config)

	return config, nil
}

// TrainingRunsDir is where the generator stores prepared runs.
func (c *Config) TrainingRunsDir() string {
	return filepath.Join(c.Storage.DataDir, "training_runs")
}

// GeneratedDir is where the generator stores synthesized images.
func (c *Config) GeneratedDir() string {
	return filepath.Join(c.Storage.DataDir, "generated")
}

// LabelsDir is where the labeler stores auto and manual label files.
func (c *Config) LabelsDir() string {
	return filepath.Join(c.Storage.DataDir, "labels")
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("GENERATOR_PORT"); v != "" {
		config.Generator.Port = v
	}
	if v := os.Getenv("LABELER_PORT"); v != "" {
		config.Labeler.Port = v
	}
	if v := os.Getenv("IMAGELAB_DATA_DIR"); v != "" {
		config.Storage.DataDir = v
	}
}

func applyDefaults(config *Config) {
	if config.Generator.Port == "" {
		config.Generator.Port = "8000"
	}
	if config.Labeler.Port == "" {
		config.Labeler.Port = "8001"
	}
	if config.Storage.DataDir == "" {
		config.Storage.DataDir = "data"
	}
}
