package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Only settings awkward to express as env vars live here.
type YAMLConfig struct {
	Models ModelConfig `yaml:"models"`
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	path := getEnv("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	return ParseYAMLConfig(data)
}

// ParseYAMLConfig decodes a YAML config document.
func ParseYAMLConfig(data []byte) (*YAMLConfig, error) {
	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// apply copies non-empty model names onto cfg.
func (y *YAMLConfig) apply(cfg *Config) {
	if y == nil {
		return
	}
	if y.Models.Sentiment != "" {
		cfg.Models.Sentiment = y.Models.Sentiment
	}
	if y.Models.Summarization != "" {
		cfg.Models.Summarization = y.Models.Summarization
	}
	if y.Models.ZeroShot != "" {
		cfg.Models.ZeroShot = y.Models.ZeroShot
	}
}
