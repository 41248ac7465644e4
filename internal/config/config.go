// Package config loads YAML configuration for the kgsqlite CLI.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the store and its collaborators.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Debug     bool            `yaml:"debug"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DatabasePath     string `yaml:"database_path"`
	Dimension        int    `yaml:"dimension"`
	DocumentCategory string `yaml:"document_category"`
}

// EmbeddingConfig holds the embedding provider settings. The API key is
// read from the environment variable named by APIKeyEnv, never from the
// config file itself.
type EmbeddingConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DatabasePath:     "data/graphdb.db",
			Dimension:        1536,
			DocumentCategory: "paper",
		},
		Embedding: EmbeddingConfig{
			BaseURL:        "https://api.openai.com",
			APIKeyEnv:      "OPENAI_API_KEY",
			Model:          "text-embedding-3-small",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads the YAML file at path, applying defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path must not be empty")
	}
	if c.Storage.Dimension <= 0 {
		return fmt.Errorf("storage.dimension must be positive, got %d", c.Storage.Dimension)
	}
	if c.Embedding.TimeoutSeconds < 0 {
		return fmt.Errorf("embedding.timeout_seconds must not be negative")
	}
	return nil
}

// APIKey resolves the embedding API key from the environment.
func (c *Config) APIKey() string {
	if c.Embedding.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Embedding.APIKeyEnv)
}

// EmbeddingTimeout returns the provider timeout as a duration.
func (c *Config) EmbeddingTimeout() time.Duration {
	return time.Duration(c.Embedding.TimeoutSeconds) * time.Second
}
