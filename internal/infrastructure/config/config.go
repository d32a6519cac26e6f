// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for rolodex configuration.
	DefaultConfigDir = ".rolodex"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default SQLite database file name.
	DefaultDatabaseFile = "people.db"
)

// Storage backend names accepted in the config file.
const (
	BackendSQLite = "sqlite"
	BackendQdrant = "qdrant"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Storage StorageConfig `yaml:"storage,omitempty"`
	SQLite  SQLiteConfig  `yaml:"sqlite,omitempty"`
	Qdrant  QdrantConfig  `yaml:"qdrant,omitempty"`
	LLM     LLMConfig     `yaml:"llm,omitempty"`
}

// StorageConfig selects the physical backend. The repository contract is
// identical regardless of which one is active.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite backend.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database.
	Path string `yaml:"path,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant document backend.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// LLMConfig holds configuration for the summary LLM provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: BackendSQLite,
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "rolodex_persons",
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
	}
}

// Load loads configuration from the .rolodex directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'rolodex init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.SQLite.Path == "" {
		cfg.SQLite.Path = SQLitePath(basePath)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" && c.Qdrant.APIKey == "" {
		c.Qdrant.APIKey = key
	}
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendQdrant:
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q (expected %q or %q)",
			c.Storage.Backend, BackendSQLite, BackendQdrant)
	}
}

// ConfigFilePath returns the path to the config file under basePath.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// SQLitePath returns the default SQLite database path under basePath.
func SQLitePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}
