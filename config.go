package lnhistory

import (
	"fmt"
	"os"
	"time"

	"github.com/ln-history/lnhistory/internal/envexpr"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the client configuration. The
// zero value is useful; all nested fields inherit their package defaults.
type Config struct {
	Requester RequesterConfig `json:"requester" yaml:"requester"`
	Ingest    IngestConfig    `json:"ingest" yaml:"ingest"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
}

// RequesterConfig configures the ln-history API client.
type RequesterConfig struct {
	BaseURL string `json:"baseURL" yaml:"baseURL"`
	// APIKey may reference the environment, e.g. "${env.LNHISTORY_API_KEY}".
	APIKey string `json:"apiKey" yaml:"apiKey"`
	// SecretURL/SecretKey load the API key through viant/scy instead.
	SecretURL string `json:"secretURL" yaml:"secretURL"`
	SecretKey string `json:"secretKey" yaml:"secretKey"`
	Timeout   string `json:"timeout" yaml:"timeout"`
}

// IngestConfig configures the event pipeline.
type IngestConfig struct {
	Workers int `json:"workers" yaml:"workers"`
	// SpoolPath switches the event queue to the durable filesystem spool.
	SpoolPath string `json:"spoolPath" yaml:"spoolPath"`
}

// CacheConfig selects the duplicate-detection backend.
type CacheConfig struct {
	// Backend is "memory" (default) or "sqlite".
	Backend string `json:"backend" yaml:"backend"`
	// Path is the sqlite database location.
	Path string `json:"path" yaml:"path"`
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	// BasePath switches record storage to the filesystem store; empty keeps
	// records in memory.
	BasePath string `json:"basePath" yaml:"basePath"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Requester: RequesterConfig{BaseURL: ""},
		Ingest:    IngestConfig{Workers: 5},
		Cache:     CacheConfig{Backend: "memory"},
	}
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Ingest.Workers < 0 {
		return fmt.Errorf("ingest.workers cannot be negative: %d", c.Ingest.Workers)
	}
	switch c.Cache.Backend {
	case "", "memory":
	case "sqlite":
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Requester.Timeout != "" {
		if _, err := time.ParseDuration(c.Requester.Timeout); err != nil {
			return fmt.Errorf("invalid requester.timeout: %w", err)
		}
	}
	return nil
}

// LoadConfig reads a YAML config file, expanding ${env.KEY} expressions in
// its values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(envexpr.Expand(string(data))), config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
