package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr                 string   `json:"addr" yaml:"addr" toml:"addr"`
	SubmitURL            string   `json:"submit_url" yaml:"submit_url" toml:"submit_url"`
	LogLevel             string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxUploadMB          int      `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	SubmitTimeoutSeconds int      `json:"submit_timeout_seconds" yaml:"submit_timeout_seconds" toml:"submit_timeout_seconds"`
	MergeWorkers         int      `json:"merge_workers" yaml:"merge_workers" toml:"merge_workers"`
	CORSEnabled          bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins          []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

const (
	DefaultAddr          = ":8080"
	DefaultLogLevel      = "info"
	DefaultMaxUploadMB   = 64
	DefaultSubmitTimeout = 2 * time.Minute
)

// Environment variables consulted by WithDefaults when the file leaves a field empty.
const (
	EnvAddr      = "REVIEWD_ADDR"
	EnvSubmitURL = "REVIEWD_SUBMIT_URL"
)

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, errors.New("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, errors.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, errors.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// WithDefaults fills unspecified fields from the environment and package defaults.
func (c Config) WithDefaults() Config {
	if c.Addr == "" {
		c.Addr = os.Getenv(EnvAddr)
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.SubmitURL == "" {
		c.SubmitURL = os.Getenv(EnvSubmitURL)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = DefaultMaxUploadMB
	}
	if c.SubmitTimeoutSeconds <= 0 {
		c.SubmitTimeoutSeconds = int(DefaultSubmitTimeout / time.Second)
	}
	return c
}

// SubmitTimeout returns the configured submission timeout.
func (c Config) SubmitTimeout() time.Duration {
	return time.Duration(c.SubmitTimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
