package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service. It is read once at
// startup and never mutated afterwards.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" toml:"server"`
	Log     LogConfig     `json:"log" yaml:"log" toml:"log"`
	Task    TaskConfig    `json:"task" yaml:"task" toml:"task"`
	Backend BackendConfig `json:"backend" yaml:"backend" toml:"backend"`
}

// ServerConfig configures the HTTP host transport.
type ServerConfig struct {
	Addr           string     `json:"addr" yaml:"addr" toml:"addr" validate:"required"`
	MaxBodyBytes   int64      `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes" validate:"gte=0"`
	RequestTimeout int64      `json:"request_timeout_seconds" yaml:"request_timeout_seconds" toml:"request_timeout_seconds" validate:"gte=0"`
	CORS           CORSConfig `json:"cors" yaml:"cors" toml:"cors"`
}

// CORSConfig is opt-in; nothing is added to the router when disabled.
type CORSConfig struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level      string `json:"level" yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error off"`
	Format     string `json:"format" yaml:"format" toml:"format" validate:"omitempty,oneof=console json"`
	File       string `json:"file" yaml:"file" toml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups" toml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days" toml:"max_age_days" validate:"gte=0"`
	Compress   bool   `json:"compress" yaml:"compress" toml:"compress"`
}

// Default returns a Config populated with package defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 32 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Task:    DefaultTask(),
		Backend: BackendConfig{Kind: BackendBridge},
	}
}

// Load reads a configuration file based on its extension, on top of Default().
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
