// Package config loads the configuration of applications that mount SLayer
// stacks. Values come from a YAML file, then SLAYER_ environment variables
// (optionally seeded from a .env file), then defaults for anything unset.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "SLAYER_"

// Config holds the complete application configuration.
type Config struct {
	Servers   ServersConfig   `koanf:"servers"`
	Pipeline  PipelineConfig  `koanf:"pipeline"`
	Auth      AuthConfig      `koanf:"auth"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Log       LogConfig       `koanf:"log"`
}

// ServersConfig holds the listen address of each backend. An empty address
// disables that backend.
type ServersConfig struct {
	NetHTTP    string `koanf:"nethttp"`
	HTTPRouter string `koanf:"httprouter"`
	FastHTTP   string `koanf:"fasthttp"`
	Gin        string `koanf:"gin"`
}

// PipelineConfig configures the standard layer stack.
type PipelineConfig struct {
	Timeout          time.Duration `koanf:"timeout"`
	EnableTraceID    bool          `koanf:"enable_trace_id"`
	EnableTracing    bool          `koanf:"enable_tracing"`
	EnableMetrics    bool          `koanf:"enable_metrics"`
	MetricsNamespace string        `koanf:"metrics_namespace"`
	TrustProxy       bool          `koanf:"trust_proxy"`
}

// AuthConfig configures header token authentication.
type AuthConfig struct {
	Header string   `koanf:"header"`
	Tokens []string `koanf:"tokens"`
}

// TelemetryConfig configures the OpenTelemetry exporter.
type TelemetryConfig struct {
	ServiceName  string `koanf:"service_name"`
	OTLPEndpoint string `koanf:"otlp_endpoint"` // empty selects the stdout exporter
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

var defaults = map[string]any{
	"servers.nethttp":            ":8080",
	"servers.httprouter":         ":8081",
	"servers.fasthttp":           ":8082",
	"servers.gin":                ":8083",
	"pipeline.timeout":           "30s",
	"pipeline.enable_trace_id":   true,
	"pipeline.metrics_namespace": "slayer",
	"auth.header":                "X-API-Key",
	"telemetry.service_name":     "slayer",
	"log.level":                  "info",
}

// Load reads the configuration. A missing file at path is not an error; an
// empty path skips the file. A missing .env file is ignored as well.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	// Environment variables override the file: SLAYER_PIPELINE__TIMEOUT -> pipeline.timeout
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			if err := k.Set(key, value); err != nil {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	// Tokens from the environment arrive as one comma separated string.
	var tokens []string
	for _, tok := range cfg.Auth.Tokens {
		tokens = append(tokens, splitList(tok)...)
	}
	cfg.Auth.Tokens = tokens

	return &cfg, cfg.Validate()
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Pipeline.Timeout < 0 {
		return errors.New("pipeline.timeout must not be negative")
	}
	if len(c.Auth.Tokens) > 0 && c.Auth.Header == "" {
		return errors.New("auth.header is required when auth.tokens is set")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// NewLogger builds the zap logger described by c.
func (c LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
