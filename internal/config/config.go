// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

// Package config loads the gw2fetch configuration: struct defaults first,
// then an optional YAML file, then GW2_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/gw2api/client"
	"github.com/tomtom215/gw2api/endpoint"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"gw2fetch.yaml",
	"gw2fetch.yml",
	"/etc/gw2fetch/config.yaml",
}

// EnvPrefix is the prefix for environment overrides. Key segments are
// separated with a double underscore: GW2_CACHE__BACKEND sets
// cache.backend, GW2_API_KEY sets api_key.
const EnvPrefix = "GW2_"

// Config is the full gw2fetch configuration.
type Config struct {
	Host              string        `koanf:"host" validate:"omitempty,url"`
	Language          string        `koanf:"language" validate:"omitempty,oneof=en es de fr zh"`
	APIKey            string        `koanf:"api_key"`
	CacheDuration     time.Duration `koanf:"cache_duration" validate:"gte=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"gte=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
	CircuitBreaker    bool          `koanf:"circuit_breaker"`

	Cache   CacheConfig   `koanf:"cache"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string `koanf:"backend" validate:"oneof=memory badger"`
	// Path is the Badger database directory; ignored by the memory backend.
	Path string `koanf:"path"`
}

// LogConfig mirrors logging.Config.
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// MetricsConfig controls the optional Prometheus listener.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Listen  string `koanf:"listen"`
}

func defaultConfig() *Config {
	return &Config{
		Host:              client.DefaultHost,
		Language:          string(endpoint.LanguageEnglish),
		CacheDuration:     0, // honor response cache headers
		Timeout:           30 * time.Second,
		RequestsPerSecond: client.DefaultRequestsPerSecond,
		Burst:             client.DefaultBurst,
		Cache: CacheConfig{
			Backend: "memory",
			Path:    "gw2cache",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  ":9464",
		},
	}
}

// Load builds the configuration. An empty path searches DefaultConfigPaths,
// and finding none of them is not an error; an explicit path that cannot be
// read (including one that does not exist) is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// ClientConfig maps the loaded file onto the client's configuration
// surface.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		Host:              c.Host,
		Language:          endpoint.ParseLanguage(c.Language),
		APIKey:            c.APIKey,
		CacheDuration:     c.CacheDuration,
		Timeout:           c.Timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
	}
}

// findConfigFile returns the first existing default config path.
func findConfigFile() string {
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envTransformFunc maps GW2_CACHE__BACKEND to cache.backend. A single
// underscore stays part of the key; a double underscore nests.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
