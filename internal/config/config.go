// Package config loads server configuration from an optional TOML file and
// ORGNR_* environment variables. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variable names
const (
	EnvConfigFile  = "ORGNR_CONFIG"
	EnvLogLevel    = "ORGNR_LOG_LEVEL"
	EnvTransport   = "ORGNR_TRANSPORT"
	EnvAddr        = "ORGNR_ADDR"
	EnvRateLimit   = "ORGNR_RATE_LIMIT"
	EnvMaxBodySize = "ORGNR_MAX_BODY_SIZE"
	EnvCacheSize   = "ORGNR_CACHE_SIZE"
	EnvCacheTTL    = "ORGNR_CACHE_TTL"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Duration is a time.Duration read from strings like "15m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds server configuration.
type Config struct {
	LogLevel  string      `toml:"log_level"`
	Transport string      `toml:"transport"`
	HTTP      HTTPConfig  `toml:"http"`
	Cache     CacheConfig `toml:"cache"`
}

// HTTPConfig configures the streamable HTTP transport.
type HTTPConfig struct {
	Addr            string   `toml:"addr"`
	RateLimit       int      `toml:"rate_limit"`    // requests per minute per IP, 0 disables
	MaxBodySize     int64    `toml:"max_body_size"` // bytes
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// CacheConfig configures parse result memoization.
type CacheConfig struct {
	MaxEntries int      `toml:"max_entries"`
	TTL        Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		Transport: TransportStdio,
		HTTP: HTTPConfig{
			Addr:            "127.0.0.1:8080",
			RateLimit:       120,
			MaxBodySize:     1 << 20,
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Cache: CacheConfig{
			MaxEntries: 1000,
			TTL:        Duration{15 * time.Minute},
		},
	}
}

// Load builds the configuration: defaults, then the TOML file named by
// ORGNR_CONFIG if set, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path over cfg. Keys absent from the file keep their values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnvOverrides replaces fields with set ORGNR_* variables. Every value
// that does not parse is reported; the field keeps its previous value.
func (c *Config) ApplyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvTransport); v != "" {
		c.Transport = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.HTTP.Addr = v
	}

	var errs []error
	if v := os.Getenv(EnvRateLimit); v != "" {
		if n, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvRateLimit, err))
		} else {
			c.HTTP.RateLimit = n
		}
	}
	if v := os.Getenv(EnvMaxBodySize); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvMaxBodySize, err))
		} else {
			c.HTTP.MaxBodySize = n
		}
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvCacheSize, err))
		} else {
			c.Cache.MaxEntries = n
		}
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if d, err := time.ParseDuration(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvCacheTTL, err))
		} else {
			c.Cache.TTL = Duration{d}
		}
	}
	return errors.Join(errs...)
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	var errs []error
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.Transport {
	case TransportStdio, TransportHTTP:
	default:
		errs = append(errs, fmt.Errorf("transport must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport))
	}
	if c.Transport == TransportHTTP && c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required for the http transport"))
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("http.rate_limit must not be negative, got %d", c.HTTP.RateLimit))
	}
	if c.HTTP.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("http.max_body_size must be positive, got %d", c.HTTP.MaxBodySize))
	}
	if c.Cache.MaxEntries <= 0 {
		errs = append(errs, fmt.Errorf("cache.max_entries must be positive, got %d", c.Cache.MaxEntries))
	}
	if c.Cache.TTL.Duration <= 0 {
		errs = append(errs, fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL.Duration))
	}
	return errors.Join(errs...)
}

// SlogLevel returns the configured log level. Validate rejects unknown names.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}
