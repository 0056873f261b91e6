// Package config loads runtime settings. Values are layered: built-in
// defaults, then an optional YAML file, then environment variables.
// Command-line flags are applied last by the caller.
package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/narrative"
)

// Store selects where sessions are saved
type Store string

// Session stores
const (
	StoreNone   Store = "none"
	StoreRedis  Store = "redis"
	StoreSQLite Store = "sqlite"
)

// Config is the full runtime configuration
type Config struct {
	Seed     string       `yaml:"seed" env:"RPG_ENGINE_SEED"`
	LogLevel string       `yaml:"log_level" env:"RPG_ENGINE_LOG_LEVEL"`
	Store    Store        `yaml:"store" env:"RPG_ENGINE_STORE"`
	Redis    RedisConfig  `yaml:"redis"`
	SQLite   SQLiteConfig `yaml:"sqlite"`
	Gemini   GeminiConfig `yaml:"gemini"`
}

// RedisConfig configures the Redis session store
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"RPG_ENGINE_REDIS_ADDR"`
	Password string `yaml:"password" env:"RPG_ENGINE_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"RPG_ENGINE_REDIS_DB"`
	UseTLS   bool   `yaml:"tls" env:"RPG_ENGINE_REDIS_TLS"`
}

// SQLiteConfig configures the SQLite session store
type SQLiteConfig struct {
	Path string `yaml:"path" env:"RPG_ENGINE_SQLITE_PATH"`
}

// GeminiConfig configures narrative generation. An empty key disables it.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"GEMINI_API_KEY"`
	Model  string `yaml:"model" env:"RPG_ENGINE_GEMINI_MODEL"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Store:    StoreNone,
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		SQLite: SQLiteConfig{
			Path: "rpg-engine.db",
		},
		Gemini: GeminiConfig{
			Model: narrative.DefaultGeminiModel,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the environment
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse config file")
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse environment")
	}

	cfg.Store = Store(strings.ToLower(string(cfg.Store)))
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// Validate checks the settings the selected store depends on
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		vb.Field("log_level", err.Error())
	}

	errors.ValidateEnum("store", string(c.Store), []string{
		string(StoreNone), string(StoreRedis), string(StoreSQLite),
	}, vb)

	switch c.Store {
	case StoreRedis:
		if c.Redis.Addr == "" {
			vb.RequiredField("redis.addr")
		}
		if c.Redis.DB < 0 {
			vb.Field("redis.db", "must not be negative")
		}
	case StoreSQLite:
		if c.SQLite.Path == "" {
			vb.RequiredField("sqlite.path")
		}
	}

	return vb.Build()
}

// NarrativeEnabled reports whether a Gemini key is configured
func (c *Config) NarrativeEnabled() bool {
	return c.Gemini.APIKey != ""
}

// ParseLogLevel maps a level name onto slog
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, errors.InvalidArgumentf("unknown log level %q", s)
	}
	return level, nil
}
