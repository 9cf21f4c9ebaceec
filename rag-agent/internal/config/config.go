// Package config provides configuration loading for the agent.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the agent configuration.
type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Plan   PlanConfig   `toml:"plan"`
	Log    LogConfig    `toml:"log"`
}

// LLMConfig contains completion service settings.
type LLMConfig struct {
	Provider   string `toml:"provider"` // anthropic or ollama
	Model      string `toml:"model"`
	APIKeyEnv  string `toml:"api_key_env"`
	BaseURL    string `toml:"base_url"`
	MaxTokens  int    `toml:"max_tokens"`
	MaxRetries int    `toml:"max_retries"`
	Timeout    string `toml:"timeout"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port string `toml:"port"`
}

// CacheConfig configures the redis completion cache.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	RedisURL string `toml:"redis_url"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      string `toml:"ttl"`
}

// PlanConfig points at the Terraform graph used for live enrichment.
// PlanPath is optional `terraform show -json` output merged onto the graph.
type PlanConfig struct {
	GraphPath string `toml:"graph_path"`
	PlanPath  string `toml:"plan_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// New creates a new config with defaults.
func New() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:   "anthropic",
			Model:      "claude-sonnet-4-20250514",
			MaxTokens:  4096,
			MaxRetries: 2,
			Timeout:    "120s",
		},
		Server: ServerConfig{
			Port: "8001",
		},
		Cache: CacheConfig{
			RedisURL: "localhost:6379",
			TTL:      "10m",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadFile loads configuration from a TOML file and applies environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := New()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// Load reads path when it exists and falls back to defaults when it does
// not. Any other stat error is returned. Use LoadFile when the file must
// exist.
func Load(path string) (*Config, error) {
	if path != "" {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return LoadFile(path)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	cfg := New()
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides file values with environment variables.
func (c *Config) ApplyEnv() {
	c.LLM.Provider = getEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = getEnv("ANTHROPIC_MODEL", c.LLM.Model)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Cache.RedisURL = getEnv("REDIS_URL", c.Cache.RedisURL)
	c.Cache.Password = getEnv("REDIS_PASSWORD", c.Cache.Password)
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Cache.DB = db
		}
	}
	c.Plan.GraphPath = getEnv("PLAN_GRAPH_PATH", c.Plan.GraphPath)
	c.Plan.PlanPath = getEnv("PLAN_JSON_PATH", c.Plan.PlanPath)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

// GetAPIKey returns the API key from the configured environment variable.
// If api_key_env is not set, uses the default env var for the provider.
func (c *Config) GetAPIKey() string {
	envVar := c.LLM.APIKeyEnv
	if envVar == "" {
		envVar = DefaultAPIKeyEnv(c.LLM.Provider)
	}
	if envVar == "" {
		return ""
	}
	return os.Getenv(envVar)
}

// DefaultAPIKeyEnv returns the default environment variable name for a provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// LLMTimeout parses llm.timeout, returning zero when unset.
func (c *Config) LLMTimeout() (time.Duration, error) {
	return parseDuration("llm.timeout", c.LLM.Timeout)
}

// CacheTTL parses cache.ttl, returning zero when unset.
func (c *Config) CacheTTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
