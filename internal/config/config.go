// Package config provides configuration loading from YAML files and the environment.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Sternrassler/favlist-duration/pkg/cache"
	"github.com/Sternrassler/favlist-duration/pkg/client"
	"github.com/Sternrassler/favlist-duration/pkg/logging"
	"github.com/Sternrassler/favlist-duration/pkg/pagination"
)

// Config represents the application configuration.
type Config struct {
	Log         LogConfig         `yaml:"log"`
	API         APIConfig         `yaml:"api"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Server      ServerConfig      `yaml:"server"`
	Cache       CacheConfig       `yaml:"cache"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	Pretty bool   `yaml:"pretty"`
}

// APIConfig represents the favorites API client configuration.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" default:"https://api.bilibili.com" validate:"required,url"`
	UserAgent string        `yaml:"user_agent" default:"favlist-duration/1.0" validate:"required"`
	Cookie    string        `yaml:"cookie"`
	Timeout   time.Duration `yaml:"timeout" default:"30s" validate:"gte=0"`
}

// AggregationConfig represents the pagination limits.
type AggregationConfig struct {
	PageSize int `yaml:"page_size" default:"20" validate:"gte=1,lte=50"`
	MaxPages int `yaml:"max_pages" default:"50" validate:"gte=1,lte=1000"`
}

// ServerConfig represents the HTTP service configuration.
type ServerConfig struct {
	Addr            string        `yaml:"addr" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
}

// CacheConfig represents the Redis page cache configuration.
// The cache is disabled when RedisAddr is empty.
type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
	TTL           time.Duration `yaml:"ttl" default:"1m" validate:"gte=0"`
}

// Load loads configuration from a YAML file. An empty path yields the
// defaults. Environment variables take precedence over file values.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config file")
		}
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("FAVLIST_COOKIE"); v != "" {
		c.API.Cookie = v
	}
	if v := os.Getenv("FAVLIST_USER_AGENT"); v != "" {
		c.API.UserAgent = v
	}
	if v := os.Getenv("FAVLIST_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Addr = ":" + v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}

// ClientConfig converts the API section into a client configuration.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:   c.API.BaseURL,
		UserAgent: c.API.UserAgent,
		Cookie:    c.API.Cookie,
		Timeout:   c.API.Timeout,
	}
}

// PaginationConfig converts the aggregation section into an aggregator configuration.
func (c *Config) PaginationConfig() pagination.Config {
	return pagination.Config{
		PageSize: c.Aggregation.PageSize,
		MaxPages: c.Aggregation.MaxPages,
	}
}

// LoggingConfig converts the log section into a logging configuration.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.LogLevel(c.Log.Level)
	cfg.Pretty = c.Log.Pretty
	return cfg
}

// CacheEnabled reports whether the Redis page cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}

// CacheTTL returns the page cache TTL, falling back to the cache default.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL <= 0 {
		return cache.DefaultTTL
	}
	return c.Cache.TTL
}
