// Package config loads server settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config represents the application configuration structure.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info" yaml:"logLevel"`

	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"1m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// MetricsPath defines the URL path where metrics are exposed. Empty disables it.
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	Database struct {
		// Path is the SQLite database file.
		Path string `env:"DB_PATH" env-default:"./data/ledger.db" yaml:"path"`
	} `yaml:"database"`

	Auth struct {
		// JWTSecret signs and verifies member tokens. Shared with the identity provider.
		JWTSecret string `env:"JWT_SECRET" yaml:"jwtSecret"`
		// TokenDuration is the lifetime of tokens minted by the token command.
		TokenDuration time.Duration `env:"JWT_TOKEN_DURATION" env-default:"24h" yaml:"tokenDuration"`
	} `yaml:"auth"`

	Cache struct {
		// Backend is memory, redis or none.
		Backend string `env:"CACHE_BACKEND" env-default:"memory" yaml:"backend"`
		// Size caps the number of cached reports for the memory backend.
		Size int `env:"CACHE_SIZE" env-default:"1024" yaml:"size"`
		// TTL bounds how long a report may be served from cache.
		TTL time.Duration `env:"CACHE_TTL" env-default:"10m" yaml:"ttl"`
		// CleanupInterval is how often expired memory entries are swept.
		CleanupInterval time.Duration `env:"CACHE_CLEANUP_INTERVAL" env-default:"1m" yaml:"cleanupInterval"`
		RedisAddr       string        `env:"CACHE_REDIS_ADDR" env-default:"localhost:6379" yaml:"redisAddr"`
		RedisPrefix     string        `env:"CACHE_REDIS_PREFIX" env-default:"groupledger:report:" yaml:"redisPrefix"`
	} `yaml:"cache"`

	Analytics struct {
		// RecentLimit is how many recent expenses a report lists.
		RecentLimit int `env:"ANALYTICS_RECENT_LIMIT" env-default:"10" yaml:"recentLimit"`
		// Concurrency bounds parallel group reads for user-wide analytics.
		Concurrency int `env:"ANALYTICS_CONCURRENCY" env-default:"4" yaml:"concurrency"`
	} `yaml:"analytics"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config
// struct. An empty path reads the environment only.
func Load(configPath string) (*Config, error) {
	var cfg Config
	var err error
	if configPath == "" {
		err = cleanenv.ReadEnv(&cfg)
	} else {
		err = cleanenv.ReadConfig(configPath, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log level %q must be debug, info, warn or error", c.LogLevel))
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		errs = append(errs, fmt.Errorf("cache backend %q must be memory, redis or none", c.Cache.Backend))
	}
	if c.Cache.Backend == CacheMemory && c.Cache.Size < 1 {
		errs = append(errs, fmt.Errorf("cache size must be positive, got %d", c.Cache.Size))
	}
	if c.Cache.TTL < 0 {
		errs = append(errs, fmt.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL))
	}
	if c.Analytics.RecentLimit < 1 {
		errs = append(errs, fmt.Errorf("analytics recent limit must be positive, got %d", c.Analytics.RecentLimit))
	}
	if c.Analytics.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("analytics concurrency must be positive, got %d", c.Analytics.Concurrency))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.Auth.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("token duration must be positive, got %s", c.Auth.TokenDuration))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
