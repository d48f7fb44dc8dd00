package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"` // "production" (json) or "development" (console)
}

// CatalogConfig selects where the product catalog is read from
type CatalogConfig struct {
	Driver   string `mapstructure:"driver"` // "memory" or "postgres"
	SeedFile string `mapstructure:"seed_file"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory", "redis" or "none"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// RecommendConfig holds recommendation engine limits
type RecommendConfig struct {
	MaxResults      int `mapstructure:"max_results"`
	MaxSimilar      int `mapstructure:"max_similar"`
	MaxConcurrency  int `mapstructure:"max_concurrency"`
	MaxProductTypes int `mapstructure:"max_product_types"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/haircare/")

	// HAIRCARE_SERVER_PORT -> server.port
	v.SetEnvPrefix("HAIRCARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default so
// that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:5174",
	})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "development")

	v.SetDefault("catalog.driver", "memory")
	v.SetDefault("catalog.seed_file", "config/catalog.yaml")

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.conn_max_idle_time", "5m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)

	v.SetDefault("recommend.max_results", 4)
	v.SetDefault("recommend.max_similar", 3)
	v.SetDefault("recommend.max_concurrency", 4)
	v.SetDefault("recommend.max_product_types", 20)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Catalog.Driver {
	case "memory":
		if strings.TrimSpace(config.Catalog.SeedFile) == "" {
			return fmt.Errorf("catalog seed file is required when driver is 'memory' (set HAIRCARE_CATALOG_SEED_FILE)")
		}
	case "postgres":
		if config.Database.DSN == "" {
			return fmt.Errorf("database DSN is required when driver is 'postgres' (set HAIRCARE_DATABASE_DSN)")
		}
	default:
		return fmt.Errorf("catalog driver must be 'memory' or 'postgres', got: %s", config.Catalog.Driver)
	}

	switch config.Cache.Type {
	case "memory", "none":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("Redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'none', got: %s", config.Cache.Type)
	}

	if config.Recommend.MaxResults < 1 {
		return fmt.Errorf("recommend.max_results must be at least 1, got: %d", config.Recommend.MaxResults)
	}
	if config.Recommend.MaxSimilar < 1 {
		return fmt.Errorf("recommend.max_similar must be at least 1, got: %d", config.Recommend.MaxSimilar)
	}
	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}

// LoadEnvFile loads a .env file from the working directory if there is one.
// Variables already present in the environment win.
func LoadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load()
}
