package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/skuprice/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	HTTP      HTTPConfig
	Stores    []StoreConfig
	Server    ServerConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
	Sync      SyncConfig
	Log       LogConfig
}

// HTTPConfig holds upstream HTTP client configuration
type HTTPConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	Retries             int           `mapstructure:"retries"`
	Backoff             time.Duration `mapstructure:"backoff"`
	InsecureTLSFallback bool          `mapstructure:"insecure_tls_fallback"`
	RequestsPerSecond   float64       `mapstructure:"requests_per_second"`
	UserAgent           string        `mapstructure:"user_agent"`
	Accept              string        `mapstructure:"accept"`
	AcceptLanguage      string        `mapstructure:"accept_language"`
}

// StoreConfig describes one storefront
type StoreConfig struct {
	ID            string `mapstructure:"id"`
	Kind          string `mapstructure:"kind"` // "vtex" or "exito"
	BaseURL       string `mapstructure:"base_url"`
	DetailBaseURL string `mapstructure:"detail_base_url"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "none", "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// DatabaseConfig holds the catalog sync database configuration
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SyncConfig holds catalog sync paging configuration
type SyncConfig struct {
	PageSize int           `mapstructure:"page_size"`
	Pause    time.Duration `mapstructure:"pause"`
	MaxPages int           `mapstructure:"max_pages"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Load loads configuration from .env, environment variables and config files.
// An empty configFile searches the default locations.
func Load(configFile string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/skuprice/")
	}

	// Environment variable settings
	v.SetEnvPrefix("SKUPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional unless one was asked for explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
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

// loadEnvFile loads a .env file from the working directory if there is one.
// Variables already present in the environment win.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Upstream HTTP defaults
	v.SetDefault("http.timeout", "30s")
	v.SetDefault("http.retries", 2)
	v.SetDefault("http.backoff", "1.2s")
	v.SetDefault("http.insecure_tls_fallback", false)
	v.SetDefault("http.requests_per_second", 0)
	v.SetDefault("http.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")
	v.SetDefault("http.accept", "application/json,text/html;q=0.9,*/*;q=0.8")
	v.SetDefault("http.accept_language", "es-CO,es;q=0.9,en;q=0.8")

	// Store table, in detection order
	v.SetDefault("stores", []map[string]interface{}{
		{"id": "metro", "kind": "vtex", "base_url": "https://www.tiendasmetro.co"},
		{"id": "olimpica", "kind": "vtex", "base_url": "https://www.olimpica.com"},
		{"id": "exito", "kind": "exito", "base_url": "https://www.exito.com"},
	})

	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Cache defaults: lookups are fresh unless a cache is configured
	v.SetDefault("cache.type", "none")
	v.SetDefault("cache.ttl", "10m")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("database.dsn", "")

	// Catalog sync defaults (VTEX caps a page at 50 products)
	v.SetDefault("sync.page_size", 50)
	v.SetDefault("sync.pause", "200ms")
	v.SetDefault("sync.max_pages", 0)

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got: %s", config.HTTP.Timeout)
	}

	if config.HTTP.Retries < 0 {
		return fmt.Errorf("http retries must not be negative, got: %d", config.HTTP.Retries)
	}

	if config.HTTP.Backoff < 0 {
		return fmt.Errorf("http backoff must not be negative, got: %s", config.HTTP.Backoff)
	}

	if len(config.Stores) == 0 {
		return fmt.Errorf("at least one store must be configured")
	}

	seen := make(map[string]bool, len(config.Stores))
	for _, s := range config.Stores {
		if s.ID == "" {
			return fmt.Errorf("store id is required")
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate store id: %s", s.ID)
		}
		seen[s.ID] = true

		if !domain.StoreKind(s.Kind).Valid() {
			return fmt.Errorf("store %s: kind must be 'vtex' or 'exito', got: %s", s.ID, s.Kind)
		}
		if s.BaseURL == "" {
			return fmt.Errorf("store %s: base_url is required", s.ID)
		}
	}

	if config.Cache.Type != "none" && config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'none', 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Sync.PageSize < 1 || config.Sync.PageSize > 50 {
		return fmt.Errorf("sync page size must be between 1 and 50, got: %d", config.Sync.PageSize)
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}

// StoreTable converts the configured stores into domain stores, keeping their order.
// The detail endpoint defaults to the store's base URL.
func (c *Config) StoreTable() []domain.Store {
	stores := make([]domain.Store, 0, len(c.Stores))
	for _, s := range c.Stores {
		detail := s.DetailBaseURL
		if detail == "" {
			detail = s.BaseURL
		}
		stores = append(stores, domain.Store{
			ID:            domain.StoreID(strings.ToLower(s.ID)),
			Kind:          domain.StoreKind(s.Kind),
			BaseURL:       strings.TrimRight(s.BaseURL, "/"),
			DetailBaseURL: strings.TrimRight(detail, "/"),
		})
	}
	return stores
}
