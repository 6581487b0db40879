package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server     ServerConfig
	App        AppConfig
	Cache      CacheConfig
	LocationDB LocationDBConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string   `envconfig:"APP_NAME" default:"location-cache-api"`
	Environment string   `envconfig:"APP_ENV" default:"development"`
	Debug       bool     `envconfig:"APP_DEBUG" default:"false"`
	Version     string   `envconfig:"APP_VERSION" default:"1.0.0"`
	LoginKey    string   `envconfig:"LOGIN_KEY" default:""` // exchanged for an admin session token
	APIKeys     []string `envconfig:"API_KEYS"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	SlidingExpiration  time.Duration `envconfig:"CACHE_SLIDING_EXPIRATION" default:"30m"`
	AbsoluteExpiration time.Duration `envconfig:"CACHE_ABSOLUTE_EXPIRATION" default:"30m"`
	MaxEntries         int           `envconfig:"CACHE_MAX_ENTRIES" default:"1024"`
	CleanupInterval    time.Duration `envconfig:"CACHE_CLEANUP_INTERVAL" default:"1m"`

	// Redis only backs admin session tokens; cached locations stay in process.
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// LocationDBConfig holds backing store settings.
type LocationDBConfig struct {
	Type string `envconfig:"LOCATION_DB_TYPE" default:"sqlite"` // sqlite, mysql, or postgres
	Path string `envconfig:"LOCATION_DB_PATH" default:"./data/locations.db"`
	Seed bool   `envconfig:"LOCATION_DB_SEED" default:"true"`
	// MySQL / PostgreSQL settings
	Host     string `envconfig:"LOCATION_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"LOCATION_DB_PORT" default:"0"`
	Name     string `envconfig:"LOCATION_DB_NAME" default:"locations"`
	User     string `envconfig:"LOCATION_DB_USER" default:""`
	Password string `envconfig:"LOCATION_DB_PASS" default:""`
	SSLMode  string `envconfig:"LOCATION_DB_SSLMODE" default:"disable"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// MySQLDSN returns the MySQL data source name.
func (d *LocationDBConfig) MySQLDSN() string {
	port := d.Port
	if port == 0 {
		port = 3306
	}
	user := d.User
	if user == "" {
		user = "root"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&clientFoundRows=true",
		user, d.Password, d.Host, port, d.Name)
}

// PostgresDSN returns the PostgreSQL connection string.
func (d *LocationDBConfig) PostgresDSN() string {
	port := d.Port
	if port == 0 {
		port = 5432
	}
	user := d.User
	if user == "" {
		user = "postgres"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		user, d.Password, d.Host, port, d.Name, d.SSLMode)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Validate rejects settings the cache cannot work with.
func (c *Config) Validate() error {
	if c.Cache.SlidingExpiration <= 0 {
		return fmt.Errorf("CACHE_SLIDING_EXPIRATION must be positive, got %v", c.Cache.SlidingExpiration)
	}
	if c.Cache.AbsoluteExpiration <= 0 {
		return fmt.Errorf("CACHE_ABSOLUTE_EXPIRATION must be positive, got %v", c.Cache.AbsoluteExpiration)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("CACHE_MAX_ENTRIES must not be negative, got %d", c.Cache.MaxEntries)
	}
	switch c.LocationDB.Type {
	case "sqlite", "mysql", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported LOCATION_DB_TYPE %q", c.LocationDB.Type)
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
