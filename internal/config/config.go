package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Catalog backends selectable through CATALOG_BACKEND.
const (
	CatalogBackendPostgres = "postgres"
	CatalogBackendMongo    = "mongo"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	DB      DatabaseConfig
	Redis   RedisConfig
	Mongo   MongoConfig
	Catalog CatalogConfig
	Pricing PricingConfig
	Auth    AuthConfig
	Worker  WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// MongoConfig contains MongoDB connection parameters for the document catalog.
type MongoConfig struct {
	URI      string
	Database string
}

// CatalogConfig selects where products and variants are read from.
type CatalogConfig struct {
	Backend string
}

// PricingConfig controls how configuration prices are derived on write.
type PricingConfig struct {
	// LegacyRecompute derives missing prices from base + variants only,
	// leaving option surcharges out.
	LegacyRecompute bool
	// EnforceVariantOwnership rejects selections referencing variants that
	// do not exist or belong to another product.
	EnforceVariantOwnership bool
}

// AuthConfig contains login throttling parameters.
type AuthConfig struct {
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	CartCleanupInterval time.Duration
	CartTTL             time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine: production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"))

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Mongo (only required for the mongo catalog backend)
	cfg.Mongo = MongoConfig{
		URI:      getEnv("MONGO_URI", ""),
		Database: getEnv("MONGO_DATABASE", "storefront"),
	}

	cfg.Catalog = CatalogConfig{
		Backend: strings.ToLower(getEnv("CATALOG_BACKEND", CatalogBackendPostgres)),
	}

	cfg.Pricing = PricingConfig{
		LegacyRecompute:         getEnvBool("PRICING_LEGACY_RECOMPUTE", false),
		EnforceVariantOwnership: getEnvBool("PRICING_ENFORCE_VARIANT_OWNERSHIP", true),
	}

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg.Auth.LoginRateLimit = getEnvInt("LOGIN_RATE_LIMIT", 5)
	if cfg.Auth.LoginRateWindow, err = parseDurationEnv("LOGIN_RATE_WINDOW", "1m"); err != nil {
		return nil, fmt.Errorf("invalid LOGIN_RATE_WINDOW: %w", err)
	}

	// Workers (durations)
	if cfg.Worker.CartCleanupInterval, err = parseDurationEnv("CART_CLEANUP_INTERVAL", "1h"); err != nil {
		return nil, fmt.Errorf("invalid CART_CLEANUP_INTERVAL: %w", err)
	}
	if cfg.Worker.CartTTL, err = parseDurationEnv("CART_TTL", "720h"); err != nil {
		return nil, fmt.Errorf("invalid CART_TTL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DB.Host == "" || c.DB.User == "" || c.DB.Name == "" {
		return errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set for authentication")
	}
	switch c.Catalog.Backend {
	case CatalogBackendPostgres:
	case CatalogBackendMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGO_URI must be set when CATALOG_BACKEND=mongo")
		}
	default:
		return fmt.Errorf("unsupported CATALOG_BACKEND %q: use %q or %q", c.Catalog.Backend, CatalogBackendPostgres, CatalogBackendMongo)
	}
	if c.Auth.LoginRateLimit <= 0 {
		return errors.New("LOGIN_RATE_LIMIT must be greater than zero")
	}
	if c.Worker.CartCleanupInterval == 0 {
		return errors.New("CART_CLEANUP_INTERVAL must be greater than zero")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
