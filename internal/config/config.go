// Package config reads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds all configuration for the chat server.
type Config struct {
	Env       string
	Port      string
	AdminPort string

	// Storage
	StoreBackend  string
	MongoURI      string
	MongoDatabase string

	// Presence cache; disabled when RedisURL is empty
	RedisURL         string
	PresenceCacheTTL time.Duration

	// Token verification: either a single secret or kid -> secret pairs
	JWTSecret    string
	JWTKeys      map[string]string
	JWTActiveKid string

	// Rate limiting of SendMessage, per user
	RateLimitRPM   int
	RateLimitBurst int

	InboxFetchConcurrency int

	TLSCert    string
	TLSKey     string
	RequireTLS bool
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "50051"),
		AdminPort:     getEnv("ADMIN_PORT", "9090"),
		StoreBackend:  getEnv("STORE_BACKEND", BackendMongo),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: getEnv("MONGODB_DATABASE", "jobchat"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTActiveKid:  os.Getenv("JWT_ACTIVE_KID"),
		TLSCert:       os.Getenv("TLS_CERT"),
		TLSKey:        os.Getenv("TLS_KEY"),
		RequireTLS:    getEnv("REQUIRE_TLS", "false") == "true",
	}

	var err error
	if cfg.PresenceCacheTTL, err = getDuration("PRESENCE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPM, err = getPositiveInt("RATE_LIMIT_RPM", 120); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getPositiveInt("RATE_LIMIT_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.InboxFetchConcurrency, err = getPositiveInt("INBOX_FETCH_CONCURRENCY", 8); err != nil {
		return nil, err
	}

	// format kid:secret,kid2:secret2
	if keys := os.Getenv("JWT_KEYS"); keys != "" {
		cfg.JWTKeys = map[string]string{}
		for _, entry := range strings.Split(keys, ",") {
			entry = strings.TrimSpace(entry)
			if entry == "" {
				continue
			}
			kid, secret, ok := strings.Cut(entry, ":")
			if !ok || kid == "" || secret == "" {
				return nil, fmt.Errorf("invalid JWT_KEYS entry %q", entry)
			}
			cfg.JWTKeys[kid] = secret
		}
		if _, ok := cfg.JWTKeys[cfg.JWTActiveKid]; !ok {
			return nil, fmt.Errorf("JWT_ACTIVE_KID %q is not one of JWT_KEYS", cfg.JWTActiveKid)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the %s backend", BackendMongo)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.JWTSecret == "" && len(c.JWTKeys) == 0 {
		return fmt.Errorf("either JWT_SECRET or JWT_KEYS must be set")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("TLS_CERT and TLS_KEY must be set together")
	}
	if c.RequireTLS && c.TLSCert == "" {
		return fmt.Errorf("REQUIRE_TLS is true but TLS_CERT/TLS_KEY are not configured")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return d, nil
}
