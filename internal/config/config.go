package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=befosa port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:3000"
	defaultAdminPass   = "admin123"
)

type Config struct {
	HTTPPort    string
	Env         string
	DatabaseDSN string
	JWTSecret   string
	SessionTTL  time.Duration
	CORSOrigins string

	Redis RedisConfig

	// ulule/limiter format, e.g. "10-M"
	LoginRateLimit string

	DefaultAdminEmail    string
	DefaultAdminPassword string
}

// RedisConfig points at the revoked-session store. An empty Host selects the
// in-process store.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// Load reads the environment, optionally seeded from a .env file in the
// working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("APP_ENV", "production"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		SessionTTL:  ttl,
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		LoginRateLimit:       getEnv("LOGIN_RATE_LIMIT", "10-M"),
		DefaultAdminEmail:    getEnv("DEFAULT_ADMIN_EMAIL", "admin@befosa.com"),
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", defaultAdminPass),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// Warnings lists settings still at their development defaults.
func (c *Config) Warnings() []string {
	var out []string
	if c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN is using the default value, set your own Postgres connection for production")
	}
	if c.CORSOrigins == defaultCORSOrigins {
		out = append(out, "CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production")
	}
	if c.DefaultAdminPassword == defaultAdminPass {
		out = append(out, "DEFAULT_ADMIN_PASSWORD is using the default value, set your own before seeding the admin")
	}
	if c.Redis.Host == "" {
		out = append(out, "REDIS_HOST is empty, revoked sessions are kept in memory and lost on restart")
	}
	return out
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
