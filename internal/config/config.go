package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig is returned when configuration values are missing or inconsistent
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	RedisURL string `envconfig:"REDIS_URL" required:"true"`

	// JWT configuration
	JWT JWTConfig

	// CORS configuration
	CORS CORSConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" required:"true"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	Name     string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"require"`

	MaxOpenConns int `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
}

// ConnectionString returns the PostgreSQL connection string
func (d DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the secrets and lifetimes of both token families
type JWTConfig struct {
	AccessSecret     string   `envconfig:"JWT_ACCESS_SECRET" required:"true"`
	AccessExpiresIn  Duration `envconfig:"JWT_ACCESS_EXPIRES_IN" default:"15m"`
	RefreshSecret    string   `envconfig:"JWT_REFRESH_SECRET" required:"true"`
	RefreshExpiresIn Duration `envconfig:"JWT_REFRESH_EXPIRES_IN" default:"1d"`

	// RenewalThreshold is the remaining refresh lifetime below which a new
	// refresh token is minted alongside the access token.
	RenewalThreshold Duration `envconfig:"JWT_RENEWAL_THRESHOLD" default:"20m"`
}

// Validate checks that both families are usable and isolated from each other
func (j JWTConfig) Validate() error {
	switch {
	case j.AccessSecret == "":
		return fmt.Errorf("%w: access secret is required", ErrInvalidConfig)
	case j.RefreshSecret == "":
		return fmt.Errorf("%w: refresh secret is required", ErrInvalidConfig)
	case j.AccessSecret == j.RefreshSecret:
		return fmt.Errorf("%w: access and refresh secrets must differ", ErrInvalidConfig)
	case j.AccessExpiresIn <= 0:
		return fmt.Errorf("%w: access token lifetime must be positive", ErrInvalidConfig)
	case j.RefreshExpiresIn <= 0:
		return fmt.Errorf("%w: refresh token lifetime must be positive", ErrInvalidConfig)
	case j.RenewalThreshold < 0:
		return fmt.Errorf("%w: renewal threshold must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window          time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"10m"`
	MaxAttempts     int           `envconfig:"RATE_LIMIT_MAX_ATTEMPTS" default:"5"`
	LockoutDuration time.Duration `envconfig:"RATE_LIMIT_LOCKOUT_DURATION" default:"15m"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.JWT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Duration is a time.Duration that also accepts a day unit ("1d", "7d12h")
type Duration time.Duration

// Decode implements envconfig.Decoder
func (d *Duration) Decode(value string) error {
	parsed, err := ParseDuration(value)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ParseDuration parses Go duration syntax with an optional leading day component
func ParseDuration(value string) (time.Duration, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	var days time.Duration
	if i := strings.IndexByte(s, 'd'); i >= 0 {
		n, err := strconv.Atoi(s[:i])
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q", value)
		}
		days = time.Duration(n) * 24 * time.Hour
		s = s[i+1:]
		if s == "" {
			return days, nil
		}
	}

	rest, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", value, err)
	}
	return days + rest, nil
}
