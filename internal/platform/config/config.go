package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
	minSecretLength  = 32
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	LogLevel      string
	EnableDBCheck bool

	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	TokenCookieName   string

	RefreshTokenExpiryDuration time.Duration
	RefreshTokenCookieName     string
	RefreshTokenCookiePath     string

	StaticDir          string
	CORSAllowedOrigins []string
	LoginRateLimit     string

	PosthogAPIKey string
	AMQPURL       string
	AMQPExchange  string

	// External OAuth Providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	FrontendBaseURL    string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "data/money_tracker.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "money-tracker")
	v.SetDefault("TOKEN_COOKIE_NAME", "token")
	v.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "24h")
	v.SetDefault("REFRESH_TOKEN_COOKIE_NAME", "rtid")
	v.SetDefault("REFRESH_TOKEN_COOKIE_PATH", "/api/auth")
	v.SetDefault("STATIC_DIR", "web")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "money_tracker.events")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:8080")

	v.AutomaticEnv()

	cfg := &Config{
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		DatabaseDriver:         strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:            v.GetString("PGSQL_URL"),
		SQLitePath:             v.GetString("SQLITE_PATH"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTIssuer:              v.GetString("JWT_ISSUER"),
		TokenCookieName:        v.GetString("TOKEN_COOKIE_NAME"),
		RefreshTokenCookieName: v.GetString("REFRESH_TOKEN_COOKIE_NAME"),
		RefreshTokenCookiePath: v.GetString("REFRESH_TOKEN_COOKIE_PATH"),
		StaticDir:              v.GetString("STATIC_DIR"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		LoginRateLimit:         v.GetString("LOGIN_RATE_LIMIT"),
		PosthogAPIKey:          v.GetString("POSTHOG_API_KEY"),
		AMQPURL:                v.GetString("AMQP_URL"),
		AMQPExchange:           v.GetString("AMQP_EXCHANGE"),
		GoogleClientID:         v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:     v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:      v.GetString("GOOGLE_REDIRECT_URL"),
		FrontendBaseURL:        strings.TrimSuffix(v.GetString("FRONTEND_BASE_URL"), "/"),
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	cfg.JWTExpiryDuration = parseDuration(v.GetString("JWT_EXPIRY_DURATION"), time.Hour, "JWT_EXPIRY_DURATION")
	cfg.RefreshTokenExpiryDuration = parseDuration(v.GetString("REFRESH_TOKEN_EXPIRY_DURATION"), 24*time.Hour, "REFRESH_TOKEN_EXPIRY_DURATION")

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL is required when DATABASE_DRIVER=%s", DriverPostgres)
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required when DATABASE_DRIVER=%s", DriverSQLite)
		}
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.IsProduction && len(cfg.JWTSecret) < minSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d characters in production", minSecretLength)
	}

	// Log warnings for missing critical OAuth ENV variables
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	return cfg, nil
}

// GoogleOAuthEnabled reports whether the redirect-based Google flow is fully configured.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func parseDuration(raw string, fallback time.Duration, key string) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
