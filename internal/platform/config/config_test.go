package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_SQLiteDefaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/mt.db")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY_DURATION", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "/tmp/mt.db", cfg.SQLitePath)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.JWTExpiryDuration)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenExpiryDuration)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "5-M", cfg.LoginRateLimit)
	assert.False(t, cfg.GoogleOAuthEnabled())
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("JWT_EXPIRY_DURATION", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
}

func TestLoadConfig_PostgresRequiresURL(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "PGSQL_URL")
}

func TestLoadConfig_UnknownDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "mongo")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unsupported DATABASE_DRIVER")
}

func TestLoadConfig_ProductionRejectsDefaultSecret(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "too-short")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "at least")

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction)
}
