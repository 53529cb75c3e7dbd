package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.True(t, cfg.Database.Migrate)
	assert.Equal(t, "devops", cfg.Mongo.Database)
	assert.Equal(t, DefaultJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, "devops", cfg.JWT.Issuer)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.CookieMaxAge)
	assert.Equal(t, "bcrypt", cfg.Password.Hasher)
	assert.Equal(t, 10, cfg.Password.BcryptCost)
	assert.Equal(t, "100-M", cfg.RateLimit.PerIP)
	assert.Equal(t, 0, cfg.Lockout.MaxAttempts)
	assert.Equal(t, 900, cfg.Lockout.CooldownSeconds)
	assert.Equal(t, uint32(64*1024), cfg.Argon2.Memory)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "Mongo")
	t.Setenv("SESSION_TTL", "3600")
	t.Setenv("SESSION_COOKIE_MAX_AGE", "60")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "true")
	t.Setenv("DATABASE_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, StorageMongo, cfg.Storage.Driver)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.CookieMaxAge)
	assert.Equal(t, 5, cfg.Lockout.MaxAttempts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.Telemetry.Insecure)
	assert.False(t, cfg.Database.Migrate)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devops.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"7070\"\nJWT_ISSUER: dashboard\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("JWT_ISSUER", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.JWT.Issuer, "env wins over the file")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Run("production refuses the default secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		cfg, err := Load()
		require.NoError(t, err)
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

		cfg.JWT.Secret = "a-real-secret"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown driver and hasher", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		cfg.Storage.Driver = "sqlite"
		cfg.Password.Hasher = "md5"
		err = cfg.Validate()
		assert.ErrorContains(t, err, "STORAGE_DRIVER")
		assert.ErrorContains(t, err, "PASSWORD_HASHER")
	})
}
