package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 30*time.Second, cfg.Cache.DoctorListTTL)
	assert.Equal(t, "noreply@medibook.com", cfg.SMTP.From)
	assert.False(t, cfg.Auth.AllowAdminRegistration)
	assert.False(t, cfg.SMTP.Enabled())
	assert.NoError(t, cfg.Validate())
}

func TestFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
server:
  port: 8080
  clientOrigin: https://app.medibook.io
database:
  driver: postgres
jwt:
  secret: from-file
`), 0o600))

	t.Setenv("MEDIBOOK_JWT_SECRET", "from-env")
	t.Setenv("MEDIBOOK_DATABASE_DRIVER", "memory")
	t.Setenv("MEDIBOOK_AUTH_ALLOW_ADMIN_REGISTRATION", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://app.medibook.io", cfg.Server.ClientOrigin)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.True(t, cfg.Auth.AllowAdminRegistration)
	// untouched by the environment
	assert.Equal(t, "production", cfg.App.Env)
}

func TestMissingExplicitFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		App:       AppConfig{Env: "production"},
		Server:    ServerConfig{Port: 5000},
		Database:  DatabaseConfig{Driver: "sqlite"},
		RateLimit: RateLimitConfig{Enabled: true, Requests: 100, Window: time.Minute},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown database driver "sqlite"`)
	assert.Contains(t, err.Error(), "jwt secret is required")

	cfg.Database.Driver = DriverMemory
	cfg.JWT.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())
}
