package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileEnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
databaseUrl: "postgres://file"
accessTokenTtl: 30m
exportMaxRecords: 500
`), 0o600))

	t.Setenv("DATABASE_URL", "postgres://env")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 500, cfg.ExportMaxRecords)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvFallbacksOnGarbage(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("LOG_JSON", "maybe")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	cfg := Load()
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, time.Hour, cfg.AccessTokenTTL)
}

func TestValidate(t *testing.T) {
	base := Defaults()
	base.DatabaseURL = "postgres://x"
	base.JWTSecret = "secret"

	require.NoError(t, base.Validate())

	missingDB := base
	missingDB.DatabaseURL = ""
	assert.Error(t, missingDB.Validate())

	prod := base
	prod.Environment = "production"
	prod.SeedAdminPassword = "Admin123!"
	assert.Error(t, prod.Validate(), "short secret rejected in production")

	prod.JWTSecret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, prod.Validate())

	email := base
	email.EmailEnabled = true
	assert.Error(t, email.Validate())
}
