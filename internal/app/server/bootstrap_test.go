package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourhub/internal/domain/auth"
	"labourhub/internal/platform/config"
	"labourhub/internal/platform/objectid"
)

func TestSeedAdminDefaults(t *testing.T) {
	cfg := config.Defaults()
	cfg.SeedAdminUsername = " Admin "

	admin, err := seedAdmin(cfg)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)
	assert.Equal(t, "admin@labourhub.local", admin.Email)
	assert.True(t, objectid.Valid(admin.ID))
	assert.NoError(t, auth.CheckPassword(admin.PasswordHash, devAdminPassword))
}

func TestSeedAdminUsesConfiguredPassword(t *testing.T) {
	cfg := config.Defaults()
	cfg.SeedAdminEmail = "Ops@Example.com"
	cfg.SeedAdminPassword = "Str0ng!Pass"

	admin, err := seedAdmin(cfg)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", admin.Email)
	assert.NoError(t, auth.CheckPassword(admin.PasswordHash, "Str0ng!Pass"))
	assert.Error(t, auth.CheckPassword(admin.PasswordHash, devAdminPassword))
}
