package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gymops_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, 5000, cfg.ImportMaxRows)
	assert.Equal(t, int64(25*1024*1024), cfg.ImportMaxFileBytes)
	assert.Equal(t, 500*time.Millisecond, cfg.IdentityPacing)
	assert.Equal(t, 5*time.Second, cfg.IdentityCooldown)
	assert.Equal(t, 6, cfg.ImportRateLimit)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gymops_test")
	t.Setenv("IDENTITY_PACING_MS", "0")
	t.Setenv("IMPORT_MAX_ROWS", "100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Zero(t, cfg.IdentityPacing)
	assert.Equal(t, 100, cfg.ImportMaxRows)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
}
