package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INZONE_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "InZone API", cfg.AppName)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "inzone", cfg.NATSSubjectPrefix)
	assert.False(t, cfg.AuthEnforce)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("INZONE_JWT_SECRET", "secret")
	t.Setenv("INZONE_APP_PORT", ":9090")
	t.Setenv("INZONE_DATABASE_DRIVER", "SQLite")
	t.Setenv("INZONE_DATABASE_URL", "file::memory:")
	t.Setenv("INZONE_CACHE_TTL", "30s")
	t.Setenv("INZONE_AUTH_ENFORCE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.AuthEnforce)
	assert.Equal(t, ":9090", cfg.HTTPAddress())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("INZONE_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("INZONE_JWT_SECRET", "secret")
	t.Setenv("INZONE_CACHE_TTL", "soon")

	_, err := Load()
	require.ErrorContains(t, err, "cache.ttl")

	t.Setenv("INZONE_CACHE_TTL", "1m")
	t.Setenv("INZONE_DATABASE_DRIVER", "mysql")

	_, err = Load()
	require.ErrorContains(t, err, "unsupported database driver")
}
