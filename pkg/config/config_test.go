package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("UPSTREAM_BASE_URL", "https://backend.example.com/api/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "https://backend.example.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, "https://backend.example.com", cfg.Upstream.FileBaseURL)
	assert.Equal(t, 300*time.Millisecond, cfg.Session.RehydrateDelay)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxFileSizeBytes)
	assert.Contains(t, cfg.Uploads.AllowedCVMIMEs, "application/pdf")
}

func TestLoadOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("SESSION_STORE", "REDIS")
	t.Setenv("UPSTREAM_FILES_URL", "https://files.example.com/")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")
	t.Setenv("POSTS_CACHE_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Equal(t, "https://files.example.com", cfg.Upstream.FileBaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, time.Minute, cfg.Cache.PostsTTL)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
