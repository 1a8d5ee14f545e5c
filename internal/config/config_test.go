package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"STORERATE_API_BASE_URL", "STORERATE_SESSION_BACKEND", "STORERATE_SESSION_PATH",
		"LOG_LEVEL", "LOG_FORMAT", "DEVAPI_TOKEN_TTL", "DEVAPI_CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, "file", cfg.Session.Backend)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "warn", cfg.Logging.LevelOr("warn"))
	assert.Equal(t, 24*time.Hour, cfg.DevAPI.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.DevAPI.AllowOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORERATE_API_BASE_URL", "https://api.example.com/")
	t.Setenv("STORERATE_SESSION_BACKEND", "KEYRING")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DEVAPI_TOKEN_TTL", "90s")
	t.Setenv("DEVAPI_CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "keyring", cfg.Session.Backend)
	assert.Equal(t, "debug", cfg.Logging.LevelOr("warn"))
	assert.Equal(t, 90*time.Second, cfg.DevAPI.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.DevAPI.AllowOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Run("backend", func(t *testing.T) {
		t.Setenv("STORERATE_SESSION_BACKEND", "cookie")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STORERATE_SESSION_BACKEND")
	})

	t.Run("ttl", func(t *testing.T) {
		t.Setenv("STORERATE_SESSION_BACKEND", "")
		t.Setenv("DEVAPI_TOKEN_TTL", "forever")
		_, err := Load()
		require.Error(t, err)
	})
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
