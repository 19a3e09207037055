package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CLIENT_URLS", "")
	t.Setenv("CLIENT_URL", "")
	t.Setenv("PORT", "")
	t.Setenv("APP_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.App.Addr())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "site-media", cfg.Media.Folder)
	assert.Equal(t, 10*1024*1024, cfg.Media.MaxUploadBytes)
	assert.Equal(t, defaultOrigins, cfg.App.AllowedOrigins)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMergesClientOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CLIENT_URLS", "https://shop.example.com, http://localhost:5173 ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.App.AllowedOrigins[0])
	assert.Len(t, cfg.App.AllowedOrigins, len(defaultOrigins)+1)
}

func TestLoadInvalidRedisDB(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, time.Minute, RedisConfig{}.DirectoryTTL())
	assert.Equal(t, 60*time.Second, MediaConfig{}.UploadTimeout())
	assert.Equal(t, 2*time.Hour, AuthConfig{AccessTokenTTLHours: 2}.TokenTTL())
}
