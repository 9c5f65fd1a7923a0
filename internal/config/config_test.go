package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("REDIS_URI", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("CACHE_TTL", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "3000", cfg.Port)
	assert.Empty(t, cfg.RedisURI)
	assert.Equal(t, []string{"http://localhost:8081"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", " Production ")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://www.example.com")
	t.Setenv("SEED_SAMPLE_DATA", "true")
	t.Setenv("CACHE_TTL", "90")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://app.example.com", "https://www.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.SeedSampleData)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("MINDTRACK_SERVER_URL", "http://10.0.2.2:3000,http://localhost:3000")
	t.Setenv("MINDTRACK_TIMEOUT", "2s")
	t.Setenv("MINDTRACK_DEFAULT_USER_ID", "abc")

	cfg := LoadClient()
	assert.Equal(t, []string{"http://10.0.2.2:3000", "http://localhost:3000"}, cfg.ServerURLs)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.DefaultUserID)
}
