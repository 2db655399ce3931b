package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "pk-test")
	t.Setenv("SUPABASE_JWT_SECRET", "jwt-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:3000", cfg.Address())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 200*time.Millisecond, cfg.Query.SlowThreshold)
	assert.Equal(t, 1024, cfg.HTTP.GzipMinSize)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.False(t, cfg.Migrations.Enabled)
}

func TestLoad_MissingRequiredKeys(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "")
	t.Setenv("SUPABASE_JWT_SECRET", "s")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("SUPABASE_PUBLISHABLE_KEY", "pk")
	t.Setenv("SUPABASE_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("SLOW_QUERY_THRESHOLD_MS", "50")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 50*time.Millisecond, cfg.Query.SlowThreshold)
	assert.Equal(t, 30*time.Second, cfg.Context.RequestTimeout)
}

func TestGetSeconds_UnitMatchesKeyName(t *testing.T) {
	t.Setenv("SOME_TIMEOUT_SECONDS", "30")
	assert.Equal(t, 30*time.Second, getSeconds("SOME_TIMEOUT_SECONDS", time.Second))

	t.Setenv("SOME_TIMEOUT_SECONDS", "30s")
	assert.Equal(t, time.Second, getSeconds("SOME_TIMEOUT_SECONDS", time.Second))

	t.Setenv("SOME_TIMEOUT_SECONDS", "-5")
	assert.Equal(t, time.Second, getSeconds("SOME_TIMEOUT_SECONDS", time.Second))
}

func TestGetDuration_AcceptsBareSeconds(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "45")
	assert.Equal(t, 45*time.Second, getDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "1m30s")
	assert.Equal(t, 90*time.Second, getDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "garbage")
	assert.Equal(t, time.Second, getDuration("SOME_TIMEOUT", time.Second))
}
