package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("phonebook_api_test")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "https://api.hostaway.com", cfg.ReferenceAPIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.ReferenceAPITimeout)
	assert.Equal(t, time.Duration(0), cfg.ReferenceCacheTTL)
	assert.Equal(t, 2, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.RedisURL)
	assert.Empty(t, cfg.NATSURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_HTTP_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("APP_REFERENCE_API_TIMEOUT", "2s")
	t.Setenv("APP_REQUEST_TIMEOUT", "5s")
	t.Setenv("APP_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("phonebook_api_test")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 2*time.Second, cfg.ReferenceAPITimeout)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RejectsInvalidPaging(t *testing.T) {
	t.Setenv("APP_DEFAULT_PAGE_SIZE", "50")
	t.Setenv("APP_MAX_PAGE_SIZE", "10")

	_, err := Load("phonebook_api_test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_PAGE_SIZE")
}

func TestLoad_RejectsNonPositiveRequestTimeout(t *testing.T) {
	t.Setenv("APP_REQUEST_TIMEOUT", "0s")

	_, err := Load("phonebook_api_test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}
